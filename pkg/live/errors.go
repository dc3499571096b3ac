package live

import "errors"

// Common errors returned by the live session client.
var (
	ErrNoConfig      = errors.New("live: config is required")
	ErrNotConnected  = errors.New("live: client not connected")
	ErrNoCompleter   = errors.New("live: no chat completer configured")
	ErrMissingAPIKey = errors.New("live: missing API key")
)
