package live

import (
	"context"
	"fmt"
	"sync"
)

// Transport is a single open bidirectional session. The client owns it
// exclusively between Connect and Disconnect (or a transport-initiated
// close); no other component may hold a reference.
type Transport interface {
	// Send marshals and writes one message. It must be safe for use from
	// the client's event loop and must not block on inbound traffic.
	Send(v any) error

	// Close tears down the session. After Close, no callbacks fire.
	Close() error
}

// TransportCallbacks is the callback set the client registers when it
// opens a transport.
type TransportCallbacks struct {
	// OnOpen fires when the session becomes usable.
	OnOpen func()

	// OnMessage delivers one inbound wire message. Messages must be
	// delivered in arrival order from a single goroutine.
	OnMessage func(data []byte)

	// OnError reports a runtime error. It does not imply the session is
	// closed; a genuine close is always reported through OnClose.
	OnError func(err error)

	// OnClose fires when the remote side (or a dead connection) ends the
	// session. It must not fire after an explicit local Close.
	OnClose func(reason string)
}

// Dialer opens a session to a named model with a config.
type Dialer interface {
	Dial(ctx context.Context, model string, cfg *Config, cb TransportCallbacks) (Transport, error)
}

// DialerFactory builds a Dialer from an API key.
type DialerFactory func(apiKey string) (Dialer, error)

var (
	dialersMu sync.RWMutex
	dialers   = make(map[string]DialerFactory)
)

// RegisterDialer registers a transport provider under a name.
// Bundled providers call this from init().
func RegisterDialer(name string, f DialerFactory) {
	dialersMu.Lock()
	defer dialersMu.Unlock()
	dialers[name] = f
}

// NewDialer creates a Dialer by provider name.
func NewDialer(name, apiKey string) (Dialer, error) {
	dialersMu.RLock()
	f, ok := dialers[name]
	dialersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("live: unknown transport provider %q", name)
	}
	return f(apiKey)
}
