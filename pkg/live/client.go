// Package live implements the live conversational session client: a duplex
// session to a multimodal model endpoint that streams audio both ways,
// handles mid-utterance interruption and tool-call round trips, and offers a
// turn-based text sibling mode sharing the same configuration.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Status is the connection state of a client.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// maxLogEntries bounds the in-memory log buffer.
const maxLogEntries = 500

// Client is the live session state machine. It owns the transport
// lifecycle, classifies and dispatches every inbound message, exposes an
// ordered event stream, and forwards realtime chunks outbound.
//
// All events are emitted from a single ordered path: there is no
// concurrent re-entrancy into dispatch.
type Client struct {
	dialer    Dialer
	completer Completer
	logger    *slog.Logger

	mu        sync.Mutex
	status    Status
	transport Transport
	gen       uint64 // bumped per connect attempt and per transport close
	model     string
	config    *Config
	chat      *TurnChatSession

	handlersMu sync.RWMutex
	handlers   []func(Event)

	logMu sync.Mutex
	logs  []LogEntry
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCompleter sets the backend used by the turn-based text mode.
func WithCompleter(cp Completer) Option {
	return func(c *Client) { c.completer = cp }
}

// NewClient creates a disconnected client bound to a transport dialer.
func NewClient(dialer Dialer, opts ...Option) *Client {
	c := &Client{
		dialer: dialer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEvent registers a subscriber. Subscribers are invoked synchronously in
// registration order on the dispatch path; register before Connect.
func (c *Client) OnEvent(fn func(Event)) {
	c.handlersMu.Lock()
	c.handlers = append(c.handlers, fn)
	c.handlersMu.Unlock()
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Model returns the model recorded by the last Connect.
func (c *Client) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Config returns a copy of the active config, nil before the first Connect.
func (c *Client) Config() *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Clone()
}

// Logs returns a snapshot of the append-only log buffer.
func (c *Client) Logs() []LogEntry {
	c.logMu.Lock()
	defer c.logMu.Unlock()
	return append([]LogEntry(nil), c.logs...)
}

// Connect opens a session to the named model. At most one connection
// attempt may be in flight per client: while connecting or connected the
// call is a no-op returning false. A previously held (stale) transport is
// unconditionally closed first, so Connect doubles as reconnect. Transport
// open failures are logged and reported as false, never as an error; the
// only error is a missing config. If the transport reports a close while
// the attempt is still in flight, the close wins: Connect returns false
// and the client stays disconnected.
func (c *Client) Connect(ctx context.Context, model string, cfg *Config) (bool, error) {
	if cfg == nil {
		return false, ErrNoConfig
	}

	c.mu.Lock()
	if c.status != StatusDisconnected {
		c.mu.Unlock()
		return false, nil
	}
	if c.transport != nil {
		c.transport.Close()
		c.transport = nil
	}
	c.gen++
	gen := c.gen
	c.status = StatusConnecting
	c.model = model
	c.config = cfg.Clone()
	c.mu.Unlock()

	t, err := c.dialer.Dial(ctx, model, cfg, TransportCallbacks{
		OnOpen:    func() { c.log("transport.open", "session open") },
		OnMessage: c.handleMessage,
		OnError:   c.handleTransportError,
		OnClose:   c.handleTransportClose,
	})
	if err != nil {
		c.log("error", fmt.Sprintf("connect to %s failed: %v", model, err))
		c.logger.Error("connect failed", "model", model, "err", err)
		c.mu.Lock()
		if c.gen == gen {
			c.status = StatusDisconnected
		}
		c.mu.Unlock()
		return false, nil
	}

	c.mu.Lock()
	if c.gen != gen {
		// The transport closed (or the session was otherwise torn down)
		// before the attempt settled. The close already won; do not
		// resurrect a dead session.
		c.mu.Unlock()
		t.Close()
		c.log("client.close", "connect to "+model+" aborted: session closed during attempt")
		return false, nil
	}
	c.transport = t
	c.status = StatusConnected
	c.mu.Unlock()

	c.log("client.open", "connected to "+model)
	c.emit(Event{Kind: EventOpen})
	return true, nil
}

// Disconnect closes the held transport. It returns false when no transport
// is held. A caller-initiated disconnect never emits a close event; that
// event is reserved for transport-initiated closes.
func (c *Client) Disconnect() bool {
	c.mu.Lock()
	t := c.transport
	if t == nil {
		c.mu.Unlock()
		return false
	}
	c.transport = nil
	c.status = StatusDisconnected
	c.mu.Unlock()

	t.Close()
	c.log("client.close", "disconnected")
	return true
}

// SendRealtimeInput forwards chunks to the transport individually and in
// order; chunks are never batched into one wire message. Exactly one
// diagnostic log entry is produced per call, classifying the MIME families
// that appeared; the classification never affects delivery.
func (c *Client) SendRealtimeInput(chunks []RealtimeChunk) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t == nil {
		return ErrNotConnected
	}

	for i := range chunks {
		msg := clientMessage{RealtimeInput: &realtimeInput{
			MediaChunks: []RealtimeChunk{chunks[i]},
		}}
		if err := t.Send(msg); err != nil {
			return fmt.Errorf("live: realtime send: %w", err)
		}
	}

	c.log("client.realtimeInput", classifyChunks(chunks))
	return nil
}

// SendToolResponse routes a tool response to the transport. An empty
// response is silently dropped: forwarding it would only add tool-protocol
// noise.
func (c *Client) SendToolResponse(resp *ToolResponse) error {
	if resp == nil || len(resp.FunctionResponses) == 0 {
		return nil
	}

	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t == nil {
		return ErrNotConnected
	}

	if err := t.Send(clientMessage{ToolResponse: resp}); err != nil {
		return fmt.Errorf("live: tool response send: %w", err)
	}
	c.log("client.toolResponse", fmt.Sprintf("%d function response(s)", len(resp.FunctionResponses)))
	return nil
}

// SendClientContent submits one turn of structured content, typically to
// seed or steer the conversation outside the realtime audio path.
func (c *Client) SendClientContent(parts []Part, turnComplete bool) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t == nil {
		return ErrNotConnected
	}

	msg := clientMessage{ClientContent: &clientContent{
		Turns:        []Content{{Role: "user", Parts: parts}},
		TurnComplete: turnComplete,
	}}
	if err := t.Send(msg); err != nil {
		return fmt.Errorf("live: client content send: %w", err)
	}
	c.log("client.content", fmt.Sprintf("%d part(s), turnComplete=%v", len(parts), turnComplete))
	return nil
}

// SendMessage runs one turn of the text-only sibling mode. The first call
// lazily creates a TurnChatSession bound to the live config with audio
// fields stripped and modality forced to TEXT; later calls reuse it so
// history accumulates. The live audio path and this path must not be
// driven concurrently against the same model; the caller picks one mode.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	if c.config == nil {
		c.mu.Unlock()
		return "", ErrNoConfig
	}
	if c.chat == nil {
		if c.completer == nil {
			c.mu.Unlock()
			return "", ErrNoCompleter
		}
		c.chat = NewTurnChatSession(c.model, c.config.StripAudio(), c.completer)
		c.log("client.chat", "turn chat session created")
	}
	chat := c.chat
	c.mu.Unlock()

	return chat.SendMessage(ctx, text)
}

// Chat returns the lazily created turn chat session, nil before the first
// SendMessage.
func (c *Client) Chat() *TurnChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat
}

// handleMessage classifies one inbound message and dispatches it. Dispatch
// never panics or returns an error past the message boundary: one
// malformed message must not take down the session.
func (c *Client) handleMessage(data []byte) {
	msg, err := ParseServerMessage(data)
	if err != nil {
		c.log("error", "malformed server message: "+err.Error())
		return
	}

	switch msg.Kind() {
	case KindSetupComplete:
		c.log("server.setupComplete", "setup complete")
		c.emit(Event{Kind: EventSetupComplete})
	case KindToolCall:
		c.log("server.toolCall", fmt.Sprintf("%d function call(s)", len(msg.ToolCall.FunctionCalls)))
		c.emit(Event{Kind: EventToolCall, ToolCall: msg.ToolCall})
	case KindToolCallCancellation:
		c.log("server.toolCallCancellation", fmt.Sprintf("%d id(s)", len(msg.ToolCallCancellation.IDs)))
		c.emit(Event{Kind: EventToolCallCancellation, Cancellation: msg.ToolCallCancellation})
	case KindServerContent:
		c.handleServerContent(msg.ServerContent)
	default:
		// Forward compatibility: unknown shapes are logged and dropped.
		c.log("server.unmatched", "received unmatched message")
	}
}

// handleServerContent runs the content sub-dispatch. An interruption
// preempts everything else in the same envelope. Turn completion does not
// stop processing: a message may carry both turn completion and trailing
// model content.
func (c *Client) handleServerContent(sc *ServerContent) {
	if sc.Interrupted {
		c.log("server.interrupted", "interrupted")
		c.emit(Event{Kind: EventInterrupted})
		return
	}

	if sc.TurnComplete {
		c.log("server.turnComplete", "turn complete")
		c.emit(Event{Kind: EventTurnComplete})
	}

	if sc.InputTranscription != nil {
		c.emit(Event{Kind: EventInputTranscription, Transcript: sc.InputTranscription})
	}
	if sc.OutputTranscription != nil {
		c.emit(Event{Kind: EventOutputTranscription, Transcript: sc.OutputTranscription})
	}

	if sc.ModelTurn == nil {
		return
	}

	audio, rest := splitAudioParts(sc.ModelTurn.Parts)
	for _, p := range audio {
		// One event per part: boundaries carry timing the playback
		// pipeline needs for low-latency rendering.
		c.emit(Event{Kind: EventAudio, Audio: p.InlineData.Data})
		c.log("server.audio", fmt.Sprintf("buffer (%d bytes)", len(p.InlineData.Data)))
	}
	if len(rest) == 0 {
		// Audio-only turn: no content event.
		return
	}
	c.log("server.content", fmt.Sprintf("%d part(s)", len(rest)))
	c.emit(Event{Kind: EventContent, Parts: rest})
}

func (c *Client) handleTransportError(err error) {
	c.log("error", err.Error())
	c.logger.Warn("transport error", "err", err)
	c.emit(Event{Kind: EventError, Err: err})
}

// handleTransportClose settles state after a transport-initiated close.
// Consumers must treat the close event like an interruption for playback:
// anything still queued belongs to a session that no longer exists.
func (c *Client) handleTransportClose(reason string) {
	c.mu.Lock()
	c.gen++
	c.transport = nil
	c.status = StatusDisconnected
	c.mu.Unlock()

	c.log("server.close", "session closed: "+reason)
	c.emit(Event{Kind: EventClose, CloseReason: reason})
}

// emit delivers one event to every subscriber in registration order.
func (c *Client) emit(ev Event) {
	c.handlersMu.RLock()
	handlers := c.handlers
	c.handlersMu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

// log appends one entry to the observability buffer and mirrors it as a
// log event.
func (c *Client) log(typ, message string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Type:      typ,
		Message:   message,
	}

	c.logMu.Lock()
	c.logs = append(c.logs, entry)
	if len(c.logs) > maxLogEntries {
		c.logs = c.logs[len(c.logs)-maxLogEntries:]
	}
	c.logMu.Unlock()

	c.logger.Debug("live", "type", typ, "msg", message)
	c.emit(Event{Kind: EventLog, Log: &entry})
}
