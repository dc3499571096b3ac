package live

import "time"

// EventKind enumerates every event the client can emit. The set is closed:
// dispatch switches over it exhaustively instead of probing for fields.
type EventKind int

const (
	// EventOpen fires once per successful Connect.
	EventOpen EventKind = iota

	// EventClose fires only on transport-initiated closes, never on a
	// caller's Disconnect. Consumers use the distinction to tell "I closed
	// it" from "it closed on me".
	EventClose

	// EventError surfaces a transport runtime error. It does not change
	// the session status by itself.
	EventError

	// EventAudio carries one decoded PCM buffer. Parts are emitted
	// individually, never concatenated: chunk boundaries carry timing the
	// playback pipeline needs.
	EventAudio

	// EventContent carries the non-audio parts of a model turn.
	EventContent

	// EventInterrupted signals a barge-in. Queued playback must be
	// discarded immediately.
	EventInterrupted

	// EventTurnComplete marks the end of a model turn.
	EventTurnComplete

	// EventSetupComplete acknowledges session setup.
	EventSetupComplete

	// EventToolCall requests one or more function invocations.
	EventToolCall

	// EventToolCallCancellation withdraws pending tool calls.
	EventToolCallCancellation

	// EventInputTranscription carries a transcript of the user's speech.
	EventInputTranscription

	// EventOutputTranscription carries a transcript of the model's speech.
	EventOutputTranscription

	// EventLog mirrors one appended log entry.
	EventLog
)

// String returns the event name as exposed to the coordinating layer.
func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	case EventAudio:
		return "audio"
	case EventContent:
		return "content"
	case EventInterrupted:
		return "interrupted"
	case EventTurnComplete:
		return "turncomplete"
	case EventSetupComplete:
		return "setupcomplete"
	case EventToolCall:
		return "toolcall"
	case EventToolCallCancellation:
		return "toolcallcancellation"
	case EventInputTranscription:
		return "inputtranscription"
	case EventOutputTranscription:
		return "outputtranscription"
	case EventLog:
		return "log"
	default:
		return "invalid"
	}
}

// Event is one emission from the client. Only the fields relevant to Kind
// are populated.
type Event struct {
	Kind EventKind

	// Audio is set for EventAudio.
	Audio []byte

	// Parts is set for EventContent.
	Parts []Part

	// ToolCall is set for EventToolCall.
	ToolCall *ToolCall

	// Cancellation is set for EventToolCallCancellation.
	Cancellation *ToolCallCancellation

	// Transcript is set for the transcription events.
	Transcript *Transcription

	// CloseReason is set for EventClose when the transport supplied one.
	CloseReason string

	// Err is set for EventError.
	Err error

	// Log is set for EventLog.
	Log *LogEntry
}

// LogEntry is one append-only observability record. Entries are never
// mutated after creation and timestamps are monotonically non-decreasing.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
}

// Callbacks groups typed handlers for every event kind. Use Apply to
// register them all at once; unset fields are simply skipped.
type Callbacks struct {
	OnOpen                 func()
	OnClose                func(reason string)
	OnError                func(err error)
	OnAudio                func(pcm []byte)
	OnContent              func(parts []Part)
	OnInterrupted          func()
	OnTurnComplete         func()
	OnSetupComplete        func()
	OnToolCall             func(call *ToolCall)
	OnToolCallCancellation func(c *ToolCallCancellation)
	OnInputTranscription   func(t *Transcription)
	OnOutputTranscription  func(t *Transcription)
	OnLog                  func(entry LogEntry)
}

// Apply registers a single dispatching subscriber on the client.
func (c *Callbacks) Apply(client *Client) {
	client.OnEvent(func(ev Event) {
		switch ev.Kind {
		case EventOpen:
			if c.OnOpen != nil {
				c.OnOpen()
			}
		case EventClose:
			if c.OnClose != nil {
				c.OnClose(ev.CloseReason)
			}
		case EventError:
			if c.OnError != nil {
				c.OnError(ev.Err)
			}
		case EventAudio:
			if c.OnAudio != nil {
				c.OnAudio(ev.Audio)
			}
		case EventContent:
			if c.OnContent != nil {
				c.OnContent(ev.Parts)
			}
		case EventInterrupted:
			if c.OnInterrupted != nil {
				c.OnInterrupted()
			}
		case EventTurnComplete:
			if c.OnTurnComplete != nil {
				c.OnTurnComplete()
			}
		case EventSetupComplete:
			if c.OnSetupComplete != nil {
				c.OnSetupComplete()
			}
		case EventToolCall:
			if c.OnToolCall != nil {
				c.OnToolCall(ev.ToolCall)
			}
		case EventToolCallCancellation:
			if c.OnToolCallCancellation != nil {
				c.OnToolCallCancellation(ev.Cancellation)
			}
		case EventInputTranscription:
			if c.OnInputTranscription != nil {
				c.OnInputTranscription(ev.Transcript)
			}
		case EventOutputTranscription:
			if c.OnOutputTranscription != nil {
				c.OnOutputTranscription(ev.Transcript)
			}
		case EventLog:
			if c.OnLog != nil && ev.Log != nil {
				c.OnLog(*ev.Log)
			}
		}
	})
}
