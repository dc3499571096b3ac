package live

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Blob carries inline binary content. Data is raw bytes in memory and
// base64 on the wire (encoding/json handles the conversion).
type Blob struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// Part is one unit of content within a turn: text or inline binary.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// IsAudio reports whether the part carries inline PCM audio.
func (p *Part) IsAudio() bool {
	return p.InlineData != nil && strings.HasPrefix(p.InlineData.MIMEType, "audio/pcm")
}

// Content is one complete turn attributed to a role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Transcription carries speech-to-text output for one direction of the
// conversation.
type Transcription struct {
	Text     string `json:"text,omitempty"`
	Finished bool   `json:"finished,omitempty"`
}

// SetupComplete acknowledges the setup message. It carries no fields.
type SetupComplete struct{}

// FunctionCall is a single tool invocation requested by the model. The
// client routes it opaquely; the id correlates the eventual response.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolCall groups the function calls of one tool-call message.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls,omitempty"`
}

// ToolCallCancellation withdraws previously issued tool calls by id.
type ToolCallCancellation struct {
	IDs []string `json:"ids,omitempty"`
}

// ServerContent is the content payload of a server message. Interrupted
// preempts every other field in the same envelope; TurnComplete may ride
// along with trailing model content.
type ServerContent struct {
	Interrupted         bool           `json:"interrupted,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	ModelTurn           *Content       `json:"modelTurn,omitempty"`
	InputTranscription  *Transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *Transcription `json:"outputTranscription,omitempty"`
}

// MessageKind classifies an inbound server message.
type MessageKind int

const (
	// KindUnknown marks a message that matches no known shape. Unknown
	// messages are logged and dropped, never treated as errors.
	KindUnknown MessageKind = iota
	KindSetupComplete
	KindToolCall
	KindToolCallCancellation
	KindServerContent
)

// String returns the kind name for logging.
func (k MessageKind) String() string {
	switch k {
	case KindSetupComplete:
		return "setupComplete"
	case KindToolCall:
		return "toolCall"
	case KindToolCallCancellation:
		return "toolCallCancellation"
	case KindServerContent:
		return "serverContent"
	default:
		return "unknown"
	}
}

// ServerMessage is the tagged union over every inbound message shape.
// Exactly one field is expected to be set; Kind resolves overlap by a
// fixed priority so dispatch stays deterministic.
type ServerMessage struct {
	SetupComplete        *SetupComplete        `json:"setupComplete,omitempty"`
	ToolCall             *ToolCall             `json:"toolCall,omitempty"`
	ToolCallCancellation *ToolCallCancellation `json:"toolCallCancellation,omitempty"`
	ServerContent        *ServerContent        `json:"serverContent,omitempty"`
}

// Kind classifies the message. Priority order: setup-complete, tool-call,
// tool-call-cancellation, server-content.
func (m *ServerMessage) Kind() MessageKind {
	switch {
	case m.SetupComplete != nil:
		return KindSetupComplete
	case m.ToolCall != nil:
		return KindToolCall
	case m.ToolCallCancellation != nil:
		return KindToolCallCancellation
	case m.ServerContent != nil:
		return KindServerContent
	default:
		return KindUnknown
	}
}

// ParseServerMessage decodes one inbound wire message.
func ParseServerMessage(data []byte) (*ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("live: failed to parse server message: %w", err)
	}
	return &msg, nil
}

// splitAudioParts partitions parts into inline-PCM audio parts and the
// rest in a single order-preserving pass, so a part is never counted twice.
func splitAudioParts(parts []Part) (audio, rest []Part) {
	for _, p := range parts {
		if p.IsAudio() {
			audio = append(audio, p)
		} else {
			rest = append(rest, p)
		}
	}
	return audio, rest
}

// RealtimeChunk is one outbound media chunk. Data is raw bytes in memory
// and base64 on the wire.
type RealtimeChunk struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// FunctionResponse answers a single function call by id.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Response map[string]any `json:"response,omitempty"`
}

// ToolResponse groups function responses for one tool-response message.
type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

type realtimeInput struct {
	MediaChunks []RealtimeChunk `json:"mediaChunks"`
}

type clientContent struct {
	Turns        []Content `json:"turns"`
	TurnComplete bool      `json:"turnComplete"`
}

// clientMessage is the outbound wire envelope.
type clientMessage struct {
	RealtimeInput *realtimeInput `json:"realtimeInput,omitempty"`
	ToolResponse  *ToolResponse  `json:"toolResponse,omitempty"`
	ClientContent *clientContent `json:"clientContent,omitempty"`
}

// classifyChunks labels a realtime send by the MIME families it carries.
// The label feeds the diagnostic log only; delivery is unaffected.
func classifyChunks(chunks []RealtimeChunk) string {
	var hasAudio, hasVideo bool
	for _, ch := range chunks {
		switch {
		case strings.HasPrefix(ch.MIMEType, "audio"):
			hasAudio = true
		case strings.HasPrefix(ch.MIMEType, "image"), strings.HasPrefix(ch.MIMEType, "video"):
			hasVideo = true
		}
	}
	switch {
	case hasAudio && hasVideo:
		return "audio + video"
	case hasAudio:
		return "audio"
	case hasVideo:
		return "video"
	default:
		return "unknown"
	}
}
