// Package bundled provides the built-in transport and chat backends for
// the live session client.
package bundled

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chartsim/go-voicelink/pkg/live"
)

const (
	// Gemini Live API WebSocket endpoint
	geminiLiveURL = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	handshakeTimeout = 10 * time.Second
)

// GeminiDialer opens live sessions against the Gemini Live API over
// WebSocket.
type GeminiDialer struct {
	apiKey string
	url    string
}

// NewGeminiDialer creates a dialer for the Gemini Live API.
func NewGeminiDialer(apiKey string) (*GeminiDialer, error) {
	if apiKey == "" {
		return nil, live.ErrMissingAPIKey
	}
	return &GeminiDialer{apiKey: apiKey, url: geminiLiveURL}, nil
}

// Dial connects, sends the setup message derived from cfg and starts the
// read loop. The returned transport suppresses all callbacks after an
// explicit Close, so a caller-initiated teardown never looks like a
// remote close.
func (d *GeminiDialer) Dial(ctx context.Context, model string, cfg *live.Config, cb live.TransportCallbacks) (live.Transport, error) {
	url := fmt.Sprintf("%s?key=%s", d.url, d.apiKey)

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("bundled/gemini: failed to connect: %w", err)
	}

	t := &geminiTransport{ws: ws, cb: cb}

	if err := t.Send(buildSetup(model, cfg)); err != nil {
		ws.Close()
		return nil, fmt.Errorf("bundled/gemini: failed to configure session: %w", err)
	}

	go t.readLoop()

	if cb.OnOpen != nil {
		cb.OnOpen()
	}
	return t, nil
}

// geminiTransport is one open WebSocket session. Writes are serialized by
// wsMu; only the read loop reads.
type geminiTransport struct {
	ws   *websocket.Conn
	cb   live.TransportCallbacks
	wsMu sync.Mutex

	mu     sync.Mutex
	closed bool
}

// Send marshals one message onto the wire.
func (t *geminiTransport) Send(v any) error {
	t.wsMu.Lock()
	defer t.wsMu.Unlock()
	return t.ws.WriteJSON(v)
}

// Close tears down the session locally. No callbacks fire afterwards.
func (t *geminiTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.ws.Close()
}

func (t *geminiTransport) readLoop() {
	for {
		_, data, err := t.ws.ReadMessage()
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			t.closed = true
			t.mu.Unlock()
			if closed {
				return
			}

			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				if t.cb.OnClose != nil {
					t.cb.OnClose(ce.Text)
				}
				return
			}
			// Connection died without a close frame: report the error,
			// then report the session as closed.
			if t.cb.OnError != nil {
				t.cb.OnError(err)
			}
			if t.cb.OnClose != nil {
				t.cb.OnClose(err.Error())
			}
			return
		}

		if t.cb.OnMessage != nil {
			t.cb.OnMessage(data)
		}
	}
}

// Setup message wire types. Kept as closed structs so the negotiated
// options stay visible at compile time.
type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model                    string             `json:"model"`
	GenerationConfig         *generationConfig  `json:"generationConfig,omitempty"`
	SystemInstruction        *live.Content      `json:"systemInstruction,omitempty"`
	Tools                    []toolDeclarations `json:"tools,omitempty"`
	InputAudioTranscription  *struct{}          `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}          `json:"outputAudioTranscription,omitempty"`
	Proactivity              *proactivityConfig `json:"proactivity,omitempty"`
	EnableAffectiveDialog    bool               `json:"enableAffectiveDialog,omitempty"`
}

type generationConfig struct {
	ResponseModalities []live.Modality `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig   `json:"speechConfig,omitempty"`
	ThinkingConfig     *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig  *voiceConfig `json:"voiceConfig,omitempty"`
	LanguageCode string       `json:"languageCode,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type thinkingConfig struct {
	ThinkingBudget int32 `json:"thinkingBudget"`
}

type toolDeclarations struct {
	FunctionDeclarations []live.FunctionDeclaration `json:"functionDeclarations"`
}

type proactivityConfig struct {
	ProactiveAudio bool `json:"proactiveAudio"`
}

// buildSetup translates the session config into the initial setup message.
func buildSetup(model string, cfg *live.Config) setupMessage {
	gen := &generationConfig{
		ResponseModalities: cfg.ResponseModalities,
	}
	if cfg.Voice != "" || cfg.LanguageCode != "" {
		sc := &speechConfig{LanguageCode: cfg.LanguageCode}
		if cfg.Voice != "" {
			sc.VoiceConfig = &voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: cfg.Voice},
			}
		}
		gen.SpeechConfig = sc
	}
	if cfg.ThinkingBudget != nil {
		gen.ThinkingConfig = &thinkingConfig{ThinkingBudget: *cfg.ThinkingBudget}
	}

	payload := setupPayload{
		Model:                 model,
		GenerationConfig:      gen,
		EnableAffectiveDialog: cfg.AffectiveDialog,
	}
	if cfg.SystemPrompt != "" {
		payload.SystemInstruction = &live.Content{
			Parts: []live.Part{{Text: cfg.SystemPrompt}},
		}
	}
	if len(cfg.Tools) > 0 {
		payload.Tools = []toolDeclarations{{FunctionDeclarations: cfg.Tools}}
	}
	if cfg.InputTranscription {
		payload.InputAudioTranscription = &struct{}{}
	}
	if cfg.OutputTranscription {
		payload.OutputAudioTranscription = &struct{}{}
	}
	if cfg.ProactiveAudio {
		payload.Proactivity = &proactivityConfig{ProactiveAudio: true}
	}

	return setupMessage{Setup: payload}
}

// Ensure GeminiDialer implements live.Dialer at compile time.
var _ live.Dialer = (*GeminiDialer)(nil)

// Register the Gemini transport provider.
func init() {
	live.RegisterDialer("gemini", func(apiKey string) (live.Dialer, error) {
		return NewGeminiDialer(apiKey)
	})
}
