package live

import (
	"context"
	"strings"
)

// Completer produces one complete model turn for an accumulated history.
// Implementations back the turn-based text mode; the bundled one uses the
// GenAI SDK.
type Completer interface {
	Complete(ctx context.Context, model string, cfg *Config, history []Content) (*Content, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, model string, cfg *Config, history []Content) (*Content, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, model string, cfg *Config, history []Content) (*Content, error) {
	return f(ctx, model, cfg, history)
}

// TurnChatSession is the text-only sibling of the live session. It holds
// an ordered history and a config snapshot taken at creation time.
//
// Caller contract: SendMessage is strictly sequential. The history is
// mutated in place, so a second call must not begin until the prior call
// returns; concurrent calls would interleave turns non-deterministically.
type TurnChatSession struct {
	model     string
	config    *Config
	completer Completer
	history   []Content
}

// NewTurnChatSession creates an empty session bound to a fixed config
// snapshot.
func NewTurnChatSession(model string, cfg *Config, completer Completer) *TurnChatSession {
	return &TurnChatSession{
		model:     model,
		config:    cfg.Clone(),
		completer: completer,
	}
}

// SendMessage appends the user's text, awaits one complete response,
// appends it to the history and returns its text. A response with no text
// parts yields an empty string. On error the user turn is rolled back so a
// retry does not duplicate it.
func (s *TurnChatSession) SendMessage(ctx context.Context, text string) (string, error) {
	n := len(s.history)
	s.history = append(s.history, Content{Role: "user", Parts: []Part{{Text: text}}})

	reply, err := s.completer.Complete(ctx, s.model, s.config, s.history)
	if err != nil {
		s.history = s.history[:n]
		return "", err
	}

	turn := Content{Role: "model"}
	if reply != nil {
		turn = *reply
		if turn.Role == "" {
			turn.Role = "model"
		}
	}
	s.history = append(s.history, turn)

	var b strings.Builder
	for _, p := range turn.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// History returns a snapshot of the accumulated turns.
func (s *TurnChatSession) History() []Content {
	return append([]Content(nil), s.history...)
}

// Config returns the config snapshot the session was created with.
func (s *TurnChatSession) Config() *Config {
	return s.config.Clone()
}
