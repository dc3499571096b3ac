package bundled

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/chartsim/go-voicelink/pkg/live"
)

// GenAICompleter backs the turn-based text mode with the GenAI SDK. It is
// stateless between calls: the full history is supplied on every
// completion, so the chat session stays the single source of truth.
type GenAICompleter struct {
	client *genai.Client
}

// NewGenAICompleter creates a completer bound to the Gemini API.
func NewGenAICompleter(ctx context.Context, apiKey string) (*GenAICompleter, error) {
	if apiKey == "" {
		return nil, live.ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("bundled/genai: failed to create client: %w", err)
	}
	return &GenAICompleter{client: client}, nil
}

// Complete generates one model turn for the accumulated history.
func (g *GenAICompleter) Complete(ctx context.Context, model string, cfg *live.Config, history []live.Content) (*live.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for i := range history {
		contents = append(contents, toGenAIContent(&history[i]))
	}

	gc := &genai.GenerateContentConfig{}
	if cfg != nil {
		if cfg.SystemPrompt != "" {
			gc.SystemInstruction = genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser)
		}
		if cfg.ThinkingBudget != nil {
			gc.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: cfg.ThinkingBudget}
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, gc)
	if err != nil {
		return nil, fmt.Errorf("bundled/genai: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &live.Content{Role: "model"}, nil
	}
	return fromGenAIContent(resp.Candidates[0].Content), nil
}

func toGenAIContent(c *live.Content) *genai.Content {
	out := &genai.Content{Role: c.Role}
	for _, p := range c.Parts {
		gp := &genai.Part{Text: p.Text}
		if p.InlineData != nil {
			gp.InlineData = &genai.Blob{
				MIMEType: p.InlineData.MIMEType,
				Data:     p.InlineData.Data,
			}
		}
		out.Parts = append(out.Parts, gp)
	}
	return out
}

func fromGenAIContent(c *genai.Content) *live.Content {
	out := &live.Content{Role: c.Role}
	if out.Role == "" {
		out.Role = "model"
	}
	for _, gp := range c.Parts {
		if gp == nil {
			continue
		}
		p := live.Part{Text: gp.Text}
		if gp.InlineData != nil {
			p.InlineData = &live.Blob{
				MIMEType: gp.InlineData.MIMEType,
				Data:     gp.InlineData.Data,
			}
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}

// Ensure GenAICompleter implements live.Completer at compile time.
var _ live.Completer = (*GenAICompleter)(nil)
