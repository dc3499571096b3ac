package bundled

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chartsim/go-voicelink/pkg/live"
)

func TestNewGeminiDialerRequiresKey(t *testing.T) {
	if _, err := NewGeminiDialer(""); err != live.ErrMissingAPIKey {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
	if _, err := NewGeminiDialer("key"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDialerRegistration(t *testing.T) {
	d, err := live.NewDialer("gemini", "key")
	if err != nil {
		t.Fatalf("NewDialer: %v", err)
	}
	if _, ok := d.(*GeminiDialer); !ok {
		t.Errorf("provider returned %T, want *GeminiDialer", d)
	}

	if _, err := live.NewDialer("nope", "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildSetupMinimal(t *testing.T) {
	msg := buildSetup("models/test", &live.Config{
		ResponseModalities: []live.Modality{live.ModalityAudio},
	})

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"model":"models/test"`) {
		t.Errorf("missing model: %s", s)
	}
	if !strings.Contains(s, `"responseModalities":["AUDIO"]`) {
		t.Errorf("missing modalities: %s", s)
	}
	// Unset options must not appear on the wire.
	for _, absent := range []string{"speechConfig", "systemInstruction", "tools", "inputAudioTranscription", "outputAudioTranscription", "proactivity", "enableAffectiveDialog", "thinkingConfig"} {
		if strings.Contains(s, absent) {
			t.Errorf("unexpected %q in minimal setup: %s", absent, s)
		}
	}
}

func TestBuildSetupFull(t *testing.T) {
	budget := int32(512)
	msg := buildSetup("models/test", &live.Config{
		Voice:               "Puck",
		LanguageCode:        "en-US",
		ResponseModalities:  []live.Modality{live.ModalityAudio},
		ThinkingBudget:      &budget,
		ProactiveAudio:      true,
		AffectiveDialog:     true,
		InputTranscription:  true,
		OutputTranscription: true,
		SystemPrompt:        "be brief",
		Tools: []live.FunctionDeclaration{
			{Name: "lookup", Description: "look a thing up"},
		},
	})

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"voiceName":"Puck"`,
		`"languageCode":"en-US"`,
		`"thinkingBudget":512`,
		`"proactiveAudio":true`,
		`"enableAffectiveDialog":true`,
		`"inputAudioTranscription":{}`,
		`"outputAudioTranscription":{}`,
		`"text":"be brief"`,
		`"name":"lookup"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in setup: %s", want, s)
		}
	}
}

func TestBuildSetupZeroThinkingBudget(t *testing.T) {
	budget := int32(0)
	msg := buildSetup("models/test", &live.Config{ThinkingBudget: &budget})

	// Zero disables extended reasoning explicitly; it must survive to the
	// wire rather than being treated as unset.
	if msg.Setup.GenerationConfig.ThinkingConfig == nil {
		t.Fatal("thinking config dropped for zero budget")
	}
	if msg.Setup.GenerationConfig.ThinkingConfig.ThinkingBudget != 0 {
		t.Error("budget should be zero")
	}
}
