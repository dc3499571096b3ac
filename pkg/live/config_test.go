package live

import "testing"

func TestConfigClone(t *testing.T) {
	budget := int32(1024)
	orig := &Config{
		Voice:              "Puck",
		ResponseModalities: []Modality{ModalityAudio},
		ThinkingBudget:     &budget,
		Tools:              []FunctionDeclaration{{Name: "lookup"}},
	}

	clone := orig.Clone()
	clone.Voice = "Kore"
	clone.ResponseModalities[0] = ModalityText
	*clone.ThinkingBudget = 0
	clone.Tools[0].Name = "other"

	if orig.Voice != "Puck" {
		t.Error("Voice leaked through clone")
	}
	if orig.ResponseModalities[0] != ModalityAudio {
		t.Error("ResponseModalities shared backing array")
	}
	if *orig.ThinkingBudget != 1024 {
		t.Error("ThinkingBudget shared pointer")
	}
	if orig.Tools[0].Name != "lookup" {
		t.Error("Tools shared backing array")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestConfigStripAudio(t *testing.T) {
	cfg := &Config{
		Voice:               "Puck",
		LanguageCode:        "en-US",
		ResponseModalities:  []Modality{ModalityAudio},
		ProactiveAudio:      true,
		AffectiveDialog:     true,
		InputTranscription:  true,
		OutputTranscription: true,
		SystemPrompt:        "be brief",
		Tools:               []FunctionDeclaration{{Name: "lookup"}},
	}

	stripped := cfg.StripAudio()

	if stripped.Voice != "" || stripped.ProactiveAudio || stripped.AffectiveDialog {
		t.Error("audio fields not cleared")
	}
	if stripped.InputTranscription || stripped.OutputTranscription {
		t.Error("transcription flags not cleared")
	}
	if len(stripped.ResponseModalities) != 1 || stripped.ResponseModalities[0] != ModalityText {
		t.Errorf("modalities = %v, want [TEXT]", stripped.ResponseModalities)
	}
	// Non-audio settings survive.
	if stripped.SystemPrompt != "be brief" {
		t.Error("system prompt dropped")
	}
	if len(stripped.Tools) != 1 {
		t.Error("tools dropped")
	}
	// The original is untouched.
	if cfg.Voice != "Puck" || !cfg.HasModality(ModalityAudio) {
		t.Error("StripAudio mutated the original")
	}
}

func TestHasModality(t *testing.T) {
	cfg := &Config{ResponseModalities: []Modality{ModalityAudio}}
	if !cfg.HasModality(ModalityAudio) {
		t.Error("expected AUDIO")
	}
	if cfg.HasModality(ModalityText) {
		t.Error("did not expect TEXT")
	}
}
