package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartsim/go-voicelink/pkg/live"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VOICELINK_MODEL", "")
	t.Setenv("VOICELINK_WEB_ADDR", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Live.Voice != DefaultVoice {
		t.Errorf("Voice = %q, want %q", cfg.Live.Voice, DefaultVoice)
	}
	if cfg.WebAddr != DefaultWebAddr {
		t.Errorf("WebAddr = %q, want %q", cfg.WebAddr, DefaultWebAddr)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VOICELINK_MODEL", "")

	path := writeConfig(t, `
api_key: file-key
model: models/custom
live:
  voice: Kore
  modalities: [AUDIO]
  system_prompt: be brief
capture:
  backend: mock
  sample_rate: 8000
  chunk_ms: 20
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "models/custom" {
		t.Errorf("Model = %q", cfg.Model)
	}

	lc := cfg.LiveConfig()
	if lc.Voice != "Kore" || lc.SystemPrompt != "be brief" {
		t.Errorf("live config = %+v", lc)
	}
	if !lc.HasModality(live.ModalityAudio) {
		t.Error("AUDIO modality missing")
	}

	cc := cfg.CaptureConfig()
	if cc.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", cc.SampleRate)
	}
	if cc.ChunkDuration != 20*time.Millisecond {
		t.Errorf("ChunkDuration = %v, want 20ms", cc.ChunkDuration)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\nmodel: models/from-file\n")

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("VOICELINK_MODEL", "models/from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.APIKey)
	}
	if cfg.Model != "models/from-env" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing api key")
	}

	cfg.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.Capture.ChunkMS = 500
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for oversized capture chunk")
	}
}

func TestPlaybackDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	pc := cfg.PlaybackConfig()
	if pc.SampleRate != 24000 {
		t.Errorf("playback SampleRate = %d, want 24000", pc.SampleRate)
	}
}
