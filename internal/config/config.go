// Package config loads the application configuration for voicelink
// commands: a YAML file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chartsim/go-voicelink/pkg/audio"
	"github.com/chartsim/go-voicelink/pkg/live"
)

// Defaults.
const (
	DefaultModel   = "models/gemini-2.0-flash-exp"
	DefaultVoice   = "Puck"
	DefaultWebAddr = ":8090"
)

// LiveSettings configures the live session.
type LiveSettings struct {
	Voice               string   `yaml:"voice"`
	LanguageCode        string   `yaml:"language_code"`
	Modalities          []string `yaml:"modalities"`
	ThinkingBudget      *int32   `yaml:"thinking_budget"`
	ProactiveAudio      bool     `yaml:"proactive_audio"`
	AffectiveDialog     bool     `yaml:"affective_dialog"`
	InputTranscription  bool     `yaml:"input_transcription"`
	OutputTranscription bool     `yaml:"output_transcription"`
	SystemPrompt        string   `yaml:"system_prompt"`
}

// AudioSettings configures one side of the audio pipeline.
type AudioSettings struct {
	Backend    string `yaml:"backend"`
	Device     string `yaml:"device"`
	SampleRate int    `yaml:"sample_rate"`
	ChunkMS    int    `yaml:"chunk_ms"`
}

// Config is the top-level application configuration.
type Config struct {
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	LogLevel string        `yaml:"log_level"`
	WebAddr  string        `yaml:"web_addr"`
	Live     LiveSettings  `yaml:"live"`
	Capture  AudioSettings `yaml:"capture"`
	Playback AudioSettings `yaml:"playback"`
}

// Load reads the config file (optional; path may be empty) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Model:    DefaultModel,
		LogLevel: "info",
		WebAddr:  DefaultWebAddr,
		Live: LiveSettings{
			Voice:      DefaultVoice,
			Modalities: []string{string(live.ModalityAudio)},
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.APIKey = Env("GEMINI_API_KEY", cfg.APIKey)
	cfg.Model = Env("VOICELINK_MODEL", cfg.Model)
	cfg.LogLevel = Env("VOICELINK_LOG_LEVEL", cfg.LogLevel)
	cfg.WebAddr = Env("VOICELINK_WEB_ADDR", cfg.WebAddr)

	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config: api_key is required (or set GEMINI_API_KEY)")
	}
	if c.Model == "" {
		return fmt.Errorf("config: model is required")
	}
	captureCfg := c.CaptureConfig()
	if err := captureCfg.Validate(); err != nil {
		return fmt.Errorf("config: capture: %w", err)
	}
	playbackCfg := c.PlaybackConfig()
	if err := playbackCfg.Validate(); err != nil {
		return fmt.Errorf("config: playback: %w", err)
	}
	return nil
}

// LiveConfig builds the live session config.
func (c *Config) LiveConfig() *live.Config {
	out := &live.Config{
		Voice:               c.Live.Voice,
		LanguageCode:        c.Live.LanguageCode,
		ThinkingBudget:      c.Live.ThinkingBudget,
		ProactiveAudio:      c.Live.ProactiveAudio,
		AffectiveDialog:     c.Live.AffectiveDialog,
		InputTranscription:  c.Live.InputTranscription,
		OutputTranscription: c.Live.OutputTranscription,
		SystemPrompt:        c.Live.SystemPrompt,
	}
	for _, m := range c.Live.Modalities {
		out.ResponseModalities = append(out.ResponseModalities, live.Modality(m))
	}
	return out
}

// CaptureConfig builds the capture pipeline config.
func (c *Config) CaptureConfig() audio.Config {
	return mergeAudio(audio.DefaultCaptureConfig(), c.Capture)
}

// PlaybackConfig builds the playback pipeline config.
func (c *Config) PlaybackConfig() audio.Config {
	return mergeAudio(audio.DefaultPlaybackConfig(), c.Playback)
}

func mergeAudio(base audio.Config, s AudioSettings) audio.Config {
	if s.Backend != "" {
		base.Backend = audio.Backend(s.Backend)
	}
	if s.Device != "" {
		base.Device = s.Device
	}
	if s.SampleRate > 0 {
		base.SampleRate = s.SampleRate
	}
	if s.ChunkMS > 0 {
		base.ChunkDuration = time.Duration(s.ChunkMS) * time.Millisecond
	}
	return base
}

// Env returns the value of the environment variable or the fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
