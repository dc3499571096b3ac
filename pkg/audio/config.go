// Package audio provides the realtime capture and playback pipeline: a
// capture encoder producing fixed-cadence PCM16 chunks for the live
// session, and a playback decoder rendering arriving PCM buffers with
// immediate flush-on-interrupt.
package audio

import (
	"fmt"
	"time"
)

// Backend selects the device implementation.
type Backend string

const (
	// BackendAuto picks the best backend for the platform.
	BackendAuto Backend = "auto"
	// BackendExec shells out to arecord/aplay.
	BackendExec Backend = "exec"
	// BackendMock generates/discards audio for tests and CI.
	BackendMock Backend = "mock"
)

// Config holds audio pipeline configuration.
type Config struct {
	// Backend specifies which device backend to use.
	Backend Backend `yaml:"backend" json:"backend"`

	// SampleRate is the PCM sample rate in Hz.
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// Channels is the number of channels. The live wire format is mono.
	Channels int `yaml:"channels" json:"channels"`

	// ChunkDuration is the size of one PCM chunk. Small chunks bound
	// end-to-end latency; keep it well under 100ms.
	ChunkDuration time.Duration `yaml:"chunk_duration" json:"chunk_duration"`

	// Device is the platform-specific device identifier, empty for the
	// platform default.
	Device string `yaml:"device" json:"device"`
}

// DefaultCaptureConfig returns capture defaults (16kHz mono, 40ms chunks),
// matching the live session's input wire format.
func DefaultCaptureConfig() Config {
	return Config{
		Backend:       BackendAuto,
		SampleRate:    16000,
		Channels:      1,
		ChunkDuration: 40 * time.Millisecond,
	}
}

// DefaultPlaybackConfig returns playback defaults (24kHz mono, 40ms
// chunks), matching the model's output rate.
func DefaultPlaybackConfig() Config {
	return Config{
		Backend:       BackendAuto,
		SampleRate:    24000,
		Channels:      1,
		ChunkDuration: 40 * time.Millisecond,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.ChunkDuration <= 0 {
		return fmt.Errorf("chunk_duration must be positive, got %v", c.ChunkDuration)
	}
	if c.ChunkDuration >= 100*time.Millisecond {
		return fmt.Errorf("chunk_duration must stay under 100ms, got %v", c.ChunkDuration)
	}
	return nil
}

// ChunkSamples returns the number of samples per chunk.
func (c *Config) ChunkSamples() int {
	return int(float64(c.SampleRate) * c.ChunkDuration.Seconds())
}

// ChunkBytes returns the size of one chunk in bytes (PCM16).
func (c *Config) ChunkBytes() int {
	return c.ChunkSamples() * c.Channels * 2
}

// MIMEType returns the wire MIME type for chunks of this configuration.
func (c *Config) MIMEType() string {
	return fmt.Sprintf("audio/pcm;rate=%d", c.SampleRate)
}
