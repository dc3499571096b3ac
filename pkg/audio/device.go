package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// InputDevice delivers fixed-size raw PCM16 frames from a capture device.
// Exactly one InputDevice owns a physical device at a time.
type InputDevice interface {
	// Start begins capture. Frames become available on Frames().
	Start(ctx context.Context) error

	// Stop halts capture and closes the frame channel. Safe to call when
	// not running.
	Stop() error

	// Frames returns the channel of raw PCM16 frames, ChunkBytes each.
	Frames() <-chan []byte

	// Name returns the backend name.
	Name() string
}

// OutputDevice renders raw PCM16 frames to an output device.
type OutputDevice interface {
	// Start opens the device for writing.
	Start(ctx context.Context) error

	// Stop halts playback and releases the device. Safe to call when not
	// running.
	Stop() error

	// Write renders one frame. It must not block indefinitely.
	Write(frame []byte) error

	// Name returns the backend name.
	Name() string
}

// DeviceInfo identifies one selectable device.
type DeviceInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func newInputDevice(cfg Config, logger *slog.Logger) (InputDevice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch resolveBackend(cfg.Backend) {
	case BackendMock:
		return NewMockInput(cfg, logger), nil
	case BackendExec:
		return newExecInput(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

func newOutputDevice(cfg Config, logger *slog.Logger) (OutputDevice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch resolveBackend(cfg.Backend) {
	case BackendMock:
		return NewMockOutput(cfg, logger), nil
	case BackendExec:
		return newExecOutput(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

func resolveBackend(b Backend) Backend {
	if b != BackendAuto && b != "" {
		return b
	}
	if runtime.GOOS == "linux" {
		return BackendExec
	}
	return BackendMock
}

// ListInputDevices enumerates capture devices, best-effort: on any failure
// it returns an empty list rather than an error, and selection falls back
// to the platform default device.
func ListInputDevices(backend Backend) []DeviceInfo {
	switch resolveBackend(backend) {
	case BackendMock:
		return []DeviceInfo{{ID: "mock", Label: "Mock capture device"}}
	case BackendExec:
		return listALSADevices("arecord")
	default:
		return nil
	}
}

// ListOutputDevices enumerates playback devices, best-effort.
func ListOutputDevices(backend Backend) []DeviceInfo {
	switch resolveBackend(backend) {
	case BackendMock:
		return []DeviceInfo{{ID: "mock", Label: "Mock playback device"}}
	case BackendExec:
		return listALSADevices("aplay")
	default:
		return nil
	}
}

// listALSADevices parses `arecord -L` / `aplay -L` output. PCM names start
// at column zero; indented lines are descriptions.
func listALSADevices(tool string) []DeviceInfo {
	out, err := exec.Command(tool, "-L").Output()
	if err != nil {
		return nil
	}

	var devices []DeviceInfo
	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		id := strings.TrimSpace(line)
		label := id
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], " ") {
			label = strings.TrimSpace(lines[i+1])
		}
		devices = append(devices, DeviceInfo{ID: id, Label: label})
	}
	return devices
}
