package audio

import (
	"math"
	"testing"
)

func TestLevelEmpty(t *testing.T) {
	if Level(nil) != 0 {
		t.Error("empty buffer should be silent")
	}
	if Level([]byte{0x01}) != 0 {
		t.Error("odd trailing byte should be ignored")
	}
}

func TestLevelSilence(t *testing.T) {
	if got := Level(make([]byte, 640)); got != 0 {
		t.Errorf("Level(silence) = %f, want 0", got)
	}
}

func TestLevelFullScale(t *testing.T) {
	// A full-scale square wave has RMS ~1.0.
	buf := make([]byte, 640)
	for i := 0; i < len(buf); i += 2 {
		buf[i] = 0xFF
		buf[i+1] = 0x7F // 32767
	}
	got := Level(buf)
	if math.Abs(got-1.0) > 0.001 {
		t.Errorf("Level(full scale) = %f, want ~1.0", got)
	}
}

func TestLevelHalfScale(t *testing.T) {
	buf := make([]byte, 640)
	for i := 0; i < len(buf); i += 2 {
		buf[i] = 0x00
		buf[i+1] = 0x40 // 16384
	}
	got := Level(buf)
	if math.Abs(got-0.5) > 0.001 {
		t.Errorf("Level(half scale) = %f, want ~0.5", got)
	}
}
