package audio

import "testing"

func TestRingPushPop(t *testing.T) {
	r := NewRing(4)

	if _, ok := r.Pop(); ok {
		t.Error("pop from empty ring should fail")
	}

	frames := [][]byte{{1}, {2}, {3}}
	for _, f := range frames {
		if !r.Push(f) {
			t.Fatal("push failed on non-full ring")
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}

	for i, want := range frames {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if got[0] != want[0] {
			t.Errorf("pop %d = %v, want %v", i, got, want)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", r.Len())
	}
}

func TestRingDropsWhenFull(t *testing.T) {
	r := NewRing(2)

	if !r.Push([]byte{1}) || !r.Push([]byte{2}) {
		t.Fatal("fill failed")
	}
	if r.Push([]byte{3}) {
		t.Error("push on full ring should drop")
	}

	// Draining one slot makes room again.
	if _, ok := r.Pop(); !ok {
		t.Fatal("pop failed")
	}
	if !r.Push([]byte{4}) {
		t.Error("push after pop should succeed")
	}
}

func TestRingCapacityRoundsUp(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{16, 16},
		{17, 32},
	}
	for _, tt := range tests {
		if got := NewRing(tt.size).Cap(); got != tt.want {
			t.Errorf("NewRing(%d).Cap() = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestRingWrapAround(t *testing.T) {
	r := NewRing(2)
	for i := 0; i < 10; i++ {
		if !r.Push([]byte{byte(i)}) {
			t.Fatalf("push %d failed", i)
		}
		got, ok := r.Pop()
		if !ok || got[0] != byte(i) {
			t.Fatalf("pop %d = %v, %v", i, got, ok)
		}
	}
}
