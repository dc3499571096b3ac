package audio

import "sync/atomic"

// Ring is a lock-free single-producer/single-consumer ring buffer of PCM
// frames. It is the hand-off between the capture goroutine and the event
// loop: the capture side must never block on downstream work, so Push
// drops the frame when the ring is full instead of waiting.
//
// Exactly one goroutine may Push and exactly one may Pop.
type Ring struct {
	buf  [][]byte
	mask uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewRing creates a ring holding at least size frames. Capacity is rounded
// up to a power of two.
func NewRing(size int) *Ring {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Ring{
		buf:  make([][]byte, n),
		mask: uint64(n - 1),
	}
}

// Push enqueues one frame. It returns false (dropping the frame) when the
// ring is full.
func (r *Ring) Push(frame []byte) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() >= uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = frame
	r.tail.Store(tail + 1)
	return true
}

// Pop dequeues the oldest frame, returning false when the ring is empty.
func (r *Ring) Pop() ([]byte, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return nil, false
	}
	frame := r.buf[head&r.mask]
	r.buf[head&r.mask] = nil
	r.head.Store(head + 1)
	return frame, true
}

// Len returns the number of queued frames.
func (r *Ring) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}
