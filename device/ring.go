package device

import "sync/atomic"

// Ring is a lock-free single-producer single-consumer ring buffer of
// interleaved float32 samples, transporting capture-callback output to a
// graph-visible data source node (spec.md glossary "Duplex Ring Buffer").
// The capture callback (producer) calls Write; the graph's data-source
// node (consumer), running on a different thread, calls Read. Neither
// allocates or blocks.
type Ring struct {
	buf        []float32
	mask       uint32
	writeIndex atomic.Uint32
	readIndex  atomic.Uint32
}

// NewRing creates a Ring sized to hold at least capacity samples, rounded
// up to the next power of two so index wrapping can use a mask instead of
// a modulo.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Ring{buf: make([]float32, size), mask: uint32(size - 1)}
}

// Len returns the number of unread samples currently buffered.
func (r *Ring) Len() int {
	return int(r.writeIndex.Load() - r.readIndex.Load())
}

// Cap returns the ring's total capacity in samples.
func (r *Ring) Cap() int { return len(r.buf) }

// Write appends samples to the ring, overwriting the oldest unread samples
// if the ring is full (favoring fresh capture data over backpressure,
// since the producer is the real-time capture callback and must never
// block). Returns the number of samples actually accepted before any
// overwrite became necessary to report, which is always len(samples).
func (r *Ring) Write(samples []float32) int {
	w := r.writeIndex.Load()
	for _, s := range samples {
		r.buf[w&r.mask] = s
		w++
	}
	r.writeIndex.Store(w)

	// if the producer has lapped the consumer, advance readIndex so Len
	// never reports more than the ring's capacity.
	if r.Len() > len(r.buf) {
		r.readIndex.Store(w - uint32(len(r.buf)))
	}
	return len(samples)
}

// Read consumes up to len(out) samples into out, zero-filling any
// remainder if fewer are available, and returns the number of real
// samples read.
func (r *Ring) Read(out []float32) int {
	avail := r.Len()
	n := len(out)
	if n > avail {
		n = avail
	}
	rd := r.readIndex.Load()
	for i := 0; i < n; i++ {
		out[i] = r.buf[rd&r.mask]
		rd++
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	r.readIndex.Store(rd)
	return n
}

// Reset reinitializes the ring to capacity samples, discarding any
// buffered data. Used when a device's sample rate or channel count
// changes and the ring must be resized (spec.md §4.2 "Input device").
func (r *Ring) Reset(capacity int) {
	size := 1
	for size < capacity {
		size <<= 1
	}
	r.buf = make([]float32, size)
	r.mask = uint32(size - 1)
	r.writeIndex.Store(0)
	r.readIndex.Store(0)
}
