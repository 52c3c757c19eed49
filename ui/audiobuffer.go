package ui

import (
	"io"
	"sync"
)

// frameBytes is the size of one interleaved stereo int16 frame.
const frameBytes = 4

// SampleRing is a thread-safe ring of interleaved stereo int16 frames. The
// render goroutine writes frames with Write; oto pulls little-endian bytes
// through Read. Read blocks when empty; Write drops the oldest frames on
// overflow so the producer never stalls.
type SampleRing struct {
	frames   [][2]int16
	readPos  int
	writePos int
	count    int
	partial  []byte // tail of a frame split across Reads
	mu       sync.Mutex
	cond     *sync.Cond
	closed   bool
}

// NewSampleRing creates a ring holding up to capacity frames.
func NewSampleRing(capacity int) *SampleRing {
	r := &SampleRing{frames: make([][2]int16, max(capacity, 1))}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Write appends frames, dropping the oldest ones if the ring is full.
func (r *SampleRing) Write(frames [][2]int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(frames) == 0 {
		return
	}
	capacity := len(r.frames)
	if len(frames) > capacity {
		frames = frames[len(frames)-capacity:]
	}
	if overflow := r.count + len(frames) - capacity; overflow > 0 {
		r.readPos = (r.readPos + overflow) % capacity
		r.count -= overflow
	}
	for _, f := range frames {
		r.frames[r.writePos] = f
		r.writePos = (r.writePos + 1) % capacity
	}
	r.count += len(frames)
	r.cond.Signal()
}

// Read implements io.Reader. It blocks until a frame is available or the
// ring is closed, and returns io.EOF once closed and drained.
func (r *SampleRing) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.count == 0 && len(r.partial) == 0 {
		if r.closed {
			return 0, io.EOF
		}
		r.cond.Wait()
	}

	n := copy(p, r.partial)
	r.partial = r.partial[n:]
	var tmp [frameBytes]byte
	for n < len(p) && r.count > 0 {
		f := r.frames[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.frames)
		r.count--
		tmp = [frameBytes]byte{byte(f[0]), byte(f[0] >> 8), byte(f[1]), byte(f[1] >> 8)}
		c := copy(p[n:], tmp[:])
		n += c
		if c < frameBytes {
			r.partial = append(r.partial[:0], tmp[c:]...)
		}
	}
	return n, nil
}

// Buffered returns the number of whole frames waiting.
func (r *SampleRing) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Clear discards every queued frame.
func (r *SampleRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readPos, r.writePos, r.count = 0, 0, 0
	r.partial = r.partial[:0]
}

// Close unblocks readers. Reads return io.EOF once the ring is empty.
func (r *SampleRing) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cond.Broadcast()
}
