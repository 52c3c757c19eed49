package ui

import "github.com/gopxl/beep"

// Stream adapts a Source to beep.Streamer so rendered chips can be mixed,
// resampled or encoded with beep.
type Stream struct {
	src  Source
	l, r []float32
	done bool
}

var _ beep.Streamer = (*Stream)(nil)

// NewStream wraps src.
func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// Stream implements beep.Streamer. The block that finishes the source is
// still delivered; the next call returns false.
func (s *Stream) Stream(samples [][2]float64) (int, bool) {
	if s.done {
		return 0, false
	}
	n := len(samples)
	if cap(s.l) < n {
		s.l = make([]float32, n)
		s.r = make([]float32, n)
	}
	l, r := s.l[:n], s.r[:n]
	if !s.src.Render(l, r) {
		s.done = true
	}
	for i := range samples {
		samples[i] = [2]float64{float64(l[i]), float64(r[i])}
	}
	return n, true
}

// Err implements beep.Streamer.
func (s *Stream) Err() error { return nil }

// Format returns the beep format of a stereo stream at rate.
func Format(rate int) beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   2,
	}
}
