// Package bank holds the assets chip cores read during playback:
// instruments, wavetables and samples, each uploaded as a little-endian
// binary blob and addressed by index.
package bank

import (
	"log"
	"maps"
	"slices"
)

// Bank stores uploaded assets. Lookups of a missing index return a shared
// empty value so callers never have to nil-check.
type Bank struct {
	instruments map[int]*Instrument
	waves       map[int]*Wavetable
	samples     map[int]*Sample

	logger *log.Logger
}

var (
	emptyInstrument = newInstrument(TypeSTD)
	emptyWave       = &Wavetable{}
	emptySample     = &Sample{}
)

// New creates an empty bank. A nil logger uses the standard logger.
func New(logger *log.Logger) *Bank {
	if logger == nil {
		logger = log.Default()
	}
	return &Bank{
		instruments: make(map[int]*Instrument),
		waves:       make(map[int]*Wavetable),
		samples:     make(map[int]*Sample),
		logger:      logger,
	}
}

// SetInstrument replaces the instrument at index i.
func (b *Bank) SetInstrument(i int, ins *Instrument) {
	b.instruments[i] = ins
}

// LoadInstrument decodes a blob of the named family into slot i. A blob
// that does not parse leaves the slot untouched.
func (b *Bank) LoadInstrument(i int, family string, data []byte) error {
	ins, err := Decode(family, data)
	if err != nil {
		return err
	}
	b.instruments[i] = ins
	return nil
}

// Instrument returns the instrument at index i, or an empty one.
func (b *Bank) Instrument(i int) *Instrument {
	if ins, ok := b.instruments[i]; ok {
		return ins
	}
	return emptyInstrument
}

// HasInstrument reports whether slot i holds an uploaded instrument.
func (b *Bank) HasInstrument(i int) bool {
	_, ok := b.instruments[i]
	return ok
}

// Instruments returns the occupied instrument indices in ascending order.
func (b *Bank) Instruments() []int {
	return slices.Sorted(maps.Keys(b.instruments))
}

// LoadWavetable parses a wavetable blob into slot i.
func (b *Bank) LoadWavetable(i int, data []byte) error {
	var w Wavetable
	if err := w.UnmarshalBinary(data); err != nil {
		return err
	}
	b.waves[i] = &w
	return nil
}

// Wavetable returns the wavetable at index i, or an empty one.
func (b *Bank) Wavetable(i int) *Wavetable {
	if w, ok := b.waves[i]; ok {
		return w
	}
	return emptyWave
}

// LoadSample parses a sample blob into slot i. Unknown depths are kept and
// treated as 16-bit.
func (b *Bank) LoadSample(i int, data []byte) error {
	var s Sample
	if err := s.UnmarshalBinary(data); err != nil {
		return err
	}
	if !s.Depth.Known() {
		b.logger.Printf("Warning: sample %d: unknown depth %d, storing as 16-bit", i, s.Depth)
	}
	b.samples[i] = &s
	return nil
}

// Sample returns the sample at index i, or an empty one.
func (b *Bank) Sample(i int) *Sample {
	if s, ok := b.samples[i]; ok {
		return s
	}
	return emptySample
}

// NumSamples returns one past the highest sample index in use.
func (b *Bank) NumSamples() int {
	n := 0
	for i := range b.samples {
		n = max(n, i+1)
	}
	return n
}

// Clear drops every asset.
func (b *Bank) Clear() {
	clear(b.instruments)
	clear(b.waves)
	clear(b.samples)
}
