package bank

import "fmt"

// MaxWaveLen is the longest wavetable accepted.
const MaxWaveLen = 256

// Wavetable is a single-cycle waveform. Values run from 0 to Max.
type Wavetable struct {
	Len  int
	Max  int
	Data [MaxWaveLen]int32
}

// UnmarshalBinary parses {len i32, max i32} followed by len int32 values.
// The data is only filled when the length is in range and the payload is
// present; the header alone still yields a valid wavetable.
func (w *Wavetable) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return fmt.Errorf("wavetable: %w (%d < 8)", ErrShortBlob, len(b))
	}
	var out Wavetable
	out.Len = int(i32(b, 0))
	out.Max = int(i32(b, 4))
	if out.Len > 0 && out.Len <= MaxWaveLen && len(b) >= 8+out.Len*4 {
		for i := 0; i < out.Len; i++ {
			out.Data[i] = i32(b, 8+i*4)
		}
	}
	*w = out
	return nil
}

// Sample returns the wavetable value at phase, where phase is a fraction of
// the cycle in 0..1<<bits. An empty wavetable reads as silence.
func (w *Wavetable) Sample(phase uint32, bits uint) int32 {
	if w == nil || w.Len <= 0 || w.Len > MaxWaveLen {
		return 0
	}
	return w.Data[(uint64(phase)*uint64(w.Len))>>bits]
}

// Normalized returns the value at i scaled to -1..1.
func (w *Wavetable) Normalized(i int) float32 {
	if w.Max <= 0 || i < 0 || i >= w.Len {
		return 0
	}
	return float32(w.Data[i])/float32(w.Max)*2 - 1
}
