package chip

// OscSize is the length of a channel oscilloscope ring.
const OscSize = 65536

// OscBuffer is a per-channel ring of recent output samples. Needle is the
// index the next sample will be written to.
type OscBuffer struct {
	Data   [OscSize]int16
	Needle int
}

// Put appends one sample.
func (o *OscBuffer) Put(v int16) {
	o.Data[o.Needle] = v
	o.Needle = (o.Needle + 1) & (OscSize - 1)
}

// Read copies the len(dst) samples that end at the needle into dst and
// returns the count copied.
func (o *OscBuffer) Read(dst []int16) int {
	if o == nil {
		return 0
	}
	n := min(len(dst), OscSize)
	start := (o.Needle - n + OscSize) & (OscSize - 1)
	for i := range n {
		dst[i] = o.Data[(start+i)&(OscSize-1)]
	}
	return n
}

// Clear zeroes the ring and rewinds the needle.
func (o *OscBuffer) Clear() {
	*o = OscBuffer{}
}

func newOscBuffers(n int) []*OscBuffer {
	out := make([]*OscBuffer, n)
	for i := range out {
		out[i] = &OscBuffer{}
	}
	return out
}
