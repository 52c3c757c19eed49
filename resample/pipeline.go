// Package resample converts a chip's native-rate output to the host rate.
// Every output channel owns a band-limited step buffer. Cores either write
// steps into it themselves (direct) or fill raw sample buffers that the
// pipeline turns into steps (indirect).
package resample

import "github.com/arl/blip"

// Buffer sizes. Scratch buffers only ever grow.
const (
	DefaultBlipSize = 32768
	DefaultRawSize  = 8192
	DefaultReadSize = 1024

	// MaxOutputs is the number of host channels produced.
	MaxOutputs = 2
)

const scale = 1.0 / 32768

// Source renders native-rate samples.
type Source interface {
	Acquire(bufs [][]int16, n int)
	OutputCount() int
}

// DirectSource is a Source that can write steps straight into the
// pipeline's buffers. n is in native samples.
type DirectSource interface {
	AcquireDirect(bufs []*blip.Buffer, n int)
}

// Pipeline is the per-instance resampler. It is not safe for concurrent use.
type Pipeline struct {
	chipRate int
	hostRate int
	outputs  int
	direct   bool
	size     int
	frame    int // host samples per step buffer frame

	blips []*blip.Buffer
	raw   [][]int16
	prev  []int16
	read  []int16
}

// New builds a pipeline for a chip producing outputs channels at chipRate.
// A chipRate <= 0 leaves the step buffers unbuilt and Render copies raw
// samples instead. So does an indirect chip running at the host rate, since
// resampling 1:1 is the identity.
func New(chipRate, hostRate, outputs int, direct bool) *Pipeline {
	return NewSized(chipRate, hostRate, outputs, direct, DefaultBlipSize, DefaultRawSize)
}

// NewSized is New with explicit step buffer and raw scratch sizes.
func NewSized(chipRate, hostRate, outputs int, direct bool, blipSize, rawSize int) *Pipeline {
	outputs = min(max(outputs, 1), MaxOutputs)
	if blipSize <= 0 {
		blipSize = DefaultBlipSize
	}
	if rawSize <= 0 {
		rawSize = DefaultRawSize
	}

	p := &Pipeline{
		chipRate: chipRate,
		hostRate: hostRate,
		outputs:  outputs,
		direct:   direct,
		size:     blipSize,
		prev:     make([]int16, MaxOutputs),
		read:     make([]int16, DefaultReadSize),
	}
	p.raw = make([][]int16, MaxOutputs)
	for i := range p.raw {
		p.raw[i] = make([]int16, rawSize)
	}
	p.build()
	return p
}

func (p *Pipeline) build() {
	if p.chipRate <= 0 || p.hostRate <= 0 {
		return
	}
	if p.chipRate == p.hostRate && !p.direct {
		return
	}
	p.blips = make([]*blip.Buffer, p.outputs)
	for i := range p.blips {
		p.blips[i] = blip.NewBuffer(p.size)
		p.blips[i].SetRates(float64(p.chipRate), float64(p.hostRate))
	}
	p.frame = frameLimit(p.chipRate, p.hostRate, p.size)
}

// frameLimit returns the most host samples one frame may cover. Step
// buffers time-stamp clocks in 52-bit fixed point scaled by
// hostRate/chipRate, so a frame must stay under 4096 host samples
// (fewer when upsampling, as ClocksNeeded rounds up by a whole clock).
func frameLimit(chipRate, hostRate, size int) int {
	frame := min(size, blip.MaxFrame)
	up := (hostRate + chipRate - 1) / chipRate
	return max(min(frame, maxFrameUnits-up-1), 1)
}

// maxFrameUnits is the number of host samples whose fixed-point time fills
// 64 bits.
const maxFrameUnits = 4096

// Outputs returns the number of step buffers.
func (p *Pipeline) Outputs() int { return p.outputs }

// Direct reports whether the pipeline expects direct acquisition.
func (p *Pipeline) Direct() bool { return p.direct }

// Buffers exposes the step buffers, or nil in fallback mode.
func (p *Pipeline) Buffers() []*blip.Buffer { return p.blips }

// Clear drops any buffered steps and forgets the last raw values.
func (p *Pipeline) Clear() {
	p.build()
	clear(p.prev)
}

// Render produces n host-rate samples into outL and outR. Mono sources are
// copied to both channels. outR may be nil.
func (p *Pipeline) Render(src Source, outL, outR []float32, n int) {
	if n <= 0 {
		return
	}
	if p.blips == nil {
		p.renderRaw(src, outL, outR, n)
		return
	}

	for done := 0; done < n; {
		chunk := min(n-done, p.frame)
		p.renderFrame(src, outL[done:], sub(outR, done), chunk)
		done += chunk
	}
}

func (p *Pipeline) renderFrame(src Source, outL, outR []float32, n int) {
	// samples left over from the previous frame count towards n
	if need := n - p.blips[0].SamplesAvailable(); need > 0 {
		p.runFrame(src, p.blips[0].ClocksNeeded(need))
	}

	p.read = grow(p.read, n)
	for ch, b := range p.blips {
		got := b.ReadSamples(p.read, n, false)
		clear(p.read[got:n])
		dst := outL
		if ch == 1 {
			dst = outR
		}
		if dst == nil {
			continue
		}
		for i, s := range p.read[:n] {
			dst[i] = float32(s) * scale
		}
	}
	if p.outputs == 1 && outR != nil {
		copy(outR[:n], outL[:n])
	}
}

// runFrame acquires clocks native samples into the step buffers and ends
// the frame.
func (p *Pipeline) runFrame(src Source, clocks int) {
	if clocks <= 0 {
		return
	}
	if ds, ok := src.(DirectSource); ok && p.direct {
		ds.AcquireDirect(p.blips, clocks)
	} else {
		p.acquire(src, clocks)
		for ch, b := range p.blips {
			last := p.prev[ch]
			for t, s := range p.raw[ch][:clocks] {
				if s != last {
					b.AddDelta(uint64(t), int32(s)-int32(last))
					last = s
				}
			}
			p.prev[ch] = last
		}
	}
	for _, b := range p.blips {
		b.EndFrame(clocks)
	}
}

// renderRaw is the fallback used when no step buffers exist.
func (p *Pipeline) renderRaw(src Source, outL, outR []float32, n int) {
	p.acquire(src, n)
	for i := range n {
		outL[i] = float32(p.raw[0][i]) * scale
	}
	if outR == nil {
		return
	}
	right := p.raw[0]
	if p.outputs > 1 {
		right = p.raw[1]
	}
	for i := range n {
		outR[i] = float32(right[i]) * scale
	}
}

// acquire fills the raw buffers with n native samples.
func (p *Pipeline) acquire(src Source, n int) {
	bufs := make([][]int16, max(src.OutputCount(), p.outputs))
	for i := range bufs {
		if i < len(p.raw) {
			p.raw[i] = grow(p.raw[i], n)
			clear(p.raw[i][:n])
			bufs[i] = p.raw[i][:n]
		} else {
			// outputs past the second are rendered and dropped
			bufs[i] = make([]int16, n)
		}
	}
	src.Acquire(bufs, n)
}

// grow returns b with room for at least n values, reusing b when it is
// already large enough.
func grow(b []int16, n int) []int16 {
	if cap(b) >= n {
		return b[:cap(b)]
	}
	return make([]int16, n)
}

func sub(b []float32, off int) []float32 {
	if b == nil {
		return nil
	}
	return b[off:]
}
