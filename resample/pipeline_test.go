package resample

import (
	"testing"

	"github.com/arl/blip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampSource renders a counter on every output, offset per channel.
type rampSource struct {
	outputs int
	t       int
	calls   []int
}

func (s *rampSource) OutputCount() int { return s.outputs }

func (s *rampSource) Acquire(bufs [][]int16, n int) {
	s.calls = append(s.calls, n)
	for i := range n {
		for ch := range bufs {
			bufs[ch][i] = int16((s.t + i) * (ch + 1))
		}
	}
	s.t += n
}

// squareSource renders a square wave with the given half period.
type squareSource struct {
	half  int
	amp   int16
	t     int
	total int
}

func (s *squareSource) OutputCount() int { return 1 }

func (s *squareSource) Acquire(bufs [][]int16, n int) {
	for i := range n {
		bufs[0][i] = s.level(s.t + i)
	}
	s.t += n
	s.total += n
}

func (s *squareSource) level(t int) int16 {
	if (t/s.half)%2 == 0 {
		return s.amp
	}
	return -s.amp
}

// directSource writes a single step per frame into every buffer.
type directSource struct {
	squareSource
	direct int
	amp    int32
	cur    int32
}

func (s *directSource) AcquireDirect(bufs []*blip.Buffer, n int) {
	s.direct++
	for _, b := range bufs {
		b.AddDelta(0, s.amp-s.cur)
	}
	s.cur = s.amp
}

func TestFallbackIsRawCopy(t *testing.T) {
	p := New(0, 48000, 2, false)
	require.Nil(t, p.Buffers())

	src := &rampSource{outputs: 2}
	l := make([]float32, 64)
	r := make([]float32, 64)
	p.Render(src, l, r, 64)

	for i := range 64 {
		assert.InDelta(t, float32(i)/32768, l[i], 1e-9, "left %d", i)
		assert.InDelta(t, float32(2*i)/32768, r[i], 1e-9, "right %d", i)
	}
	assert.Equal(t, []int{64}, src.calls)
}

func TestFallbackMonoDuplicates(t *testing.T) {
	p := New(0, 48000, 1, false)
	src := &rampSource{outputs: 1}
	l := make([]float32, 16)
	r := make([]float32, 16)
	p.Render(src, l, r, 16)
	assert.Equal(t, l, r)
}

func TestOutputsCapped(t *testing.T) {
	p := New(44100, 48000, 4, false)
	assert.Equal(t, MaxOutputs, p.Outputs())
	assert.Len(t, p.Buffers(), MaxOutputs)

	// a core reporting more outputs still renders into its extra buffers
	src := &rampSource{outputs: 4}
	l := make([]float32, 32)
	r := make([]float32, 32)
	require.NotPanics(t, func() { p.Render(src, l, r, 32) })
}

func TestUnitRatioIsIdentity(t *testing.T) {
	p := New(44100, 44100, 1, false)
	require.Nil(t, p.Buffers(), "1:1 needs no step buffers")

	src := &squareSource{half: 64, amp: 16000}
	l := make([]float32, 8192)
	r := make([]float32, 8192)
	p.Render(src, l, r, len(l))

	assert.Equal(t, len(l), src.total)
	for i := range l {
		require.InDelta(t, float32(src.level(i))/32768, l[i], 1e-9, "sample %d", i)
	}
	assert.Equal(t, l, r)
}

func TestUnitRatioHoldsDC(t *testing.T) {
	p := New(48000, 48000, 1, false)
	src := &squareSource{half: 1 << 30, amp: 16000}
	l := make([]float32, 512)
	for range 4 {
		p.Render(src, l, nil, len(l))
		assert.InDelta(t, 16000.0/32768, l[100], 1e-9)
		assert.InDelta(t, 16000.0/32768, l[511], 1e-9)
	}
}

func TestUnitRatioDirectUsesStepBuffers(t *testing.T) {
	p := New(48000, 48000, 1, true)
	assert.Len(t, p.Buffers(), 1)
}

func peak(buf []float32) float32 {
	var m float32
	for _, v := range buf {
		m = max(m, v, -v)
	}
	return m
}

func TestLargeRendersStaySound(t *testing.T) {
	tests := []struct {
		name     string
		chipRate int
		half     int
	}{
		{"near unit", 44100, 32},
		{"upsample", 8000, 8},
		{"heavy upsample", 1000, 2},
		{"downsample", 192000, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.chipRate, 48000, 1, false)
			src := &squareSource{half: tt.half, amp: 16000}
			l := make([]float32, 8192)
			p.Render(src, l, nil, len(l))
			assert.Greater(t, peak(l[4096:]), float32(0.3))
		})
	}
}

func TestFrameLimit(t *testing.T) {
	assert.Equal(t, blip.MaxFrame, frameLimit(48000, 48000, DefaultBlipSize))
	assert.Equal(t, blip.MaxFrame, frameLimit(44100, 48000, DefaultBlipSize))
	assert.Equal(t, 256, frameLimit(44100, 48000, 256))
	assert.Equal(t, 4096-480-1, frameLimit(100, 48000, DefaultBlipSize))
	assert.Equal(t, 1, frameLimit(1, 48000, DefaultBlipSize))
}

func TestDownsampleRequestsMoreClocks(t *testing.T) {
	p := New(192000, 48000, 1, false)
	src := &squareSource{half: 200, amp: 8000}
	l := make([]float32, 480)
	p.Render(src, l, nil, len(l))
	assert.InDelta(t, 4*len(l), src.total, 8)
}

func TestDirectAcquisition(t *testing.T) {
	p := New(96000, 48000, 2, true)
	src := &directSource{amp: 12000}
	l := make([]float32, 256)
	r := make([]float32, 256)
	p.Render(src, l, r, 256)

	assert.Equal(t, 1, src.direct)
	assert.Zero(t, src.total, "direct sources are not acquired raw")
	assert.Greater(t, l[128], float32(0.2))
	assert.Equal(t, l, r)
}

func TestDirectIgnoredForIndirectPipeline(t *testing.T) {
	p := New(44100, 48000, 1, false)
	src := &directSource{squareSource: squareSource{half: 8, amp: 100}}
	l := make([]float32, 64)
	p.Render(src, l, nil, 64)
	assert.Zero(t, src.direct)
	assert.InDelta(t, 59, src.total, 2)
}

func TestRenderChunksLargeRequests(t *testing.T) {
	p := NewSized(44100, 48000, 1, false, 256, 64)
	src := &rampSource{outputs: 1}
	l := make([]float32, 1000)
	p.Render(src, l, nil, len(l))
	for _, n := range src.calls {
		assert.LessOrEqual(t, n, 236+2)
	}
	assert.Len(t, src.calls, 4)
}

func TestLeftoverSamplesCarryOver(t *testing.T) {
	for _, rate := range []int{44100, 8000, 11025} {
		p := NewSized(rate, 48000, 1, false, 256, 64)
		src := &squareSource{half: 16, amp: 8000}
		l := make([]float32, 1000)
		require.NotPanics(t, func() {
			for range 50 {
				p.Render(src, l, nil, len(l))
			}
		}, "rate %d", rate)
		// every native sample is consumed at the ratio, leftovers included
		assert.InDelta(t, 50*1000*rate/48000, src.total, 3, "rate %d", rate)
	}
}

func TestGrowIsGrowOnly(t *testing.T) {
	b := make([]int16, 8, 32)
	g := grow(b, 16)
	assert.Equal(t, 32, len(g))
	assert.Same(t, &b[0], &g[0])

	g = grow(b, 64)
	assert.Len(t, g, 64)
}

func TestZeroSamplesIsNoop(t *testing.T) {
	p := New(48000, 48000, 1, false)
	src := &rampSource{outputs: 1}
	p.Render(src, nil, nil, 0)
	assert.Empty(t, src.calls)
}
