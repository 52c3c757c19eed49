package dispatch

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/emdispatch/bank"
	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/macro"
)

// cmdTick marks a core tick in a fake core's command log.
const cmdTick chip.Command = -1

var errInit = errors.New("init failed")

// fakeCore records everything the registry does to it and renders a ramp.
type fakeCore struct {
	rate    int
	outputs int
	initErr error

	cfg           chip.Config
	qualityAtInit int
	quality       int
	cmds          []sent
	muted         map[int]bool
	pokes         [][2]int
	flags         [2]float64
	flagCalls     int
	forced        int
	resets        int
	quit          bool
	t             int
	osc           []*chip.OscBuffer
}

func (f *fakeCore) Init(cfg chip.Config) error {
	f.qualityAtInit = f.quality
	if f.initErr != nil {
		return f.initErr
	}
	f.cfg = cfg
	f.muted = make(map[int]bool)
	f.osc = make([]*chip.OscBuffer, cfg.Channels)
	for i := range f.osc {
		f.osc[i] = &chip.OscBuffer{}
	}
	return nil
}

func (f *fakeCore) Dispatch(cmd chip.Command, ch, v1, v2 int) int {
	f.cmds = append(f.cmds, sent{cmd, ch, v1, v2})
	if cmd == chip.CmdGetVolMax {
		return 15
	}
	return 1
}

func (f *fakeCore) Tick(bool) { f.cmds = append(f.cmds, sent{cmd: cmdTick}) }

func (f *fakeCore) Acquire(bufs [][]int16, n int) {
	for i := range n {
		v := f.level(f.t + i)
		for ch := range bufs {
			bufs[ch][i] = v * int16(ch+1)
		}
		f.osc[0].Put(v)
	}
	f.t += n
}

// level is a square wave with a 64-sample half period.
func (f *fakeCore) level(t int) int16 {
	if (t/64)%2 == 0 {
		return 8000
	}
	return -8000
}

func (f *fakeCore) OutputCount() int { return f.outputs }
func (f *fakeCore) Rate() int        { return f.rate }

func (f *fakeCore) OscBuffer(ch int) *chip.OscBuffer {
	if ch < 0 || ch >= len(f.osc) {
		return nil
	}
	return f.osc[ch]
}

func (f *fakeCore) Mute(ch int, m bool)  { f.muted[ch] = m }
func (f *fakeCore) Poke(addr, val int)   { f.pokes = append(f.pokes, [2]int{addr, val}) }
func (f *fakeCore) Reset()               { f.resets++ }
func (f *fakeCore) Quit()                { f.quit = true }
func (f *fakeCore) SetCoreQuality(q int) { f.quality = q }
func (f *fakeCore) ForceIns()            { f.forced++ }

func (f *fakeCore) SetFlags(tickRate, tuning float64) {
	f.flags = [2]float64{tickRate, tuning}
	f.flagCalls++
}

// Platforms taken over by fake cores. Raw has no native rate and unit runs
// at the host rate; both are copied without resampling.
const (
	fakeRaw    = chip.PlatformGB
	fakeUnit   = chip.PlatformTIA
	fakeBroken = chip.PlatformAY8910
	hostRate   = 48000
)

func init() {
	chip.Register(fakeRaw, func(chip.Platform) chip.Core { return &fakeCore{outputs: 2} })
	chip.Register(fakeUnit, func(chip.Platform) chip.Core { return &fakeCore{rate: hostRate, outputs: 1} })
	chip.Register(fakeBroken, func(chip.Platform) chip.Core { return &fakeCore{initErr: errInit} })
}

func newTestRegistry(t *testing.T) (*Registry, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	return New(Options{Logger: log.New(&logs, "", 0)}), &logs
}

func fake(t *testing.T, r *Registry, h int) *fakeCore {
	t.Helper()
	in := r.Instance(h)
	require.NotNil(t, in)
	f, ok := in.Core().(*fakeCore)
	require.True(t, ok)
	return f
}

func commandsOn(cmds []sent, ch int) []sent {
	var out []sent
	for _, c := range cmds {
		if c.cmd != cmdTick && c.ch == ch {
			out = append(out, c)
		}
	}
	return out
}

func TestCreate_ChannelCounts(t *testing.T) {
	r, _ := newTestRegistry(t)
	last := 0
	for _, p := range []chip.Platform{chip.PlatformGenesis, chip.PlatformYM2612, chip.PlatformSMS,
		chip.PlatformT6W28, chip.PlatformNamco, chip.PlatformNamco15XX, chip.PlatformNamcoCUS30,
		chip.PlatformPCMDAC, chip.PlatformDummy} {
		h := r.Create(p, hostRate)
		require.Greater(t, h, last, "%v", p)
		last = h
		assert.Equal(t, chip.ChannelCount(p), r.NumChannels(h), "%v", p)
		assert.Equal(t, p, r.Instance(h).Platform())
	}
	assert.Equal(t, 9, r.Len())
}

func TestCreate_Failures(t *testing.T) {
	r, logs := newTestRegistry(t)
	assert.Zero(t, r.Create(chip.PlatformNull, hostRate))
	assert.Zero(t, r.Create(chip.Platform(9999), hostRate))
	assert.Zero(t, r.Create(chip.PlatformAmiga, hostRate), "platform without a core")
	assert.Zero(t, r.Create(fakeBroken, hostRate), "init failure")
	assert.Zero(t, r.Create(chip.PlatformDummy, 0), "no sample rate")
	assert.Zero(t, r.Len(), "failed creates must not register anything")
	assert.Contains(t, logs.String(), "init failed")
	assert.Contains(t, logs.String(), "Warning:")

	assert.Equal(t, 1, r.Create(chip.PlatformDummy, hostRate), "failures do not consume handles")
}

func TestCreate_QualityBeforeInit(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	assert.Equal(t, chip.DefaultQuality, fake(t, r, h).qualityAtInit)

	h = r.Create(fakeUnit, hostRate)
	assert.Zero(t, fake(t, r, h).qualityAtInit, "platform does not take a quality")
}

func TestCreate_ConfigSharesAssets(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, 44100)
	f := fake(t, r, h)
	assert.Same(t, r.Bank(), f.cfg.Bank)
	assert.Same(t, r.Instance(h).Compat(), f.cfg.Compat)
	assert.Equal(t, 44100, f.cfg.Rate)
	assert.Equal(t, chip.ChannelCount(fakeRaw), f.cfg.Channels)
}

func TestHandlesNeverReused(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Create(fakeRaw, hostRate)
	r.Destroy(a)
	b := r.Create(fakeRaw, hostRate)
	assert.Greater(t, b, a)

	r.ClearAll()
	assert.Zero(t, r.Len())
	c := r.Create(fakeRaw, hostRate)
	assert.Greater(t, c, b)
	assert.Equal(t, []int{c}, r.Handles())
}

func TestDestroyedHandleIsNoop(t *testing.T) {
	r, _ := newTestRegistry(t)
	keep := r.Create(fakeRaw, hostRate)
	gone := r.Create(fakeRaw, hostRate)
	dead := fake(t, r, gone)
	r.Destroy(gone)
	assert.True(t, dead.quit)
	assert.Nil(t, r.Instance(gone))

	other := fake(t, r, keep)
	before := len(other.cmds)

	assert.Equal(t, -1, r.Dispatch(gone, chip.CmdNoteOn, 0, 60, 0))
	r.Tick(gone)
	r.Reset(gone)
	r.Mute(gone, 0, true)
	r.Poke(gone, 1, 2)
	r.SetTickRate(gone, 50)
	r.SetTuning(gone, 432)
	r.SetCompatFlags(gone, make([]byte, 64))
	r.SetCompatFlag(gone, 1, 0)
	r.ResetCompatFlags(gone)
	r.ForceIns(gone)
	r.SetMacrosEnabled(gone, false)
	r.ReleaseMacros(gone, 0)
	r.Destroy(gone)
	assert.Zero(t, r.NumChannels(gone))
	assert.Zero(t, r.OscNeedle(gone, 0))
	assert.Zero(t, r.OscData(gone, 0, make([]int16, 8)))

	out := []float32{7, 7, 7, 7}
	r.Render(gone, out, out, len(out))
	assert.Equal(t, []float32{7, 7, 7, 7}, out, "outputs untouched")

	assert.Len(t, other.cmds, before)
	assert.Empty(t, other.pokes)
	assert.Zero(t, other.resets)
	assert.Equal(t, 1, r.Len())
}

func TestDispatch_ForwardsResult(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	assert.Equal(t, 15, r.Dispatch(h, chip.CmdGetVolMax, 0, 0, 0))
	assert.Equal(t, []sent{{chip.CmdGetVolMax, 0, 0, 0}}, fake(t, r, h).cmds)
}

func TestDispatch_InstrumentIsPerInstance(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(5, macroBlob(macro.KindVol, macro.ModeSequence, 0, -1, -1, 9)))

	a := r.Create(fakeRaw, hostRate)
	b := r.Create(fakeRaw, hostRate)
	r.Dispatch(a, chip.CmdInstrument, 0, 5, 0)
	r.Dispatch(a, chip.CmdNoteOn, 0, 60, 0)
	r.Dispatch(b, chip.CmdNoteOn, 0, 60, 0)
	assert.Equal(t, 5, r.Instance(a).ChannelInstrument(0))
	assert.Zero(t, r.Instance(b).ChannelInstrument(0))

	fa, fb := fake(t, r, a), fake(t, r, b)
	fa.cmds, fb.cmds = nil, nil
	r.Tick(a)
	r.Tick(b)
	assert.Equal(t, []sent{{chip.CmdVolume, 0, 9, 0}, {cmd: cmdTick}}, fa.cmds, "macros run before the core tick")
	assert.Equal(t, []sent{{cmd: cmdTick}}, fb.cmds)
}

func TestDispatch_ReleaseHooks(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	d := r.Instance(h).Driver()
	for i, cmd := range []chip.Command{chip.CmdNoteOff, chip.CmdNoteOffEnv, chip.CmdEnvRelease} {
		r.Dispatch(h, chip.CmdNoteOn, i, 60, 0)
		require.False(t, d.Released(i))
		r.Dispatch(h, cmd, i, 0, 0)
		assert.True(t, d.Released(i), "%v", cmd)
	}

	r.Dispatch(h, chip.CmdNoteOn, 3, 60, 0)
	r.ReleaseMacros(h, 3)
	assert.True(t, d.Released(3))
	assert.Equal(t, chip.CmdNoteOn, fake(t, r, h).cmds[len(fake(t, r, h).cmds)-1].cmd,
		"releasing macros sends nothing to the core")
}

func TestMacrosDisabled(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(0, macroBlob(macro.KindVol, macro.ModeSequence, 0, -1, -1, 9)))
	h := r.Create(fakeRaw, hostRate)
	r.SetMacrosEnabled(h, false)
	assert.False(t, r.Instance(h).MacrosEnabled())

	r.Dispatch(h, chip.CmdInstrument, 0, 3, 0)
	r.Dispatch(h, chip.CmdNoteOn, 0, 60, 0)
	assert.False(t, r.Instance(h).Driver().Active(0))
	assert.Zero(t, r.Instance(h).ChannelInstrument(0), "instrument is not tracked while disabled")

	f := fake(t, r, h)
	f.cmds = nil
	r.Tick(h)
	assert.Equal(t, []sent{{cmd: cmdTick}}, f.cmds)
}

func TestTick_OnlyPlatformChannels(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(0, macroBlob(macro.KindWave, macro.ModeSequence, 0, 0, -1, 1)))
	h := r.Create(fakeRaw, hostRate)
	// past the platform's channel count: the driver tracks it but never ticks it
	ch := chip.ChannelCount(fakeRaw) + 1
	r.Dispatch(h, chip.CmdNoteOn, ch, 60, 0)

	f := fake(t, r, h)
	f.cmds = nil
	r.Tick(h)
	assert.Equal(t, []sent{{cmd: cmdTick}}, f.cmds)
}

func TestMuteDoesNotChangeOtherChannels(t *testing.T) {
	run := func(mute bool) []sent {
		r, _ := newTestRegistry(t)
		require.NoError(t, r.SetMacro(0, macroBlob(macro.KindVol, macro.ModeSequence, 0, 0, -1, 15, 8, 3)))
		require.NoError(t, r.SetMacro(0, macroBlob(macro.KindArp, macro.ModeSequence, 0, 0, -1, 0, 12)))
		h := r.Create(fakeRaw, hostRate)
		if mute {
			r.Mute(h, 1, true)
		}
		out := make([]float32, 256)
		for ch := range 2 {
			r.Dispatch(h, chip.CmdNoteOn, ch, 48+ch, 0)
		}
		for range 10 {
			r.Tick(h)
			r.Render(h, out, out, len(out))
		}
		f := fake(t, r, h)
		if mute {
			assert.True(t, f.muted[1])
		}
		return commandsOn(f.cmds, 0)
	}
	plain := run(false)
	require.NotEmpty(t, plain)
	assert.Equal(t, plain, run(true))
}

func TestRender_FallbackCopiesRaw(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	l := make([]float32, 200)
	rr := make([]float32, 200)
	r.Render(h, l, rr, len(l))

	f := fake(t, r, h)
	for i := range l {
		want := float32(f.level(i)) / 32768
		require.InDelta(t, want, l[i], 1e-9, "left %d", i)
		require.InDelta(t, 2*want, rr[i], 1e-9, "right %d", i)
	}
}

func TestRender_UnitRatio(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeUnit, hostRate)
	l := make([]float32, 8192)
	rr := make([]float32, 8192)
	r.Render(h, l, rr, len(l))

	f := fake(t, r, h)
	for i := range l {
		want := float32(f.level(i)) / 32768
		require.InDelta(t, want, l[i], 1e-9, "sample %d", i)
	}
	assert.Equal(t, l, rr, "mono is duplicated")
}

func TestRender_LargeBlocks(t *testing.T) {
	for _, rate := range []int{hostRate, 96000} {
		r, _ := newTestRegistry(t)
		h := r.Create(chip.PlatformDummy, rate)
		require.NotZero(t, h)
		r.Dispatch(h, chip.CmdNoteOn, 0, 60, 0)
		r.Tick(h)

		l := make([]float32, 8192)
		rr := make([]float32, 8192)
		r.Render(h, l, rr, len(l))

		var peak float32
		for _, v := range l[4096:] {
			peak = max(peak, v, -v)
		}
		assert.Greater(t, peak, float32(0.01), "rate %d", rate)
	}
}

func TestRender_ClampsToBuffers(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	l := make([]float32, 16)
	require.NotPanics(t, func() { r.Render(h, l, nil, 64) })
	assert.Equal(t, 16, fake(t, r, h).t)
}

func TestOsc(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	out := make([]float32, 100)
	r.Render(h, out, out, len(out))

	assert.Equal(t, 100, r.OscNeedle(h, 0))
	dst := make([]int16, 10)
	assert.Equal(t, 10, r.OscData(h, 0, dst))
	assert.Equal(t, int16(-8000), dst[9], "sample 99 is in the second half period")
	assert.Zero(t, r.OscNeedle(h, 99))
	assert.Zero(t, r.OscData(h, -1, dst))
}

func TestTickRateAndTuning(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	f := fake(t, r, h)

	r.SetTickRate(h, 50)
	assert.Equal(t, [2]float64{50, chip.DefaultTuning}, f.flags)
	r.SetTuning(h, 432)
	assert.Equal(t, [2]float64{50, 432}, f.flags)

	calls := f.flagCalls
	r.SetTickRate(h, 0)
	r.SetTuning(h, -1)
	assert.Equal(t, calls, f.flagCalls, "invalid values are ignored")
}

func TestCompatFlags(t *testing.T) {
	r, logs := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	in := r.Instance(h)
	f := fake(t, r, h)

	r.SetCompatFlags(h, make([]byte, 10))
	assert.Equal(t, chip.PitchLinearFull, in.Compat().Int(chip.CompatLinearPitch), "short blob ignored")
	assert.Contains(t, logs.String(), "too short")

	blob := make([]byte, chip.MinCompatBlob)
	blob[chip.CompatNoOPN2Vol] = 1
	r.SetCompatFlags(h, blob)
	assert.True(t, f.cfg.Compat.Bool(chip.CompatNoOPN2Vol), "core sees the instance flags")
	assert.Equal(t, chip.PitchNonLinear, in.Compat().Int(chip.CompatLinearPitch))

	r.SetCompatFlag(h, int(chip.CompatLinearPitch), chip.PitchLinearPartial)
	assert.Equal(t, chip.PitchLinearPartial, in.Compat().Int(chip.CompatLinearPitch))
	r.SetCompatFlag(h, int(chip.NumCompatFlags), 1)
	assert.Contains(t, logs.String(), "out of range")

	r.ResetCompatFlags(h)
	assert.Equal(t, chip.DefaultCompatFlags(), *in.Compat())
	assert.Equal(t, 3, f.flagCalls)
}

func TestCoreControls(t *testing.T) {
	r, _ := newTestRegistry(t)
	h := r.Create(fakeRaw, hostRate)
	f := fake(t, r, h)

	r.Poke(h, 0x28, 0xF0)
	r.ForceIns(h)
	r.Mute(h, 2, true)
	r.Dispatch(h, chip.CmdNoteOn, 0, 60, 0)
	r.Reset(h)

	assert.Equal(t, [][2]int{{0x28, 0xF0}}, f.pokes)
	assert.Equal(t, 1, f.forced)
	assert.True(t, f.muted[2])
	assert.Equal(t, 1, f.resets)
	assert.False(t, r.Instance(h).Driver().Active(0), "reset stops macros")

	// cores without the optional capability are left alone
	d := r.Create(chip.PlatformSMS, hostRate)
	require.NotPanics(t, func() { r.ForceIns(d) })
}

func TestSetMacro_Errors(t *testing.T) {
	r, logs := newTestRegistry(t)
	err := r.SetMacro(0, []byte{0, 0, 0})
	assert.ErrorIs(t, err, macro.ErrShortBlob)

	err = r.SetMacro(0, macroBlob(macro.Kind(25), macro.ModeSequence, 0, -1, -1, 1))
	assert.ErrorIs(t, err, ErrUnknownMacroKind)
	assert.Contains(t, logs.String(), "unknown macro kind 25")
	assert.Zero(t, r.Macros().Len())
}

func TestClearMacros(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(2, macroBlob(macro.KindWave, macro.ModeSequence, 0, 0, -1, 1)))
	h := r.Create(fakeRaw, hostRate)
	r.Dispatch(h, chip.CmdInstrument, 0, 2, 0)
	r.Dispatch(h, chip.CmdNoteOn, 0, 60, 0)
	require.True(t, r.Instance(h).Driver().Active(0))

	r.ClearMacros(2)
	assert.Nil(t, r.Macros().Set(2))
	assert.False(t, r.Instance(h).Driver().Active(0))
}

func TestAssets(t *testing.T) {
	r, _ := newTestRegistry(t)

	wave := binary.LittleEndian.AppendUint32(nil, 4)
	wave = binary.LittleEndian.AppendUint32(wave, 15)
	for _, v := range []int32{0, 15, 8, 3} {
		wave = binary.LittleEndian.AppendUint32(wave, uint32(v))
	}
	require.NoError(t, r.SetWavetable(1, wave))
	assert.Equal(t, 4, r.Bank().Wavetable(1).Len)
	assert.ErrorIs(t, r.SetWavetable(2, wave[:4]), bank.ErrShortBlob)

	smp := make([]byte, 32+4)
	binary.LittleEndian.PutUint32(smp, 2)
	smp[12] = byte(bank.Depth16Bit)
	require.NoError(t, r.SetSample(0, smp))
	assert.Equal(t, 2, r.Bank().Sample(0).Samples)
	assert.ErrorIs(t, r.SetSample(1, smp[:16]), bank.ErrShortBlob)

	huge := append([]byte(nil), smp[:33]...)
	binary.LittleEndian.PutUint32(huge, 0xFFFFFFFF)
	assert.ErrorIs(t, r.SetSample(1, huge), bank.ErrSampleTooLong)
	assert.Zero(t, r.Bank().Sample(1).Samples, "rejected uploads leave the slot alone")

	assert.ErrorIs(t, r.SetInstrument(0, "fm", []byte{byte(bank.TypeFM)}), bank.ErrShortBlob)
	require.NoError(t, r.SetInstrument(0, "std", []byte{byte(bank.TypeSTD)}))
	assert.True(t, r.Bank().HasInstrument(0))

	r.ClearAll()
	assert.False(t, r.Bank().HasInstrument(0))
	assert.Zero(t, r.Bank().Wavetable(1).Len)
}

func TestSetFullInstrument(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(4, macroBlob(macro.KindWave, macro.ModeSequence, 0, -1, -1, 1)))

	h := make([]byte, 32)
	h[0], h[1], h[3] = 0xF0, 0xB1, byte(bank.TypeSTD)
	binary.LittleEndian.PutUint32(h[12:], 32)
	// vol macro record: len, delay, speed, loop, rel, mode, open
	b := append(h, 2, 0, 1, 0xFF, 0xFF, 0, 0)
	b = binary.LittleEndian.AppendUint32(b, 12)
	b = binary.LittleEndian.AppendUint32(b, 6)

	require.NoError(t, r.SetFullInstrument(4, b))
	assert.True(t, r.Bank().HasInstrument(4))
	vol := r.Macros().Get(4, macro.KindVol)
	require.NotNil(t, vol)
	assert.Equal(t, []int32{12, 6}, vol.Values[:vol.Len])
	assert.False(t, r.Macros().Get(4, macro.KindWave).Valid(), "old macros are replaced")

	assert.ErrorIs(t, r.SetFullInstrument(5, make([]byte, 32)), bank.ErrBadMagic)
	assert.False(t, r.Bank().HasInstrument(5))
}

func TestEndToEndMacroOnRealCore(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.SetMacro(0, macroBlob(macro.KindVol, macro.ModeSequence, 0, -1, -1, 15, 10, 5)))
	h := r.Create(chip.PlatformSMS, hostRate)
	require.NotZero(t, h)

	r.Dispatch(h, chip.CmdInstrument, 0, 0, 0)
	r.Dispatch(h, chip.CmdNoteOn, 0, chip.NoteA4, 0)
	for range 2 {
		r.Tick(h)
	}
	assert.Equal(t, 10, r.Dispatch(h, chip.CmdGetVolume, 0, 0, 0))

	out := make([]float32, 512)
	r.Render(h, out, out, len(out))
	var peak float32
	for _, v := range out {
		peak = max(peak, v, -v)
	}
	assert.Greater(t, peak, float32(0.01))
}
