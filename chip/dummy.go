package chip

import "math"

const (
	dummyMaxVol = 15
	dummyAmp    = 2048 // peak level per volume step
)

type dummyVoice struct {
	note, pitch int
	vol         int
	duty        int // 0-3: 12.5, 25, 50, 75 percent
	active      bool
	freqChanged bool
	phase, inc  uint32
}

// dummyCore is a bank of square oscillators running at the host rate. It
// has no hardware behind it and exists to exercise the pipeline.
type dummyCore struct {
	cfg     Config
	rate    int
	quality int
	ch      []dummyVoice
	muted   []bool
	osc     []*OscBuffer
}

func newDummyCore(Platform) Core {
	return &dummyCore{quality: DefaultQuality}
}

// SetCoreQuality is accepted for parity with cores that need it; the
// square tone does not change with quality.
func (d *dummyCore) SetCoreQuality(q int) {
	d.quality = q
}

func (d *dummyCore) Init(cfg Config) error {
	d.cfg = withDefaults(cfg)
	d.rate = d.cfg.Rate
	n := max(d.cfg.Channels, 1)
	d.ch = make([]dummyVoice, n)
	d.muted = make([]bool, n)
	d.osc = newOscBuffers(n)
	d.Reset()
	return nil
}

func (d *dummyCore) Rate() int {
	return d.rate
}

func (d *dummyCore) OutputCount() int {
	return 1
}

func (d *dummyCore) Reset() {
	for i := range d.ch {
		d.ch[i] = dummyVoice{vol: dummyMaxVol, duty: 2}
	}
	for _, o := range d.osc {
		o.Clear()
	}
}

func (d *dummyCore) Quit() {
	d.osc = nil
}

func (d *dummyCore) Dispatch(cmd Command, c, v1, v2 int) int {
	if c < 0 || c >= len(d.ch) {
		return 0
	}
	v := &d.ch[c]
	switch cmd {
	case CmdNoteOn:
		if v1 != NoteNull {
			v.note = clampInt(v1, 0, maxNote)
			v.freqChanged = true
		}
		v.active = true
	case CmdNoteOff, CmdNoteOffEnv, CmdEnvRelease:
		v.active = false
	case CmdVolume:
		v.vol = clampInt(v1, 0, dummyMaxVol)
	case CmdGetVolume:
		return v.vol
	case CmdGetVolMax:
		return dummyMaxVol
	case CmdPitch:
		v.pitch = v1
		v.freqChanged = true
	case CmdLegato:
		v.note = clampInt(v1, 0, maxNote)
		v.freqChanged = true
	case CmdWave:
		v.duty = v1 & 3
	case CmdNotePorta:
		if v1 == PhaseReset && v2 == 0 {
			v.phase = 0
		}
	case CmdInstrument, CmdPanning, CmdPrePorta, CmdPreNote:
	default:
		return 0
	}
	return 1
}

func (d *dummyCore) Tick(sysTick bool) {
	for i := range d.ch {
		v := &d.ch[i]
		if !v.freqChanged {
			continue
		}
		v.freqChanged = false
		f, off := pitchedFreq(v.note, v.pitch, d.cfg.Compat.Int(CompatLinearPitch) != PitchNonLinear, d.cfg.Tuning)
		inc := math.Round(f*(1<<32)/float64(d.rate)) + float64(off)
		v.inc = uint32(math.Max(0, math.Min(inc, math.MaxUint32)))
	}
}

// dutyThreshold is the phase below which the square is high.
var dutyThreshold = [4]uint32{1 << 29, 1 << 30, 1 << 31, 3 << 30}

func (d *dummyCore) Acquire(bufs [][]int16, n int) {
	for i := range n {
		var mix int32
		for c := range d.ch {
			v := &d.ch[c]
			var out int32
			if v.active && v.vol > 0 {
				out = -int32(v.vol) * dummyAmp / dummyMaxVol
				if v.phase < dutyThreshold[v.duty] {
					out = -out
				}
				v.phase += v.inc
			}
			d.osc[c].Put(int16(out))
			if !d.muted[c] {
				mix += out
			}
		}
		bufs[0][i] = int16(clampInt32(mix, -32768, 32767))
	}
}

func (d *dummyCore) OscBuffer(c int) *OscBuffer {
	if c < 0 || c >= len(d.osc) {
		return nil
	}
	return d.osc[c]
}

func (d *dummyCore) Mute(c int, mute bool) {
	if c >= 0 && c < len(d.muted) {
		d.muted[c] = mute
	}
}

// Poke sets a voice's raw phase step: addr selects the voice.
func (d *dummyCore) Poke(addr, val int) {
	if addr >= 0 && addr < len(d.ch) {
		d.ch[addr].inc = uint32(val)
	}
}

func (d *dummyCore) SetFlags(tickRate, tuning float64) {
	d.cfg.TickRate, d.cfg.Tuning = tickRate, tuning
	for i := range d.ch {
		d.ch[i].freqChanged = true
	}
}
