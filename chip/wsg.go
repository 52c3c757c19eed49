package chip

import "math"

const (
	wsgRate   = 96000
	wsgMaxVol = 15
	wsgScale  = 32
	wsgPhase  = 20 // accumulator bits
)

type wsgVoice struct {
	ins         int
	wave        int
	note, pitch int
	vol         int
	panL, panR  int // 0-15
	active      bool
	freqChanged bool
	slide       int // note*128 while sliding, -1 otherwise
	acc, inc    uint32
}

// wsgCore is the Namco wavetable sound generator family. Each voice steps
// a 20-bit accumulator through a bank wavetable with 4-bit volume.
type wsgCore struct {
	cfg    Config
	stereo bool
	ch     []wsgVoice
	muted  []bool
	osc    []*OscBuffer
}

func newWSGCore(p Platform) Core {
	return &wsgCore{stereo: p == PlatformNamcoCUS30}
}

func (w *wsgCore) Init(cfg Config) error {
	w.cfg = withDefaults(cfg)
	if w.cfg.Channels <= 0 {
		w.cfg.Channels = 8
	}
	w.ch = make([]wsgVoice, w.cfg.Channels)
	w.muted = make([]bool, w.cfg.Channels)
	w.osc = newOscBuffers(w.cfg.Channels)
	w.Reset()
	return nil
}

func (w *wsgCore) Rate() int {
	return wsgRate
}

func (w *wsgCore) OutputCount() int {
	if w.stereo {
		return 2
	}
	return 1
}

func (w *wsgCore) Reset() {
	for i := range w.ch {
		w.ch[i] = wsgVoice{ins: -1, vol: wsgMaxVol, panL: 15, panR: 15, slide: -1}
	}
	for _, o := range w.osc {
		o.Clear()
	}
}

func (w *wsgCore) Quit() {
	w.osc = nil
}

func (w *wsgCore) linear() bool {
	return w.cfg.Compat.Int(CompatLinearPitch) != PitchNonLinear
}

// increment converts a note to an accumulator step at the native rate.
func (w *wsgCore) increment(v *wsgVoice) uint32 {
	var f float64
	off := 0
	if v.slide >= 0 {
		f = NoteFreq(float64(v.slide)/semitone, w.cfg.Tuning)
	} else {
		f, off = pitchedFreq(v.note, v.pitch, w.linear(), w.cfg.Tuning)
	}
	inc := int(math.Round(f*(1<<wsgPhase)/wsgRate)) + off
	return uint32(clampInt(inc, 0, 1<<wsgPhase-1))
}

func (w *wsgCore) Dispatch(cmd Command, c, v1, v2 int) int {
	if c < 0 || c >= len(w.ch) {
		return 0
	}
	v := &w.ch[c]
	switch cmd {
	case CmdNoteOn:
		if v1 != NoteNull {
			v.note = clampInt(v1, 0, maxNote)
			v.slide = -1
			v.freqChanged = true
		}
		v.active = true
	case CmdNoteOff, CmdNoteOffEnv, CmdEnvRelease:
		v.active = false
	case CmdInstrument:
		v.ins = v1
		if ins := w.cfg.Bank.Instrument(v1); ins.WaveSynth.Enabled {
			v.wave = int(ins.WaveSynth.Wave1)
		}
	case CmdVolume:
		v.vol = clampInt(v1, 0, wsgMaxVol)
	case CmdGetVolume:
		return v.vol
	case CmdGetVolMax:
		return wsgMaxVol
	case CmdPitch:
		v.pitch = v1
		v.freqChanged = true
	case CmdLegato:
		v.note = clampInt(v1, 0, maxNote)
		v.slide = -1
		v.freqChanged = true
	case CmdNotePorta:
		if v1 == PhaseReset && v2 == 0 {
			v.acc = 0
			return 1
		}
		cur := v.slide
		if cur < 0 {
			cur = v.note * semitone
		}
		cur, done := slide(cur, v2*semitone, v1)
		v.slide = cur
		v.freqChanged = true
		if done {
			v.note, v.pitch, v.slide = v2, 0, -1
			return 2
		}
	case CmdPanning:
		v.panL, v.panR = clampInt(v1, 0, 255)>>4, clampInt(v2, 0, 255)>>4
	case CmdWave:
		v.wave = v1
	case CmdPrePorta, CmdPreNote:
	default:
		return 0
	}
	return 1
}

func (w *wsgCore) Tick(sysTick bool) {
	for i := range w.ch {
		v := &w.ch[i]
		if v.freqChanged {
			v.freqChanged = false
			v.inc = w.increment(v)
		}
	}
}

func (w *wsgCore) Acquire(bufs [][]int16, n int) {
	stereo := w.stereo && len(bufs) > 1
	for i := range n {
		var l, r int32
		for c := range w.ch {
			v := &w.ch[c]
			var out int32
			if v.active {
				v.acc = (v.acc + v.inc) & (1<<wsgPhase - 1)
				out = w.level(v) * int32(v.vol) * wsgScale
			}
			w.osc[c].Put(int16(out))
			if w.muted[c] {
				continue
			}
			if stereo {
				l += out * int32(v.panL) / 15
				r += out * int32(v.panR) / 15
			} else {
				l += out
			}
		}
		bufs[0][i] = int16(clampInt32(l, -32768, 32767))
		if stereo {
			bufs[1][i] = int16(clampInt32(r, -32768, 32767))
		}
	}
}

// level reads the voice's wavetable at its phase as a signed 4-bit value.
func (w *wsgCore) level(v *wsgVoice) int32 {
	wt := w.cfg.Bank.Wavetable(v.wave)
	raw := wt.Sample(v.acc, wsgPhase)
	if wt.Max > 0 {
		raw = raw * 16 / int32(wt.Max+1)
	}
	return clampInt32(raw, 0, 15) - 8
}

func (w *wsgCore) OscBuffer(c int) *OscBuffer {
	if c < 0 || c >= len(w.osc) {
		return nil
	}
	return w.osc[c]
}

func (w *wsgCore) Mute(c int, mute bool) {
	if c >= 0 && c < len(w.muted) {
		w.muted[c] = mute
	}
}

// Poke addresses eight registers per voice: 0 wave, 1 volume, 2-4 the
// accumulator step low to high.
func (w *wsgCore) Poke(addr, val int) {
	c := addr >> 3
	if addr < 0 || c >= len(w.ch) {
		return
	}
	v := &w.ch[c]
	switch reg := addr & 7; reg {
	case 0:
		v.wave = val
	case 1:
		v.vol = val & wsgMaxVol
	case 2, 3, 4:
		shift := uint(reg-2) * 8
		v.inc = v.inc&^(0xFF<<shift) | uint32(val&0xFF)<<shift
		v.inc &= 1<<wsgPhase - 1
	}
}

func (w *wsgCore) SetFlags(tickRate, tuning float64) {
	w.cfg.TickRate, w.cfg.Tuning = tickRate, tuning
	for i := range w.ch {
		w.ch[i].freqChanged = true
	}
}
