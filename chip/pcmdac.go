package chip

const (
	pcmRate   = 44100
	pcmMaxVol = 255
)

// pcmDACCore plays bank samples through a single stereo DAC.
type pcmDACCore struct {
	cfg   Config
	play  sampler
	smp   int
	ins   int
	note  int
	pitch int
	slide int // note*128 while sliding, -1 otherwise
	vol   int
	panL  int
	panR  int

	active      bool
	freqChanged bool
	muted       bool
	osc         *OscBuffer
}

func newPCMDACCore(Platform) Core {
	return &pcmDACCore{}
}

func (p *pcmDACCore) Init(cfg Config) error {
	p.cfg = withDefaults(cfg)
	p.osc = &OscBuffer{}
	p.Reset()
	return nil
}

func (p *pcmDACCore) Rate() int {
	return pcmRate
}

func (p *pcmDACCore) OutputCount() int {
	return 2
}

func (p *pcmDACCore) Reset() {
	p.play = sampler{}
	p.ins, p.smp = -1, -1
	p.note, p.pitch, p.slide = NoteC4, 0, -1
	p.vol, p.panL, p.panR = pcmMaxVol, pcmMaxVol, pcmMaxVol
	p.active, p.freqChanged = false, false
	p.osc.Clear()
}

func (p *pcmDACCore) Quit() {
	p.osc = nil
}

func (p *pcmDACCore) Dispatch(cmd Command, c, v1, v2 int) int {
	if c != 0 {
		return 0
	}
	switch cmd {
	case CmdNoteOn:
		if v1 != NoteNull {
			p.note = clampInt(v1, 0, maxNote)
			p.slide = -1
		}
		p.smp = sampleFor(p.cfg.Bank.Instrument(p.ins), p.note)
		p.play.load(p.cfg.Bank.Sample(p.smp))
		p.active = true
		p.freqChanged = true
	case CmdNoteOff, CmdNoteOffEnv, CmdEnvRelease:
		p.active = false
		p.play.stop()
	case CmdInstrument:
		p.ins = v1
	case CmdVolume:
		p.vol = clampInt(v1, 0, pcmMaxVol)
	case CmdGetVolume:
		return p.vol
	case CmdGetVolMax:
		return pcmMaxVol
	case CmdPitch:
		p.pitch = v1
		p.freqChanged = true
	case CmdLegato:
		p.note = clampInt(v1, 0, maxNote)
		p.slide = -1
		p.freqChanged = true
	case CmdNotePorta:
		if v1 == PhaseReset && v2 == 0 {
			if p.active {
				p.play.load(p.cfg.Bank.Sample(p.smp))
				p.freqChanged = true
			}
			return 1
		}
		cur := p.slide
		if cur < 0 {
			cur = p.note * semitone
		}
		cur, done := slide(cur, v2*semitone, v1)
		p.slide = cur
		p.freqChanged = true
		if done {
			p.note, p.pitch, p.slide = v2, 0, -1
			return 2
		}
	case CmdPanning:
		p.panL, p.panR = clampInt(v1, 0, 255), clampInt(v2, 0, 255)
	case CmdSampleMode, CmdPrePorta, CmdPreNote:
	default:
		return 0
	}
	return 1
}

func (p *pcmDACCore) Tick(sysTick bool) {
	if !p.freqChanged {
		return
	}
	p.freqChanged = false
	s := p.cfg.Bank.Sample(p.smp)
	if p.slide >= 0 {
		p.play.setRate(s, float64(p.slide)/semitone, p.cfg.Tuning, pcmRate)
		return
	}
	if p.cfg.Compat.Int(CompatLinearPitch) != PitchNonLinear {
		p.play.setRate(s, float64(p.note)+float64(p.pitch)/semitone, p.cfg.Tuning, pcmRate)
		return
	}
	// non-linear pitch is an offset in Hz
	p.play.setRate(s, float64(p.note), p.cfg.Tuning, pcmRate)
	p.play.step = max(0, p.play.step+float64(p.pitch)/pcmRate)
}

func (p *pcmDACCore) Acquire(bufs [][]int16, n int) {
	for i := range n {
		s := int32(p.play.next()) * int32(p.vol) / pcmMaxVol
		p.osc.Put(int16(s))
		if p.muted {
			s = 0
		}
		bufs[0][i] = int16(s * int32(p.panL) / 255)
		bufs[1][i] = int16(s * int32(p.panR) / 255)
	}
}

func (p *pcmDACCore) OscBuffer(c int) *OscBuffer {
	if c != 0 {
		return nil
	}
	return p.osc
}

func (p *pcmDACCore) Mute(c int, mute bool) {
	if c == 0 {
		p.muted = mute
	}
}

// Poke is a no-op: the DAC has no register file.
func (p *pcmDACCore) Poke(addr, val int) {}

func (p *pcmDACCore) SetFlags(tickRate, tuning float64) {
	p.cfg.TickRate, p.cfg.Tuning = tickRate, tuning
	p.freqChanged = true
}
