package chip

import "math"

const (
	genesisFM     = 6
	genesisDAC    = 5
	genesisPSGReg = 0x200 // Poke address of the PSG write port
	fmMaxVol      = 127
)

// opRegOffset is the register offset of operators S1..S4.
var opRegOffset = [4]int{0x00, 0x08, 0x04, 0x0C}

// dtTable maps the instrument detune (3 is centre) to the register value.
var dtTable = [8]uint8{7, 6, 5, 0, 1, 2, 3, 4}

// fmOpRegs shadows one operator's registers so single fields can be
// rewritten.
type fmOpRegs struct {
	dtMul uint8
	tl    uint8 // instrument level before volume scaling
	rsAr  uint8
	amDr  uint8
	d2r   uint8
	slRr  uint8
	ssg   uint8
	on    bool
}

type fmVoice struct {
	ins         int
	note, pitch int
	vol         int
	active      bool
	insChanged  bool
	freqChanged bool
	keyOn       bool
	keyOff      bool
	panL, panR  bool
	alg, fb     uint8
	fms, ams    uint8
	ops         [4]fmOpRegs
	freq        int // fnum<<block while sliding, 0 otherwise
	dac         bool
}

// genesisCore is the Mega Drive sound hardware: a YM2612 on channels 0-5
// and an SN76489 on 6-9, both rendered at the YM2612's native rate.
type genesisCore struct {
	cfg Config
	fm  *opn2
	psg *snVoices
	ch  [genesisFM]fmVoice

	dac    sampler
	fmOut  [6]int16
	osc    []*OscBuffer
	psgOsc *OscBuffer
}

func newGenesisCore(Platform) Core {
	return &genesisCore{}
}

func (g *genesisCore) Init(cfg Config) error {
	g.cfg = withDefaults(cfg)
	g.fm = newOPN2()
	g.psg = newSNVoices(snClock, g.Rate(), g.cfg)
	g.osc = newOscBuffers(genesisFM)
	g.psgOsc = &OscBuffer{}
	g.Reset()
	return nil
}

func (g *genesisCore) Rate() int {
	return opn2Clock / opn2Divider
}

func (g *genesisCore) OutputCount() int {
	return 2
}

func (g *genesisCore) Reset() {
	g.fm.reset()
	g.psg.reset()
	g.dac = sampler{}
	for c := range g.ch {
		g.ch[c] = fmVoice{vol: fmMaxVol, panL: true, panR: true, insChanged: true, ins: -1}
	}
	for _, o := range g.osc {
		o.Clear()
	}
	g.psgOsc.Clear()
}

func (g *genesisCore) Quit() {
	g.osc = nil
	g.psgOsc = nil
}

// opAddr returns the register address of reg for operator op of channel c.
func opAddr(c, op, reg int) int {
	return (c/3)<<8 | reg | opRegOffset[op] | c%3
}

func chanAddr(c, reg int) int {
	return (c/3)<<8 | reg | c%3
}

func (g *genesisCore) write(addr int, val uint8) {
	g.fm.write(addr, val)
}

func (g *genesisCore) Dispatch(cmd Command, c, v1, v2 int) int {
	if c >= genesisFM {
		switch cmd {
		case CmdInstrument, CmdPanning, CmdPrePorta, CmdPreNote:
			return 1
		}
		return g.psg.dispatch(cmd, c-genesisFM, v1, v2)
	}
	if c < 0 {
		return 0
	}
	v := &g.ch[c]
	switch cmd {
	case CmdNoteOn:
		if v1 != NoteNull {
			v.note = clampInt(v1, 0, maxNote)
			v.freq = 0
			v.freqChanged = true
		}
		v.active = true
		v.keyOn = true
		if v.dac {
			g.startSample(v)
		}
	case CmdNoteOff, CmdNoteOffEnv, CmdEnvRelease:
		v.active = false
		v.keyOff = true
		v.keyOn = false
		if v.dac {
			g.dac.stop()
			g.write(0x2A, 0x80)
		}
	case CmdInstrument:
		if v1 != v.ins {
			v.ins = v1
			v.insChanged = true
		}
	case CmdVolume:
		v.vol = clampInt(v1, 0, fmMaxVol)
		g.writeLevels(c)
	case CmdGetVolume:
		return v.vol
	case CmdGetVolMax:
		return fmMaxVol
	case CmdPitch:
		v.pitch = v1
		v.freqChanged = true
	case CmdLegato:
		v.note = clampInt(v1, 0, maxNote)
		v.freq = 0
		v.freqChanged = true
	case CmdNotePorta:
		if v1 == PhaseReset && v2 == 0 {
			if v.active {
				v.keyOn = true
			}
			return 1
		}
		return g.porta(v, v1, v2)
	case CmdPanning:
		v.panL, v.panR = v1 > 0, v2 > 0
		g.writePanning(c)
	case CmdPrePorta, CmdPreNote:
	case CmdSampleMode:
		if c != genesisDAC {
			return 0
		}
		v.dac = v1 != 0
		if v.dac {
			g.write(0x2B, 0x80)
		} else {
			g.dac.stop()
			g.write(0x2B, 0)
		}
	case CmdFMLFO:
		g.write(0x22, uint8(v1&0x0F))
	case CmdFMAlg:
		v.alg = uint8(v1 & 7)
		g.writeAlgorithm(c)
		g.writeLevels(c)
	case CmdFMFB:
		v.fb = uint8(v1 & 7)
		g.writeAlgorithm(c)
	case CmdFMFMS:
		v.fms = uint8(v1 & 7)
		g.writePanning(c)
	case CmdFMAMS:
		v.ams = uint8(v1 & 3)
		g.writePanning(c)
	case CmdFMTL, CmdFMAR, CmdFMDR, CmdFMMult, CmdFMRR, CmdFMSL, CmdFMDT, CmdFMSSG:
		g.writeOperatorParam(c, cmd, v1&3, uint8(v2))
	default:
		return 0
	}
	return 1
}

// porta slides the linear frequency toward the target note.
func (g *genesisCore) porta(v *fmVoice, speed, target int) int {
	cur := v.freq
	if cur == 0 {
		cur = g.linearFreq(v.note, v.pitch)
	}
	cur, done := slide(cur, g.linearFreq(target, 0), speed)
	v.freq = cur
	v.freqChanged = true
	if done {
		v.note = target
		v.pitch = 0
		v.freq = 0
		return 2
	}
	return 1
}

// linearFreq returns fnum<<block for a note, which is proportional to Hz.
// Non-linear pitch is added to the F-number in the note's block.
func (g *genesisCore) linearFreq(note, pitch int) int {
	f, off := pitchedFreq(note, pitch, g.cfg.Compat.Int(CompatLinearPitch) != PitchNonLinear, g.cfg.Tuning)
	lin := int(math.Round(f * (1 << 21) / (float64(opn2Clock) / opn2Divider)))
	if off != 0 {
		fnum, block := splitFreq(lin)
		lin = clampInt(int(fnum)+off, 0, 2047) << block
	}
	return lin
}

// splitFreq picks the lowest block that fits the F-number in 11 bits.
func splitFreq(lin int) (fnum uint16, block uint8) {
	for lin >= 2048 && block < 7 {
		lin >>= 1
		block++
	}
	return uint16(min(max(lin, 0), 2047)), block
}

func (g *genesisCore) Tick(sysTick bool) {
	g.psg.tick()
	for c := range g.ch {
		v := &g.ch[c]
		if v.insChanged {
			v.insChanged = false
			g.loadInstrument(c)
		}
		if v.freqChanged {
			v.freqChanged = false
			lin := v.freq
			if lin == 0 {
				lin = g.linearFreq(v.note, v.pitch)
			}
			fnum, block := splitFreq(lin)
			g.write(chanAddr(c, 0xA4), block<<3|uint8(fnum>>8))
			g.write(chanAddr(c, 0xA0), uint8(fnum))
		}
		sel := uint8(c%3 | (c/3)<<2)
		if v.keyOff {
			v.keyOff = false
			g.write(0x28, sel)
		}
		if v.keyOn {
			v.keyOn = false
			var mask uint8
			for i, op := range v.ops {
				if op.on {
					mask |= 1 << i
				}
			}
			g.write(0x28, sel)
			if !v.dac {
				g.write(0x28, mask<<4|sel)
			}
		}
	}
}

// loadInstrument writes the channel's FM patch.
func (g *genesisCore) loadInstrument(c int) {
	v := &g.ch[c]
	fm := &g.cfg.Bank.Instrument(v.ins).FM
	v.alg, v.fb = fm.Alg&7, fm.FB&7
	v.fms, v.ams = fm.FMS&7, fm.AMS&3
	for i, op := range fm.Op {
		r := &v.ops[i]
		r.on = op.Enable
		r.dtMul = dtTable[uint8(op.DT)&7]<<4 | op.Mult&0x0F
		r.tl = op.TL & 0x7F
		r.rsAr = op.RS&3<<6 | op.AR&0x1F
		r.amDr = op.DR & 0x1F
		if op.AM != 0 {
			r.amDr |= 0x80
		}
		r.d2r = op.D2R & 0x1F
		r.slRr = op.SL&0x0F<<4 | op.RR&0x0F
		r.ssg = op.SSG & 0x0F
		g.writeOperator(c, i)
	}
	g.writeAlgorithm(c)
	g.writePanning(c)
}

func (g *genesisCore) writeOperator(c, op int) {
	r := &g.ch[c].ops[op]
	g.write(opAddr(c, op, 0x30), r.dtMul)
	g.write(opAddr(c, op, 0x50), r.rsAr)
	g.write(opAddr(c, op, 0x60), r.amDr)
	g.write(opAddr(c, op, 0x70), r.d2r)
	g.write(opAddr(c, op, 0x80), r.slRr)
	g.write(opAddr(c, op, 0x90), r.ssg)
	g.writeLevel(c, op)
}

// writeLevel writes an operator's TL, scaling carriers by the channel
// volume.
func (g *genesisCore) writeLevel(c, op int) {
	v := &g.ch[c]
	tl := int(v.ops[op].tl)
	if isCarrier(v.alg, op) {
		tl = fmMaxVol - (fmMaxVol-tl)*v.vol/fmMaxVol
	}
	g.write(opAddr(c, op, 0x40), uint8(tl))
}

func (g *genesisCore) writeLevels(c int) {
	for op := range 4 {
		g.writeLevel(c, op)
	}
}

func (g *genesisCore) writeAlgorithm(c int) {
	v := &g.ch[c]
	g.write(chanAddr(c, 0xB0), v.fb<<3|v.alg)
}

func (g *genesisCore) writePanning(c int) {
	v := &g.ch[c]
	var pan uint8
	if v.panL {
		pan |= 0x80
	}
	if v.panR {
		pan |= 0x40
	}
	g.write(chanAddr(c, 0xB4), pan|v.ams<<4|v.fms)
}

func (g *genesisCore) writeOperatorParam(c int, cmd Command, op int, val uint8) {
	r := &g.ch[c].ops[op]
	switch cmd {
	case CmdFMTL:
		r.tl = val & 0x7F
		g.writeLevel(c, op)
		return
	case CmdFMAR:
		r.rsAr = r.rsAr&0xC0 | val&0x1F
	case CmdFMDR:
		r.amDr = r.amDr&0x80 | val&0x1F
	case CmdFMMult:
		r.dtMul = r.dtMul&0x70 | val&0x0F
	case CmdFMRR:
		r.slRr = r.slRr&0xF0 | val&0x0F
	case CmdFMSL:
		r.slRr = r.slRr&0x0F | val&0x0F<<4
	case CmdFMDT:
		r.dtMul = r.dtMul&0x0F | dtTable[val&7]<<4
	case CmdFMSSG:
		r.ssg = val & 0x0F
	}
	g.writeOperator(c, op)
}

// startSample begins DAC playback of the instrument's sample for the
// current note.
func (g *genesisCore) startSample(v *fmVoice) {
	ins := g.cfg.Bank.Instrument(v.ins)
	s := g.cfg.Bank.Sample(sampleFor(ins, v.note))
	g.dac.load(s)
	g.dac.setRate(s, float64(v.note), g.cfg.Tuning, g.Rate())
}

// stepDAC feeds the next sample byte to the DAC.
func (g *genesisCore) stepDAC() {
	v := &g.ch[genesisDAC]
	if !v.dac || !g.dac.playing {
		return
	}
	s := int(g.dac.next()) >> 8
	if !g.cfg.Compat.Bool(CompatNoOPN2Vol) {
		s = s * v.vol / fmMaxVol
	}
	g.write(0x2A, uint8(s+128))
}

func (g *genesisCore) Acquire(bufs [][]int16, n int) {
	psg := g.psg.render(n)
	for i := range n {
		g.stepDAC()
		l, r := g.fm.step(&g.fmOut)
		for c, o := range g.osc {
			o.Put(g.fmOut[c] << 2)
		}
		p := g.psg.sample(psg, i)
		g.psgOsc.Put(p)
		bufs[0][i] = int16(clampInt32(l+int32(p), -32768, 32767))
		bufs[1][i] = int16(clampInt32(r+int32(p), -32768, 32767))
	}
	g.psg.consume(n)
}

// OscBuffer returns the channel's scope. The PSG channels share one mixed
// buffer.
func (g *genesisCore) OscBuffer(c int) *OscBuffer {
	switch {
	case c >= 0 && c < len(g.osc):
		return g.osc[c]
	case c >= genesisFM && c < genesisFM+snChannels:
		return g.psgOsc
	}
	return nil
}

func (g *genesisCore) Mute(c int, mute bool) {
	if c >= 0 && c < genesisFM {
		g.fm.muted[c] = mute
		return
	}
	g.psg.mute(c-genesisFM, mute)
}

// Poke writes an FM register for addresses below 0x200 and a PSG byte at
// 0x200.
func (g *genesisCore) Poke(addr, val int) {
	switch {
	case addr >= 0 && addr < genesisPSGReg:
		g.write(addr, uint8(val))
	case addr == genesisPSGReg:
		g.psg.psg.Write(byte(val))
	}
}

func (g *genesisCore) SetFlags(tickRate, tuning float64) {
	g.cfg.TickRate = tickRate
	g.cfg.Tuning = tuning
	g.psg.tuning = tuning
	for c := range g.ch {
		g.ch[c].freqChanged = true
	}
	for c := range g.psg.ch {
		g.psg.ch[c].freqChanged = true
	}
}

func (g *genesisCore) ForceIns() {
	for c := range g.ch {
		g.ch[c].insChanged = true
	}
}
