package chip

// OPN2 envelope phases.
const (
	egAttack = iota
	egDecay
	egSustain
	egRelease
)

// Channel 3 modes, register $27 bits 7-6.
const (
	ch3Normal  = 0
	ch3Special = 1 // per-operator frequencies
	ch3CSM     = 2 // special + timer A key-on
)

// opn2Clock is the NTSC master clock; the chip produces one sample every
// 144 clocks.
const (
	opn2Clock   = 7670454
	opn2Divider = 144
)

// fmOperator is one of the four operators of an FM channel.
type fmOperator struct {
	dt  uint8 // bit 2 sign, bits 1-0 amount
	mul uint8 // 0 = x0.5
	tl  uint8
	rs  uint8
	ar  uint8
	d1r uint8
	d2r uint8
	d1l uint8
	rr  uint8
	am  bool

	ssgEG       uint8
	ssgInverted bool

	phase    uint32 // 20-bit accumulator
	phaseInc uint32

	egState uint8
	egLevel uint16 // 10-bit attenuation, 0x3FF silent
	keyOn   bool
	keyCode uint8

	prevOut [2]int16 // feedback history
}

// fmChannel is one FM voice. Operators are stored S1, S2, S3, S4.
type fmChannel struct {
	op [4]fmOperator

	fNum  uint16
	block uint8

	alg  uint8
	fb   uint8
	panL bool
	panR bool
	ams  uint8
	fms  uint8
}

// opn2 is a YM2612 running at its native rate of clock/144. Register
// addresses carry the part in bit 8: $000-$0FF is part I, $100-$1FF part II.
type opn2 struct {
	ch [6]fmChannel

	dacEnable bool
	dacSample uint8 // unsigned, 0x80 is silence

	lfoEnable bool
	lfoFreq   uint8
	lfoCnt    uint16
	lfoStep   uint8 // 0-127
	lfoAM     uint8

	timerA       timer
	timerB       timer
	timerALoad   bool
	timerBLoad   bool
	timerAEnable bool
	timerBEnable bool
	timerAOver   bool
	timerBOver   bool
	timerBSub    uint8

	ch3Mode  uint8
	csmKeyOn bool
	ch3Freq  [4]uint16
	ch3Block [4]uint8

	egCounter uint16 // 12-bit, wraps to 1
	egDiv     uint8

	muted [6]bool
}

func newOPN2() *opn2 {
	y := &opn2{dacSample: 0x80}
	y.reset()
	return y
}

func (y *opn2) reset() {
	muted := y.muted
	*y = opn2{dacSample: 0x80, muted: muted}
	for c := range y.ch {
		y.ch[c].panL = true
		y.ch[c].panR = true
		for o := range y.ch[c].op {
			y.ch[c].op[o].egState = egRelease
			y.ch[c].op[o].egLevel = 0x3FF
		}
	}
}

// write stores val in register addr.
func (y *opn2) write(addr int, val uint8) {
	part := (addr >> 8) & 1
	reg := uint8(addr)
	switch {
	case reg < 0x20:
	case reg < 0x30:
		if part == 0 {
			y.writeGlobal(reg, val)
		}
	case reg < 0xA0:
		y.writeOperator(part, reg, val)
	default:
		y.writeChannel(part, reg, val)
	}
}

func (y *opn2) writeGlobal(reg, val uint8) {
	switch reg {
	case 0x22:
		y.lfoEnable = val&0x08 != 0
		y.lfoFreq = val & 0x07
		if !y.lfoEnable {
			y.lfoStep = 0
			y.lfoCnt = 0
		}
	case 0x24:
		y.timerA.period = y.timerA.period&0x003 | uint16(val)<<2
	case 0x25:
		y.timerA.period = y.timerA.period&0x3FC | uint16(val&0x03)
	case 0x26:
		y.timerB.period = uint16(val)
	case 0x27:
		y.ch3Mode = val >> 6 & 0x03
		y.timerALoad = val&0x01 != 0
		y.timerBLoad = val&0x02 != 0
		y.timerAEnable = val&0x04 != 0
		y.timerBEnable = val&0x08 != 0
		if val&0x10 != 0 {
			y.timerAOver = false
		}
		if val&0x20 != 0 {
			y.timerBOver = false
		}
	case 0x28:
		y.keyOnOff(val)
	case 0x2A:
		y.dacSample = val
	case 0x2B:
		y.dacEnable = val&0x80 != 0
	}
}

// slotOrder maps the register slot (S1, S3, S2, S4) to the stored operator.
var slotOrder = [4]int{0, 2, 1, 3}

func (y *opn2) writeOperator(part int, reg, val uint8) {
	slot := int(reg & 0x03)
	if slot == 3 {
		return
	}
	c := slot + part*3
	o := slotOrder[reg>>2&0x03]
	op := &y.ch[c].op[o]

	switch reg & 0xF0 {
	case 0x30:
		op.dt = val >> 4 & 0x07
		op.mul = val & 0x0F
		y.updatePhase(c, o)
	case 0x40:
		op.tl = val & 0x7F
	case 0x50:
		op.rs = val >> 6 & 0x03
		op.ar = val & 0x1F
	case 0x60:
		op.am = val&0x80 != 0
		op.d1r = val & 0x1F
	case 0x70:
		op.d2r = val & 0x1F
	case 0x80:
		op.d1l = val >> 4 & 0x0F
		op.rr = val & 0x0F
	case 0x90:
		ssg := val & 0x0F
		if ssg&ssgEnable == 0 {
			ssg = 0
		}
		if (ssg^op.ssgEG)&ssgAttack != 0 {
			op.ssgInverted = !op.ssgInverted
		}
		op.ssgEG = ssg
	}
}

func (y *opn2) writeChannel(part int, reg, val uint8) {
	slot := int(reg & 0x03)
	if slot == 3 {
		return
	}
	c := slot + part*3
	ch := &y.ch[c]

	switch reg & 0xFC {
	case 0xA0:
		ch.fNum = ch.fNum&0x700 | uint16(val)
		y.updateFrequency(c)
	case 0xA4:
		// latched until the low byte is written
		ch.block = val >> 3 & 0x07
		ch.fNum = ch.fNum&0x0FF | uint16(val&0x07)<<8
	case 0xA8:
		if part == 0 {
			y.ch3Freq[slot] = y.ch3Freq[slot]&0x700 | uint16(val)
			if y.ch3Mode != ch3Normal {
				if o := ch3SlotToOp(slot); o >= 0 {
					y.updatePhase(2, o)
				}
			}
		}
	case 0xAC:
		if part == 0 {
			y.ch3Block[slot] = val >> 3 & 0x07
			y.ch3Freq[slot] = y.ch3Freq[slot]&0x0FF | uint16(val&0x07)<<8
		}
	case 0xB0:
		ch.alg = val & 0x07
		ch.fb = val >> 3 & 0x07
	case 0xB4:
		ch.panL = val&0x80 != 0
		ch.panR = val&0x40 != 0
		ch.ams = val >> 4 & 0x03
		ch.fms = val & 0x07
	}
}

// keyOnOff handles $28: bits 0-2 select the channel (4-6 for part II),
// bits 4-7 the operators S1, S2, S3, S4.
func (y *opn2) keyOnOff(val uint8) {
	c := int(val & 0x03)
	if c == 3 {
		return
	}
	if val&0x04 != 0 {
		c += 3
	}
	ch := &y.ch[c]
	for i := range ch.op {
		on := val&(0x10<<uint(i)) != 0
		op := &ch.op[i]
		switch {
		case on && !op.keyOn:
			op.keyOn = true
			y.attack(op)
		case !on && op.keyOn:
			op.keyOn = false
			release(op)
		}
	}
}

// attack restarts an operator's phase and envelope.
func (y *opn2) attack(op *fmOperator) {
	op.phase = 0
	op.egState = egAttack
	op.ssgInverted = op.ssgEG&ssgAttack != 0
	if effectiveRate(op.ar, op) >= 62 {
		op.egLevel = 0
		op.egState = egDecay
	}
}

func release(op *fmOperator) {
	if op.ssgEG&ssgEnable != 0 && op.ssgInverted {
		op.egLevel = (ssgCenter - op.egLevel) & 0x3FF
		op.ssgInverted = false
	}
	op.egState = egRelease
}

// effectiveRate returns 2*rate + key scaling, capped at 63. Rate 0 stays 0.
func effectiveRate(rate uint8, op *fmOperator) uint8 {
	if rate == 0 {
		return 0
	}
	return uint8(min(int(2*rate)+int(op.keyCode>>(3-op.rs)), 63))
}

func (y *opn2) updatePhase(c, o int) {
	ch := &y.ch[c]
	op := &ch.op[o]
	fNum, block, kc := ch.fNum, ch.block, op.keyCode
	if c == 2 && y.ch3Mode != ch3Normal {
		if slot := ch3SlotMap(o); slot >= 0 {
			fNum = y.ch3Freq[slot]
			block = y.ch3Block[slot]
			kc = computeKeyCode(fNum, block)
			op.keyCode = kc
		}
	}
	op.phaseInc = computePhaseIncrement(fNum, block, kc, op.dt, op.mul)
}

func (y *opn2) updateFrequency(c int) {
	ch := &y.ch[c]
	kc := computeKeyCode(ch.fNum, ch.block)
	for o := range ch.op {
		ch.op[o].keyCode = kc
		y.updatePhase(c, o)
	}
}

// computeKeyCode builds the 5-bit key code: block, F11, and
// (F11 & (F10|F9|F8)) | (!F11 & F10 & F9 & F8).
func computeKeyCode(fNum uint16, block uint8) uint8 {
	f11 := fNum >> 10 & 1
	f10 := fNum >> 9 & 1
	f9 := fNum >> 8 & 1
	f8 := fNum >> 7 & 1
	lo := f11&(f10|f9|f8) | (1^f11)&f10&f9&f8
	return block<<2 | uint8(f11<<1) | uint8(lo)
}

// step advances the chip by one native sample and returns the stereo mix.
// out receives each channel's pre-pan output.
func (y *opn2) step(out *[6]int16) (left, right int32) {
	y.stepTimers()
	y.stepLFO()

	y.egDiv++
	if y.egDiv >= 3 {
		y.egDiv = 0
		y.egCounter++
		if y.egCounter >= 4096 {
			y.egCounter = 1
		}
		for c := range y.ch {
			for o := range y.ch[c].op {
				stepEnvelope(&y.ch[c].op[o], y.egCounter)
			}
		}
	}

	for c := range y.ch {
		mono, l, r := y.evaluate(c)
		out[c] = mono
		if y.muted[c] {
			continue
		}
		left += int32(l)
		right += int32(r)
	}
	// the laddered six-channel sum peaks near +/-49728
	left >>= 1
	right >>= 1
	return clampInt32(left, -32768, 32767), clampInt32(right, -32768, 32767)
}

func clampInt32(v, lo, hi int32) int32 {
	return max(lo, min(v, hi))
}
