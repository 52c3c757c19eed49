package chip

import "math"

// sineTable holds -log2(sin) of a quarter wave in 4.8 fixed point.
// pow2Table converts the fractional part of an attenuation back to linear.
var (
	sineTable [256]uint16
	pow2Table [256]uint16
)

func init() {
	for i := range sineTable {
		s := math.Sin(float64(2*i+1) / 512 * math.Pi / 2)
		sineTable[i] = uint16(math.Round(-math.Log2(s) * 256))
	}
	for i := range pow2Table {
		pow2Table[i] = uint16(math.Round(math.Pow(2, 1-float64(i+1)/256) * 1024))
	}
}

// operatorOutput returns the signed 14-bit output for a 20-bit phase and a
// 10-bit attenuation.
func operatorOutput(phase uint32, atten uint16) int16 {
	idx := phase >> 10 & 0x3FF
	neg := idx&0x200 != 0
	q := idx & 0xFF
	if idx&0x100 != 0 {
		q = 0xFF - q
	}
	total := uint32(sineTable[q]) + uint32(atten)<<2
	// shifts of 13 or more underflow to zero on their own
	linear := uint32(pow2Table[total&0xFF]) << 2 >> (total >> 8)
	if neg {
		return -int16(linear)
	}
	return int16(linear)
}

// algorithm describes one FM connection: which earlier operators modulate
// each operator, and which operators reach the output.
type algorithm struct {
	mod      [4]uint8 // bitmask of source operators, S1 uses feedback
	carriers uint8
}

var algorithms = [8]algorithm{
	{mod: [4]uint8{0, 0x1, 0x2, 0x4}, carriers: 0x8}, // S1>S2>S3>S4
	{mod: [4]uint8{0, 0, 0x3, 0x4}, carriers: 0x8},   // (S1+S2)>S3>S4
	{mod: [4]uint8{0, 0, 0x2, 0x5}, carriers: 0x8},   // S1+(S2>S3)>S4
	{mod: [4]uint8{0, 0x1, 0, 0x6}, carriers: 0x8},   // (S1>S2)+S3>S4
	{mod: [4]uint8{0, 0x1, 0, 0x4}, carriers: 0xA},   // S1>S2, S3>S4
	{mod: [4]uint8{0, 0x1, 0x1, 0x1}, carriers: 0xE}, // S1>(S2,S3,S4)
	{mod: [4]uint8{0, 0x1, 0, 0}, carriers: 0xE},     // S1>S2, S3, S4
	{mod: [4]uint8{0, 0, 0, 0}, carriers: 0xF},       // all carriers
}

// isCarrier reports whether operator op (S1..S4) reaches the output under
// alg.
func isCarrier(alg uint8, op int) bool {
	return algorithms[alg&7].carriers>>op&1 != 0
}

// evaluate produces one sample of channel c and returns the raw output
// together with the laddered left and right values.
func (y *opn2) evaluate(c int) (mono, left, right int16) {
	ch := &y.ch[c]

	if c == 5 && y.dacEnable {
		dac := (int16(y.dacSample) - 128) << 6
		return dac, applyLadder(dac, ch.panL), applyLadder(dac, ch.panR)
	}

	// PM scales the F-number, then the increment is rebuilt from it
	if ch.fms != 0 && y.lfoEnable {
		for i := range ch.op {
			op := &ch.op[i]
			fNum, block := ch.fNum, ch.block
			if c == 2 && y.ch3Mode != ch3Normal {
				if slot := ch3SlotMap(i); slot >= 0 {
					fNum, block = y.ch3Freq[slot], y.ch3Block[slot]
				}
			}
			mod := uint32(int32(fNum)<<1+y.lfoPMDelta(ch.fms, fNum)) & 0xFFF
			op.phase = (op.phase + pmPhaseIncrement(mod, block, op.keyCode, op.dt, op.mul)) & 0xFFFFF
		}
	} else {
		for i := range ch.op {
			op := &ch.op[i]
			op.phase = (op.phase + op.phaseInc) & 0xFFFFF
		}
	}

	am := y.lfoAMAttenuation(ch.ams)
	a := &algorithms[ch.alg]

	var s [4]int16
	s[0] = opOut(&ch.op[0], feedback(&ch.op[0], ch.fb), am)
	for i := 1; i < 4; i++ {
		var sum int32
		for j := range i {
			if a.mod[i]>>j&1 != 0 {
				sum += int32(s[j])
			}
		}
		s[i] = opOut(&ch.op[i], sum>>1, am)
	}

	// the first carrier passes unclamped, each further one saturates
	var acc int32
	first := true
	for i := range s {
		if a.carriers>>i&1 == 0 {
			continue
		}
		q := int32(quantize9(s[i]))
		if first {
			acc = q
			first = false
			continue
		}
		acc = clampAccum(acc + q)
	}
	mono = int16(acc)
	return mono, applyLadder(mono, ch.panL), applyLadder(mono, ch.panR)
}

// feedback returns S1's self-modulation from its last two outputs.
func feedback(op *fmOperator, fb uint8) int32 {
	if fb == 0 {
		return 0
	}
	return (int32(op.prevOut[0]) + int32(op.prevOut[1])) >> (10 - uint(fb))
}

// opOut renders one operator. modulation is in 10-bit phase index units.
func opOut(op *fmOperator, modulation int32, am uint16) int16 {
	eg := op.egLevel
	if op.ssgEG&ssgEnable != 0 {
		eg = ssgEGProcess(op)
	}
	atten := totalLevel(eg, op.tl)
	if op.am {
		atten = min(atten+am, 0x3FF)
	}
	out := operatorOutput(op.phase+uint32(modulation<<10), atten)
	op.prevOut[1] = op.prevOut[0]
	op.prevOut[0] = out
	return out
}

// clampAccum saturates the carrier sum at +0x1FE0/-0x1FF0.
func clampAccum(v int32) int32 {
	return clampInt32(v, -0x1FF0, 0x1FE0)
}

// applyLadder models the DAC's zero-crossing gap. A channel with its pan
// bit cleared still leaks +/-128.
func applyLadder(sample int16, pan bool) int16 {
	switch {
	case !pan && sample >= 0:
		return 128
	case !pan:
		return -128
	case sample >= 0:
		return sample + 128
	default:
		return sample - 96
	}
}

// quantize9 drops the five bits below the 9-bit DAC resolution.
func quantize9(v int16) int16 {
	return v &^ 0x1F
}
