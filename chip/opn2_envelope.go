package chip

// SSG-EG bits of register $90 and the inversion boundary.
const (
	ssgEnable    = 0x08
	ssgAttack    = 0x04
	ssgAlternate = 0x02
	ssgHold      = 0x01
	ssgCenter    = 0x200
)

// egPatterns holds the eight-step increment patterns for rates 4-47,
// selected by rate&3.
var egPatterns = [4][8]uint8{
	{0, 1, 0, 1, 0, 1, 0, 1},
	{0, 1, 0, 1, 1, 1, 0, 1},
	{0, 1, 1, 1, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 1},
}

// egFastPatterns holds the per-rate patterns for rates 48-63, which update
// on every envelope clock.
var egFastPatterns = [16][8]uint8{
	{1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 2, 1, 1, 1, 2},
	{1, 2, 1, 2, 1, 2, 1, 2},
	{1, 2, 2, 2, 1, 2, 2, 2},
	{2, 2, 2, 2, 2, 2, 2, 2},
	{2, 2, 2, 4, 2, 2, 2, 4},
	{2, 4, 2, 4, 2, 4, 2, 4},
	{2, 4, 4, 4, 2, 4, 4, 4},
	{4, 4, 4, 4, 4, 4, 4, 4},
	{4, 4, 4, 8, 4, 4, 4, 8},
	{4, 8, 4, 8, 4, 8, 4, 8},
	{4, 8, 8, 8, 4, 8, 8, 8},
	{8, 8, 8, 8, 8, 8, 8, 8},
	{8, 8, 8, 8, 8, 8, 8, 8},
	{8, 8, 8, 8, 8, 8, 8, 8},
	{8, 8, 8, 8, 8, 8, 8, 8},
}

// egIncrement returns the attenuation step for rate at counter, or 0 when
// this clock is skipped.
func egIncrement(rate uint8, counter uint16) uint8 {
	if rate >= 48 {
		return egFastPatterns[rate-48][counter&7]
	}
	shift := uint(11 - rate>>2)
	if shift > 0 && counter&(1<<shift-1) != 0 {
		return 0
	}
	return egPatterns[rate&3][counter>>shift&7]
}

// stepEnvelope advances one operator by one envelope clock.
func stepEnvelope(op *fmOperator, counter uint16) {
	// the sustain check precedes the increment so a zero sustain level
	// never overshoots
	if op.egState == egDecay && op.egLevel >= sustainLevel(op.d1l) {
		op.egState = egSustain
	}

	var rate uint8
	switch op.egState {
	case egAttack:
		rate = effectiveRate(op.ar, op)
	case egDecay:
		rate = effectiveRate(op.d1r, op)
	case egSustain:
		rate = effectiveRate(op.d2r, op)
	case egRelease:
		rate = effectiveRate(2*op.rr+1, op)
	}
	if rate == 0 {
		return
	}
	inc := egIncrement(rate, counter)
	if inc == 0 {
		return
	}

	if op.ssgEG&ssgEnable != 0 && op.egState != egAttack {
		if op.egLevel < ssgCenter {
			inc *= 4
		} else {
			inc = 0
		}
	}

	switch op.egState {
	case egAttack:
		if rate >= 62 {
			op.egLevel = 0
		} else {
			next := int32(op.egLevel) + (^int32(op.egLevel)*int32(inc))>>4
			op.egLevel = uint16(max(next, 0))
		}
		if op.egLevel == 0 {
			op.egState = egDecay
		}
	case egRelease:
		op.egLevel += uint16(inc)
		if op.ssgEG&ssgEnable != 0 && op.egLevel >= ssgCenter {
			op.egLevel = 0x3FF
		}
		op.egLevel = min(op.egLevel, 0x3FF)
	default:
		op.egLevel = min(op.egLevel+uint16(inc), 0x3FF)
	}
}

// sustainLevel expands D1L to 10 bits; 15 maps to the bottom of the range.
func sustainLevel(d1l uint8) uint16 {
	if d1l >= 15 {
		return 0x3E0
	}
	return uint16(d1l) << 5
}

// ssgEGProcess applies the SSG-EG boundary behaviour and returns the level
// the operator should output.
func ssgEGProcess(op *fmOperator) uint16 {
	if op.egState == egRelease {
		return op.egLevel
	}
	if op.egLevel >= ssgCenter {
		if op.ssgEG&ssgAlternate != 0 {
			hold := op.ssgEG&ssgHold != 0
			if !hold || (op.ssgEG&ssgAttack != 0) == op.ssgInverted {
				op.ssgInverted = !op.ssgInverted
			}
		} else if op.ssgEG&ssgHold == 0 {
			op.phase = 0
		}
		if op.ssgEG&ssgHold == 0 && (op.egState == egDecay || op.egState == egSustain) {
			op.egState = egAttack
		}
	}
	if op.ssgInverted {
		return (ssgCenter - op.egLevel) & 0x3FF
	}
	return op.egLevel
}

// totalLevel adds TL to the envelope, capped at 0x3FF.
func totalLevel(eg uint16, tl uint8) uint16 {
	return min(eg+uint16(tl)<<3, 0x3FF)
}
