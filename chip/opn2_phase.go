package chip

// detuneTable gives the phase increment offset per key code for detune
// amounts 0-3.
var detuneTable = [32][4]uint32{
	{0, 0, 1, 2}, {0, 0, 1, 2}, {0, 0, 1, 2}, {0, 0, 1, 2},
	{0, 1, 2, 2}, {0, 1, 2, 3}, {0, 1, 2, 3}, {0, 1, 2, 3},
	{0, 1, 2, 4}, {0, 1, 3, 4}, {0, 1, 3, 4}, {0, 1, 3, 5},
	{0, 2, 4, 5}, {0, 2, 4, 6}, {0, 2, 4, 6}, {0, 2, 5, 7},
	{0, 2, 5, 8}, {0, 3, 6, 8}, {0, 3, 6, 9}, {0, 3, 7, 10},
	{0, 4, 8, 11}, {0, 4, 8, 12}, {0, 4, 9, 13}, {0, 5, 10, 14},
	{0, 5, 11, 16}, {0, 6, 12, 17}, {0, 6, 13, 19}, {0, 7, 14, 20},
	{0, 8, 16, 22}, {0, 8, 16, 22}, {0, 8, 16, 22}, {0, 8, 16, 22},
}

// detuneMultiply applies detune and the multiplier to a 17-bit base
// increment. Negative detune wraps on underflow like the hardware.
func detuneMultiply(base uint32, keyCode, dt, mul uint8) uint32 {
	d := detuneTable[keyCode&0x1F][dt&0x03]
	if dt&0x04 != 0 {
		base -= d
	} else {
		base += d
	}
	base &= 0x1FFFF
	if mul == 0 {
		return base >> 1
	}
	return base * uint32(mul) & 0xFFFFF
}

// computePhaseIncrement returns the 20-bit phase step for an 11-bit
// F-number and 3-bit block.
func computePhaseIncrement(fNum uint16, block, keyCode, dt, mul uint8) uint32 {
	return detuneMultiply(uint32(fNum)<<block>>1, keyCode, dt, mul)
}

// pmPhaseIncrement is computePhaseIncrement for a vibrato-shifted 12-bit
// F-number; key code, detune and multiplier keep their unmodulated values.
func pmPhaseIncrement(fNum12 uint32, block, keyCode, dt, mul uint8) uint32 {
	return detuneMultiply(fNum12<<block>>2, keyCode, dt, mul)
}

// ch3SlotMap returns the channel 3 frequency slot driving operator o in
// special mode, or -1 for S4, which follows the channel frequency.
func ch3SlotMap(o int) int {
	switch o {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 0
	}
	return -1
}

// ch3SlotToOp inverts ch3SlotMap.
func ch3SlotToOp(slot int) int {
	switch slot {
	case 0:
		return 2
	case 1:
		return 0
	case 2:
		return 1
	}
	return -1
}
