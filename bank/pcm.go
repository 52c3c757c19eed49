package bank

// decodePCM expands a payload of n samples to signed 16-bit.
func decodePCM(d Depth, b []byte, n int) []int16 {
	out := make([]int16, n)
	if len(b) == 0 {
		return out
	}
	switch d {
	case Depth8Bit:
		for i := range out {
			out[i] = int16(int8(b[i])) << 8
		}
	case Depth1Bit:
		for i := range out {
			if b[i>>3]>>(i&7)&1 != 0 {
				out[i] = 0x7FFF
			} else {
				out[i] = -0x7FFF
			}
		}
	case DepthDPCM:
		decodeDPCM(out, b)
	case DepthMuLaw:
		for i := range out {
			out[i] = muLaw(b[i])
		}
	case Depth4Bit:
		for i := range out {
			out[i] = int16(uint16(nibble(b, i, false))<<12 ^ 0x8000)
		}
	case Depth12Bit:
		for i := range out {
			out[i] = int16(u16(b, i*2) & 0xFFF0)
		}
	case DepthIMA:
		decodeIMA(out, b)
	case DepthVOX:
		decodeVOX(out, b)
	case DepthBRR:
		decodeBRR(out, b)
	case DepthYMZ, DepthQSound, DepthADPCMA, DepthADPCMB, DepthADPCMK, DepthC219:
		// chip-private ADPCM; rendered by the chip itself
	default:
		for i := range out {
			out[i] = i16(b, i*2)
		}
	}
	return out
}

// nibble returns the i-th 4-bit value of b, low nibble first unless
// highFirst is set.
func nibble(b []byte, i int, highFirst bool) uint8 {
	v := b[i>>1]
	if (i&1 == 0) == highFirst {
		return v >> 4
	}
	return v & 15
}

// decodeDPCM runs the NES delta counter: each bit moves a 7-bit level by 2.
func decodeDPCM(out []int16, b []byte) {
	level := 64
	for i := range out {
		if b[i>>3]>>(i&7)&1 != 0 {
			if level < 126 {
				level += 2
			}
		} else if level > 1 {
			level -= 2
		}
		out[i] = int16((level - 64) << 9)
	}
}

func muLaw(v byte) int16 {
	v = ^v
	t := (int(v&0x0F) << 3) + 0x84
	t <<= (v & 0x70) >> 4
	if v&0x80 != 0 {
		return int16(0x84 - t)
	}
	return int16(t - 0x84)
}

var imaIndexTable = [16]int{-1, -1, -1, -1, 2, 4, 6, 8, -1, -1, -1, -1, 2, 4, 6, 8}

var imaStepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143, 157, 173, 190, 209, 230,
	253, 279, 307, 337, 371, 408, 449, 494, 544, 598, 658, 724, 796, 876, 963,
	1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024, 3327,
	3660, 4026, 4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493, 10442,
	11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794,
	32767,
}

func decodeIMA(out []int16, b []byte) {
	pred, idx := 0, 0
	for i := range out {
		n := int(nibble(b, i, false))
		step := imaStepTable[idx]
		diff := step >> 3
		if n&1 != 0 {
			diff += step >> 2
		}
		if n&2 != 0 {
			diff += step >> 1
		}
		if n&4 != 0 {
			diff += step
		}
		if n&8 != 0 {
			pred -= diff
		} else {
			pred += diff
		}
		pred = clamp(pred, -32768, 32767)
		idx = clamp(idx+imaIndexTable[n], 0, len(imaStepTable)-1)
		out[i] = int16(pred)
	}
}

// decodeVOX decodes Dialogic ADPCM: 12-bit output, high nibble first.
func decodeVOX(out []int16, b []byte) {
	pred, idx := 0, 0
	for i := range out {
		n := int(nibble(b, i, true))
		step := imaStepTable[idx] >> 4
		if step == 0 {
			step = 1
		}
		diff := step >> 3
		if n&1 != 0 {
			diff += step >> 2
		}
		if n&2 != 0 {
			diff += step >> 1
		}
		if n&4 != 0 {
			diff += step
		}
		if n&8 != 0 {
			pred -= diff
		} else {
			pred += diff
		}
		pred = clamp(pred, -2048, 2047)
		idx = clamp(idx+imaIndexTable[n], 0, 48)
		out[i] = int16(pred << 4)
	}
}

// decodeBRR decodes SNES bit-rate-reduced blocks: a header byte with
// range and filter, then 16 signed nibbles high first.
func decodeBRR(out []int16, b []byte) {
	var p1, p2 int
	for blk := 0; blk*16 < len(out) && blk*9+9 <= len(b); blk++ {
		h := b[blk*9]
		shift := int(h >> 4)
		filter := (h >> 2) & 3
		for j := 0; j < 16 && blk*16+j < len(out); j++ {
			s := int(int8(nibble(b[blk*9+1:], j, true)<<4) >> 4)
			if shift <= 12 {
				s = (s << shift) >> 1
			} else if s < 0 {
				s = -2048
			} else {
				s = 0
			}
			switch filter {
			case 1:
				s += p1>>1 + (-p1)>>5
			case 2:
				s += p1 - p2 + p2>>4 + (p1*-3)>>6
			case 3:
				s += p1 - p2 + (p1*-13)>>7 + (p2*3)>>4
			}
			s = clamp(s, -32768, 32767)
			s = int(int16(s << 1))
			out[blk*16+j] = int16(s)
			p2, p1 = p1, s
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
