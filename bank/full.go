package bank

import (
	"errors"
	"fmt"

	"github.com/user-none/emdispatch/macro"
)

// Full instrument header layout.
const (
	fullHeaderSize = 32
	fullMagic0     = 0xF0
	fullMagic1     = 0xB1

	// fullMacroKinds is the number of standard macros carried in the
	// macro section, kinds vol through phase reset.
	fullMacroKinds = int(macro.KindPhaseReset) + 1
	fullMacroHead  = 7
)

// ErrBadMagic is returned by DecodeFull for a blob without the full
// instrument magic.
var ErrBadMagic = errors.New("bad instrument magic")

// DecodeFull parses a self-describing full instrument: a 32-byte header
// with section offsets, then optional FM, macro, chip and sample sections.
// Macros found in the macro section are returned separately so the caller
// can file them with the macro store.
func DecodeFull(b []byte) (*Instrument, []macro.Definition, error) {
	if len(b) < fullHeaderSize {
		return nil, nil, fmt.Errorf("full instrument: %w (%d < %d)", ErrShortBlob, len(b), fullHeaderSize)
	}
	if b[0] != fullMagic0 || b[1] != fullMagic1 {
		return nil, nil, fmt.Errorf("full instrument: %w %02x%02x", ErrBadMagic, b[0], b[1])
	}

	ins := newInstrument(Type(b[3]))
	fmOff := int(u32(b, 8))
	stdOff := int(u32(b, 12))
	chipOff := int(u32(b, 16))
	sampleOff := int(u32(b, 20))
	nameLen := int(u32(b, 28))

	if nameLen > 0 && len(b) >= fullHeaderSize+nameLen {
		ins.Name = string(b[fullHeaderSize : fullHeaderSize+nameLen])
	}
	if section(b, fmOff) {
		decodeFullFM(&ins.FM, b[fmOff:])
	}
	var macros []macro.Definition
	if section(b, stdOff) {
		macros = decodeFullMacros(b[stdOff:])
	}
	if section(b, chipOff) {
		decodeFullChip(ins, b[chipOff:])
	}
	if section(b, sampleOff) && len(b)-sampleOff >= 4 {
		decodeAmiga(&ins.Amiga, b[sampleOff:])
	}
	return ins, macros, nil
}

func section(b []byte, off int) bool {
	return off > 0 && off < len(b)
}

func decodeFullFM(fm *FM, b []byte) {
	if len(b) < 8 {
		return
	}
	fm.Alg, fm.FB, fm.FMS, fm.AMS = b[0], b[1], b[2], b[3]
	fm.FMS2, fm.AMS2, fm.Ops, fm.OPLLPreset = b[4], b[5], b[6], b[7]
	decodeOperators(fm, b, 8, 4, decodeOperator)
}

// decodeFullMacros reads consecutive macro records of the form
// {len, delay, speed, loop, rel, mode, open} + len int32 values. A record
// cut short keeps the values that fit.
func decodeFullMacros(b []byte) []macro.Definition {
	var out []macro.Definition
	off := 0
	for k := 0; k < fullMacroKinds && off+fullMacroHead < len(b); k++ {
		h := b[off : off+fullMacroHead]
		d := macro.Definition{
			Kind:  macro.Kind(k),
			Mode:  macro.Mode(h[5]),
			Open:  h[6],
			Delay: int(h[1]),
			Speed: max(int(h[2]), 1),
			Loop:  index(h[3]),
			Rel:   index(h[4]),
		}
		off += fullMacroHead
		n := int(h[0])
		for v := 0; v < n && v < macro.MaxLength && off+4 <= len(b); v++ {
			d.Values[v] = i32(b, off)
			d.Len++
			off += 4
		}
		if d.Len > 0 {
			out = append(out, d)
		}
	}
	return out
}

func index(v byte) int {
	if v == 0xFF {
		return -1
	}
	return int(v)
}

func decodeFullChip(ins *Instrument, b []byte) {
	switch ins.Type {
	case TypeGB:
		if len(b) < 8 {
			return
		}
		g := &ins.GB
		g.EnvVol, g.EnvDir, g.EnvLen, g.SoundLen = b[0], b[1], b[2], b[3]
		g.SoftEnv, g.AlwaysInit, g.DoubleWave = b[4] != 0, b[5] != 0, b[6] != 0
		for i := 0; i < int(b[7]) && 8+i*3+2 < len(b); i++ {
			g.HWSeq[i] = GBHWSeq{Cmd: b[8+i*3], Data: u16(b, 9+i*3)}
			g.HWSeqLen = i + 1
		}
	case TypeC64:
		if len(b) >= 14 {
			decodeC64Body(&ins.C64, b)
		}
	case TypeN163:
		if len(b) >= 14 {
			n := &ins.N163
			n.Wave, n.WavePos, n.WaveLen = i32(b, 0), i32(b, 4), i32(b, 8)
			n.WaveMode, n.PerChanPos = b[12], b[13] != 0
		}
	case TypeFDS:
		if len(b) >= 41 {
			decodeFDSBody(&ins.FDS, b)
		}
	case TypeSNES:
		if len(b) >= 9 {
			s := &ins.SNES
			s.UseEnv = b[0] != 0
			s.Sus, s.GainMode, s.Gain = b[1], b[2], b[3]
			s.A, s.D, s.S, s.R, s.D2 = b[4], b[5], b[6], b[7], b[8]
		}
	}
}
