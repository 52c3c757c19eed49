package macro

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxLength is the maximum number of values in one macro.
const MaxLength = 256

// headerSize is the size of the wire header preceding the values.
const headerSize = 8

// noIndex is the wire encoding of an absent loop or release point.
const noIndex = 0xFF

// OpenActiveRelease is the open-flag bit that makes a release jump straight
// to the release point instead of waiting for the current loop to pass it.
const OpenActiveRelease = 0x08

// ErrShortBlob is returned when a macro blob is shorter than its header says.
var ErrShortBlob = errors.New("macro: blob too short")

// Mode selects how a macro produces values.
type Mode uint8

const (
	ModeSequence Mode = iota
	ModeADSR
	ModeLFO
)

func (m Mode) String() string {
	switch m {
	case ModeSequence:
		return "sequence"
	case ModeADSR:
		return "adsr"
	case ModeLFO:
		return "lfo"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Parameter slots used by the ADSR and LFO generators.
const (
	ParamLow  = 0
	ParamHigh = 1

	ADSRAttack      = 2
	ADSRHold        = 3
	ADSRDecay       = 4
	ADSRSustain     = 5
	ADSRSustainTime = 6
	ADSRSustainRate = 7
	ADSRRelease     = 8

	LFOSpeed = 11
	LFOWave  = 12
	LFOPhase = 13
)

// Definition is the static description of one macro.
type Definition struct {
	Kind   Kind
	Mode   Mode
	Open   uint8
	Len    int
	Delay  int
	Speed  int
	Loop   int // -1 when absent
	Rel    int // -1 when absent
	Values [MaxLength]int32
}

// Valid reports whether the definition can activate a cursor.
func (d *Definition) Valid() bool {
	return d != nil && d.Len > 0
}

// loopPoint returns the loop index, or -1 when absent or out of range.
func (d *Definition) loopPoint() int {
	if d.Loop < 0 || d.Loop >= d.Len {
		return -1
	}
	return d.Loop
}

// releasePoint returns the release index, or -1 when absent or out of range.
func (d *Definition) releasePoint() int {
	if d.Rel < 0 || d.Rel >= d.Len {
		return -1
	}
	return d.Rel
}

// ActiveRelease reports whether the active-release open flag is set.
func (d *Definition) ActiveRelease() bool {
	return d.Open&OpenActiveRelease != 0
}

// UnmarshalBinary decodes a macro upload blob:
//
//	kind, mode, open, len, delay, speed, loop, rel  (1 byte each, 0xFF = none)
//	len x int32 little-endian
//
// A speed of 0 is stored as 1. The receiver is left untouched on error.
func (d *Definition) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: header needs %d bytes, have %d", ErrShortBlob, headerSize, len(data))
	}
	n := int(data[3])
	if need := headerSize + n*4; len(data) < need {
		return fmt.Errorf("%w: %d values need %d bytes, have %d", ErrShortBlob, n, need, len(data))
	}

	var out Definition
	out.Kind = Kind(data[0])
	out.Mode = Mode(data[1])
	out.Open = data[2]
	out.Len = n
	out.Delay = int(data[4])
	out.Speed = int(data[5])
	if out.Speed == 0 {
		out.Speed = 1
	}
	out.Loop = indexFromWire(data[6])
	out.Rel = indexFromWire(data[7])
	for i := 0; i < n; i++ {
		off := headerSize + i*4
		out.Values[i] = int32(binary.LittleEndian.Uint32(data[off:]))
	}
	*d = out
	return nil
}

// MarshalBinary encodes the definition in the upload wire format.
func (d *Definition) MarshalBinary() ([]byte, error) {
	if d.Len < 0 || d.Len >= MaxLength {
		return nil, fmt.Errorf("macro: length %d does not fit the wire format", d.Len)
	}
	buf := make([]byte, headerSize+d.Len*4)
	buf[0] = byte(d.Kind)
	buf[1] = byte(d.Mode)
	buf[2] = d.Open
	buf[3] = byte(d.Len)
	buf[4] = byte(d.Delay)
	buf[5] = byte(d.Speed)
	buf[6] = indexToWire(d.Loop)
	buf[7] = indexToWire(d.Rel)
	for i := 0; i < d.Len; i++ {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], uint32(d.Values[i]))
	}
	return buf, nil
}

func indexFromWire(b byte) int {
	if b == noIndex {
		return -1
	}
	return int(b)
}

func indexToWire(i int) byte {
	if i < 0 || i >= noIndex {
		return noIndex
	}
	return byte(i)
}
