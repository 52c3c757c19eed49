package bank

import "fmt"

// Depth is the storage encoding of a sample payload.
type Depth uint8

const (
	Depth1Bit   Depth = 0
	DepthDPCM   Depth = 1
	DepthYMZ    Depth = 3
	DepthQSound Depth = 4
	DepthADPCMA Depth = 5
	DepthADPCMB Depth = 6
	DepthADPCMK Depth = 7
	Depth8Bit   Depth = 8
	DepthBRR    Depth = 9
	DepthVOX    Depth = 10
	DepthMuLaw  Depth = 11
	DepthC219   Depth = 12
	DepthIMA    Depth = 13
	Depth12Bit  Depth = 14
	Depth4Bit   Depth = 15
	Depth16Bit  Depth = 16
)

// Known reports whether d is one of the supported encodings. Unknown
// depths are stored and decoded as 16-bit.
func (d Depth) Known() bool {
	switch d {
	case Depth1Bit, DepthDPCM, DepthYMZ, DepthQSound, DepthADPCMA, DepthADPCMB,
		DepthADPCMK, Depth8Bit, DepthBRR, DepthVOX, DepthMuLaw, DepthC219,
		DepthIMA, Depth12Bit, Depth4Bit, Depth16Bit:
		return true
	}
	return false
}

// PayloadSize returns the number of payload bytes that hold n samples.
func (d Depth) PayloadSize(n int) int {
	switch d {
	case Depth1Bit, DepthDPCM:
		return (n + 7) / 8
	case DepthYMZ, DepthQSound, DepthADPCMA, DepthADPCMB, DepthADPCMK,
		DepthVOX, DepthC219, DepthIMA, Depth4Bit:
		return (n + 1) / 2
	case Depth8Bit, DepthMuLaw:
		return n
	case DepthBRR:
		return (n + 15) / 16 * 9
	default:
		return n * 2
	}
}

// LoopMode selects how a looped sample wraps.
type LoopMode uint8

const (
	LoopNone LoopMode = iota
	LoopForward
	LoopPingPong
	LoopBackward
)

const sampleHeaderSize = 32

// MaxSamples is the longest sample accepted, in samples.
const MaxSamples = 1<<24 - 1

// Sample is a PCM asset. Data holds the payload in its native encoding,
// sized for the sample count and zero-padded when the upload was short.
type Sample struct {
	Samples      int
	LoopStart    int
	LoopEnd      int
	Depth        Depth
	LoopMode     LoopMode
	BRREmphasis  bool
	Dither       bool
	CenterRate   int
	BRRLoopPoint int
	Loop         bool
	Data         []byte

	pcm []int16
}

// UnmarshalBinary parses the 32-byte sample header and its payload.
func (s *Sample) UnmarshalBinary(b []byte) error {
	if len(b) < sampleHeaderSize {
		return fmt.Errorf("sample: %w (%d < %d)", ErrShortBlob, len(b), sampleHeaderSize)
	}
	out := Sample{
		Samples:      int(u32(b, 0)),
		LoopStart:    int(i32(b, 4)),
		LoopEnd:      int(i32(b, 8)),
		Depth:        Depth(b[12]),
		LoopMode:     LoopMode(b[13]),
		BRREmphasis:  b[14] != 0,
		Dither:       b[15] != 0,
		CenterRate:   int(u32(b, 16)),
		BRRLoopPoint: int(u16(b, 20)),
		Loop:         b[22] != 0,
	}
	if out.Samples < 0 || out.Samples > MaxSamples {
		return fmt.Errorf("sample: %w (%d samples)", ErrSampleTooLong, u32(b, 0))
	}
	if payload := b[sampleHeaderSize:]; len(payload) > 0 && out.Samples > 0 {
		out.Data = make([]byte, out.Depth.PayloadSize(out.Samples))
		copy(out.Data, payload)
	}
	*s = out
	return nil
}

// PCM returns the sample decoded to signed 16-bit. Encodings without a
// decoder yield silence of the right length.
func (s *Sample) PCM() []int16 {
	if s == nil {
		return nil
	}
	if s.pcm == nil && s.Samples > 0 {
		s.pcm = decodePCM(s.Depth, s.Data, s.Samples)
	}
	return s.pcm
}

// LoopBounds returns the playable loop region clamped to the sample, or
// ok=false when the sample does not loop.
func (s *Sample) LoopBounds() (start, end int, ok bool) {
	if !s.Loop || s.LoopMode == LoopNone {
		return 0, 0, false
	}
	start = max(s.LoopStart, 0)
	end = s.LoopEnd
	if end <= 0 || end > s.Samples {
		end = s.Samples
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
