package bank

import (
	"bytes"
	"encoding/binary"
	"log"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/emdispatch/macro"
)

func fmOperator(ar, tl, mult uint8, dt int8) []byte {
	op := make([]byte, operatorSize)
	op[0] = 1
	op[2] = ar
	op[4] = mult
	op[7] = tl
	op[10] = byte(dt)
	op[12] = 0x08
	return op
}

func TestDecode_FM(t *testing.T) {
	b := []byte{byte(TypeFM), 4, 6, 1, 2, 0, 0, 2, 0}
	b = binary.LittleEndian.AppendUint16(b, 0x1234)
	b = append(b, 0, 0, 0, 0, 1)
	require.Len(t, b, 16)
	b = append(b, fmOperator(31, 20, 1, -3)...)
	b = append(b, fmOperator(15, 0, 2, 3)...)

	ins, err := Decode("fm", b)
	require.NoError(t, err)
	assert.Equal(t, TypeFM, ins.Type)
	assert.Equal(t, uint8(4), ins.FM.Alg)
	assert.Equal(t, uint8(6), ins.FM.FB)
	assert.Equal(t, uint16(0x1234), ins.FM.KickFreq)
	assert.True(t, ins.FM.FixedDrums)
	assert.Equal(t, uint8(31), ins.FM.Op[0].AR)
	assert.Equal(t, uint8(20), ins.FM.Op[0].TL)
	assert.Equal(t, int8(-3), ins.FM.Op[0].DT)
	assert.Equal(t, uint8(0x08), ins.FM.Op[0].SSG)
	assert.Equal(t, uint8(2), ins.FM.Op[1].Mult)
	assert.Zero(t, ins.FM.Op[2].AR, "only Ops records are read")
	assert.True(t, ins.FM.Op[3].Enable)
}

func TestDecode_FMTruncatedOperator(t *testing.T) {
	b := make([]byte, 16)
	b[7] = 4
	b = append(b, fmOperator(31, 1, 1, 0)...)
	b = append(b, 1, 2, 3)

	ins, err := Decode("fm", b)
	require.NoError(t, err)
	assert.Equal(t, uint8(31), ins.FM.Op[0].AR)
	assert.Zero(t, ins.FM.Op[1].AR)
}

func TestDecode_Short(t *testing.T) {
	tests := []struct {
		family string
		size   int
	}{
		{"fm", 15},
		{"gb", 7},
		{"c64", 14},
		{"fds", 41},
		{"sid3", 19},
		{"opm", 17},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			_, err := Decode(tt.family, make([]byte, tt.size))
			assert.ErrorIs(t, err, ErrShortBlob)
		})
	}
}

func TestDecode_UnknownFamily(t *testing.T) {
	_, err := Decode("theremin", []byte{0})
	assert.ErrorIs(t, err, ErrUnknownFamily)
	assert.Contains(t, Families(), "fm")
	assert.True(t, slices.IsSorted(Families()))
}

func TestDecode_GBHardwareSequence(t *testing.T) {
	b := []byte{15, 1, 3, 64, 1, 0, 1, 2, 0x01, 0x20, 0x02, 0x7F}
	ins, err := Decode("gb", b)
	require.NoError(t, err)
	g := ins.GB
	assert.Equal(t, uint8(15), g.EnvVol)
	assert.True(t, g.SoftEnv)
	assert.False(t, g.AlwaysInit)
	assert.Equal(t, 2, g.HWSeqLen)
	assert.Equal(t, GBHWSeq{Cmd: 2, Data: 0x7F}, g.HWSeq[1])

	// sequence that does not fit is dropped entirely
	ins, err = Decode("gb", b[:11])
	require.NoError(t, err)
	assert.Zero(t, ins.GB.HWSeqLen)
}

func TestDecode_C64(t *testing.T) {
	b := []byte{byte(TypeC64), 0x05, 1, 2, 3, 4, 0x00, 0x08, 1, 0, 0x21, 7, 0xFF, 0x07, 0x0A}
	ins, err := Decode("c64", b)
	require.NoError(t, err)
	c := ins.C64
	assert.True(t, c.TriOn)
	assert.False(t, c.SawOn)
	assert.True(t, c.PulseOn)
	assert.Equal(t, uint16(0x0800), c.Duty)
	assert.True(t, c.ToFilter)
	assert.True(t, c.ResetDuty)
	assert.Equal(t, uint16(0x07FF), c.Cut)
	assert.True(t, c.LP)
	assert.True(t, c.Ch3Off)
	assert.False(t, c.HP)
}

func TestDecode_AmigaNoteMap(t *testing.T) {
	b := []byte{byte(TypeAmiga), 3, 0, 0x03, 32}
	for i := 0; i < NoteMapSize; i++ {
		b = binary.LittleEndian.AppendUint32(b, uint32(8000+i))
		b = binary.LittleEndian.AppendUint16(b, uint16(i%4))
		b = append(b, 0xFF, 5)
	}
	ins, err := Decode("amiga", b)
	require.NoError(t, err)
	a := ins.Amiga
	assert.Equal(t, int16(3), a.InitSample)
	assert.True(t, a.UseNoteMap)
	assert.True(t, a.UseSample)
	assert.Equal(t, uint8(32), a.WaveLen)
	assert.Equal(t, NoteMapEntry{Freq: 8119, Map: 3, DPCMFreq: -1, DPCMDelta: 5}, a.NoteMap[119])
}

func TestDecode_SampleReferences(t *testing.T) {
	ins, err := Decode("segapcm", []byte{byte(TypeSegaPCM), 7, 0, 0x03})
	require.NoError(t, err)
	assert.Equal(t, int16(7), ins.Amiga.InitSample)
	assert.True(t, ins.Amiga.UseSample)
	assert.True(t, ins.Amiga.UseNoteMap)

	ins, err = Decode("k053260", []byte{byte(TypeK053260), 2, 0, 0})
	require.NoError(t, err)
	assert.True(t, ins.Amiga.UseSample)
	assert.Equal(t, TypeK053260, ins.Type)

	ins, err = Decode("adpcma", []byte{9, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, int16(9), ins.Amiga.InitSample)
}

func TestDecode_ESFM(t *testing.T) {
	b := make([]byte, 18+4*operatorSize+4*esfmExtSize)
	b[1] = 2
	b[2] = 5
	ext := 18 + 4*operatorSize
	b[ext+8+1] = 6
	b[ext+8+3] = 1
	b[ext+8+6] = 0xFE

	ins, err := Decode("esfm", b)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), ins.ESFM.Noise)
	assert.Equal(t, uint8(5), ins.FM.Alg)
	assert.Equal(t, ESFMOperator{OutLvl: 6, Left: true, CT: -2}, ins.ESFM.Op[1])
}

func TestDecodeFull(t *testing.T) {
	name := "lead"
	fm := []byte{3, 5, 0, 0, 0, 0, 4, 0}
	fm = append(fm, fmOperator(20, 10, 1, 0)...)

	var std []byte
	std = append(std, 3, 0, 1, 1, 0xFF, 0, 0)
	for _, v := range []int32{15, 10, 5} {
		std = binary.LittleEndian.AppendUint32(std, uint32(v))
	}
	std = append(std, 0, 0, 1, 0xFF, 0xFF, 0, 0)
	std = append(std, 2, 0, 2, 0xFF, 0xFF, 0, 0)
	std = binary.LittleEndian.AppendUint32(std, uint32(macro.FixedArpeggio(60)))
	std = binary.LittleEndian.AppendUint32(std, 0)

	fmOff := 32 + len(name)
	stdOff := fmOff + len(fm)
	h := make([]byte, 32)
	h[0], h[1], h[3] = 0xF0, 0xB1, byte(TypeFM)
	binary.LittleEndian.PutUint32(h[8:], uint32(fmOff))
	binary.LittleEndian.PutUint32(h[12:], uint32(stdOff))
	binary.LittleEndian.PutUint32(h[28:], uint32(len(name)))

	b := append(append(append(h, name...), fm...), std...)
	ins, macros, err := DecodeFull(b)
	require.NoError(t, err)
	assert.Equal(t, "lead", ins.Name)
	assert.Equal(t, TypeFM, ins.Type)
	assert.Equal(t, uint8(3), ins.FM.Alg)
	assert.Equal(t, uint8(20), ins.FM.Op[0].AR)

	require.Len(t, macros, 2, "empty arp macro is skipped")
	assert.Equal(t, macro.KindVol, macros[0].Kind)
	assert.Equal(t, 3, macros[0].Len)
	assert.Equal(t, 1, macros[0].Loop)
	assert.Equal(t, -1, macros[0].Rel)
	assert.Equal(t, macro.KindDuty, macros[1].Kind)
	assert.Equal(t, 2, macros[1].Speed)
}

func TestDecodeFull_BadMagic(t *testing.T) {
	_, _, err := DecodeFull(make([]byte, 32))
	assert.ErrorIs(t, err, ErrBadMagic)
	_, _, err = DecodeFull([]byte{0xF0, 0xB1})
	assert.ErrorIs(t, err, ErrShortBlob)
}

func waveBlob(top int32, vals ...int32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(vals)))
	b = binary.LittleEndian.AppendUint32(b, uint32(top))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func TestWavetable(t *testing.T) {
	var w Wavetable
	require.NoError(t, w.UnmarshalBinary(waveBlob(15, 0, 5, 10, 15)))
	assert.Equal(t, 4, w.Len)
	assert.Equal(t, int32(10), w.Sample(1<<15, 16))
	assert.Equal(t, int32(15), w.Sample(0xFFFF, 16))
	assert.InDelta(t, 1.0, w.Normalized(3), 1e-6)
	assert.InDelta(t, -1.0, w.Normalized(0), 1e-6)

	// header without payload keeps the header and no data
	require.NoError(t, w.UnmarshalBinary(waveBlob(15, 1, 2)[:12]))
	assert.Equal(t, 2, w.Len)
	assert.Zero(t, w.Data[0])

	assert.ErrorIs(t, w.UnmarshalBinary([]byte{1, 2}), ErrShortBlob)
	var empty *Wavetable
	assert.Zero(t, empty.Sample(100, 16))
}

func sampleBlob(n int, depth Depth, payload []byte) []byte {
	h := make([]byte, sampleHeaderSize)
	binary.LittleEndian.PutUint32(h, uint32(n))
	h[12] = byte(depth)
	return append(h, payload...)
}

func TestDepth_PayloadSize(t *testing.T) {
	tests := []struct {
		depth Depth
		n     int
		want  int
	}{
		{Depth1Bit, 9, 2},
		{DepthDPCM, 16, 2},
		{DepthADPCMA, 5, 3},
		{DepthVOX, 4, 2},
		{Depth8Bit, 7, 7},
		{DepthMuLaw, 7, 7},
		{DepthBRR, 17, 18},
		{Depth12Bit, 3, 6},
		{Depth16Bit, 3, 6},
		{Depth(2), 3, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.depth.PayloadSize(tt.n), "depth %d", tt.depth)
	}
}

func TestSample_Unmarshal(t *testing.T) {
	h := sampleBlob(4, Depth8Bit, []byte{0x7F, 0x80, 0x00, 0x01, 0xEE})
	binary.LittleEndian.PutUint32(h[4:], 1)
	binary.LittleEndian.PutUint32(h[8:], 3)
	h[13] = byte(LoopForward)
	binary.LittleEndian.PutUint32(h[16:], 22050)
	h[22] = 1

	var s Sample
	require.NoError(t, s.UnmarshalBinary(h))
	assert.Equal(t, 4, s.Samples)
	assert.Equal(t, 22050, s.CenterRate)
	assert.Len(t, s.Data, 4, "payload is sized by depth")
	assert.Equal(t, []int16{0x7F00, -0x8000, 0, 0x0100}, s.PCM())

	start, end, ok := s.LoopBounds()
	assert.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)
}

func TestSample_LengthLimit(t *testing.T) {
	var s Sample
	for _, n := range []uint32{MaxSamples + 1, 0xFFFFFFFF} {
		blob := sampleBlob(1, Depth16Bit, []byte{0x00})
		binary.LittleEndian.PutUint32(blob, n)
		assert.ErrorIs(t, s.UnmarshalBinary(blob), ErrSampleTooLong, "%d samples", n)
		assert.Nil(t, s.Data)
	}

	blob := sampleBlob(MaxSamples, Depth1Bit, []byte{0xFF})
	require.NoError(t, s.UnmarshalBinary(blob))
	assert.Len(t, s.Data, (MaxSamples+7)/8)
}

func TestSample_ShortPayloadZeroPadded(t *testing.T) {
	var s Sample
	require.NoError(t, s.UnmarshalBinary(sampleBlob(4, Depth16Bit, []byte{0x00, 0x40})))
	assert.Equal(t, []int16{0x4000, 0, 0, 0}, s.PCM())
}

func TestSample_Decoders(t *testing.T) {
	t.Run("1bit", func(t *testing.T) {
		pcm := decodePCM(Depth1Bit, []byte{0b101}, 3)
		assert.Equal(t, []int16{0x7FFF, -0x7FFF, 0x7FFF}, pcm)
	})
	t.Run("dpcm", func(t *testing.T) {
		pcm := decodePCM(DepthDPCM, []byte{0b0011}, 4)
		assert.Equal(t, []int16{2 << 9, 4 << 9, 2 << 9, 0}, pcm)
	})
	t.Run("mulaw", func(t *testing.T) {
		pcm := decodePCM(DepthMuLaw, []byte{0xFF, 0x7F, 0x00, 0x80}, 4)
		assert.Equal(t, int16(0), pcm[0])
		assert.Equal(t, int16(0), pcm[1])
		assert.Equal(t, int16(-32124), pcm[2])
		assert.Equal(t, int16(32124), pcm[3])
	})
	t.Run("4bit", func(t *testing.T) {
		pcm := decodePCM(Depth4Bit, []byte{0xF8}, 2)
		assert.Equal(t, []int16{0, 0x7000}, pcm)
	})
	t.Run("12bit", func(t *testing.T) {
		pcm := decodePCM(Depth12Bit, []byte{0x3F, 0x12}, 1)
		assert.Equal(t, []int16{0x1230}, pcm)
	})
	t.Run("ima rises on positive codes", func(t *testing.T) {
		pcm := decodePCM(DepthIMA, []byte{0x77, 0x77}, 4)
		for i := 1; i < len(pcm); i++ {
			assert.Greater(t, pcm[i], pcm[i-1])
		}
	})
	t.Run("brr", func(t *testing.T) {
		blk := []byte{0xC0, 0x10, 0, 0, 0, 0, 0, 0, 0xF0}
		pcm := decodePCM(DepthBRR, blk, 16)
		assert.Equal(t, int16(4096), pcm[0])
		assert.Equal(t, int16(-4096), pcm[14])
		assert.Zero(t, pcm[1])
	})
	t.Run("chip adpcm is silent", func(t *testing.T) {
		assert.Equal(t, []int16{0, 0}, decodePCM(DepthADPCMB, []byte{0x77}, 2))
	})
}

func TestBank(t *testing.T) {
	var logs bytes.Buffer
	b := New(log.New(&logs, "", 0))

	assert.False(t, b.HasInstrument(3))
	assert.Equal(t, TypeSTD, b.Instrument(3).Type)

	require.NoError(t, b.LoadInstrument(3, "c64", make([]byte, 15)))
	assert.Equal(t, TypeC64, b.Instrument(3).Type)

	// a failed upload leaves the previous instrument in place
	assert.Error(t, b.LoadInstrument(3, "c64", make([]byte, 2)))
	assert.Equal(t, TypeC64, b.Instrument(3).Type)

	b.SetInstrument(1, &Instrument{Type: TypeGB})
	assert.Equal(t, []int{1, 3}, b.Instruments())

	require.NoError(t, b.LoadWavetable(0, waveBlob(3, 0, 3)))
	assert.Equal(t, 2, b.Wavetable(0).Len)
	assert.Zero(t, b.Wavetable(9).Len)

	require.NoError(t, b.LoadSample(5, sampleBlob(2, Depth(99), []byte{1, 0, 2, 0})))
	assert.Contains(t, logs.String(), "unknown depth 99")
	assert.Equal(t, []int16{1, 2}, b.Sample(5).PCM())
	assert.Equal(t, 6, b.NumSamples())
	assert.Nil(t, b.Sample(4).PCM())

	b.Clear()
	assert.False(t, b.HasInstrument(3))
	assert.Zero(t, b.NumSamples())
}
