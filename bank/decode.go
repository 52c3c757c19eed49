package bank

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrShortBlob is returned when an upload blob is shorter than its
	// layout requires.
	ErrShortBlob = errors.New("blob too short")

	// ErrSampleTooLong is returned for a sample longer than MaxSamples.
	ErrSampleTooLong = errors.New("sample too long")

	// ErrUnknownFamily is returned for an instrument family with no decoder.
	ErrUnknownFamily = errors.New("unknown instrument family")
)

// family describes how one instrument family is laid out on the wire.
type family struct {
	min    int
	typ    Type
	decode func(ins *Instrument, b []byte)
}

var families = map[string]family{
	"fm":          {16, TypeFM, decodeFM},
	"opl":         {6, TypeOPL, decodeOPL},
	"opm":         {18, TypeOPM, decodeOPM},
	"opz":         {18, TypeOPZ, decodeOPZ},
	"opll":        {1, TypeOPLL, decodeOPLL},
	"opldrums":    {1, TypeOPLDrums, decodeOPLDrums},
	"esfm":        {2, TypeESFM, decodeESFM},
	"gb":          {8, TypeGB, decodeGB},
	"c64":         {15, TypeC64, decodeC64},
	"std":         {1, TypeSTD, decodeSTD},
	"amiga":       {5, TypeAmiga, decodeAmigaTyped},
	"nes":         {1, TypeNES, decodeNES},
	"5e01":        {1, TypeNES, nil},
	"snes":        {10, TypeSNES, decodeSNES},
	"n163":        {15, TypeN163, decodeN163},
	"fds":         {42, TypeFDS, decodeFDS},
	"pce":         {1, TypePCE, decodePCE},
	"scc":         {1, TypeSCC, decodeWaveLen},
	"namco":       {1, TypeNamco, decodeWaveLen},
	"vera":        {2, TypeVERA, decodeWaveLen},
	"swan":        {2, TypeSwan, decodeWaveLen},
	"vboy":        {2, TypeVBoy, decodeWaveLen},
	"multipcm":    {11, TypeMultiPCM, decodeMultiPCM},
	"es5506":      {13, TypeES5506, decodeES5506},
	"wavesynth":   {16, TypeSTD, decodeWaveSynth},
	"su":          {3, TypeSU, decodeSU},
	"x1010":       {5, TypeX1010, decodeX1010},
	"qsound":      {4, TypeQSound, decodeSampleNoteMap},
	"segapcm":     {4, TypeSegaPCM, decodeSampleNoteMap},
	"rf5c68":      {4, TypeRF5C68, decodeSampleFlag},
	"msm6295":     {4, TypeMSM6295, decodeSampleRef},
	"msm6258":     {4, TypeMSM6258, decodeSampleRef},
	"k007232":     {4, TypeK007232, decodeSampleRef},
	"k053260":     {4, TypeK053260, decodeSampleRef},
	"ga20":        {4, TypeGA20, decodeSampleRef},
	"c140":        {4, TypeC140, decodeSampleRef},
	"nds":         {4, TypeNDS, decodeSampleRef},
	"gbadma":      {4, TypeGBADMA, decodeSampleRef},
	"gbaminmod":   {4, TypeGBAMinMod, decodeSampleRef},
	"adpcma":      {1, TypeADPCMA, decodeSampleIndex},
	"adpcmb":      {1, TypeADPCMB, decodeSampleIndex},
	"ymz280b":     {1, TypeYMZ280B, decodeSampleIndex},
	"c219":        {1, TypeC219, decodeSampleIndex},
	"powernoise":  {2, TypePowerNoise, decodePowerNoise},
	"pnslope":     {1, TypePowerNoiseSlope, decodeSlope},
	"sid2":        {4, TypeSID2, decodeSID2},
	"sid3":        {20, TypeSID3, decodeSID3},
	"ay":          {1, TypeAY, nil},
	"ay8930":      {1, TypeAY8930, nil},
	"tia":         {1, TypeTIA, nil},
	"saa1099":     {1, TypeSAA1099, nil},
	"vic":         {1, TypeVIC, nil},
	"pet":         {1, TypePET, nil},
	"vrc6":        {1, TypeVRC6, nil},
	"vrc6saw":     {1, TypeVRC6Saw, nil},
	"pokey":       {1, TypePOKEY, nil},
	"mikey":       {1, TypeMikey, nil},
	"beeper":      {1, TypeBeeper, nil},
	"msm5232":     {1, TypeMSM5232, nil},
	"t6w28":       {1, TypeT6W28, nil},
	"pokemini":    {1, TypePokeMini, nil},
	"sm8521":      {1, TypeSM8521, nil},
	"pv1000":      {1, TypePV1000, nil},
	"ted":         {1, TypeTED, nil},
	"dave":        {1, TypeDave, nil},
	"bifurcator":  {1, TypeBifurcator, nil},
	"supervision": {1, TypeSupervision, nil},
	"upd1771c":    {1, TypeUPD1771C, nil},
}

// Families returns the names accepted by Decode, sorted.
func Families() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Decode parses an instrument blob of the named family into a new
// instrument.
func Decode(name string, b []byte) (*Instrument, error) {
	f, ok := families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	if len(b) < f.min {
		return nil, fmt.Errorf("%s instrument: %w (%d < %d)", name, ErrShortBlob, len(b), f.min)
	}
	ins := newInstrument(f.typ)
	if f.decode != nil {
		f.decode(ins, b)
	}
	return ins, nil
}

// newInstrument returns an empty instrument with every FM operator enabled.
func newInstrument(t Type) *Instrument {
	ins := &Instrument{Type: t}
	for i := range ins.FM.Op {
		ins.FM.Op[i].Enable = true
	}
	return ins
}

func u16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
func i16(b []byte, off int) int16  { return int16(binary.LittleEndian.Uint16(b[off:])) }
func i32(b []byte, off int) int32  { return int32(binary.LittleEndian.Uint32(b[off:])) }
func u32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }

func flag(b byte, bit uint) bool { return b&(1<<bit) != 0 }

func decodeGB(ins *Instrument, b []byte) {
	g := &ins.GB
	g.EnvVol, g.EnvDir, g.EnvLen, g.SoundLen = b[0], b[1], b[2], b[3]
	g.SoftEnv, g.AlwaysInit, g.DoubleWave = b[4] != 0, b[5] != 0, b[6] != 0
	n := int(b[7])
	if len(b) < 8+n*2 {
		return
	}
	for i := 0; i < n; i++ {
		g.HWSeq[i] = GBHWSeq{Cmd: b[8+i*2], Data: uint16(b[9+i*2])}
	}
	g.HWSeqLen = n
}

// decodeC64Body reads the 14-byte C64 block shared by the C64 setter and
// the chip section of a full instrument.
func decodeC64Body(c *C64, b []byte) {
	c.TriOn, c.SawOn, c.PulseOn, c.NoiseOn = flag(b[0], 0), flag(b[0], 1), flag(b[0], 2), flag(b[0], 3)
	c.A, c.D, c.S, c.R = b[1], b[2], b[3], b[4]
	c.Duty = u16(b, 5)
	c.RingMod, c.OscSync = b[7], b[8]
	c.ToFilter, c.InitFilter = flag(b[9], 0), flag(b[9], 1)
	c.DutyIsAbs, c.FilterIsAbs = flag(b[9], 2), flag(b[9], 3)
	c.NoTest, c.ResetDuty = flag(b[9], 4), flag(b[9], 5)
	c.Res = b[10]
	c.Cut = u16(b, 11)
	c.HP, c.LP, c.BP, c.Ch3Off = flag(b[13], 0), flag(b[13], 1), flag(b[13], 2), flag(b[13], 3)
}

func decodeC64(ins *Instrument, b []byte) {
	decodeC64Body(&ins.C64, b[1:])
}

// decodeAmiga reads the 5-byte sample reference block at b and, when the
// note map flag is set and the data is long enough, the note map after it.
func decodeAmiga(a *Amiga, b []byte) {
	a.InitSample = i16(b, 0)
	a.UseNoteMap, a.UseSample, a.UseWave = flag(b[2], 0), flag(b[2], 1), flag(b[2], 2)
	a.WaveLen = b[3]
	if a.UseNoteMap && len(b) >= 4+NoteMapSize*8 {
		decodeNoteMap(a, b[4:])
	}
}

func decodeNoteMap(a *Amiga, b []byte) {
	for i := range a.NoteMap {
		e := b[i*8:]
		a.NoteMap[i] = NoteMapEntry{
			Freq:      i32(e, 0),
			Map:       i16(e, 4),
			DPCMFreq:  int8(e[6]),
			DPCMDelta: int8(e[7]),
		}
	}
}

func decodeAmigaTyped(ins *Instrument, b []byte) {
	ins.Type = Type(b[0])
	decodeAmiga(&ins.Amiga, b[1:])
}

func decodeNES(ins *Instrument, b []byte) {
	if len(b) >= 6 {
		decodeAmiga(&ins.Amiga, b[1:])
	}
}

// decodeSTD reads a generic instrument: its type byte and, when present,
// an inline sample reference with its own flag order.
func decodeSTD(ins *Instrument, b []byte) {
	ins.Type = Type(b[0])
	if len(b) < 5 {
		return
	}
	a := &ins.Amiga
	a.InitSample = i16(b, 1)
	a.UseSample, a.UseWave, a.UseNoteMap = flag(b[3], 0), flag(b[3], 1), flag(b[3], 2)
	a.WaveLen = b[4]
}

func decodePCE(ins *Instrument, b []byte) {
	if len(b) < 3 {
		return
	}
	ins.Amiga.UseSample, ins.Amiga.UseWave = flag(b[1], 0), flag(b[1], 1)
	ins.Amiga.WaveLen = b[2]
}

func decodeWaveLen(ins *Instrument, b []byte) {
	if len(b) >= 2 {
		ins.Amiga.WaveLen = b[1]
	}
}

func decodeSNES(ins *Instrument, b []byte) {
	s := &ins.SNES
	s.UseEnv = b[1] != 0
	s.Sus, s.GainMode, s.Gain = b[2], b[3], b[4]
	s.A, s.D, s.S, s.R, s.D2 = b[5], b[6], b[7], b[8], b[9]
	if len(b) >= 15 {
		decodeAmiga(&ins.Amiga, b[10:])
	}
}

func decodeN163(ins *Instrument, b []byte) {
	n := &ins.N163
	n.Wave, n.WavePos, n.WaveLen = i32(b, 1), i32(b, 5), i32(b, 9)
	n.WaveMode = b[13]
	n.PerChanPos = b[14] != 0
	if len(b) < 79 {
		return
	}
	for i := range n.WavePosCh {
		n.WavePosCh[i] = i32(b, 15+i*4)
		n.WaveLenCh[i] = i32(b, 47+i*4)
	}
}

func decodeFDSBody(f *FDS, b []byte) {
	f.ModSpeed, f.ModDepth = i32(b, 0), i32(b, 4)
	f.InitModTable = b[8] != 0
	for i := range f.ModTable {
		f.ModTable[i] = int8(b[9+i])
	}
}

func decodeFDS(ins *Instrument, b []byte) {
	decodeFDSBody(&ins.FDS, b[1:])
}

func decodeMultiPCM(ins *Instrument, b []byte) {
	m := &ins.MultiPCM
	m.AR, m.D1R, m.DL, m.D2R, m.RR, m.RC = b[1], b[2], b[3], b[4], b[5], b[6]
	m.LFO, m.VIB, m.AM = b[7], b[8], b[9]
	m.Damp, m.PseudoReverb = flag(b[10], 0), flag(b[10], 1)
	m.LFOReset, m.LevelDirect = flag(b[10], 2), flag(b[10], 3)
	if len(b) >= 16 {
		decodeAmiga(&ins.Amiga, b[11:])
	}
}

func decodeES5506(ins *Instrument, b []byte) {
	e := &ins.ES5506
	e.FilterMode = b[1]
	e.K1, e.K2, e.ECount = u16(b, 2), u16(b, 4), u16(b, 6)
	e.LVRamp, e.RVRamp = int8(b[8]), int8(b[9])
	e.K1Ramp, e.K2Ramp = int8(b[10]), int8(b[11])
	e.K1Slow, e.K2Slow = flag(b[12], 0), flag(b[12], 1)
	if len(b) >= 18 {
		decodeAmiga(&ins.Amiga, b[13:])
	}
}

func decodeWaveSynth(ins *Instrument, b []byte) {
	w := &ins.WaveSynth
	w.Wave1, w.Wave2 = i32(b, 0), i32(b, 4)
	w.RateDivider, w.Effect = b[8], b[9]
	w.OneShot, w.Enabled, w.Global = flag(b[10], 0), flag(b[10], 1), flag(b[10], 2)
	w.Speed = b[11]
	w.Param1, w.Param2, w.Param3, w.Param4 = b[12], b[13], b[14], b[15]
}

func decodeSU(ins *Instrument, b []byte) {
	s := &ins.SU
	s.SwitchRoles = flag(b[1], 0)
	n := int(b[2])
	s.HWSeqLen = n
	if len(b) < 3+n*8 {
		return
	}
	s.HWSeq = make([]SUHWSeq, n)
	for i := range s.HWSeq {
		e := b[3+i*8:]
		s.HWSeq[i] = SUHWSeq{Cmd: e[0], Bound: e[1], Val: e[2], Speed: u16(e, 3)}
	}
}

func decodeX1010(ins *Instrument, b []byte) {
	ins.X1010.BankSlot = i32(b, 1)
}

func decodeSampleNoteMap(ins *Instrument, b []byte) {
	ins.Amiga.InitSample = i16(b, 1)
	ins.Amiga.UseSample, ins.Amiga.UseNoteMap = flag(b[3], 0), flag(b[3], 1)
}

func decodeSampleFlag(ins *Instrument, b []byte) {
	ins.Amiga.InitSample = i16(b, 1)
	ins.Amiga.UseSample = flag(b[3], 0)
}

func decodeSampleRef(ins *Instrument, b []byte) {
	ins.Amiga.InitSample = i16(b, 1)
	ins.Amiga.UseSample = true
}

// decodeSampleIndex reads a bare sample index with no type byte.
func decodeSampleIndex(ins *Instrument, b []byte) {
	if len(b) >= 4 {
		ins.Amiga.InitSample = i16(b, 0)
	}
}

func decodeSlope(ins *Instrument, b []byte) {
	if len(b) >= 2 {
		ins.PowerNoise.Octave = b[0]
	}
}

func decodePowerNoise(ins *Instrument, b []byte) {
	ins.Type = Type(b[0])
	ins.PowerNoise.Octave = b[1]
}

func decodeSID2(ins *Instrument, b []byte) {
	ins.SID2 = SID2{Volume: b[1], MixMode: b[2], NoiseMode: b[3]}
}

func decodeSID3(ins *Instrument, b []byte) {
	s := &ins.SID3
	s.TriOn, s.SawOn, s.PulseOn, s.NoiseOn = flag(b[1], 0), flag(b[1], 1), flag(b[1], 2), flag(b[1], 3)
	s.A, s.D, s.S, s.R, s.SR = b[2], b[3], b[4], b[5], b[6]
	s.Duty = u16(b, 7)
	s.RingMod, s.OscSync = b[9], b[10]
	s.PhaseMod = flag(b[11], 0)
	s.FilterOn = flag(b[12], 0)
	s.Cutoff = u16(b, 13)
	s.Resonance = b[15]
}
