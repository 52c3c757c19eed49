package bank

// Instrument is the chip-facing description of one instrument. Only the
// block matching Type is meaningful; the rest keep their zero values.
type Instrument struct {
	Type Type
	Name string

	FM         FM
	ESFM       ESFM
	GB         GB
	C64        C64
	Amiga      Amiga
	SNES       SNES
	N163       N163
	FDS        FDS
	MultiPCM   MultiPCM
	ES5506     ES5506
	WaveSynth  WaveSynth
	SU         SoundUnit
	X1010      X1010
	SID2       SID2
	SID3       SID3
	PowerNoise PowerNoise
}

// Operator is one FM operator. The byte order of the wire record follows
// the field order here, 24 bytes per operator.
type Operator struct {
	Enable bool
	AM     uint8
	AR     uint8
	DR     uint8
	Mult   uint8
	RR     uint8
	SL     uint8
	TL     uint8
	DT2    uint8
	RS     uint8
	DT     int8
	D2R    uint8
	SSG    uint8
	DAM    uint8
	DVB    uint8
	EGT    uint8
	KSL    uint8
	SUS    uint8
	VIB    uint8
	WS     uint8
	KSR    uint8
	KVS    uint8
}

// FM holds the patch shared by the OPN/OPM/OPL/OPZ family.
type FM struct {
	Alg, FB      uint8
	FMS, AMS     uint8
	FMS2, AMS2   uint8
	Ops          uint8
	OPLLPreset   uint8
	KickFreq     uint16
	SnareHatFreq uint16
	TomTopFreq   uint16
	FixedDrums   bool
	Op           [4]Operator
}

// ESFMOperator carries the per-operator extensions of the ESFM.
type ESFMOperator struct {
	Delay, OutLvl, ModIn uint8
	Left, Right, Fixed   bool
	CT, DT               int8
}

type ESFM struct {
	Noise uint8
	Op    [4]ESFMOperator
}

// GBHWSeq is one step of the Game Boy hardware sequence.
type GBHWSeq struct {
	Cmd  uint8
	Data uint16
}

type GB struct {
	EnvVol, EnvDir, EnvLen, SoundLen uint8
	SoftEnv, AlwaysInit, DoubleWave  bool
	HWSeqLen                         int
	HWSeq                            [256]GBHWSeq
}

type C64 struct {
	TriOn, SawOn, PulseOn, NoiseOn bool
	A, D, S, R                     uint8
	Duty                           uint16
	RingMod, OscSync               uint8
	ToFilter, InitFilter           bool
	DutyIsAbs, FilterIsAbs         bool
	NoTest, ResetDuty              bool
	Res                            uint8
	Cut                            uint16
	HP, LP, BP, Ch3Off             bool
}

// NoteMapEntry remaps one note of a sample instrument.
type NoteMapEntry struct {
	Freq      int32
	Map       int16
	DPCMFreq  int8
	DPCMDelta int8
}

// NoteMapSize is the number of notes covered by a note map.
const NoteMapSize = 120

// Amiga is the sample reference block shared by sample-based instruments.
type Amiga struct {
	InitSample int16
	UseNoteMap bool
	UseSample  bool
	UseWave    bool
	WaveLen    uint8
	NoteMap    [NoteMapSize]NoteMapEntry
}

type SNES struct {
	UseEnv        bool
	Sus, GainMode uint8
	Gain          uint8
	A, D, S, R    uint8
	D2            uint8
}

type N163 struct {
	Wave, WavePos, WaveLen int32
	WaveMode               uint8
	PerChanPos             bool
	WavePosCh              [8]int32
	WaveLenCh              [8]int32
}

type FDS struct {
	ModSpeed, ModDepth int32
	InitModTable       bool
	ModTable           [32]int8
}

type MultiPCM struct {
	AR, D1R, DL, D2R, RR, RC uint8
	LFO, VIB, AM             uint8
	Damp, PseudoReverb       bool
	LFOReset, LevelDirect    bool
}

type ES5506 struct {
	FilterMode                     uint8
	K1, K2                         uint16
	ECount                         uint16
	LVRamp, RVRamp, K1Ramp, K2Ramp int8
	K1Slow, K2Slow                 bool
}

type WaveSynth struct {
	Wave1, Wave2                   int32
	RateDivider, Effect            uint8
	OneShot, Enabled, Global       bool
	Speed                          uint8
	Param1, Param2, Param3, Param4 uint8
}

// SUHWSeq is one step of the Sound Unit hardware sequence.
type SUHWSeq struct {
	Cmd, Bound, Val uint8
	Speed           uint16
}

type SoundUnit struct {
	SwitchRoles bool
	HWSeqLen    int
	HWSeq       []SUHWSeq
}

type X1010 struct {
	BankSlot int32
}

type SID2 struct {
	Volume, MixMode, NoiseMode uint8
}

type SID3 struct {
	TriOn, SawOn, PulseOn, NoiseOn bool
	A, D, S, R, SR                 uint8
	Duty                           uint16
	RingMod, OscSync               uint8
	PhaseMod                       bool
	FilterOn                       bool
	Cutoff                         uint16
	Resonance                      uint8
}

type PowerNoise struct {
	Octave uint8
}
