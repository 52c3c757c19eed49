package chip

import (
	"math"

	sn76489 "github.com/user-none/go-chip-sn76489"
)

const (
	snGain     = 1898.0 // peak output of one channel
	snChannels = 4
	snMaxVol   = 15
	snChunk    = 512 // samples rendered per PSG run
	snNoise    = 3
)

// Noise mode bits of CmdStdNoiseMode.
const (
	NoiseWhite   = 1
	NoiseUseTone = 2 // clock the noise from tone channel 3
)

// snVoice is the per-channel state of the PSG driver.
type snVoice struct {
	note, pitch int
	vol         int
	active      bool
	period      int
	freqChanged bool
	volChanged  bool
}

// snVoices drives the four PSG channels through the chip's write port and
// pulls its output at a fixed rate.
type snVoices struct {
	psg    *sn76489.SN76489
	clock  int
	rate   int
	frac   int
	tuning float64
	compat *CompatFlags

	ch        [snChannels]snVoice
	muted     [snChannels]bool
	noiseMode int

	pending []float32
	last    int16
}

func newSNVoices(clock, rate int, cfg Config) *snVoices {
	s := &snVoices{clock: clock, rate: rate, tuning: cfg.Tuning, compat: cfg.Compat}
	s.reset()
	return s
}

func (s *snVoices) reset() {
	s.psg = sn76489.New(s.clock, s.rate, snChunk*2, sn76489.Sega)
	s.psg.SetGain(snGain)
	s.frac = 0
	s.pending = s.pending[:0]
	s.last = 0
	s.noiseMode = 0
	for i := range s.ch {
		s.ch[i] = snVoice{vol: snMaxVol}
		s.psg.Write(byte(0x90 | i<<5 | 0x0F))
	}
}

// period converts a note to a tone divider, applying non-linear pitch as a
// divider offset.
func (s *snVoices) period(note, pitch int) int {
	freq, off := pitchedFreq(note, pitch, s.compat.Int(CompatLinearPitch) != PitchNonLinear, s.tuning)
	p := int(math.Round(float64(s.clock)/(32*freq))) - off
	lo := 1
	if s.compat.Bool(CompatSNNoLowPeriods) {
		lo = 8
	}
	return clampInt(p, lo, 1023)
}

func (s *snVoices) dispatch(cmd Command, c, v1, v2 int) int {
	if c < 0 || c >= snChannels {
		return 0
	}
	v := &s.ch[c]
	switch cmd {
	case CmdNoteOn:
		if v1 != NoteNull {
			v.note = clampInt(v1, 0, maxNote)
			v.freqChanged = true
		}
		v.active = true
		v.volChanged = true
	case CmdNoteOff, CmdNoteOffEnv:
		v.active = false
		v.volChanged = true
	case CmdVolume:
		v.vol = clampInt(v1, 0, snMaxVol)
		v.volChanged = true
	case CmdGetVolume:
		return v.vol
	case CmdGetVolMax:
		return snMaxVol
	case CmdPitch:
		v.pitch = v1
		v.freqChanged = true
	case CmdLegato:
		v.note = clampInt(v1, 0, maxNote)
		v.freqChanged = true
	case CmdNotePorta:
		if v1 == PhaseReset && v2 == 0 {
			return 1
		}
		return s.porta(c, v1, v2)
	case CmdWave, CmdStdNoiseMode:
		if c == snNoise {
			s.noiseMode = v1 & 3
			v.freqChanged = true
		}
	default:
		return 0
	}
	return 1
}

// porta slides the divider toward target by speed per call and reports 2
// once it arrives.
func (s *snVoices) porta(c, speed, target int) int {
	v := &s.ch[c]
	dest := s.period(target, 0)
	cur := s.period(v.note, v.pitch)
	if v.period != 0 {
		cur = v.period
	}
	cur, done := slide(cur, dest, speed)
	v.period = cur
	s.writeTone(v, c)
	if done {
		v.note = target
		v.pitch = 0
		v.period = 0
		return 2
	}
	return 1
}

// tick flushes pending frequency and volume changes to the chip.
func (s *snVoices) tick() {
	for i := range s.ch {
		v := &s.ch[i]
		if v.freqChanged {
			v.freqChanged = false
			v.period = 0
			s.writeTone(v, i)
		}
		if v.volChanged {
			v.volChanged = false
			s.writeVolume(i)
		}
	}
}

func (s *snVoices) writeTone(v *snVoice, c int) {
	p := v.period
	if p == 0 {
		p = s.period(v.note, v.pitch)
	}
	if c != snNoise {
		s.psg.Write(byte(0x80 | c<<5 | p&0x0F))
		s.psg.Write(byte(p >> 4 & 0x3F))
		return
	}
	ctl := 0xE0
	if s.noiseMode&NoiseWhite != 0 {
		ctl |= 0x04
	}
	if s.noiseMode&NoiseUseTone != 0 {
		// the noise borrows tone channel 3's divider
		s.psg.Write(byte(0xC0 | p&0x0F))
		s.psg.Write(byte(p >> 4 & 0x3F))
		ctl |= 0x03
	} else {
		ctl |= clampInt(2-(v.note-NoteC4)/12, 0, 2)
	}
	s.psg.Write(byte(ctl))
}

func (s *snVoices) writeVolume(c int) {
	att := snMaxVol
	if v := &s.ch[c]; v.active && !s.muted[c] {
		att = snMaxVol - v.vol
	}
	s.psg.Write(byte(0x90 | c<<5 | att))
}

func (s *snVoices) mute(c int, m bool) {
	if c < 0 || c >= snChannels {
		return
	}
	s.muted[c] = m
	s.writeVolume(c)
}

// render runs the chip long enough to yield n samples at the configured
// rate and returns them. The slice is valid until the next call.
func (s *snVoices) render(n int) []float32 {
	for len(s.pending) < n {
		chunk := min(n-len(s.pending), snChunk)
		s.frac += chunk * s.clock
		cycles := s.frac / s.rate
		s.frac %= s.rate
		s.psg.Run(cycles)
		buf, count := s.psg.GetBuffer()
		if count == 0 {
			break
		}
		s.pending = append(s.pending, buf[:count]...)
		s.psg.ResetBuffer()
	}
	return s.pending
}

// consume drops the first n rendered samples.
func (s *snVoices) consume(n int) {
	n = min(n, len(s.pending))
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
}

// sample returns rendered sample i, holding the last value when the chip
// produced fewer samples than asked for.
func (s *snVoices) sample(buf []float32, i int) int16 {
	if i < len(buf) {
		s.last = int16(clampInt(int(buf[i]), -32768, 32767))
	}
	return s.last
}
