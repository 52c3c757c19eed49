package macro

// ADSR phases, stored in Cursor.LastPos while an ADSR macro runs.
const (
	PhaseAttack = iota
	PhaseDecay
	PhaseSustain
	PhaseRelease
	PhaseEnd
)

// LFO waveforms selected by Values[LFOWave].
const (
	WaveTriangle = iota
	WaveSaw
	WavePulse
)

// lfoPeriod is the LFO phase accumulator modulus.
const lfoPeriod = 1024

// Cursor is the runtime playback state of one macro on one channel.
type Cursor struct {
	Pos     int
	LastPos int
	LFOPos  int
	Delay   int
	Val     int32

	Has      bool // running
	Had      bool // produced a value on the last evaluation
	Finished bool // ran off the end this evaluation
	Released bool
	Masked   bool

	Mode Mode
}

// Reset returns the cursor to the idle state. Masking survives a reset.
func (c *Cursor) Reset() {
	masked := c.Masked
	*c = Cursor{Masked: masked}
}

// Start resets the cursor and arms it for def. Definitions with no values
// leave the cursor idle.
func (c *Cursor) Start(def *Definition) {
	c.Reset()
	if !def.Valid() {
		return
	}
	c.Has = true
	c.Mode = def.Mode
	c.Delay = def.Delay
	if def.Mode == ModeLFO {
		c.LFOPos = int(def.Values[LFOPhase]) & (lfoPeriod - 1)
	}
}

// Evaluate advances the cursor by one tick and returns the current value and
// whether a value was produced this tick. released is the owning channel's
// note-off state.
func (c *Cursor) Evaluate(def *Definition, released bool) (int32, bool) {
	c.Finished = false
	if !c.Has || c.Masked || def == nil {
		c.Had = false
		return c.Val, false
	}
	c.Released = released

	if released {
		switch c.Mode {
		case ModeSequence:
			if rel := def.releasePoint(); rel >= 0 && c.Pos < rel && def.ActiveRelease() {
				c.Delay = 0
				c.Pos = rel
			}
		case ModeADSR:
			if c.LastPos < PhaseRelease {
				c.Delay = 0
				c.LastPos = PhaseRelease
			}
		}
	}

	if c.Delay > 0 {
		c.Delay--
		return c.Val, c.Had
	}
	c.Delay = def.Speed - 1
	c.Had = true

	switch c.Mode {
	case ModeSequence:
		c.stepSequence(def, released)
	case ModeADSR:
		c.stepADSR(def)
	case ModeLFO:
		c.stepLFO(def)
	default:
		c.stepSequence(def, released)
	}
	return c.Val, c.Had
}

func (c *Cursor) stepSequence(def *Definition, released bool) {
	c.LastPos = c.Pos
	if c.Pos < def.Len {
		c.Val = def.Values[c.Pos]
		c.Pos++
	}

	loop := def.loopPoint()
	if rel := def.releasePoint(); !released && rel >= 0 && c.Pos > rel {
		if loop >= 0 && loop < rel {
			c.Pos = loop
		} else {
			c.Pos--
		}
	}

	if c.Pos >= def.Len {
		if loop >= 0 {
			c.Pos = loop
		} else {
			c.Has = false
			c.Finished = true
		}
	}
}

func (c *Cursor) stepADSR(def *Definition) {
	v := &def.Values
	switch c.LastPos {
	case PhaseAttack:
		c.Pos += int(v[ADSRAttack])
		if c.Pos > 255 {
			c.Pos = 255
			c.LastPos = PhaseDecay
			c.Delay = int(v[ADSRHold])
		}
	case PhaseDecay:
		c.Pos -= int(v[ADSRDecay])
		if sl := int(v[ADSRSustain]); c.Pos <= sl {
			c.Pos = sl
			c.LastPos = PhaseSustain
			c.Delay = int(v[ADSRSustainTime])
		}
	case PhaseSustain:
		c.Pos -= int(v[ADSRSustainRate])
		if c.Pos < 0 {
			c.Pos = 0
			c.LastPos = PhaseEnd
		}
	case PhaseRelease:
		c.Pos -= int(v[ADSRRelease])
		if c.Pos < 0 {
			c.Pos = 0
			c.LastPos = PhaseEnd
		}
	default:
		c.Pos = 0
		c.Has = false
		c.Finished = true
	}
	c.Val = scale(v[ParamLow], v[ParamHigh], c.Pos)
}

func (c *Cursor) stepLFO(def *Definition) {
	v := &def.Values
	c.LFOPos = (c.LFOPos + int(v[LFOSpeed])) & (lfoPeriod - 1)

	var shaped int
	switch v[LFOWave] & 3 {
	case WaveTriangle:
		if c.LFOPos&512 != 0 {
			shaped = (1023 - c.LFOPos) >> 1
		} else {
			shaped = c.LFOPos >> 1
		}
	case WaveSaw:
		shaped = c.LFOPos >> 2
	case WavePulse:
		if c.LFOPos&512 != 0 {
			shaped = 255
		}
	}
	c.Val = scale(v[ParamLow], v[ParamHigh], shaped)
}

// scale maps pos (0..255) onto the low/high output bounds.
func scale(low, high int32, pos int) int32 {
	p := int64(pos)
	if high > low {
		return low + int32((p*int64(high-low))>>8)
	}
	return high + int32(((255-p)*int64(low-high))>>8)
}
