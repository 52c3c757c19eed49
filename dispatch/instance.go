package dispatch

import (
	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/resample"
)

// Instance is one live chip: its core, the resampler feeding the host and
// the macro state of its channels.
type Instance struct {
	platform chip.Platform
	core     chip.Core
	channels int
	rate     int
	pipe     *resample.Pipeline
	driver   *Driver

	chanIns  [MaxChannels]int
	macrosOn bool
	compat   chip.CompatFlags
	tickRate float64
	tuning   float64
}

// Platform returns the platform the instance was created for.
func (in *Instance) Platform() chip.Platform { return in.platform }

// Core returns the chip core.
func (in *Instance) Core() chip.Core { return in.core }

// NumChannels returns the platform's channel count.
func (in *Instance) NumChannels() int { return in.channels }

// Rate returns the host sample rate.
func (in *Instance) Rate() int { return in.rate }

// Driver returns the channel macro driver.
func (in *Instance) Driver() *Driver { return in.driver }

// Compat returns the instance's compatibility flags. Cores read them live.
func (in *Instance) Compat() *chip.CompatFlags { return &in.compat }

// MacrosEnabled reports whether ticks run the macro driver.
func (in *Instance) MacrosEnabled() bool { return in.macrosOn }

// ChannelInstrument returns the instrument last selected on ch.
func (in *Instance) ChannelInstrument(ch int) int {
	if ch < 0 || ch >= MaxChannels {
		return 0
	}
	return in.chanIns[ch]
}

// Dispatch forwards a command to the core, starting and releasing channel
// macros on the way.
func (in *Instance) Dispatch(cmd chip.Command, ch, v1, v2 int) int {
	if in.macrosOn && ch >= 0 && ch < MaxChannels {
		switch cmd {
		case chip.CmdNoteOn:
			in.driver.NoteOn(ch, in.chanIns[ch], v1)
		case chip.CmdNoteOff, chip.CmdNoteOffEnv, chip.CmdEnvRelease:
			in.driver.Release(ch)
		case chip.CmdInstrument:
			in.chanIns[ch] = v1
		}
	}
	return in.core.Dispatch(cmd, ch, v1, v2)
}

// Tick runs one engine tick: macros first, then the core.
func (in *Instance) Tick() {
	if in.macrosOn {
		for ch := range min(in.channels, MaxChannels) {
			in.driver.Tick(ch)
		}
	}
	in.core.Tick(false)
}

// Render produces n host-rate samples. n is clamped to the output slices.
func (in *Instance) Render(outL, outR []float32, n int) {
	n = min(n, len(outL))
	if outR != nil {
		n = min(n, len(outR))
	}
	in.pipe.Render(in.core, outL, outR, n)
}

// Reset returns the core, resampler and macro driver to their initial
// state. Uploaded assets and compat flags are kept.
func (in *Instance) Reset() {
	in.core.Reset()
	in.pipe.Clear()
	in.driver.Reset()
}

// SetTickRate changes the engine tick rate.
func (in *Instance) SetTickRate(hz float64) {
	if hz <= 0 {
		return
	}
	in.tickRate = hz
	in.applyFlags()
}

// SetTuning changes the frequency of A-4.
func (in *Instance) SetTuning(a4 float64) {
	if a4 <= 0 {
		return
	}
	in.tuning = a4
	in.applyFlags()
}

func (in *Instance) applyFlags() {
	if fs, ok := in.core.(chip.FlagSetter); ok {
		fs.SetFlags(in.tickRate, in.tuning)
	}
}

// Osc returns the oscilloscope ring of ch, or nil.
func (in *Instance) Osc(ch int) *chip.OscBuffer {
	if ch < 0 || ch >= in.channels {
		return nil
	}
	return in.core.OscBuffer(ch)
}

func (in *Instance) emit(cmd chip.Command, ch, v1, v2 int) {
	in.core.Dispatch(cmd, ch, v1, v2)
}
