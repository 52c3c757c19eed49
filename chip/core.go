// Package chip implements the sound chip cores driven by the dispatch
// layer. Every core accepts channel commands, advances on engine ticks and
// renders audio at its native rate, either into raw sample buffers or as
// band-limited steps written straight into blip buffers.
package chip

import (
	"errors"
	"fmt"
	"log"

	"github.com/arl/blip"

	"github.com/user-none/emdispatch/bank"
)

// ErrUnknownPlatform is returned by New for a platform without a core.
var ErrUnknownPlatform = errors.New("no core for platform")

// MaxOutputs is the largest output count the pipeline consumes.
const MaxOutputs = 2

// Config carries everything a core needs at Init. Bank and Compat are
// shared with the owning instance and may change between calls.
type Config struct {
	Channels int
	Rate     int // host sample rate
	TickRate float64
	Tuning   float64
	Bank     *bank.Bank
	Compat   *CompatFlags
	Logger   *log.Logger
}

// Core is one emulated sound chip.
type Core interface {
	// Init prepares the core. It must be called once before anything else.
	Init(cfg Config) error
	// Dispatch applies a channel command and returns its result.
	Dispatch(cmd Command, ch, v1, v2 int) int
	// Tick advances per-tick state such as slides and envelopes.
	Tick(sysTick bool)
	// Acquire renders n native-rate samples into bufs[0:OutputCount()].
	Acquire(bufs [][]int16, n int)
	OutputCount() int
	// Rate is the native sample rate in Hz.
	Rate() int
	OscBuffer(ch int) *OscBuffer
	Mute(ch int, mute bool)
	// Poke writes a raw chip register.
	Poke(addr, val int)
	Reset()
	Quit()
}

// DirectAcquirer is implemented by cores that emit deltas into blip
// buffers themselves. Time stamps are in native samples.
type DirectAcquirer interface {
	AcquireDirect(bufs []*blip.Buffer, n int)
}

// QualitySetter is implemented by cores whose rate depends on a quality
// setting chosen before Init.
type QualitySetter interface {
	SetCoreQuality(q int)
}

// FlagSetter is implemented by cores that recompute state when the tick
// rate or tuning change.
type FlagSetter interface {
	SetFlags(tickRate, tuning float64)
}

// InstrumentForcer is implemented by cores that can reapply every
// channel's instrument on the next note.
type InstrumentForcer interface {
	ForceIns()
}

// Constructor builds an uninitialised core for a platform.
type Constructor func(p Platform) Core

var constructors = map[Platform]Constructor{
	PlatformGenesis:    newGenesisCore,
	PlatformYM2612:     newGenesisCore,
	PlatformSMS:        newSNCore,
	PlatformT6W28:      newSNCore,
	PlatformNamco:      newWSGCore,
	PlatformNamco15XX:  newWSGCore,
	PlatformNamcoCUS30: newWSGCore,
	PlatformPCMDAC:     newPCMDACCore,
	PlatformDummy:      newDummyCore,
}

// Register installs or replaces the constructor for p.
func Register(p Platform, c Constructor) {
	constructors[p] = c
}

// Supported reports whether p has a core.
func Supported(p Platform) bool {
	_, ok := constructors[p]
	return ok && ChannelCount(p) > 0
}

// New constructs the core for p.
func New(p Platform) (Core, error) {
	c, ok := constructors[p]
	if !ok || ChannelCount(p) == 0 {
		return nil, fmt.Errorf("%w %v", ErrUnknownPlatform, p)
	}
	return c(p), nil
}

// NeedsQuality reports whether p must be given a core quality before Init.
func NeedsQuality(p Platform) bool {
	switch p {
	case PlatformGB, PlatformC64SID6581, PlatformC64SID8580, PlatformC64PCM,
		PlatformSAA1099, PlatformPowerNoise:
		return true
	}
	return false
}

// DefaultQuality is the pre-Init quality applied by the dispatch layer.
const DefaultQuality = 3

// withDefaults fills the zero fields of cfg.
func withDefaults(cfg Config) Config {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Bank == nil {
		cfg.Bank = bank.New(cfg.Logger)
	}
	if cfg.Compat == nil {
		f := DefaultCompatFlags()
		cfg.Compat = &f
	}
	if cfg.Tuning <= 0 {
		cfg.Tuning = DefaultTuning
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 44100
	}
	return cfg
}

var (
	_ Core           = (*genesisCore)(nil)
	_ Core           = (*snCore)(nil)
	_ Core           = (*wsgCore)(nil)
	_ Core           = (*pcmDACCore)(nil)
	_ Core           = (*dummyCore)(nil)
	_ DirectAcquirer = (*snCore)(nil)
	_ FlagSetter     = (*genesisCore)(nil)
	_ FlagSetter     = (*snCore)(nil)
	_ FlagSetter     = (*wsgCore)(nil)
	_ FlagSetter     = (*pcmDACCore)(nil)
	_ FlagSetter     = (*dummyCore)(nil)
	_ QualitySetter  = (*dummyCore)(nil)

	_ InstrumentForcer = (*genesisCore)(nil)
)
