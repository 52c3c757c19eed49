// Package dispatch owns live chip instances behind integer handles. It
// routes host commands to cores, runs instrument macros on every tick and
// resamples core output to the host rate.
//
// A Registry is not safe for concurrent use; the host serializes calls.
package dispatch

import (
	"log"
	"slices"

	"github.com/user-none/emdispatch/bank"
	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/macro"
	"github.com/user-none/emdispatch/resample"
)

// Options configures a Registry. Zero fields take their defaults.
type Options struct {
	Logger      *log.Logger
	BlipSize    int // step buffer length in host samples
	ScratchSize int // initial raw sample scratch per output
}

// Registry maps handles to instances and holds the assets they share:
// instrument macros and the bank of instruments, wavetables and samples.
type Registry struct {
	opts      Options
	logger    *log.Logger
	instances map[int]*Instance
	next      int

	macros *macro.Store
	bank   *bank.Bank
}

// New creates an empty registry.
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.BlipSize <= 0 {
		opts.BlipSize = resample.DefaultBlipSize
	}
	if opts.ScratchSize <= 0 {
		opts.ScratchSize = resample.DefaultRawSize
	}
	return &Registry{
		opts:      opts,
		logger:    opts.Logger,
		instances: make(map[int]*Instance),
		macros:    macro.NewStore(),
		bank:      bank.New(opts.Logger),
	}
}

// Macros returns the shared macro store.
func (r *Registry) Macros() *macro.Store { return r.macros }

// Bank returns the shared asset bank.
func (r *Registry) Bank() *bank.Bank { return r.bank }

// Create builds and initialises a core for platform p rendering at
// sampleRate. It returns the new handle, or 0 if the platform is unknown
// or the core fails to initialise.
func (r *Registry) Create(p chip.Platform, sampleRate int) int {
	channels := chip.ChannelCount(p)
	if channels == 0 {
		r.logger.Printf("Warning: create: unknown platform %d", int(p))
		return 0
	}
	if sampleRate <= 0 {
		r.logger.Printf("Warning: create %v: bad sample rate %d", p, sampleRate)
		return 0
	}
	core, err := chip.New(p)
	if err != nil {
		r.logger.Printf("Warning: create: %v", err)
		return 0
	}
	if chip.NeedsQuality(p) {
		if qs, ok := core.(chip.QualitySetter); ok {
			qs.SetCoreQuality(chip.DefaultQuality)
		}
	}

	in := &Instance{
		platform: p,
		core:     core,
		channels: channels,
		rate:     sampleRate,
		macrosOn: true,
		compat:   chip.DefaultCompatFlags(),
		tickRate: chip.DefaultTickRate,
		tuning:   chip.DefaultTuning,
	}
	err = core.Init(chip.Config{
		Channels: channels,
		Rate:     sampleRate,
		TickRate: in.tickRate,
		Tuning:   in.tuning,
		Bank:     r.bank,
		Compat:   &in.compat,
		Logger:   r.logger,
	})
	if err != nil {
		r.logger.Printf("Warning: create %v: init failed: %v", p, err)
		return 0
	}

	_, direct := core.(chip.DirectAcquirer)
	in.pipe = resample.NewSized(core.Rate(), sampleRate, core.OutputCount(), direct,
		r.opts.BlipSize, r.opts.ScratchSize)
	in.driver = NewDriver(r.macros, in.emit)

	r.next++
	r.instances[r.next] = in
	return r.next
}

// Instance returns the instance behind h, or nil.
func (r *Registry) Instance(h int) *Instance {
	return r.instances[h]
}

// Handles returns the live handles in creation order.
func (r *Registry) Handles() []int {
	hs := make([]int, 0, len(r.instances))
	for h := range r.instances {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Len returns the number of live instances.
func (r *Registry) Len() int { return len(r.instances) }

// Destroy shuts down and forgets h.
func (r *Registry) Destroy(h int) {
	in, ok := r.instances[h]
	if !ok {
		return
	}
	in.core.Quit()
	delete(r.instances, h)
}

// ClearAll destroys every instance and drops all uploaded assets. Handles
// are not reused afterwards.
func (r *Registry) ClearAll() {
	for h, in := range r.instances {
		in.core.Quit()
		delete(r.instances, h)
	}
	r.macros.ClearAll()
	r.bank.Clear()
}

// Reset resets the instance behind h.
func (r *Registry) Reset(h int) {
	if in := r.instances[h]; in != nil {
		in.Reset()
	}
}

// Dispatch sends a command to h and returns the core's result, or -1 for
// an unknown handle.
func (r *Registry) Dispatch(h int, cmd chip.Command, ch, v1, v2 int) int {
	in := r.instances[h]
	if in == nil {
		return -1
	}
	return in.Dispatch(cmd, ch, v1, v2)
}

// Tick advances h by one engine tick.
func (r *Registry) Tick(h int) {
	if in := r.instances[h]; in != nil {
		in.Tick()
	}
}

// Render writes n host-rate samples of h into outL and outR.
func (r *Registry) Render(h int, outL, outR []float32, n int) {
	if in := r.instances[h]; in != nil {
		in.Render(outL, outR, n)
	}
}

// Mute silences or restores one channel of h.
func (r *Registry) Mute(h, ch int, mute bool) {
	if in := r.instances[h]; in != nil {
		in.core.Mute(ch, mute)
	}
}

// Poke writes a raw register of h.
func (r *Registry) Poke(h, addr, val int) {
	if in := r.instances[h]; in != nil {
		in.core.Poke(addr, val)
	}
}

// NumChannels returns the channel count of h, or 0.
func (r *Registry) NumChannels(h int) int {
	if in := r.instances[h]; in != nil {
		return in.channels
	}
	return 0
}

// OscNeedle returns the oscilloscope write position of a channel of h.
func (r *Registry) OscNeedle(h, ch int) int {
	if in := r.instances[h]; in != nil {
		if o := in.Osc(ch); o != nil {
			return o.Needle
		}
	}
	return 0
}

// OscData copies the most recent len(dst) oscilloscope samples of a
// channel of h into dst and returns the count copied.
func (r *Registry) OscData(h, ch int, dst []int16) int {
	if in := r.instances[h]; in != nil {
		return in.Osc(ch).Read(dst)
	}
	return 0
}

// SetTickRate sets the engine tick rate of h in Hz.
func (r *Registry) SetTickRate(h int, hz float64) {
	if in := r.instances[h]; in != nil {
		in.SetTickRate(hz)
	}
}

// SetTuning sets the A-4 frequency of h.
func (r *Registry) SetTuning(h int, a4 float64) {
	if in := r.instances[h]; in != nil {
		in.SetTuning(a4)
	}
}

// SetCompatFlags loads a compat flag blob into h. A short blob is logged
// and ignored.
func (r *Registry) SetCompatFlags(h int, blob []byte) {
	in := r.instances[h]
	if in == nil {
		return
	}
	if err := in.compat.UnmarshalBinary(blob); err != nil {
		r.logger.Printf("Warning: handle %d: %v", h, err)
		return
	}
	in.applyFlags()
}

// SetCompatFlag sets a single compat flag of h by index.
func (r *Registry) SetCompatFlag(h, idx, val int) {
	in := r.instances[h]
	if in == nil {
		return
	}
	if idx < 0 || idx >= int(chip.NumCompatFlags) {
		r.logger.Printf("Warning: handle %d: compat flag %d out of range", h, idx)
		return
	}
	in.compat.Set(chip.CompatFlag(idx), val)
	in.applyFlags()
}

// ResetCompatFlags restores the default compat flags of h.
func (r *Registry) ResetCompatFlags(h int) {
	if in := r.instances[h]; in != nil {
		in.compat.Reset()
		in.applyFlags()
	}
}

// ForceIns makes the core of h reapply every channel's instrument.
func (r *Registry) ForceIns(h int) {
	in := r.instances[h]
	if in == nil {
		return
	}
	if f, ok := in.core.(chip.InstrumentForcer); ok {
		f.ForceIns()
	}
}

// SetMacrosEnabled turns macro processing of h on or off.
func (r *Registry) SetMacrosEnabled(h int, on bool) {
	if in := r.instances[h]; in != nil {
		in.macrosOn = on
	}
}

// ReleaseMacros releases the macros of one channel of h without sending a
// note off to the core.
func (r *Registry) ReleaseMacros(h, ch int) {
	if in := r.instances[h]; in != nil {
		in.driver.Release(ch)
	}
}
