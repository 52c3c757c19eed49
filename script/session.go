// Package script drives a dispatch registry from a Lua score. Loading a
// script runs it once to record a timeline of chip commands; a Session then
// plays that timeline back at the host rate, one registry tick at a time.
package script

import (
	"log"
	"math"

	"github.com/user-none/emdispatch/dispatch"
)

// DefaultTickRate is the engine tick rate used until a score sets another.
const DefaultTickRate = 60.0

// Options configures a Session.
type Options struct {
	// Rate is the host sample rate. Zero means 48000.
	Rate int
	// Tail is the number of ticks rendered after the last event so that
	// releases can decay.
	Tail int
	// Logger receives warnings. Nil uses log.Default().
	Logger *log.Logger
}

// event is one timeline entry, run before the registry tick numbered at.
type event struct {
	at int
	do func()
}

// Session is a recorded score bound to a registry. It is not safe for
// concurrent use.
type Session struct {
	reg    *dispatch.Registry
	logger *log.Logger
	rate   int
	tail   int

	events  []event
	length  int     // ticks covered by the score, excluding the tail
	cursor  int     // recording position, in ticks
	recTick float64 // samples per tick at the recording position
	samples float64 // host samples covered by the score, excluding the tail

	// playback
	next      int     // next event index
	tick      int     // ticks already run
	perTick   float64 // host samples per tick
	untilTick float64 // host samples before the next tick
	finished  bool
	scratchL  []float32
	scratchR  []float32
}

// NewSession returns an empty session over reg.
func NewSession(reg *dispatch.Registry, opts Options) *Session {
	if opts.Rate <= 0 {
		opts.Rate = 48000
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Session{
		reg:    reg,
		logger: opts.Logger,
		rate:   opts.Rate,
		tail:   max(opts.Tail, 0),
	}
	s.setTickRate(DefaultTickRate)
	s.recTick = s.perTick
	return s
}

// Registry returns the registry the session plays into.
func (s *Session) Registry() *dispatch.Registry { return s.reg }

// Rate returns the host sample rate.
func (s *Session) Rate() int { return s.rate }

// Ticks returns the length of the score in ticks, including the tail.
func (s *Session) Ticks() int { return s.length + s.tail }

// Seconds returns the playing time of the score and its tail, following
// every tick rate change the score makes.
func (s *Session) Seconds() float64 {
	return (s.samples + float64(s.tail)*s.recTick) / float64(s.rate)
}

// Done reports whether the score and its tail have been played.
func (s *Session) Done() bool { return s.finished }

// at records fn at the current recording position.
func (s *Session) at(fn func()) {
	s.events = append(s.events, event{at: s.cursor, do: fn})
	s.length = max(s.length, s.cursor)
}

// rest advances the recording position.
func (s *Session) rest(ticks int) {
	if ticks > 0 {
		s.cursor += ticks
		s.length = max(s.length, s.cursor)
		s.samples += float64(ticks) * s.recTick
	}
}

func (s *Session) setTickRate(hz float64) {
	if hz > 0 {
		s.perTick = float64(s.rate) / hz
	}
}

// recordTickRate changes the tick rate from the recording position on.
func (s *Session) recordTickRate(hz float64) {
	if hz <= 0 {
		return
	}
	s.recTick = float64(s.rate) / hz
	s.at(func() { s.setTickRate(hz) })
}

// Render implements ui.Source: it fills outL and outR with the mix of every
// live instance, running events and ticks as their time comes. It returns
// false once the score and its tail have been played.
func (s *Session) Render(outL, outR []float32) bool {
	n := min(len(outL), len(outR))
	clear(outL[:n])
	clear(outR[:n])

	pos := 0
	for pos < n {
		if s.untilTick <= 0 {
			if !s.step() {
				// past the end: keep rendering so the block is continuous
				s.untilTick = math.Inf(1)
			}
		}
		chunk := n - pos
		if s.untilTick < float64(chunk) {
			chunk = max(int(math.Ceil(s.untilTick)), 1)
		}
		s.mix(outL[pos:pos+chunk], outR[pos:pos+chunk])
		pos += chunk
		s.untilTick -= float64(chunk)
	}
	if !s.finished && s.untilTick <= 0 && s.tick >= s.Ticks() {
		s.flush()
		s.finished = true
	}
	return !s.finished
}

// step runs the events due at the current tick and ticks every instance.
// It reports false once the score is over.
func (s *Session) step() bool {
	if s.tick >= s.Ticks() {
		s.flush()
		s.finished = true
		return false
	}
	s.flush()
	for _, h := range s.reg.Handles() {
		s.reg.Tick(h)
	}
	s.tick++
	s.untilTick += s.perTick
	return true
}

// flush runs every event recorded at or before the current tick.
func (s *Session) flush() {
	for s.next < len(s.events) && s.events[s.next].at <= s.tick {
		s.events[s.next].do()
		s.next++
	}
}

func (s *Session) mix(outL, outR []float32) {
	n := len(outL)
	if cap(s.scratchL) < n {
		s.scratchL = make([]float32, n)
		s.scratchR = make([]float32, n)
	}
	l, r := s.scratchL[:n], s.scratchR[:n]
	for _, h := range s.reg.Handles() {
		s.reg.Render(h, l, r, n)
		for i := range n {
			outL[i] += l[i]
			outR[i] += r[i]
		}
	}
}
