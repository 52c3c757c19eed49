package chip

import "github.com/arl/blip"

const (
	snClock     = 3579545
	t6w28Clock  = 3072000
	snDivider   = 16
	snPokeWrite = 0 // Poke address of the PSG write port
)

// snCore is a standalone SN76489 (or its T6W28 variant). It renders at
// clock/16 and can emit its steps straight into a blip buffer.
type snCore struct {
	clock int
	cfg   Config
	psg   *snVoices
	osc   *OscBuffer
	prev  int16
}

func newSNCore(p Platform) Core {
	c := &snCore{clock: snClock}
	if p == PlatformT6W28 {
		c.clock = t6w28Clock
	}
	return c
}

func (s *snCore) Init(cfg Config) error {
	s.cfg = withDefaults(cfg)
	s.psg = newSNVoices(s.clock, s.Rate(), s.cfg)
	s.osc = &OscBuffer{}
	return nil
}

func (s *snCore) Rate() int {
	return s.clock / snDivider
}

func (s *snCore) OutputCount() int {
	return 1
}

func (s *snCore) Dispatch(cmd Command, c, v1, v2 int) int {
	switch cmd {
	case CmdInstrument, CmdPanning, CmdPrePorta, CmdPreNote:
		return 1
	}
	return s.psg.dispatch(cmd, c, v1, v2)
}

func (s *snCore) Tick(sysTick bool) {
	s.psg.tick()
}

func (s *snCore) Acquire(bufs [][]int16, n int) {
	buf := s.psg.render(n)
	for i := range n {
		v := s.psg.sample(buf, i)
		s.osc.Put(v)
		bufs[0][i] = v
	}
	s.psg.consume(n)
}

// AcquireDirect adds one delta per output change, time-stamped in native
// samples.
func (s *snCore) AcquireDirect(bufs []*blip.Buffer, n int) {
	buf := s.psg.render(n)
	for i := range n {
		v := s.psg.sample(buf, i)
		s.osc.Put(v)
		if v != s.prev {
			bufs[0].AddDelta(uint64(i), int32(v)-int32(s.prev))
			s.prev = v
		}
	}
	s.psg.consume(n)
}

// OscBuffer returns the mixed scope shared by all four channels.
func (s *snCore) OscBuffer(c int) *OscBuffer {
	if c < 0 || c >= snChannels {
		return nil
	}
	return s.osc
}

func (s *snCore) Mute(c int, mute bool) {
	s.psg.mute(c, mute)
}

// Poke writes one byte to the PSG.
func (s *snCore) Poke(addr, val int) {
	if addr == snPokeWrite {
		s.psg.psg.Write(byte(val))
	}
}

func (s *snCore) Reset() {
	s.psg.reset()
	s.osc.Clear()
	s.prev = 0
}

func (s *snCore) Quit() {
	s.osc = nil
}

func (s *snCore) SetFlags(tickRate, tuning float64) {
	s.cfg.TickRate, s.cfg.Tuning = tickRate, tuning
	s.psg.tuning = tuning
	for c := range s.psg.ch {
		s.psg.ch[c].freqChanged = true
	}
}
