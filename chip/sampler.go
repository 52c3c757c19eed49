package chip

import (
	"math"

	"github.com/user-none/emdispatch/bank"
)

// sampler plays one bank sample at a variable rate with linear
// interpolation, honouring its loop mode.
type sampler struct {
	pcm     []int16
	mode    bank.LoopMode
	start   int
	end     int
	looped  bool
	pos     float64
	step    float64
	dir     float64
	playing bool
}

// load selects s and rewinds. An empty sample leaves the sampler stopped.
func (p *sampler) load(s *bank.Sample) {
	*p = sampler{pcm: s.PCM(), dir: 1, step: p.step}
	p.start, p.end, p.looped = s.LoopBounds()
	p.mode = s.LoopMode
	if p.mode == bank.LoopBackward && p.looped {
		p.pos = float64(p.end - 1)
		p.dir = -1
	}
	p.playing = len(p.pcm) > 0
}

// setRate sets the playback speed: the sample advances centre*2^((note-C4)/12)
// frames per second at an output rate of rate Hz.
func (p *sampler) setRate(s *bank.Sample, note float64, tuning float64, rate int) {
	centre := float64(s.CenterRate)
	if centre <= 0 {
		centre = 8363
	}
	hz := centre * NoteFreq(note, tuning) / NoteFreq(NoteC4, tuning)
	p.step = hz / float64(rate)
}

func (p *sampler) stop() {
	p.playing = false
}

// next returns the current interpolated value and advances.
func (p *sampler) next() int16 {
	if !p.playing {
		return 0
	}
	i := int(p.pos)
	frac := p.pos - math.Floor(p.pos)
	a := int(p.pcm[i])
	b := a
	if i+1 < len(p.pcm) {
		b = int(p.pcm[i+1])
	}
	out := int16(a + int(float64(b-a)*frac))

	p.pos += p.step * p.dir
	if !p.looped {
		if p.pos >= float64(len(p.pcm)) || p.pos < 0 {
			p.playing = false
		}
		return out
	}
	lo, hi := float64(p.start), float64(p.end)
	switch p.mode {
	case bank.LoopPingPong:
		if p.pos >= hi {
			p.pos = hi - (p.pos - hi) - 1
			p.dir = -1
		} else if p.dir < 0 && p.pos < lo {
			p.pos = lo + (lo - p.pos)
			p.dir = 1
		}
	case bank.LoopBackward:
		if p.pos < lo {
			p.pos += hi - lo
		}
	default:
		if p.pos >= hi {
			p.pos -= hi - lo
		}
	}
	p.pos = math.Max(0, math.Min(p.pos, float64(len(p.pcm)-1)))
	return out
}

// sampleFor picks the sample an instrument plays for note: the note map
// entry when enabled, otherwise the instrument's initial sample.
func sampleFor(ins *bank.Instrument, note int) int {
	a := &ins.Amiga
	if a.UseNoteMap && note >= 0 && note < bank.NoteMapSize {
		if m := a.NoteMap[note].Map; m >= 0 {
			return int(m)
		}
	}
	return int(a.InitSample)
}
