// Package ui plays rendered chip audio: live through oto, or as a beep
// stream for anything built on beep.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultSampleRate is the host rate used when none is given.
const DefaultSampleRate = 48000

// ringFrames is ~170ms of stereo frames at 48kHz.
const ringFrames = 8192

// Player plays host-rate float audio via oto. Frames go through a
// SampleRing that oto's player pulls from.
type Player struct {
	player *oto.Player
	ring   *SampleRing
	rate   int
	frames [][2]int16 // reused conversion buffer
}

// oto context singleton; oto allows one context per process
var (
	otoCtx      *oto.Context
	otoRate     int
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use. Later
// calls must ask for the same rate.
func ensureOtoContext(rate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		otoRate = rate
		<-ready
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if rate != otoRate {
		return nil, fmt.Errorf("audio context already running at %d Hz, not %d", otoRate, rate)
	}
	return otoCtx, nil
}

// NewPlayer starts playback at rate with the given volume (0-1).
func NewPlayer(rate int, volume float64) (*Player, error) {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	ctx, err := ensureOtoContext(rate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	ring := NewSampleRing(ringFrames)
	player := ctx.NewPlayer(ring)
	player.SetBufferSize(rate / 10 * frameBytes)
	player.SetVolume(volume)
	player.Play()

	return &Player{
		player: player,
		ring:   ring,
		rate:   rate,
		frames: make([][2]int16, 0, 1024),
	}, nil
}

// Rate returns the playback sample rate.
func (p *Player) Rate() int { return p.rate }

// QueueFloat converts a block of left/right samples in -1..1 and queues
// it. r may be nil for mono.
func (p *Player) QueueFloat(l, r []float32) {
	p.frames = ToFrames(p.frames, l, r)
	p.ring.Write(p.frames)
}

// Buffered returns the number of frames queued but not yet played,
// including oto's own buffer.
func (p *Player) Buffered() int {
	return p.ring.Buffered() + p.player.BufferedSize()/frameBytes
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = full).
func (p *Player) SetVolume(vol float64) {
	p.player.SetVolume(vol)
}

// Close stops playback.
func (p *Player) Close() {
	if p.ring != nil {
		p.ring.Close()
	}
	if p.player != nil {
		p.player.Close()
	}
}

// ToFrames converts float samples to clamped int16 frames, reusing dst.
func ToFrames(dst [][2]int16, l, r []float32) [][2]int16 {
	if r == nil {
		r = l
	}
	n := min(len(l), len(r))
	if cap(dst) < n {
		dst = make([][2]int16, n)
	}
	dst = dst[:n]
	for i := range n {
		dst[i] = [2]int16{toInt16(l[i]), toInt16(r[i])}
	}
	return dst
}

func toInt16(v float32) int16 {
	s := int32(v * 32767)
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
