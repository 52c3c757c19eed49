package ui

import (
	"sync"
	"time"
)

// Source renders host-rate stereo audio. Render fills outL and outR
// entirely and reports false once there is nothing more to play.
type Source interface {
	Render(outL, outR []float32) bool
}

// Queue accepts rendered audio and reports how many frames are pending.
// Player implements it.
type Queue interface {
	QueueFloat(l, r []float32)
	Buffered() int
}

// Control manages pause/resume/stop coordination between the caller and
// the render goroutine. A Control serves a single Loop.
type Control struct {
	mu       sync.Mutex
	pauseReq bool
	paused   bool
	running  bool
	stopReq  bool
	exited   bool
	ackCh    chan struct{}
	doneCh   chan struct{}
}

// NewControl creates a running control.
func NewControl() *Control {
	return &Control{
		running: true,
		ackCh:   make(chan struct{}, 1),
		doneCh:  make(chan struct{}),
	}
}

// RequestPause asks the render goroutine to pause and blocks until it
// acknowledges or exits. It returns at once if the goroutine has already
// exited or been stopped.
func (c *Control) RequestPause() {
	c.mu.Lock()
	if c.paused || c.pauseReq || c.exited || !c.running {
		c.mu.Unlock()
		return
	}
	c.pauseReq = true
	c.mu.Unlock()

	select {
	case <-c.ackCh:
	case <-c.doneCh:
	}
}

// exit marks the render goroutine as gone and releases pause waiters.
func (c *Control) exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exited {
		c.exited = true
		c.pauseReq = false
		close(c.doneCh)
	}
}

// RequestResume lets a paused render goroutine continue.
func (c *Control) RequestResume() {
	c.mu.Lock()
	c.pauseReq = false
	c.paused = false
	c.mu.Unlock()
}

// CheckPause is called by the render goroutine between blocks. It
// acknowledges a pending pause and waits until resumed or stopped.
// Returns false if the goroutine should exit.
func (c *Control) CheckPause() bool {
	c.mu.Lock()
	if !c.running || c.stopReq {
		c.mu.Unlock()
		return false
	}
	if !c.pauseReq {
		c.mu.Unlock()
		return true
	}
	c.paused = true
	c.mu.Unlock()

	select {
	case c.ackCh <- struct{}{}:
	default:
	}

	for {
		c.mu.Lock()
		if !c.running || c.stopReq {
			c.mu.Unlock()
			return false
		}
		if !c.pauseReq {
			c.paused = false
			c.mu.Unlock()
			return true
		}
		c.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
}

// Stop signals the render goroutine to exit.
func (c *Control) Stop() {
	c.mu.Lock()
	c.running = false
	c.stopReq = true
	c.pauseReq = false
	c.mu.Unlock()
}

// ShouldRun reports whether the render goroutine should continue.
func (c *Control) ShouldRun() bool {
	c.mu.Lock()
	r := c.running && !c.stopReq
	c.mu.Unlock()
	return r
}

// IsPaused reports whether the render goroutine is parked.
func (c *Control) IsPaused() bool {
	c.mu.Lock()
	p := c.paused
	c.mu.Unlock()
	return p
}

// Loop renders src in blocks of block frames into q, keeping at most
// ahead frames queued. It returns when src finishes or ctl is stopped, and
// reports whether src ran to completion.
func Loop(ctl *Control, q Queue, src Source, block, ahead int) bool {
	defer ctl.exit()
	l := make([]float32, block)
	r := make([]float32, block)
	for ctl.CheckPause() {
		if q.Buffered() >= ahead {
			time.Sleep(2 * time.Millisecond)
			continue
		}
		more := src.Render(l, r)
		q.QueueFloat(l, r)
		if !more {
			return true
		}
	}
	return false
}
