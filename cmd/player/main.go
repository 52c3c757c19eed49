package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/user-none/emdispatch/dispatch"
	"github.com/user-none/emdispatch/script"
	"github.com/user-none/emdispatch/ui"
)

// blockFrames is the render granularity; about 10ms at 48kHz.
const blockFrames = 512

func main() {
	scriptPath := flag.String("script", "", "path to Lua score (required)")
	rate := flag.Int("rate", ui.DefaultSampleRate, "playback sample rate")
	volume := flag.Float64("volume", 1.0, "playback volume (0-1)")
	tail := flag.Int("tail", 60, "ticks played after the last event")
	flag.Parse()

	if *scriptPath == "" {
		log.Fatal("Script path is required. Usage: player -script <path>")
	}

	reg := dispatch.New(dispatch.Options{})
	defer reg.ClearAll()

	sess := script.NewSession(reg, script.Options{Rate: *rate, Tail: *tail})
	if err := sess.LoadFile(*scriptPath); err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	p, err := ui.NewPlayer(*rate, *volume)
	if err != nil {
		log.Fatalf("Failed to start audio: %v", err)
	}
	defer p.Close()

	ctl := ui.NewControl()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		ctl.Stop()
	}()

	log.Printf("Playing %s (%.1fs)", *scriptPath, sess.Seconds())
	if !ui.Loop(ctl, p, sess, blockFrames, *rate/10) {
		return
	}
	for p.Buffered() > 0 && ctl.ShouldRun() {
		time.Sleep(10 * time.Millisecond)
	}
}
