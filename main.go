package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
	"github.com/user-none/emdispatch/dispatch"
	"github.com/user-none/emdispatch/script"
	"github.com/user-none/emdispatch/ui"
)

func main() {
	scriptPath := flag.String("script", "", "path to Lua score (required)")
	outPath := flag.String("out", "out.wav", "WAV file to write")
	rate := flag.Int("rate", ui.DefaultSampleRate, "output sample rate")
	seconds := flag.Float64("seconds", 0, "length to render (0 renders the whole score)")
	volume := flag.Float64("volume", 1.0, "output gain")
	tail := flag.Int("tail", 60, "ticks rendered after the last event")
	flag.Parse()

	if *scriptPath == "" {
		log.Fatal("Script path is required. Usage: emdispatch -script <path> [-out out.wav]")
	}
	if *rate <= 0 {
		log.Fatalf("Invalid rate: %d", *rate)
	}

	reg := dispatch.New(dispatch.Options{})
	defer reg.ClearAll()

	sess := script.NewSession(reg, script.Options{Rate: *rate, Tail: *tail})
	if err := sess.LoadFile(*scriptPath); err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	length := *seconds
	if length <= 0 {
		length = sess.Seconds()
	}
	sr := beep.SampleRate(*rate)
	var s beep.Streamer = beep.Take(sr.N(time.Duration(length*float64(time.Second))), ui.NewStream(sess))
	if *volume != 1.0 {
		s = &effects.Gain{Streamer: s, Gain: *volume - 1}
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	if err := wav.Encode(f, s, ui.Format(*rate)); err != nil {
		log.Fatalf("Failed to write WAV: %v", err)
	}
	log.Printf("Wrote %s: %.2fs at %d Hz, %d instances", *outPath, length, *rate, reg.Len())
}
