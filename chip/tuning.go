package chip

import "math"

// Note numbering: octave*12 + semitone with C-0 at 0, so A-4 is 57.
const (
	NoteA4   = 57
	NoteC4   = 48
	maxNote  = 179
	semitone = 128 // linear pitch units per semitone
)

// DefaultTuning is the frequency of A-4 in Hz.
const DefaultTuning = 440.0

// DefaultTickRate is the engine tick rate in Hz.
const DefaultTickRate = 60.0

// NoteFreq returns the frequency of note, which may be fractional, at the
// given A-4 tuning.
func NoteFreq(note float64, tuning float64) float64 {
	if tuning <= 0 {
		tuning = DefaultTuning
	}
	return tuning * math.Pow(2, (note-NoteA4)/12)
}

// pitchedFreq applies a pitch offset to note. In linear mode the offset is
// in 1/128 semitones; otherwise it is returned untouched for the caller to
// add to the chip's frequency register.
func pitchedFreq(note, pitch int, linear bool, tuning float64) (freq float64, regOffset int) {
	if linear {
		return NoteFreq(float64(note)+float64(pitch)/semitone, tuning), 0
	}
	return NoteFreq(float64(note), tuning), pitch
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// slide moves cur toward dest by at most speed and reports arrival.
func slide(cur, dest, speed int) (int, bool) {
	switch {
	case cur < dest:
		cur = min(cur+speed, dest)
	case cur > dest:
		cur = max(cur-speed, dest)
	}
	return cur, cur == dest
}
