package chip

import (
	"errors"
	"fmt"
)

// CompatFlag indexes one playback compatibility setting. The order is the
// wire order of the bulk upload.
type CompatFlag int

const (
	CompatLimitSlides CompatFlag = iota
	CompatLinearPitch
	CompatPitchSlideSpeed
	CompatLoopModality
	CompatDelayBehavior
	CompatJumpTreatment
	CompatProperNoiseLayout
	CompatWaveDutyIsVol
	CompatResetMacroOnPorta
	CompatLegacyVolumeSlides
	CompatCompatibleArpeggio
	CompatNoteOffResetsSlides
	CompatTargetResetsSlides
	CompatArpNonPorta
	CompatAlgMacroBehavior
	CompatBrokenShortcutSlides
	CompatIgnoreDuplicateSlides
	CompatStopPortaOnNoteOff
	CompatContinuousVibrato
	CompatBrokenDACMode
	CompatOneTickCut
	CompatNewInsTriggersInPorta
	CompatArp0Reset
	CompatBrokenSpeedSel
	CompatNoSlidesOnFirstTick
	CompatRowResetsArpPos
	CompatIgnoreJumpAtEnd
	CompatBuggyPortaAfterSlide
	CompatGBInsAffectsEnvelope
	CompatSharedExtStat
	CompatIgnoreDACModeOutsideIntendedChannel
	CompatE1E2AlsoTakePriority
	CompatNewSegaPCM
	CompatFBPortaPause
	CompatSNDutyReset
	CompatPitchMacroIsLinear
	CompatOldOctaveBoundary
	CompatNoOPN2Vol
	CompatNewVolumeScaling
	CompatVolMacroLinger
	CompatBrokenOutVol
	CompatBrokenOutVol2
	CompatE1E2StopOnSameNote
	CompatBrokenPortaArp
	CompatSNNoLowPeriods
	CompatDisableSampleMacro
	CompatOldArpStrategy
	CompatBrokenPortaLegato
	CompatBrokenFMOff
	CompatPreNoteNoEffect
	CompatOldDPCM
	CompatResetArpPhaseOnNewNote
	CompatCeilVolumeScaling
	CompatOldAlwaysSetVolume
	CompatOldSampleOffset
	CompatOldCenterRate
	CompatNoVolSlideReset

	NumCompatFlags
)

// MinCompatBlob is the shortest bulk upload accepted.
const MinCompatBlob = 50

// ErrShortCompat is returned for a bulk upload below MinCompatBlob bytes.
var ErrShortCompat = errors.New("compat flags: blob too short")

var compatNames = [NumCompatFlags]string{
	"limitSlides", "linearPitch", "pitchSlideSpeed", "loopModality",
	"delayBehavior", "jumpTreatment", "properNoiseLayout", "waveDutyIsVol",
	"resetMacroOnPorta", "legacyVolumeSlides", "compatibleArpeggio", "noteOffResetsSlides",
	"targetResetsSlides", "arpNonPorta", "algMacroBehavior", "brokenShortcutSlides",
	"ignoreDuplicateSlides", "stopPortaOnNoteOff", "continuousVibrato", "brokenDACMode",
	"oneTickCut", "newInsTriggersInPorta", "arp0Reset", "brokenSpeedSel",
	"noSlidesOnFirstTick", "rowResetsArpPos", "ignoreJumpAtEnd", "buggyPortaAfterSlide",
	"gbInsAffectsEnvelope", "sharedExtStat", "ignoreDACModeOutsideIntendedChannel", "e1e2AlsoTakePriority",
	"newSegaPCM", "fbPortaPause", "snDutyReset", "pitchMacroIsLinear",
	"oldOctaveBoundary", "noOPN2Vol", "newVolumeScaling", "volMacroLinger",
	"brokenOutVol", "brokenOutVol2", "e1e2StopOnSameNote", "brokenPortaArp",
	"snNoLowPeriods", "disableSampleMacro", "oldArpStrategy", "brokenPortaLegato",
	"brokenFMOff", "preNoteNoEffect", "oldDPCM", "resetArpPhaseOnNewNote",
	"ceilVolumeScaling", "oldAlwaysSetVolume", "oldSampleOffset", "oldCenterRate",
	"noVolSlideReset",
}

// Linear pitch modes.
const (
	PitchNonLinear = iota
	PitchLinearPartial
	PitchLinearFull
)

// CompatFlags holds every compatibility setting of an instance. Most flags
// are booleans; a few (linearPitch, pitchSlideSpeed, loopModality,
// delayBehavior) carry small integers.
type CompatFlags [NumCompatFlags]uint8

// DefaultCompatFlags returns the settings of a new song.
func DefaultCompatFlags() CompatFlags {
	var f CompatFlags
	f.Reset()
	return f
}

// Reset restores the defaults.
func (f *CompatFlags) Reset() {
	*f = CompatFlags{
		CompatLinearPitch:           2,
		CompatPitchSlideSpeed:       4,
		CompatLoopModality:          2,
		CompatDelayBehavior:         2,
		CompatProperNoiseLayout:     1,
		CompatNoteOffResetsSlides:   1,
		CompatTargetResetsSlides:    1,
		CompatNewInsTriggersInPorta: 1,
		CompatArp0Reset:             1,
		CompatGBInsAffectsEnvelope:  1,
		CompatSharedExtStat:         1,
		CompatNewSegaPCM:            1,
		CompatPitchMacroIsLinear:    1,
		CompatNewVolumeScaling:      1,
		CompatVolMacroLinger:        1,
	}
}

// Set stores v for flag i. Out-of-range indices are ignored.
func (f *CompatFlags) Set(i CompatFlag, v int) {
	if i >= 0 && i < NumCompatFlags {
		f[i] = uint8(v)
	}
}

// Int returns the value of flag i.
func (f *CompatFlags) Int(i CompatFlag) int {
	if f == nil || i < 0 || i >= NumCompatFlags {
		return 0
	}
	return int(f[i])
}

// Bool reports whether flag i is set.
func (f *CompatFlags) Bool(i CompatFlag) bool {
	return f.Int(i) != 0
}

// UnmarshalBinary loads flags from one byte per flag in wire order. Blobs
// shorter than MinCompatBlob are rejected; flags past the end of a shorter
// blob keep their value.
func (f *CompatFlags) UnmarshalBinary(b []byte) error {
	if len(b) < MinCompatBlob {
		return fmt.Errorf("%w (%d < %d)", ErrShortCompat, len(b), MinCompatBlob)
	}
	copy(f[:], b)
	return nil
}

// MarshalBinary encodes every flag, one byte each.
func (f *CompatFlags) MarshalBinary() ([]byte, error) {
	out := make([]byte, NumCompatFlags)
	copy(out, f[:])
	return out, nil
}

// CompatFlagByName looks a flag up by its song-file name.
func CompatFlagByName(name string) (CompatFlag, bool) {
	for i, n := range compatNames {
		if n == name {
			return CompatFlag(i), true
		}
	}
	return 0, false
}

func (c CompatFlag) String() string {
	if c < 0 || c >= NumCompatFlags {
		return fmt.Sprintf("compat(%d)", int(c))
	}
	return compatNames[c]
}
