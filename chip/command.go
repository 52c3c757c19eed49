package chip

import "fmt"

// Command is a channel command sent to a core. The first fourteen values
// follow the tracker engine's numbering so hosts can forward them as-is.
type Command int

const (
	CmdNoteOn     Command = iota // v1: note, or NoteNull to retrigger
	CmdNoteOff                   // cut the note
	CmdNoteOffEnv                // note off through the envelope
	CmdEnvRelease                // release the envelope only
	CmdInstrument                // v1: instrument index
	CmdVolume                    // v1: volume
	CmdGetVolume                 // returns the current volume
	CmdGetVolMax                 // returns the volume ceiling
	CmdNotePorta                 // v1: speed, v2: target note
	CmdPitch                     // v1: pitch offset
	CmdPanning                   // v1: left, v2: right (0-255)
	CmdLegato                    // v1: note, without retrigger
	CmdPrePorta                  // v1: in porta, v2: porta active
	CmdPreNote                   // no-op hint before a note

	CmdWave         // v1: wavetable or duty
	CmdStdNoiseMode // v1: noise mode
	CmdSampleMode   // v1: non-zero selects sample playback
	CmdFMAlg        // v1: algorithm
	CmdFMFB         // v1: feedback
	CmdFMFMS        // v1: FM sensitivity
	CmdFMAMS        // v1: AM sensitivity
	CmdFMLFO        // v1: LFO setting, bit 3 enables
	CmdFMTL         // v1: operator, v2: value
	CmdFMAR
	CmdFMDR
	CmdFMMult
	CmdFMRR
	CmdFMSL
	CmdFMDT
	CmdFMSSG

	numCommands
)

// NoteNull in a note-on keeps the current note.
const NoteNull = 0x7FFFFFFF

// PhaseReset is the note-porta argument that restarts a channel's phase
// instead of sliding.
const PhaseReset = 0x8000

var commandNames = [numCommands]string{
	"NOTE_ON", "NOTE_OFF", "NOTE_OFF_ENV", "ENV_RELEASE", "INSTRUMENT",
	"VOLUME", "GET_VOLUME", "GET_VOLMAX", "NOTE_PORTA", "PITCH", "PANNING",
	"LEGATO", "PRE_PORTA", "PRE_NOTE", "WAVE", "STD_NOISE_MODE",
	"SAMPLE_MODE", "FM_ALG", "FM_FB", "FM_FMS", "FM_AMS", "FM_LFO", "FM_TL",
	"FM_AR", "FM_DR", "FM_MULT", "FM_RR", "FM_SL", "FM_DT", "FM_SSG",
}

// Commands returns every command with its host-facing name.
func Commands() map[string]Command {
	m := make(map[string]Command, numCommands)
	for i, n := range commandNames {
		m[n] = Command(i)
	}
	return m
}

func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return fmt.Sprintf("cmd(%d)", int(c))
	}
	return commandNames[c]
}
