package dispatch

import (
	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/macro"
)

// MaxChannels is the number of channels per instance that run macros.
const MaxChannels = 32

// numDriven is the number of standard kinds with a channel cursor
// (vol through phaseReset).
const numDriven = int(macro.KindPhaseReset) + 1

// defaultPan is sent for the side of a panning pair that has no macro.
const defaultPan = 127

// operator parameters that map to a chip command
var opCommands = map[int]chip.Command{
	macro.OpTL:   chip.CmdFMTL,
	macro.OpAR:   chip.CmdFMAR,
	macro.OpDR:   chip.CmdFMDR,
	macro.OpMult: chip.CmdFMMult,
	macro.OpRR:   chip.CmdFMRR,
	macro.OpSL:   chip.CmdFMSL,
	macro.OpDT:   chip.CmdFMDT,
	macro.OpSSG:  chip.CmdFMSSG,
}

// emission order of operator parameters within one operator
var opOrder = [...]int{
	macro.OpTL, macro.OpAR, macro.OpDR, macro.OpMult,
	macro.OpRR, macro.OpSL, macro.OpDT, macro.OpSSG,
}

// channelState is the macro playback state of one channel.
type channelState struct {
	ins       int
	baseNote  int
	lastVol   int32
	lastPitch int32
	lastArp   int32
	active    bool
	released  bool

	std [numDriven]macro.Cursor
	op  [macro.Operators][macro.OperatorParams]macro.Cursor
}

func (s *channelState) reset() {
	*s = channelState{ins: -1, lastVol: -1}
}

// Sink receives the commands a driver emits.
type Sink func(cmd chip.Command, ch, v1, v2 int)

// Driver replays instrument macros on up to MaxChannels channels and turns
// their values into chip commands.
type Driver struct {
	macros *macro.Store
	emit   Sink
	chans  [MaxChannels]channelState
}

// NewDriver creates a driver reading definitions from macros and emitting
// into emit.
func NewDriver(macros *macro.Store, emit Sink) *Driver {
	d := &Driver{macros: macros, emit: emit}
	d.Reset()
	return d
}

// Reset returns every channel to idle.
func (d *Driver) Reset() {
	for i := range d.chans {
		d.chans[i].reset()
	}
}

// NoteOn restarts every macro of instrument ins on channel ch. A note of
// chip.NoteNull keeps the previous base note.
func (d *Driver) NoteOn(ch, ins, note int) {
	if ch < 0 || ch >= MaxChannels {
		return
	}
	s := &d.chans[ch]
	base := s.baseNote
	s.reset()
	s.ins = ins
	s.baseNote = note
	if note == chip.NoteNull {
		s.baseNote = base
	}
	s.active = true

	set := d.macros.Set(ins)
	if set == nil {
		return
	}
	for k := range s.std {
		s.std[k].Start(set.Lookup(macro.Kind(k)))
	}
	for op := range s.op {
		for p := range s.op[op] {
			s.op[op][p].Start(set.Lookup(macro.OperatorKind(op, p)))
		}
	}
}

// Release marks the note on ch as released. Cursors react on their next
// evaluation.
func (d *Driver) Release(ch int) {
	if ch < 0 || ch >= MaxChannels {
		return
	}
	d.chans[ch].released = true
}

// ClearInstrument stops the macros of every channel playing ins.
func (d *Driver) ClearInstrument(ins int) {
	for i := range d.chans {
		if d.chans[i].active && d.chans[i].ins == ins {
			note := d.chans[i].baseNote
			d.chans[i].reset()
			d.chans[i].baseNote = note
		}
	}
}

// Active reports whether ch has a running note.
func (d *Driver) Active(ch int) bool {
	return ch >= 0 && ch < MaxChannels && d.chans[ch].active
}

// Released reports whether the note on ch has been released.
func (d *Driver) Released(ch int) bool {
	return ch >= 0 && ch < MaxChannels && d.chans[ch].released
}

// Cursor exposes the cursor of kind on ch, or nil.
func (d *Driver) Cursor(ch int, kind macro.Kind) *macro.Cursor {
	if ch < 0 || ch >= MaxChannels {
		return nil
	}
	s := &d.chans[ch]
	if op, p, ok := kind.Operator(); ok {
		return &s.op[op][p]
	}
	if int(kind) < numDriven {
		return &s.std[kind]
	}
	return nil
}

// Tick evaluates every macro on ch once and emits the resulting commands.
func (d *Driver) Tick(ch int) {
	if ch < 0 || ch >= MaxChannels {
		return
	}
	s := &d.chans[ch]
	if !s.active || s.ins < 0 {
		return
	}
	set := d.macros.Set(s.ins)
	if set == nil {
		return
	}

	if v, ok := d.eval(s, set, macro.KindVol); ok && v != s.lastVol {
		d.emit(chip.CmdVolume, ch, int(v), 0)
		s.lastVol = v
	}
	if v, ok := d.eval(s, set, macro.KindArp); ok && v != s.lastArp {
		if note := macro.ArpeggioNote(s.baseNote, v); note >= 0 && note < 128 {
			d.emit(chip.CmdNoteOn, ch, note, 0)
		}
		s.lastArp = v
	}
	if v, ok := d.eval(s, set, macro.KindPitch); ok && v != s.lastPitch {
		d.emit(chip.CmdPitch, ch, int(v), 0)
		s.lastPitch = v
	}
	if v, ok := d.eval(s, set, macro.KindDuty); ok {
		d.emit(chip.CmdWave, ch, int(v), 0)
	}
	if v, ok := d.eval(s, set, macro.KindWave); ok {
		d.emit(chip.CmdWave, ch, int(v), 0)
	}

	l, okL := d.eval(s, set, macro.KindPanL)
	r, okR := d.eval(s, set, macro.KindPanR)
	if okL || okR {
		if !okL {
			l = defaultPan
		}
		if !okR {
			r = defaultPan
		}
		d.emit(chip.CmdPanning, ch, int(l), int(r))
	}

	if v, ok := d.eval(s, set, macro.KindPhaseReset); ok && v != 0 {
		d.emit(chip.CmdNotePorta, ch, chip.PhaseReset, 0)
	}

	for _, fm := range [...]struct {
		kind macro.Kind
		cmd  chip.Command
	}{
		{macro.KindAlg, chip.CmdFMAlg},
		{macro.KindFB, chip.CmdFMFB},
		{macro.KindFMS, chip.CmdFMFMS},
		{macro.KindAMS, chip.CmdFMAMS},
	} {
		if v, ok := d.eval(s, set, fm.kind); ok {
			d.emit(fm.cmd, ch, int(v), 0)
		}
	}

	for op := range macro.Operators {
		for _, p := range opOrder {
			def := set.Lookup(macro.OperatorKind(op, p))
			if !def.Valid() {
				continue
			}
			if v, ok := s.op[op][p].Evaluate(def, s.released); ok {
				d.emit(opCommands[p], ch, op, int(v))
			}
		}
	}

	// chip-specific extras have no command of their own
	for _, k := range [...]macro.Kind{macro.KindEx1, macro.KindEx2, macro.KindEx3} {
		d.eval(s, set, k)
	}
}

// eval advances the standard cursor of kind when its definition exists.
func (d *Driver) eval(s *channelState, set *macro.Set, kind macro.Kind) (int32, bool) {
	def := set.Lookup(kind)
	if !def.Valid() {
		return 0, false
	}
	return s.std[kind].Evaluate(def, s.released)
}
