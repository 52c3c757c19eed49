package dispatch

import (
	"errors"
	"fmt"

	"github.com/user-none/emdispatch/bank"
	"github.com/user-none/emdispatch/macro"
)

// ErrUnknownMacroKind is returned for a macro whose kind has no slot.
var ErrUnknownMacroKind = errors.New("unknown macro kind")

// SetMacro decodes a macro blob and files it under instrument ins. The
// store is unchanged when the blob is short or the kind is unknown.
func (r *Registry) SetMacro(ins int, blob []byte) error {
	var def macro.Definition
	if err := def.UnmarshalBinary(blob); err != nil {
		return fmt.Errorf("instrument %d: %w", ins, err)
	}
	if !r.macros.Put(ins, &def) {
		r.logger.Printf("Warning: instrument %d: unknown macro kind %d", ins, uint8(def.Kind))
		return fmt.Errorf("instrument %d: %w %d", ins, ErrUnknownMacroKind, uint8(def.Kind))
	}
	return nil
}

// ClearMacros drops every macro of instrument ins and stops the channels
// still playing them.
func (r *Registry) ClearMacros(ins int) {
	r.macros.Clear(ins)
	for _, in := range r.instances {
		in.driver.ClearInstrument(ins)
	}
}

// SetWavetable loads a wavetable blob into slot i.
func (r *Registry) SetWavetable(i int, blob []byte) error {
	return r.bank.LoadWavetable(i, blob)
}

// SetSample loads a sample blob into slot i.
func (r *Registry) SetSample(i int, blob []byte) error {
	return r.bank.LoadSample(i, blob)
}

// SetInstrument decodes an instrument blob of the named family (see
// bank.Families) into slot i.
func (r *Registry) SetInstrument(i int, family string, blob []byte) error {
	return r.bank.LoadInstrument(i, family, blob)
}

// SetFullInstrument loads a self-describing instrument into slot i. Any
// macros it carries replace those of the instrument.
func (r *Registry) SetFullInstrument(i int, blob []byte) error {
	ins, macros, err := bank.DecodeFull(blob)
	if err != nil {
		return err
	}
	r.bank.SetInstrument(i, ins)
	if len(macros) == 0 {
		return nil
	}
	r.macros.Clear(i)
	for k := range macros {
		if !r.macros.Put(i, &macros[k]) {
			r.logger.Printf("Warning: instrument %d: unknown macro kind %d", i, uint8(macros[k].Kind))
		}
	}
	return nil
}
