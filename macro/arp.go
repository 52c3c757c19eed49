package macro

// arpFixedBit toggles an arpeggio value between relative and fixed notes.
const arpFixedBit = 0x40000000

// Arpeggio decodes an arpeggio macro value. A value whose bits 31 and 30
// differ is a fixed note; anything else is a signed offset from the base note.
func Arpeggio(v int32) (note int32, fixed bool) {
	top := uint32(v) & 0xC0000000
	if top == 0x40000000 || top == 0x80000000 {
		return v ^ arpFixedBit, true
	}
	return v, false
}

// FixedArpeggio encodes note as a fixed arpeggio value.
func FixedArpeggio(note int32) int32 {
	return note ^ arpFixedBit
}

// ArpeggioNote resolves an arpeggio value against the channel's base note.
func ArpeggioNote(base int, v int32) int {
	note, fixed := Arpeggio(v)
	if fixed {
		return int(note)
	}
	return base + int(note)
}
