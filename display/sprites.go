package display

import (
	"strings"

	"github.com/cwbudde/algo-tuner/tuner/note"
)

// Segments is a seven-segment bit pattern, 0bABCDEFG* with the dot in the
// least significant bit.
type Segments uint8

const segmentLetters = "ABCDEFG."

// String lists the lit segments by letter, with "." for the dot. A blank
// pattern yields the empty string.
func (s Segments) String() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		if s&(1<<(7-i)) != 0 {
			b.WriteByte(segmentLetters[i])
		}
	}
	return b.String()
}

// noteSprites is indexed by the note class ordinal.
var noteSprites = []Segments{
	note.ScaleNA: 0b00000010, // -
	note.ScaleG:  0b11110110, // g
	note.ScaleA:  0b11101110, // A
	note.ScaleB:  0b00111110, // b
	note.ScaleC:  0b10011100, // C
	note.ScaleD:  0b01111010, // d
	note.ScaleE:  0b10011110, // E
	note.ScaleF:  0b10001110, // F
}

// proxSprites is indexed by the proximity id. The verticals point at the
// side the pitch is off to, the horizontals say near or far, and every
// exact id collapses to the bare dot.
var proxSprites = []Segments{
	0b00101010, // low, close
	0b00000001, // exact
	0b01000110, // high, close
	0b00000001, // exact
	0b00111000, // low, far
	0b00000001, // exact
	0b11000100, // high, far
	0b00000001, // exact
}

// ProximityID packs the classification flags into the proximity sprite
// index, far in bit 2, high in bit 1, exact in bit 0.
func ProximityID(exact, high, far bool) uint8 {
	var id uint8
	if far {
		id |= 1 << 2
	}
	if high {
		id |= 1 << 1
	}
	if exact {
		id |= 1
	}
	return id
}

// NoteSprite returns the glyph for a note class, blank when out of range.
func NoteSprite(class note.Scale) Segments {
	if int(class) < len(noteSprites) {
		return noteSprites[class]
	}
	return 0
}

// ProximitySprite returns the glyph for a proximity id, blank when out of
// range.
func ProximitySprite(id uint8) Segments {
	if int(id) < len(proxSprites) {
		return proxSprites[id]
	}
	return 0
}
