package display

import "fmt"

// SevenSegment drives a single digit. The input value is registered, then
// the looked-up sprite is registered, so a new value reaches the segment
// lines two ticks later. Out-of-range values blank the digit.
type SevenSegment struct {
	sprites  []Segments
	value    uint8
	segments Segments
}

// NewSevenSegment creates a digit driver over a sprite table.
func NewSevenSegment(sprites []Segments) (*SevenSegment, error) {
	if len(sprites) == 0 {
		return nil, fmt.Errorf("display: sprite table must not be empty")
	}
	return &SevenSegment{sprites: append([]Segments(nil), sprites...)}, nil
}

// NewNoteDigit returns a digit driver loaded with the note glyphs.
func NewNoteDigit() *SevenSegment {
	return &SevenSegment{sprites: noteSprites}
}

// NewProximityDigit returns a digit driver loaded with the proximity
// glyphs.
func NewProximityDigit() *SevenSegment {
	return &SevenSegment{sprites: proxSprites}
}

// Tick advances the driver one tick with the value to display. All
// next-tick state derives from the state before the call.
func (s *SevenSegment) Tick(value uint8) {
	if int(s.value) < len(s.sprites) {
		s.segments = s.sprites[s.value]
	} else {
		s.segments = 0
	}
	s.value = value
}

// Segments returns the currently driven segment pattern.
func (s *SevenSegment) Segments() Segments {
	return s.segments
}

// Reset restores the power-up state.
func (s *SevenSegment) Reset() {
	s.value = 0
	s.segments = 0
}
