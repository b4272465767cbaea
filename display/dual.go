package display

import "github.com/cwbudde/algo-tuner/tuner/note"

// Dual multiplexes a note digit and a proximity digit over the shared
// segment bus. The select line flips every tick; the phase it reports pairs
// with the pattern on the bus that same tick.
type Dual struct {
	note *SevenSegment
	prox *SevenSegment

	sel      bool
	segments Segments
}

// NewDual returns a dual-digit driver loaded with the note and proximity
// glyph tables.
func NewDual() *Dual {
	return &Dual{note: NewNoteDigit(), prox: NewProximityDigit()}
}

// Tick advances the display one tick with the classified note and the
// proximity id. All next-tick state derives from the state before the call.
//
// The no-note guard reads the class input directly, so a note going away
// routes both phases to the note digit on the very next tick even though
// the glyph pipeline lags behind.
func (d *Dual) Tick(class note.Scale, proximityID uint8) {
	if d.sel {
		if class == note.ScaleNA {
			d.segments = d.note.Segments()
		} else {
			d.segments = d.prox.Segments()
		}
	} else {
		d.segments = d.note.Segments()
	}
	d.sel = !d.sel

	d.note.Tick(uint8(class))
	d.prox.Tick(proximityID)
}

// Segments returns the pattern currently driven on the shared bus.
func (d *Dual) Segments() Segments {
	return d.segments
}

// ProximitySelect reports the digit-select line. High pairs the bus with
// the note digit's phase.
func (d *Dual) ProximitySelect() bool {
	return d.sel
}

// Reset restores the power-up state.
func (d *Dual) Reset() {
	d.note.Reset()
	d.prox.Reset()
	d.sel = false
	d.segments = 0
}
