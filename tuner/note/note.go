// Package note defines the note classes, labelled pitches and tuning sets
// the classifier works against.
package note

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/algo-tuner/tuner/core"
)

// Scale identifies a note class, with NA marking "nothing classified".
// The ordinal values are load-bearing: the classifier emits them on its note
// register and the display indexes its sprite table by them.
type Scale uint8

const (
	ScaleNA Scale = iota
	ScaleG
	ScaleA
	ScaleB
	ScaleC
	ScaleD
	ScaleE
	ScaleF
)

var scaleNames = [...]string{"-", "G", "A", "B", "C", "D", "E", "F"}

// String returns the letter of the note class, or "-" for NA.
func (s Scale) String() string {
	if int(s) < len(scaleNames) {
		return scaleNames[s]
	}
	return "?"
}

// Accidental qualifies a note class.
type Accidental uint8

const (
	Natural Accidental = iota
	Flat
	Sharp
)

// Note associates a labelled pitch (e.g. "E2") with its note class and
// fundamental frequency.
type Note struct {
	Name        string
	Class       Scale
	FrequencyHz float64
	Accidental  Accidental
}

// MIDIKey returns the nearest MIDI key number for the note's frequency,
// using the A4=440Hz, key 69 convention.
func (n Note) MIDIKey() uint8 {
	key := math.Round(69 + 12*math.Log2(n.FrequencyHz/440.0))
	if key < 0 {
		return 0
	}
	if key > 127 {
		return 127
	}
	return uint8(key)
}

var (
	// ErrDuplicateNote reports two notes sharing a label within one tuning.
	ErrDuplicateNote = errors.New("note: duplicate note label")
	// ErrClassWidth reports a note class that does not fit the register
	// width derived from the tuning size.
	ErrClassWidth = errors.New("note: class does not fit derived register width")
)

// Tuning is an immutable set of notes of interest, held sorted by frequency.
type Tuning struct {
	ascending []Note
}

// NewTuning builds a tuning from the given notes. Labels must be unique and
// non-empty, frequencies positive, and every note class must fit the
// register width implied by the tuning size.
func NewTuning(notes ...Note) (*Tuning, error) {
	if len(notes) == 0 {
		return nil, errors.New("note: tuning must contain at least one note")
	}

	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		if n.Name == "" {
			return nil, errors.New("note: note label must not be empty")
		}
		if n.FrequencyHz <= 0 {
			return nil, fmt.Errorf("note: frequency of %s must be > 0: %v", n.Name, n.FrequencyHz)
		}
		if _, dup := seen[n.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNote, n.Name)
		}
		seen[n.Name] = struct{}{}
	}

	t := &Tuning{ascending: make([]Note, len(notes))}
	copy(t.ascending, notes)
	sort.Slice(t.ascending, func(i, j int) bool {
		a, b := t.ascending[i], t.ascending[j]
		if a.FrequencyHz == b.FrequencyHz {
			return a.Name < b.Name
		}
		return a.FrequencyHz < b.FrequencyHz
	})

	classBits := t.ClassBits()
	for _, n := range t.ascending {
		if core.BitsFor(uint64(n.Class)) > classBits {
			return nil, fmt.Errorf("%w: %s needs %d bits, register has %d",
				ErrClassWidth, n.Name, core.BitsFor(uint64(n.Class)), classBits)
		}
	}

	return t, nil
}

// Len returns the number of notes in the tuning.
func (t *Tuning) Len() int {
	return len(t.ascending)
}

// Ascending returns the notes sorted lowest frequency first.
func (t *Tuning) Ascending() []Note {
	out := make([]Note, len(t.ascending))
	copy(out, t.ascending)
	return out
}

// Descending returns the notes sorted highest frequency first, the order the
// classifier scans them in.
func (t *Tuning) Descending() []Note {
	out := make([]Note, len(t.ascending))
	for i, n := range t.ascending {
		out[len(out)-1-i] = n
	}
	return out
}

// Lowest returns the note with the lowest frequency.
func (t *Tuning) Lowest() Note {
	return t.ascending[0]
}

// Highest returns the note with the highest frequency.
func (t *Tuning) Highest() Note {
	return t.ascending[len(t.ascending)-1]
}

// Find returns the note with the given label.
func (t *Tuning) Find(name string) (Note, bool) {
	for _, n := range t.ascending {
		if n.Name == name {
			return n, true
		}
	}
	return Note{}, false
}

// Names returns the note labels, lowest frequency first.
func (t *Tuning) Names() []string {
	out := make([]string, len(t.ascending))
	for i, n := range t.ascending {
		out[i] = n.Name
	}
	return out
}

// ClassBits returns the register width needed to address the tuning.
func (t *Tuning) ClassBits() int {
	return core.BitsFor(uint64(len(t.ascending) - 1))
}

func (t *Tuning) String() string {
	return strings.Join(t.Names(), " ")
}

// StandardGuitar returns the six-string standard tuning E2 A2 D3 G3 B3 E4.
func StandardGuitar() *Tuning {
	return &Tuning{ascending: []Note{
		{Name: "E2", Class: ScaleE, FrequencyHz: 82.41},
		{Name: "A2", Class: ScaleA, FrequencyHz: 110.0},
		{Name: "D3", Class: ScaleD, FrequencyHz: 146.83},
		{Name: "G3", Class: ScaleG, FrequencyHz: 196.00},
		{Name: "B3", Class: ScaleB, FrequencyHz: 246.94},
		{Name: "E4", Class: ScaleE, FrequencyHz: 329.63},
	}}
}
