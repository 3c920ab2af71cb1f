package timer

import (
	"github.com/luccascomvoce/temporizador/internal/duration"
)

// maxFieldChars is the width of a field as typed by the user.
const maxFieldChars = 2

// editSession buffers raw text for the focused field until it loses focus.
type editSession struct {
	field    duration.Field
	text     string
	selected bool
	// dirty is false until the user types; an untouched field shows the live
	// value and commits nothing on blur.
	dirty bool
}

func newEditSession(f duration.Field, v duration.Value) *editSession {
	return &editSession{
		field:    f,
		text:     v.FieldText(f),
		selected: true,
	}
}

// typeDigit replaces the selection or appends a digit. It returns false when
// the field is already full.
func (e *editSession) typeDigit(r rune) bool {
	if e.selected {
		e.text = ""
		e.selected = false
	}
	if len(e.text) >= maxFieldChars {
		return false
	}
	e.text += string(r)
	e.dirty = true
	return true
}

// erase handles Backspace and Delete. The cursor always sits at the end of
// the text, so Delete only removes a selection.
func (e *editSession) erase(backspace bool) {
	switch {
	case e.selected:
		e.text = ""
	case backspace && e.text != "":
		e.text = e.text[:len(e.text)-1]
	}
	e.selected = false
	e.dirty = true

	if e.text == "" || !isNumeric(e.text) {
		e.text = "00"
		e.selected = true
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
