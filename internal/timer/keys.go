package timer

import (
	"github.com/luccascomvoce/temporizador/internal/duration"
)

// Key is a keyboard key, independent of the terminal library.
type Key int

const (
	KeyOther Key = iota
	KeyRune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
	KeyShiftTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape
	KeySpace
)

// KeyEvent is one key press. Rune is set for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (k KeyEvent) modified() bool {
	return k.Alt || k.Ctrl
}

// HandleKey routes a key press. handled is false when the key means nothing
// to the timer and the caller may use it for its own bindings.
//
// Space toggles the run state from anywhere, blurring a focused field first.
// Every other key only acts on a focused field.
func (c *Controller) HandleKey(ev KeyEvent) (effects []Effect, handled bool) {
	if ev.Key == KeySpace || (ev.Key == KeyRune && ev.Rune == ' ' && !ev.modified()) {
		c.Blur()
		return c.Toggle(), true
	}

	f, focused := c.Focused()
	if !focused {
		switch ev.Key {
		case KeyTab, KeyRight:
			c.Focus(duration.Hours)
			return nil, true
		case KeyShiftTab, KeyLeft:
			c.Focus(duration.Seconds)
			return nil, true
		}
		return nil, false
	}

	switch ev.Key {
	case KeyEscape:
		c.Blur()
		return nil, true
	case KeyTab:
		c.moveFocus(1)
		return nil, true
	case KeyShiftTab:
		c.moveFocus(-1)
		return nil, true
	case KeyEnter:
		c.Blur()
		return c.Toggle(), true
	case KeyOther:
		return nil, false
	}

	if ev.Key == KeyRune && ev.modified() {
		return nil, false
	}
	if c.IsRunning() {
		// fields are read-only while counting down
		return nil, true
	}

	switch ev.Key {
	case KeyUp:
		c.ModifyField(f, 1)
	case KeyDown:
		c.ModifyField(f, -1)
	case KeyLeft:
		c.moveFocus(-1)
	case KeyRight:
		c.moveFocus(1)
	case KeyBackspace, KeyDelete:
		c.mutated()
		c.edit.erase(ev.Key == KeyBackspace)
	case KeyRune:
		c.typeRune(f, ev.Rune)
	}
	return nil, true
}

// typeRune accepts ASCII digits only. A non-hours field that fills up hands
// focus to the next field.
func (c *Controller) typeRune(f duration.Field, r rune) {
	if r < '0' || r > '9' {
		return
	}
	if !c.edit.typeDigit(r) {
		return
	}
	c.mutated()
	if f != duration.Hours && len(c.edit.text) == maxFieldChars {
		c.moveFocus(1)
	}
}
