// Package duration holds the hours/minutes/seconds value edited by the timer.
//
// A Value is always in range once an exported function returns it:
// hours in [0,99], minutes and seconds in [0,59]. Intermediate arithmetic may
// leave fields out of range; Normalize and Step bring them back using one of
// the policies below.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field identifies one of the three editable parts of a Value.
type Field int

const (
	Hours Field = iota
	Minutes
	Seconds
)

// Fields lists the fields in display order.
var Fields = []Field{Hours, Minutes, Seconds}

// String returns the field name
func (f Field) String() string {
	switch f {
	case Hours:
		return "hours"
	case Minutes:
		return "minutes"
	case Seconds:
		return "seconds"
	default:
		return "unknown"
	}
}

// Max returns the largest value the field can hold at rest.
func (f Field) Max() int {
	if f == Hours {
		return MaxHours
	}
	return 59
}

// Next returns the next larger field. Hours has none.
func (f Field) Next() (Field, bool) {
	switch f {
	case Seconds:
		return Minutes, true
	case Minutes:
		return Hours, true
	default:
		return f, false
	}
}

// ParseFieldName accepts "hours", "h", "minutes", "m", "seconds" or "s".
func ParseFieldName(s string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hours", "hour", "h":
		return Hours, true
	case "minutes", "minute", "min", "m":
		return Minutes, true
	case "seconds", "second", "sec", "s":
		return Seconds, true
	}
	return 0, false
}

// Policy selects how out-of-range fields are brought back into range.
type Policy int

const (
	// Clamp saturates each field at its own bounds without touching the others.
	Clamp Policy = iota
	// Carry wraps seconds and minutes and moves the overflow count into the
	// next larger field. Hours clamps at MaxHours.
	Carry
)

// String returns the policy name
func (p Policy) String() string {
	if p == Clamp {
		return "clamp"
	}
	return "carry"
}

const (
	MaxHours = 99
	// MaxTotalSeconds is 99:59:59.
	MaxTotalSeconds = MaxHours*3600 + 59*60 + 59
)

// Value is an hours/minutes/seconds triple.
type Value struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// FromFields builds a Value from raw field values normalized under p.
func FromFields(h, m, s int, p Policy) Value {
	return Value{Hours: h, Minutes: m, Seconds: s}.Normalize(p)
}

// FromTotalSeconds decomposes n into fields. Negative input yields zero and
// anything above MaxTotalSeconds saturates at 99:59:59.
func FromTotalSeconds(n int) Value {
	if n < 0 {
		n = 0
	}
	if n > MaxTotalSeconds {
		n = MaxTotalSeconds
	}
	return Value{
		Hours:   n / 3600,
		Minutes: (n % 3600) / 60,
		Seconds: n % 60,
	}
}

// TotalSeconds returns hours*3600 + minutes*60 + seconds.
func (v Value) TotalSeconds() int {
	return v.Hours*3600 + v.Minutes*60 + v.Seconds
}

// Duration converts the value to a time.Duration.
func (v Value) Duration() time.Duration {
	return time.Duration(v.TotalSeconds()) * time.Second
}

// IsZero reports whether the value is 00:00:00.
func (v Value) IsZero() bool {
	return v.TotalSeconds() == 0
}

// Get returns the raw value of a field.
func (v Value) Get(f Field) int {
	switch f {
	case Hours:
		return v.Hours
	case Minutes:
		return v.Minutes
	default:
		return v.Seconds
	}
}

// With returns a copy with field f set to n, without normalizing.
func (v Value) With(f Field, n int) Value {
	switch f {
	case Hours:
		v.Hours = n
	case Minutes:
		v.Minutes = n
	default:
		v.Seconds = n
	}
	return v
}

// Normalize brings every field into range using p. It is idempotent.
func (v Value) Normalize(p Policy) Value {
	if p == Clamp {
		return Value{
			Hours:   clamp(v.Hours, 0, MaxHours),
			Minutes: clamp(v.Minutes, 0, 59),
			Seconds: clamp(v.Seconds, 0, 59),
		}
	}

	h, m, s := carry(v)
	if h < 0 {
		// borrowed past the smallest representable value
		return Value{}
	}
	if h > MaxHours {
		h = MaxHours
	}
	return Value{Hours: h, Minutes: m, Seconds: s}
}

// Step adds delta to field f with carry/borrow into the larger fields.
// Hours cycles modulo 100, so 99:00:00 plus one hour is 00:00:00 and
// 00:00:00 minus one second is 99:59:59.
func (v Value) Step(f Field, delta int) Value {
	v = v.With(f, v.Get(f)+delta)
	h, m, s := carry(v)
	return Value{Hours: floorMod(h, MaxHours+1), Minutes: m, Seconds: s}
}

// SetClamped sets field f to n, saturating n at the field bounds.
func (v Value) SetClamped(f Field, n int) Value {
	return v.With(f, clamp(n, 0, f.Max()))
}

// FieldText returns field f zero padded to two digits.
func (v Value) FieldText(f Field) string {
	return Pad(v.Get(f))
}

// String renders the value as HH:MM:SS.
func (v Value) String() string {
	return Pad(v.Hours) + ":" + Pad(v.Minutes) + ":" + Pad(v.Seconds)
}

// Pad zero pads n to two digits.
func Pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ParseField reads the leading integer of text the way a browser's
// parseInt does. Empty or non-numeric text yields 0; it never fails.
func ParseField(text string) int {
	s := strings.TrimLeft(text, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	// nine digits keeps the result inside int32
	if end > 9 {
		end = 9
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// Parse reads "HH:MM:SS", "MM:SS", "SS" or a Go duration such as "1h30m".
// Colon separated parts go through ParseField and are carry normalized.
func Parse(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, fmt.Errorf("empty duration")
	}
	if !strings.Contains(text, ":") {
		if d, err := time.ParseDuration(text); err == nil {
			return FromTotalSeconds(int(d / time.Second)), nil
		}
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return Value{}, fmt.Errorf("invalid duration %q: too many fields", text)
	}
	nums := make([]int, 3)
	offset := 3 - len(parts)
	for i, p := range parts {
		nums[offset+i] = ParseField(p)
	}
	return FromFields(nums[0], nums[1], nums[2], Carry), nil
}

func carry(v Value) (h, m, s int) {
	s = floorMod(v.Seconds, 60)
	m = v.Minutes + floorDiv(v.Seconds, 60)
	h = v.Hours + floorDiv(m, 60)
	m = floorMod(m, 60)
	return h, m, s
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
