package ingest

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Input is the raw value of a free-text field before normalization.
// It is either text or absent (a missing cell, a nil value).
type Input struct {
	text    string
	present bool
}

// Text wraps a textual value.
func Text(s string) Input {
	return Input{text: s, present: true}
}

// Absent returns the marker for a missing value.
func Absent() Input {
	return Input{}
}

// From coerces an arbitrary value into an Input.
// nil becomes Absent, as does a driver.Valuer (sql.NullString) reporting nil.
// Strings, byte slices and fmt.Stringers keep their text; anything else is
// formatted with its default textual form.
func From(v any) Input {
	switch val := v.(type) {
	case nil:
		return Absent()
	case Input:
		return val
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil || inner == nil {
			return Absent()
		}
		return From(inner)
	case fmt.Stringer:
		return Text(val.String())
	default:
		return Text(fmt.Sprint(val))
	}
}

// Present reports whether the input carries a value.
func (in Input) Present() bool {
	return in.present
}

// Blank reports whether the input is absent or contains only whitespace.
func (in Input) Blank() bool {
	return !in.present || strings.TrimSpace(in.text) == ""
}

// String returns the coerced text; absent inputs yield "".
func (in Input) String() string {
	return in.text
}
