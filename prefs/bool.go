package prefs

import "strconv"

// Bool is a boolean Entry.
type Bool struct {
	value bool
}

// Set accepts a bool directly, or a string parsed with strconv.ParseBool.
// An unparseable string is not an error; the value is simply left
// unchanged, mirroring the lenient behaviour of the original prefs system.
func (b *Bool) Set(v Value) error {
	switch x := v.(type) {
	case bool:
		b.value = x
	case string:
		if parsed, err := strconv.ParseBool(x); err == nil {
			b.value = parsed
		}
	}
	return nil
}

// Get returns the current value, boxed as Value so callers that hold a
// family of differently-typed preferences behind a common interface can
// type-assert the concrete type they expect.
func (b *Bool) Get() Value { return b.value }

// String renders the on-disk representation.
func (b *Bool) String() string { return strconv.FormatBool(b.value) }
