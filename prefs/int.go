package prefs

import (
	"strconv"

	"github.com/flowgrid/flowgrid/ferrors"
)

// Int is an integer Entry.
type Int struct {
	value int
}

// Set accepts an int, or a string parsed with strconv.Atoi. Any other type,
// including float64, is an error.
func (n *Int) Set(v Value) error {
	switch x := v.(type) {
	case int:
		n.value = x
	case string:
		parsed, err := strconv.Atoi(x)
		if err != nil {
			return ferrors.Errorf(ferrors.Prefs, err)
		}
		n.value = parsed
	default:
		return ferrors.Errorf(ferrors.Prefs, "unsupported value type for Int")
	}
	return nil
}

// Get returns the current value.
func (n *Int) Get() Value { return n.value }

// String renders the on-disk representation.
func (n *Int) String() string { return strconv.Itoa(n.value) }
