package prefs

import (
	"strconv"

	"github.com/flowgrid/flowgrid/ferrors"
)

// Float is a float64 Entry. Unlike Int and Bool it does not accept a
// string, since Faust parameter ranges and gesture timings are always set
// programmatically rather than typed by a user.
type Float struct {
	value float64
}

// Set accepts only a float64.
func (f *Float) Set(v Value) error {
	x, ok := v.(float64)
	if !ok {
		return ferrors.Errorf(ferrors.Prefs, "Float.Set requires a float64")
	}
	f.value = x
	return nil
}

// Get returns the current value.
func (f *Float) Get() Value { return f.value }

// String renders the on-disk representation.
func (f *Float) String() string { return strconv.FormatFloat(f.value, 'g', -1, 64) }
