package prefs

import "fmt"

// Generic adapts a pair of closures to the Entry interface, for preference
// values that don't fit Bool/String/Int/Float — for example a composite
// "w,h" dimension pair backed by two separate variables.
type Generic struct {
	set func(Value) error
	get func() Value
}

// NewGeneric builds a Generic Entry from a setter and getter.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{set: set, get: get}
}

// Set forwards to the configured setter.
func (g *Generic) Set(v Value) error { return g.set(v) }

// Get forwards to the configured getter.
func (g *Generic) Get() Value { return g.get() }

// String renders the on-disk representation.
func (g *Generic) String() string {
	v := g.get()
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
