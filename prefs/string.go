package prefs

import "fmt"

// String is a string Entry with an optional maximum length.
type String struct {
	value  string
	maxLen int
}

// Set accepts any value and stores its fmt.Sprint representation, cropped
// to the configured maximum length if one has been set.
func (s *String) Set(v Value) error {
	str := fmt.Sprint(v)
	if sv, ok := v.(string); ok {
		str = sv
	}
	s.value = s.crop(str)
	return nil
}

// SetMaxLen sets the maximum stored length, cropping the current value
// immediately. A value of zero disables cropping but does not restore
// information already cropped.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	s.value = s.crop(s.value)
}

func (s *String) crop(v string) string {
	if s.maxLen > 0 && len(v) > s.maxLen {
		return v[:s.maxLen]
	}
	return v
}

// Get returns the current value.
func (s *String) Get() Value { return s.value }

// String renders the on-disk representation.
func (s *String) String() string { return s.value }
