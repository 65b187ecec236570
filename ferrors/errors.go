package ferrors

import (
	"fmt"
	"strings"
)

// Values is the type used to specify arguments for a curated error.
type Values []interface{}

// curated is a Go error built from a named message pattern rather than an
// already-formatted string, so that the pattern can be recovered later.
type curated struct {
	pattern string
	values  Values
}

// Errorf creates a new curated error. The pattern is kept verbatim (not
// formatted immediately) so that Is/Has/Head can compare against it.
func Errorf(pattern string, values ...interface{}) error {
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Error returns the normalised error message. Normalisation drops the
// first ": "-separated part when it equals the second, as produced by
// wrapping a curated error in a pattern with the same leading part; later
// parts are not compared.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// Head returns the leading pattern of the error, or Error() if err was not
// built by this package.
func Head(err error) string {
	if er, ok := err.(curated); ok {
		return er.pattern
	}
	return err.Error()
}

// IsAny reports whether err was built by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is reports whether err was built from the given pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}
	return false
}

// Has reports whether pattern appears anywhere in err's wrapped chain of
// curated values.
func Has(err error, pattern string) bool {
	if err == nil || !IsAny(err) {
		return false
	}
	if Is(err, pattern) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}
	return false
}
