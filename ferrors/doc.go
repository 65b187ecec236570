// Package ferrors is a helper package for the plain Go language error type.
//
// Curated errors are created with Errorf(). A curated error remembers the
// format pattern it was built from (not just the formatted text), so Is()
// and Has() can later ask "was this built from that pattern" without
// string-matching the rendered message. Error() normalises the rendered
// text by dropping a leading "part: " that repeats the part after it, so
// "store: store: path not found" renders as "store: path not found"; only
// the first two parts are compared.
package ferrors
