package store

import "fmt"

// Kind tags the concrete type held by a Primitive.
type Kind int

// The five primitive kinds a Store may hold. Larger structured values are
// encoded under multiple child paths by the caller (spec.md §3).
const (
	KindBool Kind = iota
	KindInt32
	KindUint32
	KindFloat32
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Primitive is a tagged union over the store's value types.
type Primitive struct {
	kind Kind
	b    bool
	i    int32
	u    uint32
	f    float32
	s    string
}

// Bool wraps a boolean value.
func Bool(v bool) Primitive { return Primitive{kind: KindBool, b: v} }

// Int32 wraps a signed 32-bit value.
func Int32(v int32) Primitive { return Primitive{kind: KindInt32, i: v} }

// Uint32 wraps an unsigned 32-bit value.
func Uint32(v uint32) Primitive { return Primitive{kind: KindUint32, u: v} }

// Float32 wraps a 32-bit floating point value.
func Float32(v float32) Primitive { return Primitive{kind: KindFloat32, f: v} }

// String wraps a UTF-8 string value.
func String(v string) Primitive { return Primitive{kind: KindString, s: v} }

// Kind reports the concrete type held.
func (p Primitive) Kind() Kind { return p.kind }

// AsBool returns the held value and whether p holds a bool.
func (p Primitive) AsBool() (bool, bool) { return p.b, p.kind == KindBool }

// AsInt32 returns the held value and whether p holds an int32.
func (p Primitive) AsInt32() (int32, bool) { return p.i, p.kind == KindInt32 }

// AsUint32 returns the held value and whether p holds a uint32.
func (p Primitive) AsUint32() (uint32, bool) { return p.u, p.kind == KindUint32 }

// AsFloat32 returns the held value and whether p holds a float32.
func (p Primitive) AsFloat32() (float32, bool) { return p.f, p.kind == KindFloat32 }

// AsString returns the held value and whether p holds a string.
func (p Primitive) AsString() (string, bool) { return p.s, p.kind == KindString }

// Equal reports whether two Primitives have the same kind and value.
func (p Primitive) Equal(other Primitive) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case KindBool:
		return p.b == other.b
	case KindInt32:
		return p.i == other.i
	case KindUint32:
		return p.u == other.u
	case KindFloat32:
		return p.f == other.f
	case KindString:
		return p.s == other.s
	}
	return false
}

// String renders the value for diagnostics and .fls-style serialization.
func (p Primitive) String() string {
	switch p.kind {
	case KindBool:
		return fmt.Sprintf("%v", p.b)
	case KindInt32:
		return fmt.Sprintf("%d", p.i)
	case KindUint32:
		return fmt.Sprintf("%d", p.u)
	case KindFloat32:
		return fmt.Sprintf("%g", p.f)
	case KindString:
		return p.s
	}
	return ""
}
