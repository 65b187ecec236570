// Package store implements the persistent, path-addressed primitive store
// (spec component C1): an immutable Path->Primitive map with structural
// sharing, a mutable TransientStore view for batched edits, and Patch
// computation between two snapshots.
package store

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// RootID is the identifier of the implicit root path, the parent of every
// top-level path segment.
const RootID uint32 = 0

// Path is an ordered sequence of string segments. Its ID is derived solely
// from (parent ID, segment) so that two Paths built from the same sequence
// of segments always produce the same ID, without requiring a process-wide
// registry to compute it.
type Path struct {
	segments []string
	id       uint32
}

// RootPath is the empty path, the parent of every top-level segment.
var RootPath = Path{id: RootID}

// Append returns the child of p named by segment.
func (p Path) Append(segment string) Path {
	segs := make([]string, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = segment
	return Path{segments: segs, id: hashSegment(p.id, segment)}
}

// New builds a Path from a flat list of segments, starting from RootPath.
func New(segments ...string) Path {
	p := RootPath
	for _, s := range segments {
		p = p.Append(s)
	}
	return p
}

// Parse splits a slash-separated string, e.g. "/audio/muted", into a Path.
// A leading slash is optional and ignored.
func Parse(s string) Path {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return RootPath
	}
	return New(strings.Split(s, "/")...)
}

// ID returns the Path's unique 32-bit identifier.
func (p Path) ID() uint32 { return p.id }

// Segments returns the Path's ordered segment list. The returned slice must
// not be mutated.
func (p Path) Segments() []string { return p.segments }

// Parent returns the Path with its final segment removed, and whether p had
// a parent (false for RootPath).
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return RootPath, false
	}
	return New(p.segments[:len(p.segments)-1]...), true
}

// String renders the Path as a slash-separated string, e.g. "/audio/muted".
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// Equal reports whether two Paths address the same location. Because IDs
// are derived deterministically from segments, comparing IDs is sufficient.
func (p Path) Equal(other Path) bool { return p.id == other.id }

// hashSegment derives a child ID from its parent ID and segment name. Using
// FNV-1a keeps the derivation simple, deterministic, and collision-resistant
// enough for a UI-scale component tree (thousands, not billions, of paths).
func hashSegment(parentID uint32, segment string) uint32 {
	h := fnv.New32a()
	var buf [4]byte
	buf[0] = byte(parentID)
	buf[1] = byte(parentID >> 8)
	buf[2] = byte(parentID >> 16)
	buf[3] = byte(parentID >> 24)
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(segment))
	return h.Sum32()
}

// IndexSegment renders an integer array index as a path segment, e.g. for
// PrimitiveVector/DynamicComponent-style container fields.
func IndexSegment(i int) string {
	return strconv.Itoa(i)
}
