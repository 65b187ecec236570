// Package prefs is a small disk-backed key/value preferences store.
//
// A Disk tracks named Entry values (Bool, String, Int, Float, or a
// caller-supplied Generic) and persists them as "key :: value" lines in a
// single file. Keys present in the file but not registered with Add are
// preserved verbatim across Save, so two independent Disk instances backed
// by the same file and tracking disjoint key sets do not clobber each
// other's values.
package prefs
