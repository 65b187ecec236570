package prefs

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/flowgrid/flowgrid/ferrors"
)

// WarningBoilerPlate is written as the first line of every preferences
// file.
const WarningBoilerPlate = "# this file is automatically generated by flowgrid. do not edit by hand."

const fieldSep = " :: "

// Disk persists a set of named Entry values to a single file as
// "key :: value" lines.
type Disk struct {
	path    string
	entries map[string]Entry

	// raw holds lines read from disk for keys not (yet) registered with
	// Add, so that Save doesn't discard preferences tracked by a
	// different Disk instance sharing the same file.
	raw map[string]string
}

// NewDisk opens (without requiring it to exist) the preferences file at
// path and primes the raw cache from its current contents, if any.
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:    path,
		entries: make(map[string]Entry),
		raw:     make(map[string]string),
	}

	if err := dsk.readRaw(); err != nil {
		return nil, err
	}

	return dsk, nil
}

func (dsk *Disk) readRaw() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferrors.Errorf(ferrors.Prefs, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, fieldSep)
		if !ok {
			continue
		}
		dsk.raw[key] = value
	}
	return scanner.Err()
}

// Add registers an Entry under key. It is an error to register the same
// key twice.
func (dsk *Disk) Add(key string, e Entry) error {
	if _, exists := dsk.entries[key]; exists {
		return ferrors.Errorf(ferrors.Prefs, "duplicate preference key (%s)", key)
	}
	dsk.entries[key] = e
	return nil
}

// Load re-reads the file and applies any line whose key matches a
// registered Entry; unmatched lines are kept in the raw cache for the next
// Save.
func (dsk *Disk) Load() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ferrors.Errorf(ferrors.PrefsNoFile, dsk.path)
		}
		return ferrors.Errorf(ferrors.Prefs, err)
	}
	defer f.Close()

	raw := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, fieldSep)
		if !ok {
			return ferrors.Errorf(ferrors.PrefsNotValid, dsk.path)
		}

		if e, ok := dsk.entries[key]; ok {
			if err := e.Set(value); err != nil {
				return ferrors.Errorf(ferrors.Prefs, err)
			}
			continue
		}

		raw[key] = value
	}
	if err := scanner.Err(); err != nil {
		return ferrors.Errorf(ferrors.Prefs, err)
	}

	dsk.raw = raw
	return nil
}

// Save writes every registered Entry, plus any preserved raw lines for
// keys not registered with this Disk instance, sorted by key.
func (dsk *Disk) Save() error {
	merged := make(map[string]string, len(dsk.entries)+len(dsk.raw))
	for k, v := range dsk.raw {
		merged[k] = v
	}
	for k, e := range dsk.entries {
		merged[k] = e.String()
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(WarningBoilerPlate)
	b.WriteString("\n")
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(fieldSep)
		b.WriteString(merged[k])
		b.WriteString("\n")
	}

	if err := os.WriteFile(dsk.path, []byte(b.String()), 0o644); err != nil {
		return ferrors.Errorf(ferrors.Prefs, err)
	}
	return nil
}
