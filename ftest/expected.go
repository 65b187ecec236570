package ftest

import (
	"math"
	"reflect"
	"testing"
)

// ExpectSuccess fails the test unless v is true, a nil error, or a nil
// interface value.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	switch x := v.(type) {
	case nil:
		return
	case bool:
		if !x {
			t.Errorf("expected success, got failure")
		}
	case error:
		if x != nil {
			t.Errorf("expected success, got error: %v", x)
		}
	default:
		t.Errorf("unexpected type passed to ExpectSuccess: %T", v)
	}
}

// ExpectFailure fails the test unless v is false or a non-nil error.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	switch x := v.(type) {
	case bool:
		if x {
			t.Errorf("expected failure, got success")
		}
	case error:
		if x == nil {
			t.Errorf("expected failure, got success")
		}
	default:
		t.Errorf("unexpected type passed to ExpectFailure: %T", v)
	}
}

// ExpectEquality fails the test unless a and b are deeply equal.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are deeply equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test unless a and b are within tolerance of
// each other.
func ExpectApproximate(t *testing.T, a, b float64, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected approximate equality: %v !~ %v (tolerance %v)", a, b, tolerance)
	}
}
