package utils

import (
	"math"
	"strings"
	"testing"
)

func TestClampFloat64(t *testing.T) {
	if got := ClampFloat64(5, 0, 10); got != 5 {
		t.Errorf("expected 5, got %f", got)
	}
	if got := ClampFloat64(-1, 0, 10); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := ClampFloat64(11, 0, 10); got != 10 {
		t.Errorf("expected 10, got %f", got)
	}
}

func TestRoundToStep(t *testing.T) {
	if got := RoundToStep(5147.3, 25); got != 5150 {
		t.Errorf("expected 5150, got %f", got)
	}
	if got := RoundToStep(5137.4, 25); got != 5125 {
		t.Errorf("expected 5125, got %f", got)
	}
	// Non-positive step is a no-op.
	if got := RoundToStep(5147.3, 0); got != 5147.3 {
		t.Errorf("expected passthrough, got %f", got)
	}
}

func TestRelDiff(t *testing.T) {
	if got := RelDiff(100, 110); math.Abs(got-10.0/110.0) > 1e-12 {
		t.Errorf("unexpected relative diff: %f", got)
	}
	// Tiny magnitudes fall back to absolute difference.
	if got := RelDiff(0, 1e-15); got != 1e-15 {
		t.Errorf("expected absolute fallback, got %g", got)
	}
}

func TestRandSourceDeterminism(t *testing.T) {
	a := NewRandSource(42)
	b := NewRandSource(42)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("same seed should give same sequence (iteration %d)", i)
		}
	}
}

func TestUniformFloat64Range(t *testing.T) {
	r := NewRandSource(7)
	for i := 0; i < 1000; i++ {
		v := r.UniformFloat64(4, 24)
		if v < 4 || v >= 24 {
			t.Fatalf("value %f outside [4, 24)", v)
		}
	}
}

func TestGenerateJobID(t *testing.T) {
	id1 := GenerateJobID()
	id2 := GenerateJobID()
	if id1 == id2 {
		t.Fatalf("expected unique job IDs, got %s twice", id1)
	}
	if !strings.HasPrefix(id1, "sel-") {
		t.Fatalf("expected sel- prefix, got %s", id1)
	}
}

func TestGenerateID(t *testing.T) {
	if a, b := GenerateID(), GenerateID(); a == b {
		t.Fatalf("expected unique IDs, got %s twice", a)
	}
}
