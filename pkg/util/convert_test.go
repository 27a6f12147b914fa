package util

import "testing"

func TestToFloat(t *testing.T) {
	if f, ok := ToFloat(50000.5); !ok || f != 50000.5 {
		t.Fatalf("float64 coercion failed: %v %v", f, ok)
	}
	if f, ok := ToFloat("49000"); !ok || f != 49000 {
		t.Fatalf("string coercion failed: %v %v", f, ok)
	}
	if _, ok := ToFloat("abc"); ok {
		t.Fatalf("expected non-numeric string to fail")
	}
	if _, ok := ToFloat(nil); ok {
		t.Fatalf("expected nil to fail")
	}
}

func TestToInt(t *testing.T) {
	if i, ok := ToInt(float64(8)); !ok || i != 8 {
		t.Fatalf("integral float coercion failed: %v %v", i, ok)
	}
	if _, ok := ToInt(7.5); ok {
		t.Fatalf("expected non-integral float to fail")
	}
	if i, ok := ToInt("9"); !ok || i != 9 {
		t.Fatalf("string coercion failed: %v %v", i, ok)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(2000.0 / 1000.0); got != 2.0 {
		t.Fatalf("expected 2.0, got %v", got)
	}
	if got := Round2(1.236); got != 1.24 {
		t.Fatalf("expected 1.24, got %v", got)
	}
}
