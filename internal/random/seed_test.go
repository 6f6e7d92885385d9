package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seeds, got %d twice", a)
	}
	if New() == nil {
		t.Fatalf("expected generator")
	}
}
