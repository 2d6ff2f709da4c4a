package domain

import "testing"

func TestNewWallet(t *testing.T) {
	w := NewWallet(7, 1000)

	if w.Address != 7 {
		t.Errorf("Address = %d, want 7", w.Address)
	}
	if w.Base != 1000 {
		t.Errorf("Base = %f, want 1000", w.Base)
	}
	if w.Margin == nil || w.Longs == nil || w.Shorts == nil {
		t.Error("keyed maps must be initialized")
	}
}

func TestWallet_PositionTotal(t *testing.T) {
	w := NewWallet(0, 0)
	w.Longs[0.5] = 100
	w.Longs[0.75] = 50
	w.Shorts[0.25] = -40

	// Shorts are negative quantities and net against longs.
	if got := w.PositionTotal(); got != 110 {
		t.Errorf("PositionTotal = %f, want 110", got)
	}
}

func TestWallet_PositionTotalEmpty(t *testing.T) {
	w := NewWallet(0, 500)

	if got := w.PositionTotal(); got != 0 {
		t.Errorf("PositionTotal = %f, want 0", got)
	}
}
