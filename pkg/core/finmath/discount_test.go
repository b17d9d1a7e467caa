package finmath

import (
	"errors"
	"math"
	"testing"

	"fairvalue/pkg/models"
)

func TestNPV(t *testing.T) {
	// Setup
	// Flows: 100, 100 at 10%.
	// PV = 100/1.1 + 100/1.21 = 90.9090 + 82.6446 = 173.5537
	pv := NPV([]float64{100, 100}, 0.10)

	if math.Abs(pv-173.5537) > 0.001 {
		t.Errorf("Expected NPV 173.5537, got %f", pv)
	}
}

func TestDiscountFactors(t *testing.T) {
	// 1/1.1 = 0.909090..., 1/1.21 = 0.826446...
	factors := DiscountFactors(0.10, 2)

	if len(factors) != 2 {
		t.Fatalf("Expected 2 factors, got %d", len(factors))
	}
	if math.Abs(factors[0]-0.909090) > 0.0001 {
		t.Errorf("Expected factor 0.909090, got %f", factors[0])
	}
	if math.Abs(factors[1]-0.826446) > 0.0001 {
		t.Errorf("Expected factor 0.826446, got %f", factors[1])
	}
}

func TestGordonTerminalValue(t *testing.T) {
	// TV = 100 * 1.02 / (0.08 - 0.02) = 102 / 0.06 = 1700
	tv, err := GordonTerminalValue(100, 0.08, 0.02)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(tv-1700.0) > 0.001 {
		t.Errorf("Expected TV 1700, got %f", tv)
	}
}

func TestGordonTerminalValueUndefined(t *testing.T) {
	// rate == growth is undefined
	_, err := GordonTerminalValue(100, 0.03, 0.03)
	if err == nil {
		t.Fatal("Expected error when rate <= growth")
	}
	if !errors.Is(err, models.ErrTerminalValue) {
		t.Errorf("Expected ErrTerminalValue, got %v", err)
	}
}

func TestGordonTerminalValueMonotoneInGrowth(t *testing.T) {
	// For a fixed rate the TV must strictly increase with growth.
	prev := -1.0
	for _, g := range []float64{0.00, 0.01, 0.02, 0.03, 0.04} {
		tv, err := GordonTerminalValue(100, 0.08, g)
		if err != nil {
			t.Fatalf("Unexpected error at g=%f: %v", g, err)
		}
		if tv <= prev {
			t.Errorf("TV not increasing at g=%f: prev %f, got %f", g, prev, tv)
		}
		prev = tv
	}
}

func TestApplyDilution(t *testing.T) {
	// 100 / (1.02)^5 = 100 / 1.10408 = 90.5731
	diluted := ApplyDilution(100, 0.02, 5)

	if math.Abs(diluted-90.5731) > 0.001 {
		t.Errorf("Expected 90.5731, got %f", diluted)
	}

	// Zero dilution is identity
	if ApplyDilution(100, 0, 5) != 100 {
		t.Error("Expected identity at zero dilution")
	}
}
