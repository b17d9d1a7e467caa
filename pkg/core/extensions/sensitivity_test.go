package extensions

import (
	"math"
	"testing"

	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

func TestSensitivityGridShapeAndCenter(t *testing.T) {
	in, params, strat := fcffSetup()
	r := newTestRunner()

	res, err := r.RunSensitivity(in, params, &models.SensitivityConfig{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(res.Matrix) != 5 || len(res.Matrix[0]) != 5 {
		t.Fatalf("Expected a 5x5 grid, got %dx%d", len(res.Matrix), len(res.Matrix[0]))
	}
	// Growth rows run high to low.
	if res.YValues[0] <= res.YValues[len(res.YValues)-1] {
		t.Error("Expected growth rows ordered high to low")
	}

	// The center cell carries the base assumptions and must match the
	// deterministic run.
	out, err := strat.Execute(in, params, strategy.ExecOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	center := res.Matrix[2][2]
	if math.Abs(center-out.IntrinsicValue) > 0.001 {
		t.Errorf("Center cell %f diverges from base valuation %f", center, out.IntrinsicValue)
	}

	if res.VolatilityScore <= 0 {
		t.Errorf("Expected positive volatility score, got %f", res.VolatilityScore)
	}
}

func TestSensitivityInvalidCellsAreNaN(t *testing.T) {
	// Terminal growth pushed against the discount rate: the low-rate /
	// high-growth corner must be NaN, never zero.
	in, _, _ := fcffSetup()
	g := 0.085 // all-equity rate is 0.09
	params := models.FCFFStandardParams{
		Shared: models.CommonParams{
			ProjectionYears: 5,
			Terminal:        models.TerminalValueParams{PerpetualGrowthRate: &g},
		},
	}
	r := newTestRunner()

	res, err := r.RunSensitivity(in, params, &models.SensitivityConfig{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Top row holds growth 0.09, left column rate 0.08: undefined.
	if !math.IsNaN(res.Matrix[0][0]) {
		t.Errorf("Expected NaN in the undefined corner, got %f", res.Matrix[0][0])
	}
	// No undefined cell may leak a zero.
	for gi, row := range res.Matrix {
		for ri, v := range row {
			if v == 0 {
				t.Errorf("Cell [%d][%d] is exactly 0, invalid cells must be NaN", gi, ri)
			}
		}
	}
	// The safe corner (highest rate, lowest growth) stays finite.
	last := len(res.Matrix) - 1
	if math.IsNaN(res.Matrix[last][last]) {
		t.Error("Expected the conservative corner to be defined")
	}
}
