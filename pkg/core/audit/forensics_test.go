package audit

import (
	"strings"
	"testing"

	"fairvalue/pkg/models"
)

func historyFromLeadingDigits(digits []int) []models.FiscalYearData {
	// Six figures per fiscal year, magnitudes varied so the screen sees
	// realistic statement-scale numbers.
	var years []models.FiscalYearData
	var year models.FiscalYearData
	slot := 0
	for i, d := range digits {
		v := float64(d) * 1e8
		switch slot {
		case 0:
			year.Revenue = models.Float(v)
		case 1:
			year.EBIT = models.Float(v)
		case 2:
			year.NetIncome = models.Float(v)
		case 3:
			year.FCF = models.Float(v)
		case 4:
			year.TotalDebt = models.Float(v)
		case 5:
			year.Cash = models.Float(v)
		}
		slot++
		if slot == 6 || i == len(digits)-1 {
			year.Year = 2020 + len(years)
			years = append(years, year)
			year = models.FiscalYearData{}
			slot = 0
		}
	}
	return years
}

func TestForensicFindingsFlagsSkewedHistory(t *testing.T) {
	// 24 figures all leading with 9: maximally non-conforming.
	digits := make([]int, 24)
	for i := range digits {
		digits[i] = 9
	}
	in := &models.ResolvedInputs{History: historyFromLeadingDigits(digits)}

	logs := forensicFindings(in)
	if len(logs) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(logs))
	}
	if logs[0].Category != models.AuditDataConfidence {
		t.Errorf("Expected data confidence category, got %s", logs[0].Category)
	}
	if logs[0].Penalty != penaltyBenfordHighDev {
		t.Errorf("Expected penalty %d, got %f", penaltyBenfordHighDev, logs[0].Penalty)
	}
	if !strings.Contains(logs[0].Message, "first-digit") {
		t.Errorf("Unexpected message: %s", logs[0].Message)
	}
}

func TestForensicFindingsAcceptsConformingHistory(t *testing.T) {
	// Leading digits roughly matching the Benford distribution.
	digits := []int{
		1, 1, 1, 1, 1, 1, 1, 1, 1,
		2, 2, 2, 2, 2,
		3, 3, 3, 3,
		4, 4, 4,
		5, 5, 6, 6, 7, 7, 8, 8, 9,
	}
	in := &models.ResolvedInputs{History: historyFromLeadingDigits(digits)}

	if logs := forensicFindings(in); len(logs) != 0 {
		t.Errorf("Expected no findings for conforming history, got %v", logs)
	}
}

func TestForensicFindingsNeedsEnoughSamples(t *testing.T) {
	// Heavily skewed but only 6 figures: below the minimum, no verdict.
	in := &models.ResolvedInputs{History: historyFromLeadingDigits([]int{9, 9, 9, 9, 9, 9})}
	if logs := forensicFindings(in); len(logs) != 0 {
		t.Errorf("Expected silence below the sample floor, got %v", logs)
	}

	if logs := forensicFindings(&models.ResolvedInputs{}); len(logs) != 0 {
		t.Errorf("Expected silence with no history, got %v", logs)
	}
}

func TestBenfordMAD(t *testing.T) {
	// All-nines: MAD is (sum of expected for 1-8 plus 1-expected(9))/9.
	values := []float64{900, 910, 920, 930, 940, 950, 960, 970, 980, 990}
	mad, samples := benfordMAD(values)
	if samples != 10 {
		t.Fatalf("Expected 10 samples, got %d", samples)
	}
	want := ((1 - 0.04576) + (1 - 0.04576)) / 9.0
	if diff := mad - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected MAD %.6f, got %.6f", want, mad)
	}

	// Sub-unit values carry no leading digit for the screen.
	if _, n := benfordMAD([]float64{0.5, 0.03}); n != 0 {
		t.Errorf("Expected 0 usable samples, got %d", n)
	}
}

func TestLeadingDigit(t *testing.T) {
	cases := map[float64]int{
		123.45:  1,
		987:     9,
		5.0:     5,
		0.7:     0,
		1000000: 1,
	}
	for in, want := range cases {
		if got := leadingDigit(in); got != want {
			t.Errorf("leadingDigit(%v) = %d, want %d", in, got, want)
		}
	}
}
