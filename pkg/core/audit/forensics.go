package audit

import (
	"fmt"
	"math"
	"strconv"

	"fairvalue/pkg/models"
)

// First-digit conformity screen over historical statement figures.
// Reported financials follow Benford's law closely enough that a large
// mean absolute deviation is a data-quality signal worth surfacing.
const (
	benfordMinSamples     = 20
	benfordHighDeviation  = 0.015
	penaltyBenfordHighDev = 15
)

// benfordExpected is the expected leading-digit frequency for 1-9.
var benfordExpected = [10]float64{
	0, 0.30103, 0.17609, 0.12494, 0.09691, 0.07918, 0.06695, 0.05799, 0.05115, 0.04576,
}

// forensicFindings screens the fiscal-year history. Too few figures
// means no verdict: the screen stays silent rather than guessing.
func forensicFindings(in *models.ResolvedInputs) []models.AuditLog {
	values := historyFigures(in.History)
	mad, samples := benfordMAD(values)
	if samples < benfordMinSamples {
		return nil
	}
	if mad > benfordHighDeviation {
		return []models.AuditLog{finding(models.AuditDataConfidence,
			fmt.Sprintf("historical figures deviate from the expected first-digit distribution (MAD %.4f over %d figures)", mad, samples),
			penaltyBenfordHighDev)}
	}
	return nil
}

func historyFigures(history []models.FiscalYearData) []float64 {
	var values []float64
	add := func(v *float64) {
		if v != nil && *v != 0 {
			values = append(values, *v)
		}
	}
	for _, y := range history {
		add(y.Revenue)
		add(y.EBIT)
		add(y.NetIncome)
		add(y.FCF)
		add(y.TotalDebt)
		add(y.Cash)
	}
	return values
}

// benfordMAD returns the mean absolute deviation of observed leading
// digits from the Benford distribution and the usable sample count.
func benfordMAD(values []float64) (float64, int) {
	var counts [10]int
	samples := 0
	for _, v := range values {
		d := leadingDigit(math.Abs(v))
		if d > 0 {
			counts[d]++
			samples++
		}
	}
	if samples == 0 {
		return 0, 0
	}

	sum := 0.0
	for d := 1; d <= 9; d++ {
		observed := float64(counts[d]) / float64(samples)
		sum += math.Abs(observed - benfordExpected[d])
	}
	return sum / 9.0, samples
}

func leadingDigit(v float64) int {
	if v < 1 {
		return 0
	}
	for _, c := range strconv.FormatFloat(v, 'f', -1, 64) {
		if c >= '1' && c <= '9' {
			return int(c - '0')
		}
	}
	return 0
}
