package finmath

import (
	"fmt"
	"math"

	"fairvalue/pkg/models"
)

// ===== DISCOUNTING PRIMITIVES =====

// DiscountFactors returns 1/(1+rate)^t for t = 1..years.
func DiscountFactors(rate float64, years int) []float64 {
	factors := make([]float64, years)
	cum := 1.0
	for t := 0; t < years; t++ {
		cum /= 1.0 + rate
		factors[t] = cum
	}
	return factors
}

// NPV discounts flows at a flat rate, flow t arriving at period t
// (1-indexed).
func NPV(flows []float64, rate float64) float64 {
	var pv float64
	cum := 1.0
	for _, f := range flows {
		cum /= 1.0 + rate
		pv += f * cum
	}
	return pv
}

// GordonTerminalValue grows the final explicit flow one more period
// and capitalizes it in perpetuity. Undefined when the rate does not
// exceed the growth.
func GordonTerminalValue(finalFlow, rate, growth float64) (float64, error) {
	if rate <= growth {
		return 0, fmt.Errorf("gordon terminal value with rate %.4f <= growth %.4f: %w",
			rate, growth, models.ErrTerminalValue)
	}
	return finalFlow * (1 + growth) / (rate - growth), nil
}

// ExitMultipleTerminalValue applies a trading multiple to the terminal
// year metric.
func ExitMultipleTerminalValue(terminalMetric, multiple float64) float64 {
	return terminalMetric * multiple
}

// DilutionFactor is the cumulative share-count inflation over the
// horizon, (1+d)^t.
func DilutionFactor(annualDilution float64, years int) float64 {
	return math.Pow(1.0+annualDilution, float64(years))
}

// ApplyDilution discounts a per-share value for expected issuance.
func ApplyDilution(valuePerShare, annualDilution float64, years int) float64 {
	if annualDilution == 0 {
		return valuePerShare
	}
	return valuePerShare / DilutionFactor(annualDilution, years)
}
