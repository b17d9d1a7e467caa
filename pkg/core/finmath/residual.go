package finmath

import (
	"fmt"

	"fairvalue/pkg/models"
)

// ===== RESIDUAL INCOME =====

// ResidualIncomePath rolls book value forward through the growth path
// and returns the residual income of each year, RI_t = NI_t - ke *
// BV_{t-1}. Earnings compound from the EPS anchor; book value retains
// the unpaid share of each year's earnings.
func ResidualIncomePath(bookValue0, eps0, payoutRatio, ke float64, growth []float64) (ri []float64, finalBV float64) {
	ri = make([]float64, len(growth))
	bv := bookValue0
	eps := eps0
	for t, g := range growth {
		eps *= 1.0 + g
		ri[t] = eps - ke*bv
		bv += eps * (1.0 - payoutRatio)
	}
	return ri, bv
}

// ContinuingResidualValue capitalizes the final residual income under
// Ohlson persistence: CV = RI_n * omega / (1 + ke - omega). Undefined
// when persistence reaches 1 + ke.
func ContinuingResidualValue(finalRI, ke, omega float64) (float64, error) {
	denom := 1.0 + ke - omega
	if denom <= 0 {
		return 0, fmt.Errorf("residual income persistence %.4f >= 1 + ke %.4f: %w",
			omega, 1.0+ke, models.ErrTerminalValue)
	}
	return finalRI * omega / denom, nil
}
