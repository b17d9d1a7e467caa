package finmath

import (
	"fmt"

	"fairvalue/pkg/models"
)

// GrahamValue applies the 1974 revised Graham formula:
//
//	IV = EPS * (8.5 + 2g) * 4.4 / Y
//
// with g and the AAA corporate yield Y both expressed in percent. The
// inputs here are decimals (0.05 for 5%).
func GrahamValue(eps, growthEstimate, aaaYield float64) (float64, error) {
	if aaaYield <= 0 {
		return 0, fmt.Errorf("graham formula with non-positive AAA yield %.4f: %w",
			aaaYield, models.ErrTerminalValue)
	}
	return eps * (8.5 + 2.0*growthEstimate*100.0) * 4.4 / (aaaYield * 100.0), nil
}
