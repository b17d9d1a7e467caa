package config

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"

	"fairvalue/pkg/models"
)

// ExpertBundle is an analyst-authored assumption file. Hjson keeps it
// comfortable to hand-edit: comments, unquoted keys, optional commas.
// Every field is optional; set fields beat the provider at resolution.
type ExpertBundle struct {
	Analyst   string                `json:"analyst"`
	Rationale string                `json:"rationale"`
	Overrides *models.UserOverrides `json:"overrides"`
}

// LoadExpertBundle reads and parses an Hjson assumption file.
func LoadExpertBundle(path string) (*ExpertBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expert bundle: %w", err)
	}
	return ParseExpertBundle(data)
}

// ParseExpertBundle decodes an Hjson bundle and sanity-checks the
// rate overrides it carries.
func ParseExpertBundle(data []byte) (*ExpertBundle, error) {
	var bundle ExpertBundle
	if err := hjson.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse expert bundle: %w", err)
	}

	if o := bundle.Overrides; o != nil {
		if err := checkRate("risk_free_rate", o.RiskFreeRate); err != nil {
			return nil, err
		}
		if err := checkRate("market_risk_premium", o.MarketRiskPremium); err != nil {
			return nil, err
		}
		if err := checkRate("cost_of_debt", o.CostOfDebt); err != nil {
			return nil, err
		}
		if err := checkRate("tax_rate", o.TaxRate); err != nil {
			return nil, err
		}
	}
	return &bundle, nil
}

// checkRate rejects rates outside (0, 1): a bundle saying 4.25 almost
// certainly meant 0.0425 and must not silently distort the valuation.
func checkRate(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v <= 0 || *v >= 1 {
		return fmt.Errorf("expert bundle %s %.4f out of range (0, 1): rates are decimals, not percent", name, *v)
	}
	return nil
}
