package resolve

import (
	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// Resolver hydrates a complete input set from the three sources in
// strict precedence: operator override, provider snapshot, documented
// default. Every resolved field remembers where its value came from.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve produces the fully hydrated inputs for a request. It fails
// only when the strategy's required anchor cannot be sourced at all.
func (r *Resolver) Resolve(req *models.ValuationRequest, snap *models.CompanySnapshot) (*models.ResolvedInputs, error) {
	if snap == nil {
		snap = &models.CompanySnapshot{Ticker: req.Ticker}
	}
	ov := req.Overrides
	if ov == nil {
		ov = &models.UserOverrides{}
	}

	in := &models.ResolvedInputs{
		Ticker:   req.Ticker,
		Name:     pickString(ov.Name, snap.Name, DefaultUnknownEntityName),
		Sector:   pickString(ov.Sector, snap.Sector, DefaultUnknownSector),
		Currency: pickString(ov.Currency, snap.Currency, DefaultCurrency),

		MarketPrice:       pickFloat(ov.MarketPrice, snap.MarketPrice, 0, models.SourceDefault),
		SharesOutstanding: pickFloat(ov.SharesOutstanding, snap.SharesOutstanding, DefaultSharesOutstanding, models.SourceDefault),
		TotalDebt:         pickFloat(ov.TotalDebt, snap.TotalDebt, DefaultTotalDebt, models.SourceDefault),
		Cash:              pickFloat(ov.Cash, snap.Cash, DefaultCash, models.SourceDefault),
		Minorities:        pickFloat(ov.Minorities, snap.Minorities, DefaultMinorities, models.SourceDefault),
		Pensions:          pickFloat(ov.Pensions, snap.Pensions, DefaultPensions, models.SourceDefault),

		RiskFreeRate:      pickFloat(ov.RiskFreeRate, nil, DefaultRiskFreeRate, models.SourceMacro),
		MarketRiskPremium: pickFloat(ov.MarketRiskPremium, nil, DefaultMarketRiskPremium, models.SourceMacro),
		TaxRate:           pickFloat(ov.TaxRate, snap.TaxRate, DefaultTaxRate, models.SourceMacro),
		Beta:              pickFloat(ov.Beta, snap.Beta, DefaultBeta, models.SourceDefault),
		AAACorporateYield: pickFloat(ov.AAACorporateYield, nil, DefaultAAAYield, models.SourceMacro),
		Inflation:         pickFloat(ov.Inflation, nil, DefaultInflation, models.SourceMacro),

		InterestExpense: pickFloat(nil, snap.InterestExpense, 0, models.SourceDefault),
		EBITTTM:         pickFloat(nil, snap.EBITTTM, 0, models.SourceDefault),
		EBITDATTM:       pickFloat(nil, snap.EBITDATTM, 0, models.SourceDefault),
		RevenueTTM:      pickFloat(nil, snap.RevenueTTM, 0, models.SourceDefault),
		NetIncomeTTM:    pickFloat(nil, snap.NetIncomeTTM, 0, models.SourceDefault),

		History: snap.History,
	}

	in.CostOfDebt = r.resolveCostOfDebt(ov, in)

	if err := r.resolveAnchors(req.Params, snap, in); err != nil {
		return nil, err
	}
	return in, nil
}

// resolveCostOfDebt prefers the operator figure, then synthesizes one
// from interest expense over total debt. A ratio outside the sanity
// band falls back to risk-free plus a flat spread; both synthetic
// paths are tagged calculated.
func (r *Resolver) resolveCostOfDebt(ov *models.UserOverrides, in *models.ResolvedInputs) models.Field {
	if ov.CostOfDebt != nil {
		return models.Field{Value: *ov.CostOfDebt, Source: models.SourceManual}
	}
	kd, _ := finmath.SyntheticCostOfDebt(in.InterestExpense.Value, in.TotalDebt.Value, in.RiskFreeRate.Value)
	return models.Field{Value: kd, Source: models.SourceCalculated}
}

// pickFloat applies the user > provider > default precedence.
// defSource tags the fallback, since rates default from the macro set
// while structural fields default from data constants.
func pickFloat(user, provider *float64, def float64, defSource models.VariableSource) models.Field {
	if user != nil {
		return models.Field{Value: *user, Source: models.SourceManual}
	}
	if provider != nil {
		return models.Field{Value: *provider, Source: models.SourceProvider}
	}
	return models.Field{Value: def, Source: defSource}
}

func pickString(user, provider, def string) models.StringField {
	if user != "" {
		return models.StringField{Value: user, Source: models.SourceManual}
	}
	if provider != "" {
		return models.StringField{Value: provider, Source: models.SourceProvider}
	}
	return models.StringField{Value: def, Source: models.SourceDefault}
}
