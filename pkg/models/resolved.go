package models

// Field is a resolved numeric input with its provenance.
type Field struct {
	Value  float64        `json:"value"`
	Source VariableSource `json:"source"`
}

// StringField is a resolved identity input with its provenance.
type StringField struct {
	Value  string         `json:"value"`
	Source VariableSource `json:"source"`
}

// ResolvedInputs is the fully hydrated input set a strategy runs on.
// After resolution every field carries both a value and a source; the
// engine never touches raw snapshots or overrides past this point.
type ResolvedInputs struct {
	Ticker   string      `json:"ticker"`
	Name     StringField `json:"name"`
	Sector   StringField `json:"sector"`
	Currency StringField `json:"currency"`

	MarketPrice       Field `json:"market_price"`
	SharesOutstanding Field `json:"shares_outstanding"`
	TotalDebt         Field `json:"total_debt"`
	Cash              Field `json:"cash"`
	Minorities        Field `json:"minorities"`
	Pensions          Field `json:"pensions"`

	RiskFreeRate      Field `json:"risk_free_rate"`
	MarketRiskPremium Field `json:"market_risk_premium"`
	TaxRate           Field `json:"tax_rate"`
	Beta              Field `json:"beta"`
	CostOfDebt        Field `json:"cost_of_debt"`
	AAACorporateYield Field `json:"aaa_corporate_yield"`
	Inflation         Field `json:"inflation"`

	// Context figures used by guardrails and auditors, zero when the
	// provider had nothing.
	InterestExpense Field `json:"interest_expense"`
	EBITTTM         Field `json:"ebit_ttm"`
	EBITDATTM       Field `json:"ebitda_ttm"`
	RevenueTTM      Field `json:"revenue_ttm"`
	NetIncomeTTM    Field `json:"net_income_ttm"`

	// History carries the snapshot's fiscal-year statements through for
	// the forensic screen and point-in-time replays.
	History []FiscalYearData `json:"history,omitempty"`

	Anchors ResolvedAnchors `json:"anchors"`
}

// ResolvedAnchors holds the strategy-specific scale anchors. Only the
// fields relevant to the requested methodology are populated.
type ResolvedAnchors struct {
	FCFAnchor         *Field `json:"fcf_anchor,omitempty"`
	NormalizedFCF     *Field `json:"fcf_normalized,omitempty"`
	RevenueAnchor     *Field `json:"revenue_anchor,omitempty"`
	EBITAnchor        *Field `json:"ebit_anchor,omitempty"`
	TargetFCFMargin   *Field `json:"target_fcf_margin,omitempty"`
	StartGrowth       *Field `json:"start_growth,omitempty"`
	FCFEAnchor        *Field `json:"fcfe_anchor,omitempty"`
	DividendPerShare  *Field `json:"dividend_per_share,omitempty"`
	PayoutRatio       *Field `json:"payout_ratio,omitempty"`
	BookValueAnchor   *Field `json:"book_value_anchor,omitempty"`
	EPSAnchor         *Field `json:"eps_anchor,omitempty"`
	PersistenceFactor *Field `json:"persistence_factor,omitempty"`
	EPSNormalized     *Field `json:"eps_normalized,omitempty"`
	GrowthEstimate    *Field `json:"growth_estimate,omitempty"`
}

// NetDebt returns total debt minus cash, the first leg of the equity
// bridge.
func (r *ResolvedInputs) NetDebt() float64 {
	return r.TotalDebt.Value - r.Cash.Value
}
