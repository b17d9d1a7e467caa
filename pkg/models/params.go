package models

// ===== SHARED PARAMETER BLOCKS =====

// TerminalValueParams configures the terminal value of a projection.
// A nil PerpetualGrowthRate under the Gordon method means "not set" and
// is resolved against the macro inflation default.
type TerminalValueParams struct {
	Method              TerminalMethod `json:"method"`
	PerpetualGrowthRate *float64       `json:"perpetual_growth_rate,omitempty"`
	ExitMultiple        *float64       `json:"exit_multiple,omitempty"`
}

// CommonParams carries the fields every projected strategy shares.
type CommonParams struct {
	ProjectionYears    int                 `json:"projection_years"`
	HighGrowthYears    int                 `json:"high_growth_years"`
	ManualGrowthVector []float64           `json:"manual_growth_vector,omitempty"`
	Terminal           TerminalValueParams `json:"terminal_value"`
	DilutionRate       *float64            `json:"dilution_rate,omitempty"`
}

// clone returns a deep copy. The growth vector is the only reference field.
func (c CommonParams) clone() CommonParams {
	out := c
	if c.ManualGrowthVector != nil {
		out.ManualGrowthVector = append([]float64(nil), c.ManualGrowthVector...)
	}
	if c.Terminal.PerpetualGrowthRate != nil {
		g := *c.Terminal.PerpetualGrowthRate
		out.Terminal.PerpetualGrowthRate = &g
	}
	if c.Terminal.ExitMultiple != nil {
		m := *c.Terminal.ExitMultiple
		out.Terminal.ExitMultiple = &m
	}
	if c.DilutionRate != nil {
		d := *c.DilutionRate
		out.DilutionRate = &d
	}
	return out
}

// ===== STRATEGY PARAMETERS (SEALED SET) =====

// StrategyParams is the closed set of per-strategy parameter variants.
// Consumers dispatch with exhaustive type switches; there is no field
// probing anywhere in the engine.
type StrategyParams interface {
	Methodology() Methodology
	Common() CommonParams
	// PrimaryAnchor names the scale anchor the variant is valued from.
	PrimaryAnchor() string
	// Clone returns an independent copy safe to mutate.
	Clone() StrategyParams

	sealed()
}

// FCFFStandardParams values the firm from trailing free cash flow.
type FCFFStandardParams struct {
	Shared     CommonParams `json:"common"`
	FCFAnchor  *float64     `json:"fcf_anchor,omitempty"`
	GrowthRate *float64     `json:"growth_rate,omitempty"`
}

func (p FCFFStandardParams) Methodology() Methodology { return MethodologyFCFFStandard }
func (p FCFFStandardParams) Common() CommonParams     { return p.Shared }
func (p FCFFStandardParams) PrimaryAnchor() string    { return "fcf_anchor" }
func (p FCFFStandardParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.FCFAnchor = copyFloat(p.FCFAnchor)
	out.GrowthRate = copyFloat(p.GrowthRate)
	return out
}
func (FCFFStandardParams) sealed() {}

// FCFFNormalizedParams values the firm from a through-cycle cash flow.
type FCFFNormalizedParams struct {
	Shared        CommonParams `json:"common"`
	NormalizedFCF *float64     `json:"fcf_normalized,omitempty"`
	GrowthRate    *float64     `json:"growth_rate,omitempty"`
}

func (p FCFFNormalizedParams) Methodology() Methodology { return MethodologyFCFFNormalized }
func (p FCFFNormalizedParams) Common() CommonParams     { return p.Shared }
func (p FCFFNormalizedParams) PrimaryAnchor() string    { return "fcf_normalized" }
func (p FCFFNormalizedParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.NormalizedFCF = copyFloat(p.NormalizedFCF)
	out.GrowthRate = copyFloat(p.GrowthRate)
	return out
}
func (FCFFNormalizedParams) sealed() {}

// FCFFGrowthParams values the firm from revenue with margin convergence.
type FCFFGrowthParams struct {
	Shared          CommonParams `json:"common"`
	RevenueAnchor   *float64     `json:"revenue_anchor,omitempty"`
	EBITAnchor      *float64     `json:"ebit_anchor,omitempty"`
	TargetFCFMargin *float64     `json:"target_fcf_margin,omitempty"`
	StartGrowth     *float64     `json:"start_growth,omitempty"`
}

func (p FCFFGrowthParams) Methodology() Methodology { return MethodologyFCFFGrowth }
func (p FCFFGrowthParams) Common() CommonParams     { return p.Shared }
func (p FCFFGrowthParams) PrimaryAnchor() string    { return "revenue_anchor" }
func (p FCFFGrowthParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.RevenueAnchor = copyFloat(p.RevenueAnchor)
	out.EBITAnchor = copyFloat(p.EBITAnchor)
	out.TargetFCFMargin = copyFloat(p.TargetFCFMargin)
	out.StartGrowth = copyFloat(p.StartGrowth)
	return out
}
func (FCFFGrowthParams) sealed() {}

// FCFEParams discounts equity cash flows at the cost of equity.
type FCFEParams struct {
	Shared     CommonParams `json:"common"`
	FCFEAnchor *float64     `json:"fcfe_anchor,omitempty"`
	GrowthRate *float64     `json:"growth_rate,omitempty"`
}

func (p FCFEParams) Methodology() Methodology { return MethodologyFCFE }
func (p FCFEParams) Common() CommonParams     { return p.Shared }
func (p FCFEParams) PrimaryAnchor() string    { return "fcfe_anchor" }
func (p FCFEParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.FCFEAnchor = copyFloat(p.FCFEAnchor)
	out.GrowthRate = copyFloat(p.GrowthRate)
	return out
}
func (FCFEParams) sealed() {}

// DDMParams discounts dividends per share.
type DDMParams struct {
	Shared           CommonParams `json:"common"`
	DividendPerShare *float64     `json:"dividend_per_share,omitempty"`
	PayoutRatio      *float64     `json:"payout_ratio,omitempty"`
	GrowthRate       *float64     `json:"growth_rate,omitempty"`
}

func (p DDMParams) Methodology() Methodology { return MethodologyDDM }
func (p DDMParams) Common() CommonParams     { return p.Shared }
func (p DDMParams) PrimaryAnchor() string    { return "dividend_per_share" }
func (p DDMParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.DividendPerShare = copyFloat(p.DividendPerShare)
	out.PayoutRatio = copyFloat(p.PayoutRatio)
	out.GrowthRate = copyFloat(p.GrowthRate)
	return out
}
func (DDMParams) sealed() {}

// RIMParams anchors on book value and capitalizes residual income with
// an Ohlson persistence factor.
type RIMParams struct {
	Shared            CommonParams `json:"common"`
	BookValueAnchor   *float64     `json:"book_value_anchor,omitempty"`
	EPSAnchor         *float64     `json:"eps_anchor,omitempty"`
	PayoutRatio       *float64     `json:"payout_ratio,omitempty"`
	PersistenceFactor *float64     `json:"persistence_factor,omitempty"`
	GrowthRate        *float64     `json:"growth_rate,omitempty"`
}

func (p RIMParams) Methodology() Methodology { return MethodologyRIM }
func (p RIMParams) Common() CommonParams     { return p.Shared }
func (p RIMParams) PrimaryAnchor() string    { return "book_value_anchor" }
func (p RIMParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.BookValueAnchor = copyFloat(p.BookValueAnchor)
	out.EPSAnchor = copyFloat(p.EPSAnchor)
	out.PayoutRatio = copyFloat(p.PayoutRatio)
	out.PersistenceFactor = copyFloat(p.PersistenceFactor)
	out.GrowthRate = copyFloat(p.GrowthRate)
	return out
}
func (RIMParams) sealed() {}

// GrahamParams applies the 1974 revised Graham formula. It carries no
// projection horizon; CommonParams is present only for interface shape.
type GrahamParams struct {
	Shared         CommonParams `json:"common"`
	EPSNormalized  *float64     `json:"eps_normalized,omitempty"`
	GrowthEstimate *float64     `json:"growth_estimate,omitempty"`
}

func (p GrahamParams) Methodology() Methodology { return MethodologyGraham }
func (p GrahamParams) Common() CommonParams     { return p.Shared }
func (p GrahamParams) PrimaryAnchor() string    { return "eps_normalized" }
func (p GrahamParams) Clone() StrategyParams {
	out := p
	out.Shared = p.Shared.clone()
	out.EPSNormalized = copyFloat(p.EPSNormalized)
	out.GrowthEstimate = copyFloat(p.GrowthEstimate)
	return out
}
func (GrahamParams) sealed() {}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v. Convenience for building parameter sets.
func Float(v float64) *float64 { return &v }
