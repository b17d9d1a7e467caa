package resolve

import "fairvalue/pkg/models"

// resolveAnchors hydrates the strategy-specific scale anchors. The
// type switch is exhaustive over the sealed parameter set; a missing
// anchor with no provider fallback and no default aborts resolution.
func (r *Resolver) resolveAnchors(params models.StrategyParams, snap *models.CompanySnapshot, in *models.ResolvedInputs) error {
	switch p := params.(type) {
	case models.FCFFStandardParams:
		f, err := requireAnchor(p.FCFAnchor, snap.FCFTTM, params.Methodology(), "fcf_anchor")
		if err != nil {
			return err
		}
		in.Anchors.FCFAnchor = f
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthRate, nil, DefaultStartGrowth)

	case models.FCFFNormalizedParams:
		f, err := requireAnchor(p.NormalizedFCF, snap.FCFTTM, params.Methodology(), "fcf_normalized")
		if err != nil {
			return err
		}
		in.Anchors.NormalizedFCF = f
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthRate, nil, DefaultStartGrowth)

	case models.FCFFGrowthParams:
		rev, err := requireAnchor(p.RevenueAnchor, snap.RevenueTTM, params.Methodology(), "revenue_anchor")
		if err != nil {
			return err
		}
		ebit, err := requireAnchor(p.EBITAnchor, snap.EBITTTM, params.Methodology(), "ebit_anchor")
		if err != nil {
			return err
		}
		in.Anchors.RevenueAnchor = rev
		in.Anchors.EBITAnchor = ebit
		in.Anchors.TargetFCFMargin = optionalAnchor(p.TargetFCFMargin, nil, DefaultTargetFCFMargin)
		in.Anchors.StartGrowth = optionalAnchor(p.StartGrowth, nil, DefaultStartGrowth)

	case models.FCFEParams:
		f, err := requireAnchor(p.FCFEAnchor, snap.NetIncomeTTM, params.Methodology(), "fcfe_anchor")
		if err != nil {
			return err
		}
		in.Anchors.FCFEAnchor = f
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthRate, nil, DefaultStartGrowth)

	case models.DDMParams:
		d, err := requireAnchor(p.DividendPerShare, snap.DividendPerShare, params.Methodology(), "dividend_per_share")
		if err != nil {
			return err
		}
		in.Anchors.DividendPerShare = d
		in.Anchors.PayoutRatio = optionalAnchor(p.PayoutRatio, nil, DefaultPayoutRatio)
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthRate, nil, DefaultStartGrowth)

	case models.RIMParams:
		bv, err := requireAnchor(p.BookValueAnchor, snap.BookValuePerShare, params.Methodology(), "book_value_anchor")
		if err != nil {
			return err
		}
		eps, err := requireAnchor(p.EPSAnchor, snap.EPSTTM, params.Methodology(), "eps_anchor")
		if err != nil {
			return err
		}
		in.Anchors.BookValueAnchor = bv
		in.Anchors.EPSAnchor = eps
		in.Anchors.PayoutRatio = optionalAnchor(p.PayoutRatio, nil, DefaultPayoutRatio)
		in.Anchors.PersistenceFactor = optionalAnchor(p.PersistenceFactor, nil, DefaultPersistence)
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthRate, nil, DefaultStartGrowth)

	case models.GrahamParams:
		eps, err := requireAnchor(p.EPSNormalized, snap.EPSTTM, params.Methodology(), "eps_normalized")
		if err != nil {
			return err
		}
		in.Anchors.EPSNormalized = eps
		in.Anchors.GrowthEstimate = optionalAnchor(p.GrowthEstimate, nil, DefaultGrahamGrowth)

	default:
		return models.ErrUnknownStrategy
	}
	return nil
}

// requireAnchor resolves a mandatory anchor or fails with the anchor
// name attached.
func requireAnchor(user, provider *float64, m models.Methodology, name string) (*models.Field, error) {
	if user != nil {
		return &models.Field{Value: *user, Source: models.SourceManual}, nil
	}
	if provider != nil {
		return &models.Field{Value: *provider, Source: models.SourceProvider}, nil
	}
	return nil, &models.MissingAnchorError{Methodology: m, Anchor: name}
}

// optionalAnchor resolves an anchor that always has a default.
func optionalAnchor(user, provider *float64, def float64) *models.Field {
	f := pickFloat(user, provider, def, models.SourceDefault)
	return &f
}
