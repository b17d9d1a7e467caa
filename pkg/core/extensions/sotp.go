package extensions

import (
	"fmt"

	"fairvalue/pkg/models"
)

// RunSOTP consolidates per-segment enterprise values, haircuts the sum
// by the conglomerate discount and bridges to a per-share equity
// value with the common capital structure.
func (r *Runner) RunSOTP(in *models.ResolvedInputs, cfg *models.SOTPConfig) (*models.SOTPResult, error) {
	if len(cfg.Segments) == 0 {
		return nil, fmt.Errorf("sum-of-the-parts requested with no segments")
	}
	if in.SharesOutstanding.Value <= 0 {
		return nil, fmt.Errorf("sum-of-the-parts needs a positive share count")
	}

	discount := orDefault(cfg.ConglomerateDiscount, 0)

	segments := make(map[string]float64, len(cfg.Segments))
	var gross float64
	for _, s := range cfg.Segments {
		segments[s.Name] = s.EnterpriseValue
		gross += s.EnterpriseValue
	}
	discounted := gross * (1.0 - discount)

	equity := discounted - in.NetDebt() - in.Minorities.Value - in.Pensions.Value
	perShare := equity / in.SharesOutstanding.Value

	steps := []models.CalculationStep{
		{
			StepID:  1,
			Key:     models.StepSOTPConsol,
			Label:   "Segment EV consolidation",
			Formula: "sum(segment_ev) * (1 - discount)",
			Inputs: map[string]models.Field{
				"gross_ev":              {Value: gross, Source: models.SourceCalculated},
				"conglomerate_discount": {Value: discount, Source: models.SourceManual},
			},
			Output: discounted,
		},
		{
			StepID:  2,
			Key:     models.StepSOTPBridge,
			Label:   "Equity bridge on consolidated EV",
			Formula: "ev - net_debt - minorities - pensions",
			Inputs: map[string]models.Field{
				"net_debt":   {Value: in.NetDebt(), Source: models.SourceCalculated},
				"minorities": in.Minorities,
				"pensions":   in.Pensions,
			},
			Output: equity,
		},
	}

	return &models.SOTPResult{
		SegmentEVs:    segments,
		GrossEV:       gross,
		DiscountedEV:  discounted,
		EquityValue:   equity,
		ValuePerShare: perShare,
		Steps:         steps,
	}, nil
}
