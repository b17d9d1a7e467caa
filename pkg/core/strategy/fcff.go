package strategy

import (
	"fmt"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// ===== FCFF FAMILY =====

// fcffStandard grows trailing free cash flow and discounts at WACC.
type fcffStandard struct{}

func (fcffStandard) Methodology() models.Methodology { return models.MethodologyFCFFStandard }

func (s fcffStandard) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.FCFFStandardParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.FCFAnchor == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "fcf_anchor"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	rate := discountRate(in, models.FamilyEnterprise, tr)
	flows := projectStandardFlows(*in.Anchors.FCFAnchor, common,
		*in.Anchors.GrowthEstimate, terminalGrowthField(common, in), tr)

	return executeProjected(in, common, flows, rate, models.FamilyEnterprise, false, tr)
}

// fcffNormalized is the standard pipeline anchored on a through-cycle
// flow instead of the trailing print.
type fcffNormalized struct{}

func (fcffNormalized) Methodology() models.Methodology { return models.MethodologyFCFFNormalized }

func (s fcffNormalized) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.FCFFNormalizedParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.NormalizedFCF == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "fcf_normalized"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	rate := discountRate(in, models.FamilyEnterprise, tr)
	flows := projectStandardFlows(*in.Anchors.NormalizedFCF, common,
		*in.Anchors.GrowthEstimate, terminalGrowthField(common, in), tr)

	return executeProjected(in, common, flows, rate, models.FamilyEnterprise, false, tr)
}

// fcffGrowth projects revenue and converges the cash margin toward a
// target, for businesses whose trailing cash flow is not yet
// representative.
type fcffGrowth struct{}

func (fcffGrowth) Methodology() models.Methodology { return models.MethodologyFCFFGrowth }

func (s fcffGrowth) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.FCFFGrowthParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.RevenueAnchor == nil || in.Anchors.EBITAnchor == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "revenue_anchor"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	rate := discountRate(in, models.FamilyEnterprise, tr)

	revenue := in.Anchors.RevenueAnchor.Value
	currentMargin := 0.0
	if revenue != 0 {
		currentMargin = in.Anchors.EBITAnchor.Value / revenue
	}
	years := projectionYears(common)
	growth := finmath.GrowthPath(in.Anchors.StartGrowth.Value, terminalGrowth(common, in),
		years, common.HighGrowthYears, common.ManualGrowthVector)
	flows := finmath.MarginConvergedFlows(revenue, currentMargin, in.Anchors.TargetFCFMargin.Value, growth)
	tr.add(models.StepFlowProj, "Revenue projection with margin convergence",
		"rev_t * margin_t, margin walking to target",
		map[string]models.Field{
			"revenue":        *in.Anchors.RevenueAnchor,
			"current_margin": calcVal(currentMargin),
			"target_margin":  *in.Anchors.TargetFCFMargin,
			"years":          paramVal(float64(years)),
		}, flows[len(flows)-1])

	return executeProjected(in, common, flows, rate, models.FamilyEnterprise, false, tr)
}

func paramMismatch(m models.Methodology, got models.StrategyParams) error {
	return fmt.Errorf("strategy %s received %s parameters: %w", m, got.Methodology(), models.ErrUnknownStrategy)
}
