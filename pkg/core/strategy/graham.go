package strategy

import (
	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// StepGraham is the single glass-box node of the heuristic screen.
const StepGraham = "GRAHAM_FORMULA"

// graham applies the 1974 revised formula. No projection, no
// discounting spine.
type graham struct{}

func (graham) Methodology() models.Methodology { return models.MethodologyGraham }

func (s graham) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.GrahamParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.EPSNormalized == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "eps_normalized"}
	}

	eps := in.Anchors.EPSNormalized.Value
	growth := in.Anchors.GrowthEstimate.Value
	yield := in.AAACorporateYield.Value

	iv, err := finmath.GrahamValue(eps, growth, yield)
	if err != nil {
		return nil, err
	}

	tr := &tracer{on: opts.Trace}
	tr.add(StepGraham, "Graham 1974 revised formula", "eps*(8.5+2g)*4.4/Y",
		map[string]models.Field{
			"eps":       *in.Anchors.EPSNormalized,
			"growth":    *in.Anchors.GrowthEstimate,
			"aaa_yield": in.AAACorporateYield,
		}, iv)

	return &Outcome{
		IntrinsicValue: iv,
		EquityValue:    iv * in.SharesOutstanding.Value,
		Steps:          tr.steps,
	}, nil
}
