package strategy

import (
	"math"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// ===== EQUITY-DIRECT FAMILY =====

// fcfe discounts equity cash flows at the cost of equity, no bridge.
type fcfe struct{}

func (fcfe) Methodology() models.Methodology { return models.MethodologyFCFE }

func (s fcfe) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.FCFEParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.FCFEAnchor == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "fcfe_anchor"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	rate := discountRate(in, models.FamilyEquityDirect, tr)
	flows := projectStandardFlows(*in.Anchors.FCFEAnchor, common,
		*in.Anchors.GrowthEstimate, terminalGrowthField(common, in), tr)

	return executeProjected(in, common, flows, rate, models.FamilyEquityDirect, false, tr)
}

// ddm discounts dividends per share; the pipeline output is already
// per share.
type ddm struct{}

func (ddm) Methodology() models.Methodology { return models.MethodologyDDM }

func (s ddm) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.DDMParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.DividendPerShare == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "dividend_per_share"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	rate := discountRate(in, models.FamilyEquityDirect, tr)
	flows := projectStandardFlows(*in.Anchors.DividendPerShare, common,
		*in.Anchors.GrowthEstimate, terminalGrowthField(common, in), tr)

	return executeProjected(in, common, flows, rate, models.FamilyEquityDirect, true, tr)
}

// rim values equity as current book value plus the present value of
// residual income, with an Ohlson continuing value instead of a
// Gordon terminal.
type rim struct{}

func (rim) Methodology() models.Methodology { return models.MethodologyRIM }

func (s rim) Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error) {
	if _, ok := params.(models.RIMParams); !ok {
		return nil, paramMismatch(s.Methodology(), params)
	}
	if in.Anchors.BookValueAnchor == nil || in.Anchors.EPSAnchor == nil {
		return nil, &models.MissingAnchorError{Methodology: s.Methodology(), Anchor: "book_value_anchor"}
	}

	tr := &tracer{on: opts.Trace}
	common := params.Common()
	ke := discountRate(in, models.FamilyEquityDirect, tr)

	years := projectionYears(common)
	growth := finmath.GrowthPath(in.Anchors.GrowthEstimate.Value, terminalGrowth(common, in),
		years, common.HighGrowthYears, common.ManualGrowthVector)

	bv0 := in.Anchors.BookValueAnchor.Value
	ri, _ := finmath.ResidualIncomePath(bv0, in.Anchors.EPSAnchor.Value,
		in.Anchors.PayoutRatio.Value, ke, growth)
	tr.add(models.StepFlowProj, "Residual income projection", "ri_t = ni_t - ke*bv_{t-1}",
		map[string]models.Field{
			"book_value_0": *in.Anchors.BookValueAnchor,
			"eps_0":        *in.Anchors.EPSAnchor,
			"payout":       *in.Anchors.PayoutRatio,
			"years":        paramVal(float64(years)),
		}, ri[len(ri)-1])

	omega := in.Anchors.PersistenceFactor.Value
	cv, err := finmath.ContinuingResidualValue(ri[len(ri)-1], ke, omega)
	if err != nil {
		return nil, err
	}
	tr.add(models.StepTVGordon, "Continuing residual value", "ri_n*omega/(1+ke-omega)",
		map[string]models.Field{
			"persistence": *in.Anchors.PersistenceFactor,
			"final_ri":    calcVal(ri[len(ri)-1]),
		}, cv)

	pvRI := finmath.NPV(ri, ke)
	pvCV := cv / math.Pow(1.0+ke, float64(years))
	perShare := bv0 + pvRI + pvCV
	tr.add(models.StepNPV, "Book value plus discounted residual income",
		"bv_0 + sum(ri_t/(1+ke)^t) + cv/(1+ke)^n",
		map[string]models.Field{
			"pv_residual":   calcVal(pvRI),
			"pv_continuing": calcVal(pvCV),
		}, perShare)

	tr.add(models.StepEquityDirect, "Equity value (per-share flows)", "", nil, perShare)
	tr.add(models.StepValuePerShare, "Intrinsic value per share", "",
		map[string]models.Field{"shares_outstanding": in.SharesOutstanding}, perShare)

	out := &Outcome{
		EquityValue:  perShare * in.SharesOutstanding.Value,
		PVExplicit:   bv0 + pvRI,
		PVTerminal:   pvCV,
		DiscountRate: ke,
		Flows:        ri,
	}
	if total := out.PVExplicit + out.PVTerminal; total != 0 {
		out.TVWeight = out.PVTerminal / total
	}

	if d := dilutionRate(common); d > 0 {
		diluted := finmath.ApplyDilution(perShare, d, years)
		tr.add(models.StepDilution, "Dilution-adjusted value", "value / (1+d)^n",
			map[string]models.Field{"dilution_rate": paramVal(d)}, diluted)
		perShare = diluted
	}

	out.IntrinsicValue = perShare
	out.Steps = tr.steps
	return out, nil
}
