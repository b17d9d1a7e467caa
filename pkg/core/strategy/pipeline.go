package strategy

import (
	"fmt"
	"math"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// ===== UNIFIED DISCOUNTED-FLOW PIPELINE =====
//
// Every projected strategy flows through the same spine: discount
// rate, flow projection, terminal value, NPV, equity bridge or direct
// equity, per-share value, dilution. The strategies differ only in
// which flows they feed in and at which rate they discount.

// DiscountRateFor exposes the rate a methodology family would
// discount at, for pre-execution checks that need to compare growth
// assumptions against it.
func DiscountRateFor(in *models.ResolvedInputs, family models.StrategyFamily) float64 {
	return discountRate(in, family, &tracer{})
}

// discountRate picks WACC for enterprise strategies and the cost of
// equity for equity-direct ones, tracing the chosen leg.
func discountRate(in *models.ResolvedInputs, family models.StrategyFamily, tr *tracer) float64 {
	if family == models.FamilyEnterprise {
		res := finmath.ComputeWACC(waccInput(in))
		tr.add(models.StepWACC, "Weighted average cost of capital",
			"we*ke + wd*kd*(1-tax)",
			map[string]models.Field{
				"cost_of_equity": calcVal(res.CostOfEquity),
				"after_tax_kd":   calcVal(res.AfterTaxKd),
				"weight_debt":    calcVal(res.WeightDebt),
				"beta":           calcVal(res.BetaUsed),
			}, res.WACC)
		return res.WACC
	}

	ke := finmath.CAPM(in.RiskFreeRate.Value, in.Beta.Value, in.MarketRiskPremium.Value)
	tr.add(models.StepKe, "Cost of equity (CAPM)", "rf + beta*mrp",
		map[string]models.Field{
			"risk_free": in.RiskFreeRate,
			"beta":      in.Beta,
			"mrp":       in.MarketRiskPremium,
		}, ke)
	return ke
}

// waccInput derives the capital structure from market values. With no
// observable market equity the structure collapses to all-equity.
func waccInput(in *models.ResolvedInputs) finmath.WACCInput {
	de := 0.0
	marketEquity := in.MarketPrice.Value * in.SharesOutstanding.Value
	if marketEquity > 0 && in.TotalDebt.Value > 0 {
		de = in.TotalDebt.Value / marketEquity
	}
	return finmath.WACCInput{
		RiskFreeRate:      in.RiskFreeRate.Value,
		MarketRiskPremium: in.MarketRiskPremium.Value,
		LeveredBeta:       in.Beta.Value,
		CostOfDebt:        in.CostOfDebt.Value,
		TaxRate:           in.TaxRate.Value,
		DebtToEquity:      de,
	}
}

// executeProjected runs the shared spine on an explicit flow vector.
// perShareDirect marks flows that are already denominated per share.
func executeProjected(in *models.ResolvedInputs, common models.CommonParams, flows []float64,
	rate float64, family models.StrategyFamily, perShareDirect bool, tr *tracer) (*Outcome, error) {

	years := len(flows)
	if years == 0 {
		return nil, fmt.Errorf("projected valuation with an empty flow vector: %w", models.ErrMissingAnchor)
	}
	gTerm := terminalGrowth(common, in)

	var tv float64
	switch common.Terminal.Method {
	case models.TerminalExitMultiple:
		if common.Terminal.ExitMultiple == nil {
			return nil, fmt.Errorf("exit multiple terminal method without a multiple: %w", models.ErrTerminalValue)
		}
		tv = finmath.ExitMultipleTerminalValue(flows[years-1], *common.Terminal.ExitMultiple)
		tr.add(models.StepTVMultiple, "Terminal value (exit multiple)", "flow_n * multiple",
			map[string]models.Field{
				"final_flow": calcVal(flows[years-1]),
				"multiple":   paramVal(*common.Terminal.ExitMultiple),
			}, tv)
	default:
		var err error
		tv, err = finmath.GordonTerminalValue(flows[years-1], rate, gTerm)
		if err != nil {
			return nil, err
		}
		tr.add(models.StepTVGordon, "Terminal value (Gordon growth)", "flow_n*(1+g)/(rate-g)",
			map[string]models.Field{
				"final_flow": calcVal(flows[years-1]),
				"rate":       calcVal(rate),
				"growth":     terminalGrowthField(common, in),
			}, tv)
	}

	pvExplicit := finmath.NPV(flows, rate)
	pvTerminal := tv / math.Pow(1.0+rate, float64(years))
	tr.add(models.StepNPV, "Present value of flows", "sum(flow_t/(1+rate)^t) + tv/(1+rate)^n",
		map[string]models.Field{
			"pv_explicit": calcVal(pvExplicit),
			"pv_terminal": calcVal(pvTerminal),
		}, pvExplicit+pvTerminal)

	out := &Outcome{
		PVExplicit:   pvExplicit,
		PVTerminal:   pvTerminal,
		DiscountRate: rate,
		Flows:        flows,
	}
	if total := pvExplicit + pvTerminal; total != 0 {
		out.TVWeight = pvTerminal / total
	}

	shares := in.SharesOutstanding.Value
	var perShare float64
	switch {
	case family == models.FamilyEnterprise:
		out.EnterpriseValue = pvExplicit + pvTerminal
		out.EquityValue = out.EnterpriseValue - in.NetDebt() - in.Minorities.Value - in.Pensions.Value
		tr.add(models.StepEquityBridge, "Equity bridge", "ev - net_debt - minorities - pensions",
			map[string]models.Field{
				"enterprise_value": calcVal(out.EnterpriseValue),
				"net_debt":         calcVal(in.NetDebt()),
				"minorities":       in.Minorities,
				"pensions":         in.Pensions,
			}, out.EquityValue)
		perShare = out.EquityValue / shares
	case perShareDirect:
		perShare = pvExplicit + pvTerminal
		out.EquityValue = perShare * shares
		tr.add(models.StepEquityDirect, "Equity value (per-share flows)", "pv_explicit + pv_terminal",
			nil, perShare)
	default:
		out.EquityValue = pvExplicit + pvTerminal
		tr.add(models.StepEquityDirect, "Equity value (direct)", "pv_explicit + pv_terminal",
			nil, out.EquityValue)
		perShare = out.EquityValue / shares
	}

	tr.add(models.StepValuePerShare, "Intrinsic value per share", "equity_value / shares",
		map[string]models.Field{"shares_outstanding": in.SharesOutstanding}, perShare)

	if d := dilutionRate(common); d > 0 {
		diluted := finmath.ApplyDilution(perShare, d, years)
		tr.add(models.StepDilution, "Dilution-adjusted value", "value / (1+d)^n",
			map[string]models.Field{
				"dilution_rate": paramVal(d),
				"years":         paramVal(float64(years)),
			}, diluted)
		perShare = diluted
	}

	out.IntrinsicValue = perShare
	out.Steps = tr.steps
	return out, nil
}

// projectStandardFlows builds the flow vector for the anchor-and-grow
// strategies, tracing the projection.
func projectStandardFlows(base models.Field, common models.CommonParams, gStart, gTerm models.Field, tr *tracer) []float64 {
	years := projectionYears(common)
	growth := finmath.GrowthPath(gStart.Value, gTerm.Value, years, common.HighGrowthYears, common.ManualGrowthVector)
	flows := finmath.ProjectFlows(base.Value, growth)
	tr.add(models.StepFlowProj, "Explicit flow projection", "base compounded through growth path",
		map[string]models.Field{
			"base":            base,
			"start_growth":    gStart,
			"terminal_growth": gTerm,
			"years":           paramVal(float64(years)),
		}, flows[len(flows)-1])
	return flows
}
