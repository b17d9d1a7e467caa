package strategy

import (
	"math"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// ===== STOCHASTIC BATCH KERNEL =====
//
// The Monte Carlo extension evaluates thousands of perturbed draws.
// Running the full Execute path per draw would pay for step tracing
// and result assembly it never uses, so the batch kernel re-runs only
// the arithmetic spine over plain float arrays.

// Sample perturbs the stochastic drivers of one draw. TerminalGrowth
// arrives pre-clipped by the caller.
type Sample struct {
	Beta           float64
	StartGrowth    float64
	TerminalGrowth float64
	BaseShock      float64
}

// ValueBatch evaluates every sample and returns one intrinsic value
// per draw. Draws whose arithmetic is undefined come back as NaN.
func ValueBatch(in *models.ResolvedInputs, params models.StrategyParams, samples []Sample) []float64 {
	out := make([]float64, len(samples))

	common := params.Common()
	years := projectionYears(common)
	bridge := in.NetDebt() + in.Minorities.Value + in.Pensions.Value
	shares := in.SharesOutstanding.Value
	dilution := dilutionRate(common)
	wacc := waccInput(in)

	switch params.(type) {
	case models.GrahamParams:
		eps := in.Anchors.EPSNormalized.Value
		yield := in.AAACorporateYield.Value
		for i, s := range samples {
			iv, err := finmath.GrahamValue(eps*s.BaseShock, s.StartGrowth, yield)
			if err != nil {
				out[i] = math.NaN()
				continue
			}
			out[i] = iv
		}
		return out

	case models.RIMParams:
		bv0 := in.Anchors.BookValueAnchor.Value
		eps := in.Anchors.EPSAnchor.Value
		payout := in.Anchors.PayoutRatio.Value
		omega := in.Anchors.PersistenceFactor.Value
		for i, s := range samples {
			ke := finmath.CAPM(in.RiskFreeRate.Value, s.Beta, in.MarketRiskPremium.Value)
			growth := finmath.GrowthPath(s.StartGrowth, s.TerminalGrowth, years,
				common.HighGrowthYears, common.ManualGrowthVector)
			ri, _ := finmath.ResidualIncomePath(bv0, eps*s.BaseShock, payout, ke, growth)
			cv, err := finmath.ContinuingResidualValue(ri[len(ri)-1], ke, omega)
			if err != nil {
				out[i] = math.NaN()
				continue
			}
			iv := bv0 + finmath.NPV(ri, ke) + cv/math.Pow(1.0+ke, float64(years))
			out[i] = finmath.ApplyDilution(iv, dilution, years)
		}
		return out
	}

	// Projected flow variants share the spine; only the base flow and
	// the discounting family differ.
	var base float64
	var enterprise, perShareDirect, marginConverged bool
	var currentMargin, targetMargin float64

	switch p := params.(type) {
	case models.FCFFStandardParams:
		base, enterprise = in.Anchors.FCFAnchor.Value, true
	case models.FCFFNormalizedParams:
		base, enterprise = in.Anchors.NormalizedFCF.Value, true
	case models.FCFFGrowthParams:
		base, enterprise, marginConverged = in.Anchors.RevenueAnchor.Value, true, true
		if base != 0 {
			currentMargin = in.Anchors.EBITAnchor.Value / base
		}
		targetMargin = in.Anchors.TargetFCFMargin.Value
		_ = p
	case models.FCFEParams:
		base = in.Anchors.FCFEAnchor.Value
	case models.DDMParams:
		base, perShareDirect = in.Anchors.DividendPerShare.Value, true
	default:
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	exitMultiple := common.Terminal.Method == models.TerminalExitMultiple
	var multiple float64
	if exitMultiple && common.Terminal.ExitMultiple != nil {
		multiple = *common.Terminal.ExitMultiple
	}

	for i, s := range samples {
		var rate float64
		if enterprise {
			w := wacc
			w.LeveredBeta = s.Beta
			rate = finmath.ComputeWACC(w).WACC
		} else {
			rate = finmath.CAPM(in.RiskFreeRate.Value, s.Beta, in.MarketRiskPremium.Value)
		}

		growth := finmath.GrowthPath(s.StartGrowth, s.TerminalGrowth, years,
			common.HighGrowthYears, common.ManualGrowthVector)
		var flows []float64
		if marginConverged {
			flows = finmath.MarginConvergedFlows(base*s.BaseShock, currentMargin, targetMargin, growth)
		} else {
			flows = finmath.ProjectFlows(base*s.BaseShock, growth)
		}

		var tv float64
		if exitMultiple {
			tv = finmath.ExitMultipleTerminalValue(flows[years-1], multiple)
		} else {
			var err error
			tv, err = finmath.GordonTerminalValue(flows[years-1], rate, s.TerminalGrowth)
			if err != nil {
				out[i] = math.NaN()
				continue
			}
		}

		total := finmath.NPV(flows, rate) + tv/math.Pow(1.0+rate, float64(years))
		var iv float64
		switch {
		case enterprise:
			iv = (total - bridge) / shares
		case perShareDirect:
			iv = total
		default:
			iv = total / shares
		}
		out[i] = finmath.ApplyDilution(iv, dilution, years)
	}
	return out
}
