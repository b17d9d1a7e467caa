package audit

import (
	"fmt"

	"fairvalue/pkg/models"
)

// Scoring thresholds and penalties.
const (
	penaltyZeroDebtWithInterest = 10
	penaltyBetaOutOfRange       = 10
	penaltyMacroGrowthProxy     = 20

	aggressiveGrowth        = 0.20
	penaltyAggressiveGrowth = 20
	thinSpread              = 0.015
	penaltyThinSpread       = 25

	tvWeightCritical        = 0.85
	tvWeightElevated        = 0.70
	penaltyTVCritical       = 30
	penaltyTVElevated       = 15
	penaltyGrahamHeuristic  = 20

	mcDispersionCritical   = 0.50
	mcDispersionElevated   = 0.30
	penaltyMCDispCritical  = 25
	penaltyMCDispElevated  = 10

	betaFloor = 0.4
	betaCeil  = 3.0
)

// dataConfidenceFindings covers checks shared by every methodology.
func dataConfidenceFindings(in *models.ResolvedInputs) []models.AuditLog {
	var logs []models.AuditLog

	if in.TotalDebt.Value == 0 && in.InterestExpense.Value != 0 {
		logs = append(logs, finding(models.AuditDataConfidence,
			"interest expense reported with zero total debt, the debt figure is suspect",
			penaltyZeroDebtWithInterest))
	}
	if in.Beta.Value < betaFloor || in.Beta.Value > betaCeil {
		logs = append(logs, finding(models.AuditDataConfidence,
			fmt.Sprintf("beta %.2f outside the plausible [%.1f, %.1f] range", in.Beta.Value, betaFloor, betaCeil),
			penaltyBetaOutOfRange))
	}
	if g := in.Anchors.GrowthEstimate; g != nil &&
		(g.Source == models.SourceDefault || g.Source == models.SourceMacro) {
		logs = append(logs, finding(models.AuditDataConfidence,
			"growth assumption fell back to a macro proxy, no company-specific estimate",
			penaltyMacroGrowthProxy))
	}
	return logs
}

// assumptionFindings polices the operator's inputs.
func assumptionFindings(res *models.ValuationResult, in *models.ResolvedInputs, params models.StrategyParams) []models.AuditLog {
	var logs []models.AuditLog

	if g := in.Anchors.GrowthEstimate; g != nil && g.Value > aggressiveGrowth {
		logs = append(logs, finding(models.AuditAssumptionRisk,
			fmt.Sprintf("start growth %.1f%% above the 20%% aggressiveness threshold", g.Value*100),
			penaltyAggressiveGrowth))
	}
	if sg := in.Anchors.StartGrowth; sg != nil && sg.Value > aggressiveGrowth {
		logs = append(logs, finding(models.AuditAssumptionRisk,
			fmt.Sprintf("start growth %.1f%% above the 20%% aggressiveness threshold", sg.Value*100),
			penaltyAggressiveGrowth))
	}

	common := params.Common()
	if params.Methodology().Family() != models.FamilyHeuristic &&
		common.Terminal.Method != models.TerminalExitMultiple &&
		common.Terminal.PerpetualGrowthRate != nil &&
		res.DiscountRate > 0 {
		if spread := res.DiscountRate - *common.Terminal.PerpetualGrowthRate; spread < thinSpread {
			logs = append(logs, finding(models.AuditAssumptionRisk,
				fmt.Sprintf("rate-to-terminal-growth spread %.2f%% below 1.5%%, the perpetuity is fragile", spread*100),
				penaltyThinSpread))
		}
	}
	return logs
}

// modelRiskFindings grades the structural risk of the produced result.
func modelRiskFindings(res *models.ValuationResult, params models.StrategyParams) []models.AuditLog {
	var logs []models.AuditLog

	switch {
	case res.TVWeight > tvWeightCritical:
		logs = append(logs, finding(models.AuditModelRisk,
			fmt.Sprintf("terminal value carries %.0f%% of the valuation", res.TVWeight*100),
			penaltyTVCritical))
	case res.TVWeight > tvWeightElevated:
		logs = append(logs, finding(models.AuditModelRisk,
			fmt.Sprintf("terminal value carries %.0f%% of the valuation", res.TVWeight*100),
			penaltyTVElevated))
	}

	if params.Methodology() == models.MethodologyGraham {
		logs = append(logs, finding(models.AuditMethodFit,
			"Graham screen is a heuristic, not a full intrinsic model",
			penaltyGrahamHeuristic))
	}

	if mc := res.Extensions.MonteCarlo; mc != nil && mc.Mean != 0 {
		cov := mc.StdDev / mc.Mean
		if cov < 0 {
			cov = -cov
		}
		switch {
		case cov > mcDispersionCritical:
			logs = append(logs, finding(models.AuditModelRisk,
				fmt.Sprintf("simulated dispersion %.0f%% of the mean, the point estimate is weak", cov*100),
				penaltyMCDispCritical))
		case cov > mcDispersionElevated:
			logs = append(logs, finding(models.AuditModelRisk,
				fmt.Sprintf("simulated dispersion %.0f%% of the mean", cov*100),
				penaltyMCDispElevated))
		}
	}
	return logs
}
