package audit

import (
	"fmt"
	"math"

	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// ===== PRE-EXECUTION GUARDRAILS =====
//
// Guardrails are pure functions over resolved inputs and parameters.
// They never mutate anything and never execute a valuation; the
// orchestrator aborts the run when any check comes back at error
// severity.

const (
	terminalSpreadWarning = 0.005
	assumedGrowthFloor    = 0.0
	leverageWarningRatio  = 10.0
	excessCashRatio       = 5.0
	probabilityTolerance  = 0.01
)

// RunGuardrails executes the full pre-flight check set.
func RunGuardrails(in *models.ResolvedInputs, params models.StrategyParams, ext *models.ExtensionBundle) []models.GuardrailCheck {
	var checks []models.GuardrailCheck
	checks = append(checks, checkTerminalGrowth(in, params)...)
	checks = append(checks, checkReturnsVsRate(in, params)...)
	checks = append(checks, checkCapitalStructure(in)...)
	if ext != nil && ext.Scenarios != nil {
		checks = append(checks, CheckScenarioProbabilities(ext.Scenarios.Cases)...)
	}
	return checks
}

// checkTerminalGrowth compares the perpetual growth assumption with
// the rate the strategy will discount at.
func checkTerminalGrowth(in *models.ResolvedInputs, params models.StrategyParams) []models.GuardrailCheck {
	common := params.Common()
	family := params.Methodology().Family()
	if family == models.FamilyHeuristic || common.Terminal.Method == models.TerminalExitMultiple {
		return nil
	}
	if common.Terminal.PerpetualGrowthRate == nil {
		return []models.GuardrailCheck{{
			Severity: models.GuardrailInfo,
			Code:     models.CodeTerminalGrowthNotSet,
			Message:  fmt.Sprintf("no perpetual growth set, macro inflation %.2f%% will be used", in.Inflation.Value*100),
		}}
	}

	g := *common.Terminal.PerpetualGrowthRate
	rate := strategy.DiscountRateFor(in, family)
	ctx := map[string]float64{"terminal_growth": g, "discount_rate": rate}

	switch {
	case g >= rate:
		return []models.GuardrailCheck{{
			Severity: models.GuardrailError,
			Code:     models.CodeTerminalGrowthExceedsRate,
			Message:  fmt.Sprintf("terminal growth %.2f%% meets or exceeds the discount rate %.2f%%, perpetuity is undefined", g*100, rate*100),
			Context:  ctx,
		}}
	case rate-g < terminalSpreadWarning:
		return []models.GuardrailCheck{{
			Severity: models.GuardrailWarning,
			Code:     models.CodeTerminalGrowthCloseToRate,
			Message:  fmt.Sprintf("terminal growth %.2f%% sits within 50bp of the discount rate, the terminal value dominates", g*100),
			Context:  ctx,
		}}
	case g <= in.Inflation.Value:
		return []models.GuardrailCheck{{
			Severity: models.GuardrailInfo,
			Code:     models.CodeTerminalGrowthConserv,
			Message:  "terminal growth at or below inflation",
			Context:  ctx,
		}}
	default:
		return []models.GuardrailCheck{{
			Severity: models.GuardrailInfo,
			Code:     models.CodeTerminalGrowthOK,
			Message:  "terminal growth assumption within normal range",
			Context:  ctx,
		}}
	}
}

// checkReturnsVsRate flags growth assumptions on businesses that do
// not earn their cost of capital.
func checkReturnsVsRate(in *models.ResolvedInputs, params models.StrategyParams) []models.GuardrailCheck {
	if params.Methodology().Family() != models.FamilyEnterprise {
		return nil
	}
	marketEquity := in.MarketPrice.Value * in.SharesOutstanding.Value
	invested := in.TotalDebt.Value + marketEquity - in.Cash.Value
	if invested <= 0 || in.EBITTTM.Value == 0 {
		return nil
	}

	nopat := in.EBITTTM.Value * (1.0 - in.TaxRate.Value)
	roic := nopat / invested
	wacc := strategy.DiscountRateFor(in, models.FamilyEnterprise)

	growing := in.Anchors.StartGrowth != nil && in.Anchors.StartGrowth.Value > assumedGrowthFloor ||
		in.Anchors.GrowthEstimate != nil && in.Anchors.GrowthEstimate.Value > assumedGrowthFloor
	if roic < wacc && growing {
		return []models.GuardrailCheck{{
			Severity: models.GuardrailWarning,
			Code:     models.CodeROICBelowRateWithGrowth,
			Message:  fmt.Sprintf("ROIC %.2f%% below WACC %.2f%% while growth is assumed, growth destroys value here", roic*100, wacc*100),
			Context:  map[string]float64{"roic": roic, "wacc": wacc},
		}}
	}
	return nil
}

// checkCapitalStructure runs sanity checks on the balance sheet
// inputs.
func checkCapitalStructure(in *models.ResolvedInputs) []models.GuardrailCheck {
	var checks []models.GuardrailCheck

	if in.TotalDebt.Value < 0 {
		checks = append(checks, models.GuardrailCheck{
			Severity: models.GuardrailError,
			Code:     models.CodeNegativeDebt,
			Message:  "total debt is negative",
			Context:  map[string]float64{"total_debt": in.TotalDebt.Value},
		})
	}
	if in.Cash.Value < 0 {
		checks = append(checks, models.GuardrailCheck{
			Severity: models.GuardrailError,
			Code:     models.CodeNegativeCash,
			Message:  "cash position is negative",
			Context:  map[string]float64{"cash": in.Cash.Value},
		})
	}
	if in.SharesOutstanding.Value <= 0 {
		checks = append(checks, models.GuardrailCheck{
			Severity: models.GuardrailError,
			Code:     models.CodeNonPositiveShares,
			Message:  "shares outstanding must be positive",
			Context:  map[string]float64{"shares": in.SharesOutstanding.Value},
		})
	}

	marketEquity := in.MarketPrice.Value * in.SharesOutstanding.Value
	if marketEquity > 0 && in.TotalDebt.Value/marketEquity > leverageWarningRatio {
		checks = append(checks, models.GuardrailCheck{
			Severity: models.GuardrailWarning,
			Code:     models.CodeExtremeLeverage,
			Message:  "debt exceeds ten times market equity",
			Context:  map[string]float64{"debt_to_equity": in.TotalDebt.Value / marketEquity},
		})
	}
	if in.TotalDebt.Value > 0 && in.Cash.Value/in.TotalDebt.Value > excessCashRatio {
		checks = append(checks, models.GuardrailCheck{
			Severity: models.GuardrailWarning,
			Code:     models.CodeExcessCash,
			Message:  "cash exceeds five times total debt, check the balance sheet mapping",
			Context:  map[string]float64{"cash_to_debt": in.Cash.Value / in.TotalDebt.Value},
		})
	}
	return checks
}

// CheckScenarioProbabilities validates that the scenario weights form
// a probability distribution within a 1% band.
func CheckScenarioProbabilities(cases []models.ScenarioCase) []models.GuardrailCheck {
	if len(cases) == 0 {
		return nil
	}
	sum := 0.0
	for _, c := range cases {
		p := 1.0
		if c.Probability != nil {
			p = *c.Probability
		}
		sum += p
	}

	ctx := map[string]float64{"probability_sum": sum}
	if math.Abs(sum-1.0) > probabilityTolerance {
		return []models.GuardrailCheck{{
			Severity: models.GuardrailError,
			Code:     models.CodeScenarioProbSum,
			Message:  fmt.Sprintf("scenario probabilities sum to %.4f, outside the accepted 1%% band", sum),
			Context:  ctx,
		}}
	}
	if sum != 1.0 {
		return []models.GuardrailCheck{{
			Severity: models.GuardrailWarning,
			Code:     models.CodeScenarioProbInexact,
			Message:  fmt.Sprintf("scenario probabilities sum to %.4f, weights will be renormalized", sum),
			Context:  ctx,
		}}
	}
	return nil
}
