package models

// ===== GUARDRAILS =====

// GuardrailSeverity ranks a pre-execution check outcome.
type GuardrailSeverity string

const (
	GuardrailError   GuardrailSeverity = "error"
	GuardrailWarning GuardrailSeverity = "warning"
	GuardrailInfo    GuardrailSeverity = "info"
)

// Guardrail check codes.
const (
	CodeTerminalGrowthExceedsRate = "GUARDRAIL_TERMINAL_GROWTH_EXCEEDS_WACC"
	CodeTerminalGrowthCloseToRate = "GUARDRAIL_TERMINAL_GROWTH_CLOSE_TO_WACC"
	CodeTerminalGrowthOK          = "GUARDRAIL_TERMINAL_GROWTH_OK"
	CodeTerminalGrowthConserv     = "GUARDRAIL_TERMINAL_GROWTH_CONSERVATIVE"
	CodeTerminalGrowthNotSet      = "GUARDRAIL_TERMINAL_GROWTH_NOT_SET"
	CodeROICBelowRateWithGrowth   = "GUARDRAIL_ROIC_BELOW_WACC_WITH_GROWTH"
	CodeNegativeDebt              = "GUARDRAIL_NEGATIVE_DEBT"
	CodeNegativeCash              = "GUARDRAIL_NEGATIVE_CASH"
	CodeNonPositiveShares         = "GUARDRAIL_NON_POSITIVE_SHARES"
	CodeExtremeLeverage           = "GUARDRAIL_EXTREME_LEVERAGE"
	CodeExcessCash                = "GUARDRAIL_EXCESS_CASH"
	CodeScenarioProbSum           = "GUARDRAIL_SCENARIO_PROBABILITY_SUM"
	CodeScenarioProbInexact       = "GUARDRAIL_SCENARIO_PROBABILITY_INEXACT"
)

// GuardrailCheck is the outcome of one pure pre-execution check.
type GuardrailCheck struct {
	Severity GuardrailSeverity  `json:"severity"`
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Context  map[string]float64 `json:"context,omitempty"`
}

// HasBlocking reports whether any check in the set is an error.
func HasBlocking(checks []GuardrailCheck) bool {
	for _, c := range checks {
		if c.Severity == GuardrailError {
			return true
		}
	}
	return false
}

// ===== AUDIT REPORT =====

// Audit finding categories.
const (
	AuditDataConfidence = "DATA_CONFIDENCE"
	AuditAssumptionRisk = "ASSUMPTION_RISK"
	AuditModelRisk      = "MODEL_RISK"
	AuditMethodFit      = "METHOD_FIT"
)

// AuditLog is one scored finding.
type AuditLog struct {
	Category string  `json:"category"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Penalty  float64 `json:"penalty"`
}

// AuditReport grades the trustworthiness of a completed run. A failed
// audit never fails the run; the fallback report carries score zero
// and the critical flag.
type AuditReport struct {
	GlobalScore     float64    `json:"global_score"`
	Rating          string     `json:"rating"`
	Logs            []AuditLog `json:"logs"`
	CriticalWarning bool       `json:"critical_warning"`
}

// RatingFor buckets a clamped score into a letter rating.
func RatingFor(score float64) string {
	switch {
	case score >= 90:
		return "AAA"
	case score >= 75:
		return "AA"
	case score >= 60:
		return "BBB"
	case score >= 40:
		return "BB"
	default:
		return "C"
	}
}
