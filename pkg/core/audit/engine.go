package audit

import (
	"fmt"

	"fairvalue/pkg/models"
)

// Engine grades completed runs. Auditing is advisory: whatever happens
// inside the engine, the valuation result stands and the worst case is
// a zero-score report.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Audit scores the run from 100 downward: common data-quality checks
// first, then the strategy-family checks. Panics are converted into
// the fallback report.
func (e *Engine) Audit(res *models.ValuationResult, in *models.ResolvedInputs, params models.StrategyParams) (report *models.AuditReport) {
	defer func() {
		if r := recover(); r != nil {
			report = fallbackReport(fmt.Sprintf("audit aborted: %v", r))
		}
	}()

	var logs []models.AuditLog
	logs = append(logs, dataConfidenceFindings(in)...)
	logs = append(logs, forensicFindings(in)...)
	logs = append(logs, assumptionFindings(res, in, params)...)
	logs = append(logs, modelRiskFindings(res, params)...)
	logs = append(logs, guardrailFindings(res)...)

	score := 100.0
	critical := false
	for _, l := range logs {
		score -= l.Penalty
		if l.Severity == "critical" {
			critical = true
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &models.AuditReport{
		GlobalScore:     score,
		Rating:          models.RatingFor(score),
		Logs:            logs,
		CriticalWarning: critical,
	}
}

// guardrailFindings folds the advisory pre-flight checks of the run
// into the report. They already passed the blocking gate, so they
// carry no penalty; the report is where a reader looks for the full
// picture of a run.
func guardrailFindings(res *models.ValuationResult) []models.AuditLog {
	var logs []models.AuditLog
	for _, c := range res.Guardrails {
		logs = append(logs, models.AuditLog{
			Category: models.AuditAssumptionRisk,
			Severity: "info",
			Message:  fmt.Sprintf("%s: %s", c.Code, c.Message),
			Penalty:  0,
		})
	}
	return logs
}

// fallbackReport is what the caller gets when auditing itself failed.
func fallbackReport(msg string) *models.AuditReport {
	return &models.AuditReport{
		GlobalScore: 0,
		Rating:      "Error",
		Logs: []models.AuditLog{{
			Category: models.AuditModelRisk,
			Severity: "critical",
			Message:  msg,
			Penalty:  100,
		}},
		CriticalWarning: true,
	}
}

func severityFor(penalty float64) string {
	if penalty >= 25 {
		return "critical"
	}
	return "warning"
}

func finding(category, message string, penalty float64) models.AuditLog {
	return models.AuditLog{
		Category: category,
		Severity: severityFor(penalty),
		Message:  message,
		Penalty:  penalty,
	}
}
