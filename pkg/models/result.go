package models

import "time"

// ===== GLASS BOX TRACE =====

// CalculationStep is one node of the glass-box trace. Steps carry a
// strictly increasing id in execution order, and every input keeps its
// provenance tag, so a reviewer can replay the valuation by hand and
// see where each number came from.
type CalculationStep struct {
	StepID  int              `json:"step_id"`
	Key     string           `json:"key"`
	Label   string           `json:"label"`
	Formula string           `json:"formula,omitempty"`
	Inputs  map[string]Field `json:"inputs,omitempty"`
	Output  float64          `json:"output"`
}

// Glass-box step keys shared by the unified pipeline.
const (
	StepWACC          = "WACC_CALC"
	StepKe            = "KE_CALC"
	StepFlowProj      = "FCF_PROJ"
	StepTVGordon      = "TV_GORDON"
	StepTVMultiple    = "TV_MULTIPLE"
	StepNPV           = "NPV_CALC"
	StepEquityBridge  = "EQUITY_BRIDGE"
	StepEquityDirect  = "EQUITY_DIRECT"
	StepValuePerShare = "VALUE_PER_SHARE"
	StepDilution      = "SBC_DILUTION_ADJUSTMENT"
	StepSOTPConsol    = "SOTP_EV_CONSOLIDATION"
	StepSOTPBridge    = "SOTP_EQUITY_BRIDGE"
)

// ===== RUN RESULT =====

// RunMetadata identifies and reproduces a run.
type RunMetadata struct {
	RunID           string    `json:"run_id"`
	InputHash       string    `json:"input_hash"`
	Seed            int64     `json:"seed"`
	ExecutionTimeMS int64     `json:"execution_time_ms"`
	StartedAt       time.Time `json:"started_at"`
}

// ValuationResult is the complete output of one orchestrated run.
type ValuationResult struct {
	Ticker      string      `json:"ticker"`
	Methodology Methodology `json:"methodology"`

	IntrinsicValue float64 `json:"intrinsic_value"`
	MarketPrice    float64 `json:"market_price"`
	// Upside is (IV - price) / price, zero when price is unknown.
	Upside float64 `json:"upside"`

	EnterpriseValue float64   `json:"enterprise_value"`
	EquityValue     float64   `json:"equity_value"`
	PVExplicit      float64   `json:"pv_explicit"`
	PVTerminal      float64   `json:"pv_terminal"`
	TVWeight        float64   `json:"tv_weight"`
	DiscountRate    float64   `json:"discount_rate"`
	Flows           []float64 `json:"flows,omitempty"`

	Inputs *ResolvedInputs   `json:"inputs,omitempty"`
	Steps  []CalculationStep `json:"steps,omitempty"`

	// Guardrails carries the advisory checks of a run that passed the
	// pre-flight. Blocking violations never reach a result.
	Guardrails []GuardrailCheck `json:"guardrails,omitempty"`

	Extensions ExtensionResults `json:"extensions"`
	Audit      *AuditReport     `json:"audit,omitempty"`

	Meta RunMetadata `json:"meta"`
}

// ExtensionResults aggregates extension outputs. A runner that fails
// leaves its slot nil and records the failure under Errors; the base
// valuation is never invalidated by an extension.
type ExtensionResults struct {
	MonteCarlo  *MonteCarloResult  `json:"monte_carlo,omitempty"`
	Sensitivity *SensitivityResult `json:"sensitivity,omitempty"`
	Scenarios   *ScenarioResult    `json:"scenarios,omitempty"`
	SOTP        *SOTPResult        `json:"sotp,omitempty"`
	Peers       *PeersResult       `json:"peers,omitempty"`
	Backtest    *BacktestResult    `json:"backtest,omitempty"`

	Errors map[string]string `json:"errors,omitempty"`
}

// MonteCarloResult summarizes the simulated intrinsic value
// distribution.
type MonteCarloResult struct {
	Values    []float64           `json:"values"`
	Quantiles map[string]float64  `json:"quantiles"`
	Mean      float64             `json:"mean"`
	StdDev    float64             `json:"std_dev"`
	Valid     int                 `json:"valid"`
	Total     int                 `json:"total"`
	Traces    [][]CalculationStep `json:"traces,omitempty"`
}

// SensitivityResult is the rate/growth matrix. Rows follow YValues,
// which are listed from highest growth to lowest; invalid cells hold
// NaN.
type SensitivityResult struct {
	XAxisName       string      `json:"x_axis_name"`
	YAxisName       string      `json:"y_axis_name"`
	XValues         []float64   `json:"x_values"`
	YValues         []float64   `json:"y_values"`
	Matrix          [][]float64 `json:"matrix"`
	VolatilityScore float64     `json:"volatility_score"`
}

// ScenarioOutcome is one evaluated scenario branch.
type ScenarioOutcome struct {
	Name           string  `json:"name"`
	IntrinsicValue float64 `json:"intrinsic_value"`
	Weight         float64 `json:"weight"`
}

// ScenarioResult is the probability-weighted view across branches.
type ScenarioResult struct {
	Outcomes   []ScenarioOutcome `json:"outcomes"`
	ExpectedIV float64           `json:"expected_iv"`
	Upside     float64           `json:"upside"`
}

// SOTPResult values the group as the discounted sum of its parts.
type SOTPResult struct {
	SegmentEVs      map[string]float64 `json:"segment_evs"`
	GrossEV         float64            `json:"gross_ev"`
	DiscountedEV    float64            `json:"discounted_ev"`
	EquityValue     float64            `json:"equity_value"`
	ValuePerShare   float64            `json:"value_per_share"`
	Steps           []CalculationStep  `json:"steps,omitempty"`
}

// PeersResult triangulates value from relative multiples.
type PeersResult struct {
	Signals       map[string]float64 `json:"signals"`
	Triangulated  float64            `json:"triangulated"`
	PeersUsed     int                `json:"peers_used"`
}

// BacktestYear compares a frozen-year valuation against the price the
// market actually paid at that year end.
type BacktestYear struct {
	Year           int     `json:"year"`
	IntrinsicValue float64 `json:"intrinsic_value"`
	ActualPrice    float64 `json:"actual_price"`
	ImpliedUpside  float64 `json:"implied_upside"`
}

// BacktestResult holds the historical replay, skipped years listed by
// reason.
type BacktestResult struct {
	Years   []BacktestYear    `json:"years"`
	Skipped map[int]string    `json:"skipped,omitempty"`
}
