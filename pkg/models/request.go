package models

// ValuationRequest is the single entry point payload of the engine.
type ValuationRequest struct {
	Ticker     string           `json:"ticker"`
	Params     StrategyParams   `json:"params"`
	Overrides  *UserOverrides   `json:"overrides,omitempty"`
	Extensions *ExtensionBundle `json:"extensions,omitempty"`

	// Seed drives every stochastic extension. Two runs with the same
	// request, snapshot and seed produce identical results.
	Seed int64 `json:"seed"`
}

// ExtensionBundle selects which analytical extensions run on top of
// the base valuation. Nil members are skipped.
type ExtensionBundle struct {
	MonteCarlo  *MonteCarloConfig  `json:"monte_carlo,omitempty"`
	Sensitivity *SensitivityConfig `json:"sensitivity,omitempty"`
	Scenarios   *ScenarioConfig    `json:"scenarios,omitempty"`
	SOTP        *SOTPConfig        `json:"sotp,omitempty"`
	Peers       *PeersConfig       `json:"peers,omitempty"`
	Backtest    *BacktestConfig    `json:"backtest,omitempty"`
}

// MonteCarloConfig tunes the simulation. Zero values fall back to the
// documented defaults at resolution time.
type MonteCarloConfig struct {
	Simulations    int      `json:"simulations"`
	BetaSigma      *float64 `json:"beta_sigma,omitempty"`
	GrowthSigma    *float64 `json:"growth_sigma,omitempty"`
	TerminalSigma  *float64 `json:"terminal_sigma,omitempty"`
	BaseFlowSigma  *float64 `json:"base_flow_sigma,omitempty"`
	BetaGrowthRho  *float64 `json:"beta_growth_rho,omitempty"`
	UseSlowPath    bool     `json:"use_slow_path"`
	TraceFirstN    int      `json:"trace_first_n"`
}

// SensitivityConfig tunes the 2D rate/growth grid.
type SensitivityConfig struct {
	Steps      int      `json:"steps"`
	RateSpan   *float64 `json:"rate_span,omitempty"`
	GrowthSpan *float64 `json:"growth_span,omitempty"`
}

// ScenarioConfig lists discrete cases with probability weights.
type ScenarioConfig struct {
	Cases []ScenarioCase `json:"cases"`
}

// ScenarioCase overrides the growth assumption for one branch of the
// scenario tree. A nil Probability defaults to 1.0 before the weights
// are renormalized.
type ScenarioCase struct {
	Name           string   `json:"name"`
	GrowthOverride *float64 `json:"growth_override,omitempty"`
	Probability    *float64 `json:"probability,omitempty"`
}

// SOTPConfig values a conglomerate segment by segment.
type SOTPConfig struct {
	Segments []SOTPSegment `json:"segments"`
	// ConglomerateDiscount haircuts the consolidated EV, default 0.
	ConglomerateDiscount *float64 `json:"conglomerate_discount,omitempty"`
}

// SOTPSegment is one operating segment with a pre-computed EV.
type SOTPSegment struct {
	Name            string  `json:"name"`
	EnterpriseValue float64 `json:"enterprise_value"`
}

// PeersConfig supplies the comparable set for relative triangulation.
type PeersConfig struct {
	Peers []PeerComparable `json:"peers"`
}

// PeerComparable carries one peer's trading multiples. Non-positive
// multiples are skipped during median aggregation.
type PeerComparable struct {
	Ticker      string  `json:"ticker"`
	PE          float64 `json:"pe"`
	EVToEBITDA  float64 `json:"ev_to_ebitda"`
	EVToRevenue float64 `json:"ev_to_revenue"`
}

// BacktestConfig replays the valuation against frozen fiscal years.
type BacktestConfig struct {
	Years []int `json:"years"`
}
