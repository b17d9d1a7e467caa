package extensions

import (
	"fmt"

	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// RunScenarios evaluates each branch with its growth override and
// folds the outcomes into a probability-weighted expected value.
// Weights are renormalized by their sum, so a slightly inexact
// distribution still integrates to one.
func (r *Runner) RunScenarios(in *models.ResolvedInputs, params models.StrategyParams,
	strat strategy.Strategy, cfg *models.ScenarioConfig, marketPrice float64) (*models.ScenarioResult, error) {

	if len(cfg.Cases) == 0 {
		return nil, fmt.Errorf("scenario analysis requested with no cases")
	}

	var totalProb float64
	probs := make([]float64, len(cfg.Cases))
	for i, c := range cfg.Cases {
		p := 1.0
		if c.Probability != nil {
			p = *c.Probability
		}
		probs[i] = p
		totalProb += p
	}
	if totalProb <= 0 {
		return nil, fmt.Errorf("scenario probabilities sum to %.4f, nothing to weight", totalProb)
	}

	outcomes := make([]models.ScenarioOutcome, 0, len(cfg.Cases))
	var weighted float64
	for i, c := range cfg.Cases {
		caseIn, caseParams := applyScenario(in, params, c)
		out, err := strat.Execute(caseIn, caseParams, strategy.ExecOptions{})
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", c.Name, err)
		}
		w := probs[i] / totalProb
		weighted += w * out.IntrinsicValue
		outcomes = append(outcomes, models.ScenarioOutcome{
			Name:           c.Name,
			IntrinsicValue: out.IntrinsicValue,
			Weight:         w,
		})
	}

	res := &models.ScenarioResult{Outcomes: outcomes, ExpectedIV: weighted}
	if marketPrice > 0 {
		res.Upside = (weighted - marketPrice) / marketPrice
	}
	return res, nil
}

// applyScenario clones the run configuration for one branch. The
// growth override lands on the terminal growth for projected
// strategies and on the growth estimate for the Graham screen.
func applyScenario(in *models.ResolvedInputs, params models.StrategyParams, c models.ScenarioCase) (*models.ResolvedInputs, models.StrategyParams) {
	if c.GrowthOverride == nil {
		return in, params.Clone()
	}
	if params.Methodology() == models.MethodologyGraham {
		out := *in
		out.Anchors.GrowthEstimate = &models.Field{Value: *c.GrowthOverride, Source: models.SourceManual}
		return &out, params.Clone()
	}
	return in, withTerminalGrowth(params.Clone(), *c.GrowthOverride)
}
