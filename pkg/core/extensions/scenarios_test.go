package extensions

import (
	"math"
	"testing"

	"fairvalue/pkg/models"
)

func TestScenariosWeightedExpectedValue(t *testing.T) {
	in, params, strat := fcffSetup()
	r := newTestRunner()

	p := func(v float64) *float64 { return &v }
	cfg := &models.ScenarioConfig{Cases: []models.ScenarioCase{
		{Name: "bear", GrowthOverride: p(0.00), Probability: p(0.25)},
		{Name: "base", GrowthOverride: p(0.02), Probability: p(0.50)},
		{Name: "bull", GrowthOverride: p(0.035), Probability: p(0.25)},
	}}

	res, err := r.RunScenarios(in, params, strat, cfg, 100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(res.Outcomes))
	}

	// Higher terminal growth must produce a higher branch value.
	if !(res.Outcomes[0].IntrinsicValue < res.Outcomes[1].IntrinsicValue &&
		res.Outcomes[1].IntrinsicValue < res.Outcomes[2].IntrinsicValue) {
		t.Errorf("Branch values not monotone in growth: %+v", res.Outcomes)
	}

	// The expected value stays inside the case bounds.
	min, max := res.Outcomes[0].IntrinsicValue, res.Outcomes[2].IntrinsicValue
	if res.ExpectedIV < min || res.ExpectedIV > max {
		t.Errorf("Expected IV %f outside [%f, %f]", res.ExpectedIV, min, max)
	}

	// Weights on an exact distribution pass through unchanged.
	if math.Abs(res.Outcomes[1].Weight-0.50) > 0.0001 {
		t.Errorf("Expected base weight 0.50, got %f", res.Outcomes[1].Weight)
	}

	wantUpside := (res.ExpectedIV - 100) / 100
	if math.Abs(res.Upside-wantUpside) > 0.0001 {
		t.Errorf("Expected upside %f, got %f", wantUpside, res.Upside)
	}
}

func TestScenariosRenormalizeWeights(t *testing.T) {
	in, params, strat := fcffSetup()
	r := newTestRunner()

	p := func(v float64) *float64 { return &v }
	// Sum 0.995: weights renormalize by the sum.
	cfg := &models.ScenarioConfig{Cases: []models.ScenarioCase{
		{Name: "a", GrowthOverride: p(0.01), Probability: p(0.50)},
		{Name: "b", GrowthOverride: p(0.02), Probability: p(0.495)},
	}}

	res, err := r.RunScenarios(in, params, strat, cfg, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var total float64
	for _, o := range res.Outcomes {
		total += o.Weight
	}
	if math.Abs(total-1.0) > 0.0001 {
		t.Errorf("Expected weights summing to 1 after renormalization, got %f", total)
	}
}

func TestScenariosDefaultProbability(t *testing.T) {
	in, params, strat := fcffSetup()
	r := newTestRunner()

	p := func(v float64) *float64 { return &v }
	// No probabilities at all: each case defaults to 1.0 and
	// renormalizes to an equal split.
	cfg := &models.ScenarioConfig{Cases: []models.ScenarioCase{
		{Name: "a", GrowthOverride: p(0.01)},
		{Name: "b", GrowthOverride: p(0.02)},
	}}

	res, err := r.RunScenarios(in, params, strat, cfg, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, o := range res.Outcomes {
		if math.Abs(o.Weight-0.5) > 0.0001 {
			t.Errorf("Expected equal weights, got %f", o.Weight)
		}
	}
}
