package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"fairvalue/pkg/core/audit"
	"fairvalue/pkg/core/extensions"
	"fairvalue/pkg/core/resolve"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

func newTestOrchestrator() *Orchestrator {
	registry := strategy.NewRegistry()
	resolver := resolve.NewResolver()
	log := zerolog.Nop()
	return NewOrchestrator(registry, resolver,
		extensions.NewRunner(registry, resolver, log), audit.NewEngine(), log)
}

func testSnapshot() *models.CompanySnapshot {
	return &models.CompanySnapshot{
		Ticker:            "TEST",
		Name:              "Test Corp",
		Sector:            "Industrials",
		MarketPrice:       models.Float(80),
		SharesOutstanding: models.Float(10),
		TotalDebt:         models.Float(200),
		Cash:              models.Float(100),
		Beta:              models.Float(1.1),
		InterestExpense:   models.Float(-10),
		FCFTTM:            models.Float(100),
		RevenueTTM:        models.Float(2000),
		EBITTTM:           models.Float(300),
		EBITDATTM:         models.Float(400),
		NetIncomeTTM:      models.Float(150),
	}
}

func fcffRequest() *models.ValuationRequest {
	g := 0.02
	return &models.ValuationRequest{
		Ticker: "TEST",
		Params: models.FCFFStandardParams{
			Shared: models.CommonParams{
				ProjectionYears: 5,
				Terminal:        models.TerminalValueParams{PerpetualGrowthRate: &g},
			},
			GrowthRate: models.Float(0.06),
		},
		Seed: 42,
	}
}

func TestRunEndToEnd(t *testing.T) {
	o := newTestOrchestrator()

	res, err := o.Run(context.Background(), fcffRequest(), testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.IntrinsicValue <= 0 {
		t.Errorf("Expected a positive value, got %f", res.IntrinsicValue)
	}
	if res.MarketPrice != 80 {
		t.Errorf("Expected market price 80, got %f", res.MarketPrice)
	}
	wantUpside := (res.IntrinsicValue - 80) / 80
	if res.Upside != wantUpside {
		t.Errorf("Expected upside %f, got %f", wantUpside, res.Upside)
	}

	if res.Meta.RunID == "" || res.Meta.InputHash == "" {
		t.Error("Run metadata must carry id and input hash")
	}
	if res.Meta.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", res.Meta.Seed)
	}
	if res.Audit == nil {
		t.Fatal("Every completed run must carry an audit report")
	}
	if res.Inputs == nil || len(res.Steps) == 0 {
		t.Error("Expected resolved inputs and a glass-box trace on the result")
	}
}

func TestRunDeterminism(t *testing.T) {
	o := newTestOrchestrator()
	req := fcffRequest()
	req.Extensions = &models.ExtensionBundle{
		MonteCarlo: &models.MonteCarloConfig{Simulations: 500},
	}

	a, err := o.Run(context.Background(), req, testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := o.Run(context.Background(), req, testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.IntrinsicValue != b.IntrinsicValue {
		t.Error("Identical requests must produce identical values")
	}
	if a.Meta.InputHash != b.Meta.InputHash {
		t.Error("Identical requests must hash identically")
	}
	if a.Extensions.MonteCarlo.Mean != b.Extensions.MonteCarlo.Mean {
		t.Error("Same seed must reproduce the simulation")
	}
	if a.Meta.RunID == b.Meta.RunID {
		t.Error("Each run gets its own id")
	}
}

func TestRunInputHashSensitivity(t *testing.T) {
	o := newTestOrchestrator()

	a, err := o.Run(context.Background(), fcffRequest(), testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	req := fcffRequest()
	req.Seed = 43
	b, err := o.Run(context.Background(), req, testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Meta.InputHash == b.Meta.InputHash {
		t.Error("A different seed must change the input hash")
	}
}

func TestRunBlockedByGuardrails(t *testing.T) {
	o := newTestOrchestrator()

	req := fcffRequest()
	g := 0.50 // far above any plausible discount rate
	p := req.Params.(models.FCFFStandardParams)
	p.Shared.Terminal.PerpetualGrowthRate = &g
	req.Params = p

	_, err := o.Run(context.Background(), req, testSnapshot())
	if err == nil {
		t.Fatal("Expected a blocking guardrail error")
	}
	if !errors.Is(err, models.ErrGuardrail) {
		t.Errorf("Expected ErrGuardrail, got %v", err)
	}
	var gve *models.GuardrailViolationError
	if !errors.As(err, &gve) {
		t.Fatal("Expected GuardrailViolationError")
	}
	if len(gve.Checks) == 0 {
		t.Error("The violation must carry the check set")
	}
}

func TestRunMissingAnchorPropagates(t *testing.T) {
	o := newTestOrchestrator()
	req := &models.ValuationRequest{Ticker: "TEST", Params: models.DDMParams{}}
	snap := &models.CompanySnapshot{Ticker: "TEST"} // no dividend anywhere

	_, err := o.Run(context.Background(), req, snap)
	if !errors.Is(err, models.ErrMissingAnchor) {
		t.Errorf("Expected ErrMissingAnchor, got %v", err)
	}
}

func TestRunExtensionFailureDoesNotKillRun(t *testing.T) {
	o := newTestOrchestrator()
	req := fcffRequest()
	// Peers with no usable multiples fails, the base run survives.
	req.Extensions = &models.ExtensionBundle{
		Peers: &models.PeersConfig{Peers: []models.PeerComparable{{Ticker: "X", PE: -1}}},
	}

	res, err := o.Run(context.Background(), req, testSnapshot())
	if err != nil {
		t.Fatalf("Base run must survive an extension failure: %v", err)
	}
	if res.Extensions.Peers != nil {
		t.Error("Failed extension must not attach a result")
	}
	if _, ok := res.Extensions.Errors["peers"]; !ok {
		t.Error("Expected the peers failure recorded on the result")
	}
}

func TestRunFullBundle(t *testing.T) {
	o := newTestOrchestrator()
	req := fcffRequest()
	p := func(v float64) *float64 { return &v }
	req.Extensions = &models.ExtensionBundle{
		MonteCarlo:  &models.MonteCarloConfig{Simulations: 400},
		Sensitivity: &models.SensitivityConfig{},
		Scenarios: &models.ScenarioConfig{Cases: []models.ScenarioCase{
			{Name: "bear", GrowthOverride: p(0.01), Probability: p(0.25)},
			{Name: "base", GrowthOverride: p(0.02), Probability: p(0.50)},
			{Name: "bull", GrowthOverride: p(0.03), Probability: p(0.25)},
		}},
		SOTP: &models.SOTPConfig{Segments: []models.SOTPSegment{
			{Name: "core", EnterpriseValue: 1200},
			{Name: "ventures", EnterpriseValue: 300},
		}},
		Peers: &models.PeersConfig{Peers: []models.PeerComparable{
			{Ticker: "A", PE: 14, EVToEBITDA: 9, EVToRevenue: 1.5},
			{Ticker: "B", PE: 18, EVToEBITDA: 11, EVToRevenue: 2.0},
		}},
	}

	res, err := o.Run(context.Background(), req, testSnapshot())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Extensions.MonteCarlo == nil || res.Extensions.Sensitivity == nil ||
		res.Extensions.Scenarios == nil || res.Extensions.SOTP == nil ||
		res.Extensions.Peers == nil {
		t.Errorf("Expected every requested extension attached: %+v", res.Extensions.Errors)
	}
	if len(res.Extensions.Errors) != 0 {
		t.Errorf("Expected no extension errors, got %v", res.Extensions.Errors)
	}
}

func TestRunCancelledContext(t *testing.T) {
	o := newTestOrchestrator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Run(ctx, fcffRequest(), testSnapshot()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
