package strategy

import (
	"errors"
	"math"
	"testing"

	"fairvalue/pkg/models"
)

func TestRegistryHoldsCompleteSet(t *testing.T) {
	r := NewRegistry()

	all := []models.Methodology{
		models.MethodologyFCFFStandard,
		models.MethodologyFCFFNormalized,
		models.MethodologyFCFFGrowth,
		models.MethodologyFCFE,
		models.MethodologyDDM,
		models.MethodologyRIM,
		models.MethodologyGraham,
	}
	if len(r.Methodologies()) != len(all) {
		t.Fatalf("Expected %d strategies, got %d", len(all), len(r.Methodologies()))
	}
	for _, m := range all {
		s, meta, err := r.Get(m)
		if err != nil {
			t.Errorf("Missing strategy %s: %v", m, err)
			continue
		}
		if s.Methodology() != m {
			t.Errorf("Strategy registered under %s reports %s", m, s.Methodology())
		}
		if meta.DisplayName == "" {
			t.Errorf("Strategy %s has no display name", m)
		}
		if meta.Family != m.Family() {
			t.Errorf("Strategy %s family mismatch", m)
		}
	}
}

func TestRegistryUnknownMethodology(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Get("EBITDA_VOODOO")
	if !errors.Is(err, models.ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestValueBatchMatchesExecuteAtZeroPerturbation(t *testing.T) {
	// A sample carrying the resolved drivers unchanged must reproduce
	// the deterministic execution.
	in := unleveredInputs()
	in.Anchors.FCFAnchor = &models.Field{Value: 100, Source: models.SourceProvider}
	in.Anchors.GrowthEstimate = &models.Field{Value: 0.05, Source: models.SourceDefault}

	g := 0.02
	params := models.FCFFStandardParams{
		Shared: models.CommonParams{
			ProjectionYears: 5,
			Terminal:        models.TerminalValueParams{PerpetualGrowthRate: &g},
		},
	}

	out, err := fcffStandard{}.Execute(in, params, ExecOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := ValueBatch(in, params, []Sample{{
		Beta:           in.Beta.Value,
		StartGrowth:    in.Anchors.GrowthEstimate.Value,
		TerminalGrowth: g,
		BaseShock:      1.0,
	}})
	if len(values) != 1 {
		t.Fatalf("Expected 1 value, got %d", len(values))
	}
	if math.Abs(values[0]-out.IntrinsicValue) > 0.0001 {
		t.Errorf("Kernel %f diverges from Execute %f", values[0], out.IntrinsicValue)
	}
}

func TestValueBatchMatchesExecuteUnderBaseShock(t *testing.T) {
	// A base shock scales revenue and EBIT together, so the current
	// margin is shock-invariant and the kernel must agree with a full
	// execution on the shocked anchors.
	in := unleveredInputs()
	in.Anchors.RevenueAnchor = &models.Field{Value: 1000, Source: models.SourceProvider}
	in.Anchors.EBITAnchor = &models.Field{Value: 50, Source: models.SourceProvider}
	in.Anchors.TargetFCFMargin = &models.Field{Value: 0.15, Source: models.SourceManual}
	in.Anchors.StartGrowth = &models.Field{Value: 0.10, Source: models.SourceManual}

	g := 0.02
	params := models.FCFFGrowthParams{
		Shared: models.CommonParams{
			ProjectionYears: 5,
			Terminal:        models.TerminalValueParams{PerpetualGrowthRate: &g},
		},
	}

	values := ValueBatch(in, params, []Sample{{
		Beta:           in.Beta.Value,
		StartGrowth:    in.Anchors.StartGrowth.Value,
		TerminalGrowth: g,
		BaseShock:      0.5,
	}})
	if len(values) != 1 {
		t.Fatalf("Expected 1 value, got %d", len(values))
	}

	shocked := *in
	shocked.Anchors.RevenueAnchor = &models.Field{Value: 500, Source: models.SourceCalculated}
	shocked.Anchors.EBITAnchor = &models.Field{Value: 25, Source: models.SourceCalculated}
	out, err := fcffGrowth{}.Execute(&shocked, params, ExecOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if math.Abs(values[0]-out.IntrinsicValue) > 0.0001 {
		t.Errorf("Kernel %f diverges from Execute %f under a halved base", values[0], out.IntrinsicValue)
	}
}

func TestValueBatchInvalidDrawIsNaN(t *testing.T) {
	in := unleveredInputs()
	in.Anchors.FCFAnchor = &models.Field{Value: 100, Source: models.SourceProvider}
	in.Anchors.GrowthEstimate = &models.Field{Value: 0.05, Source: models.SourceDefault}

	params := models.FCFFStandardParams{Shared: models.CommonParams{ProjectionYears: 5}}

	// Terminal growth above the rate is undefined and must come back
	// NaN, not zero.
	values := ValueBatch(in, params, []Sample{{
		Beta:           in.Beta.Value,
		StartGrowth:    0.05,
		TerminalGrowth: 0.50,
		BaseShock:      1.0,
	}})
	if !math.IsNaN(values[0]) {
		t.Errorf("Expected NaN for undefined draw, got %f", values[0])
	}
}
