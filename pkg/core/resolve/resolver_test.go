package resolve

import (
	"errors"
	"math"
	"testing"

	"fairvalue/pkg/models"
)

func baseRequest(params models.StrategyParams) *models.ValuationRequest {
	return &models.ValuationRequest{Ticker: "TEST", Params: params}
}

func TestResolvePrecedence(t *testing.T) {
	// User override beats provider, provider beats default.
	req := baseRequest(models.FCFFStandardParams{
		Shared:    models.CommonParams{ProjectionYears: 5},
		FCFAnchor: models.Float(500),
	})
	req.Overrides = &models.UserOverrides{
		Beta: models.Float(1.5),
	}
	snap := &models.CompanySnapshot{
		Ticker:    "TEST",
		Name:      "Test Corp",
		Beta:      models.Float(0.9),
		TotalDebt: models.Float(1000),
	}

	in, err := NewResolver().Resolve(req, snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if in.Beta.Value != 1.5 || in.Beta.Source != models.SourceManual {
		t.Errorf("Expected manual beta 1.5, got %f (%s)", in.Beta.Value, in.Beta.Source)
	}
	if in.TotalDebt.Value != 1000 || in.TotalDebt.Source != models.SourceProvider {
		t.Errorf("Expected provider debt 1000, got %f (%s)", in.TotalDebt.Value, in.TotalDebt.Source)
	}
	if in.SharesOutstanding.Value != 1.0 || in.SharesOutstanding.Source != models.SourceDefault {
		t.Errorf("Expected default shares 1.0, got %f (%s)", in.SharesOutstanding.Value, in.SharesOutstanding.Source)
	}
	if in.Name.Value != "Test Corp" {
		t.Errorf("Expected provider name, got %q", in.Name.Value)
	}
}

func TestResolveIdentityDefaults(t *testing.T) {
	req := baseRequest(models.FCFFStandardParams{FCFAnchor: models.Float(100)})

	in, err := NewResolver().Resolve(req, &models.CompanySnapshot{Ticker: "TEST"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if in.Name.Value != "Unknown Entity" {
		t.Errorf("Expected Unknown Entity, got %q", in.Name.Value)
	}
	if in.Sector.Value != "Unknown Sector" {
		t.Errorf("Expected Unknown Sector, got %q", in.Sector.Value)
	}
	if in.Currency.Value != "USD" {
		t.Errorf("Expected USD, got %q", in.Currency.Value)
	}
}

func TestResolveCompleteness(t *testing.T) {
	// Every rate field must carry a non-empty source on an empty
	// snapshot.
	req := baseRequest(models.FCFFStandardParams{FCFAnchor: models.Float(100)})
	in, err := NewResolver().Resolve(req, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	fields := map[string]models.Field{
		"risk_free":  in.RiskFreeRate,
		"mrp":        in.MarketRiskPremium,
		"tax":        in.TaxRate,
		"beta":       in.Beta,
		"aaa_yield":  in.AAACorporateYield,
		"inflation":  in.Inflation,
		"kd":         in.CostOfDebt,
		"shares":     in.SharesOutstanding,
		"debt":       in.TotalDebt,
		"cash":       in.Cash,
		"minorities": in.Minorities,
		"pensions":   in.Pensions,
	}
	for name, f := range fields {
		if f.Source == "" {
			t.Errorf("Field %s resolved without a source", name)
		}
	}
	if in.RiskFreeRate.Value != 0.0425 || in.RiskFreeRate.Source != models.SourceMacro {
		t.Errorf("Expected macro risk-free 0.0425, got %f (%s)", in.RiskFreeRate.Value, in.RiskFreeRate.Source)
	}
}

func TestResolveSyntheticCostOfDebt(t *testing.T) {
	// 60 interest on 1200 debt = 5%: accepted, tagged calculated.
	req := baseRequest(models.FCFFStandardParams{FCFAnchor: models.Float(100)})
	snap := &models.CompanySnapshot{
		Ticker:          "TEST",
		TotalDebt:       models.Float(1200),
		InterestExpense: models.Float(-60),
	}

	in, err := NewResolver().Resolve(req, snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(in.CostOfDebt.Value-0.05) > 0.0001 {
		t.Errorf("Expected synthetic Kd 0.05, got %f", in.CostOfDebt.Value)
	}
	if in.CostOfDebt.Source != models.SourceCalculated {
		t.Errorf("Expected calculated source, got %s", in.CostOfDebt.Source)
	}

	// Operator override always wins over the synthetic path.
	req.Overrides = &models.UserOverrides{CostOfDebt: models.Float(0.08)}
	in, err = NewResolver().Resolve(req, snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.CostOfDebt.Value != 0.08 || in.CostOfDebt.Source != models.SourceManual {
		t.Errorf("Expected manual Kd 0.08, got %f (%s)", in.CostOfDebt.Value, in.CostOfDebt.Source)
	}
}

func TestResolveSyntheticCostOfDebtOutOfBand(t *testing.T) {
	// 600 interest on 1200 debt = 50%: rejected, rf + 200bp.
	req := baseRequest(models.FCFFStandardParams{FCFAnchor: models.Float(100)})
	snap := &models.CompanySnapshot{
		Ticker:          "TEST",
		TotalDebt:       models.Float(1200),
		InterestExpense: models.Float(600),
	}

	in, err := NewResolver().Resolve(req, snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(in.CostOfDebt.Value-0.0625) > 0.0001 {
		t.Errorf("Expected fallback Kd 0.0625, got %f", in.CostOfDebt.Value)
	}
}

func TestResolveMissingAnchor(t *testing.T) {
	// DDM with no dividend anywhere must fail with the typed error.
	req := baseRequest(models.DDMParams{})
	_, err := NewResolver().Resolve(req, &models.CompanySnapshot{Ticker: "TEST"})

	if err == nil {
		t.Fatal("Expected missing anchor error")
	}
	if !errors.Is(err, models.ErrMissingAnchor) {
		t.Errorf("Expected ErrMissingAnchor, got %v", err)
	}
	var mae *models.MissingAnchorError
	if !errors.As(err, &mae) {
		t.Fatal("Expected MissingAnchorError type")
	}
	if mae.Anchor != "dividend_per_share" {
		t.Errorf("Expected anchor dividend_per_share, got %q", mae.Anchor)
	}
}

func TestResolveAnchorFallbacksPerStrategy(t *testing.T) {
	snap := &models.CompanySnapshot{
		Ticker:            "TEST",
		FCFTTM:            models.Float(100),
		RevenueTTM:        models.Float(2000),
		EBITTTM:           models.Float(300),
		NetIncomeTTM:      models.Float(150),
		DividendPerShare:  models.Float(2.5),
		BookValuePerShare: models.Float(40),
		EPSTTM:            models.Float(6),
	}
	r := NewResolver()

	// Normalized falls back to trailing FCF when no normalized figure
	// is supplied.
	in, err := r.Resolve(baseRequest(models.FCFFNormalizedParams{}), snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.Anchors.NormalizedFCF == nil || in.Anchors.NormalizedFCF.Value != 100 {
		t.Error("Expected normalized anchor from fcf_ttm")
	}

	// FCFE falls back to net income.
	in, err = r.Resolve(baseRequest(models.FCFEParams{}), snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.Anchors.FCFEAnchor == nil || in.Anchors.FCFEAnchor.Value != 150 {
		t.Error("Expected FCFE anchor from net_income_ttm")
	}

	// RIM needs book value and EPS, persistence defaults to 0.70.
	in, err = r.Resolve(baseRequest(models.RIMParams{}), snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.Anchors.PersistenceFactor == nil || in.Anchors.PersistenceFactor.Value != 0.70 {
		t.Error("Expected default persistence 0.70")
	}
	if in.Anchors.PersistenceFactor.Source != models.SourceDefault {
		t.Error("Expected default source on persistence")
	}

	// Growth variant resolves both anchors plus levers.
	in, err = r.Resolve(baseRequest(models.FCFFGrowthParams{}), snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.Anchors.RevenueAnchor.Value != 2000 || in.Anchors.EBITAnchor.Value != 300 {
		t.Error("Expected revenue and EBIT anchors from the snapshot")
	}
	if in.Anchors.TargetFCFMargin.Value != 0.15 {
		t.Errorf("Expected default target margin 0.15, got %f", in.Anchors.TargetFCFMargin.Value)
	}

	// Graham anchors on trailing EPS.
	in, err = r.Resolve(baseRequest(models.GrahamParams{}), snap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.Anchors.EPSNormalized == nil || in.Anchors.EPSNormalized.Value != 6 {
		t.Error("Expected Graham EPS anchor from eps_ttm")
	}
}
