package finmath

import "math"

// ===== COST OF CAPITAL =====

// CAPM returns the cost of equity, rf + beta * MRP.
func CAPM(riskFree, beta, marketRiskPremium float64) float64 {
	return riskFree + beta*marketRiskPremium
}

// UnleverBeta strips financial leverage out of an observed beta
// (Hamada).
func UnleverBeta(leveredBeta, taxRate, debtToEquity float64) float64 {
	return leveredBeta / (1.0 + (1.0-taxRate)*debtToEquity)
}

// ReleverBeta applies a target capital structure to an asset beta
// (Hamada).
func ReleverBeta(unleveredBeta, taxRate, debtToEquity float64) float64 {
	return unleveredBeta * (1.0 + (1.0-taxRate)*debtToEquity)
}

// WACCInput bundles the capital-cost drivers.
type WACCInput struct {
	RiskFreeRate      float64
	MarketRiskPremium float64
	LeveredBeta       float64
	// UnleveredBeta, when set, is relevered to the given structure and
	// replaces LeveredBeta in CAPM.
	UnleveredBeta *float64
	CostOfDebt    float64
	TaxRate       float64
	DebtToEquity  float64
}

// WACCResult exposes the intermediate legs alongside the blended rate.
type WACCResult struct {
	BetaUsed     float64
	CostOfEquity float64
	AfterTaxKd   float64
	WeightDebt   float64
	WeightEquity float64
	WACC         float64
}

// ComputeWACC blends equity and after-tax debt costs with market
// weights derived from D/E.
func ComputeWACC(in WACCInput) WACCResult {
	beta := in.LeveredBeta
	if in.UnleveredBeta != nil {
		beta = ReleverBeta(*in.UnleveredBeta, in.TaxRate, in.DebtToEquity)
	}

	ke := CAPM(in.RiskFreeRate, beta, in.MarketRiskPremium)
	afterTaxKd := in.CostOfDebt * (1.0 - in.TaxRate)

	// D/E = x implies wd = x/(1+x), we = 1/(1+x).
	wd := in.DebtToEquity / (1.0 + in.DebtToEquity)
	we := 1.0 - wd

	return WACCResult{
		BetaUsed:     beta,
		CostOfEquity: ke,
		AfterTaxKd:   afterTaxKd,
		WeightDebt:   wd,
		WeightEquity: we,
		WACC:         we*ke + wd*afterTaxKd,
	}
}

// Synthetic cost of debt acceptance band. Ratios outside the band are
// treated as data noise and replaced by risk-free plus a flat spread.
const (
	syntheticKdFloor  = 0.01
	syntheticKdCeil   = 0.20
	syntheticKdSpread = 0.02
)

// SyntheticCostOfDebt infers a pre-tax cost of debt from the income
// statement. The second return reports whether the interest ratio
// itself was usable; when false the fallback rf + 200bp is returned.
func SyntheticCostOfDebt(interestExpense, totalDebt, riskFree float64) (float64, bool) {
	if totalDebt > 0 {
		kd := math.Abs(interestExpense) / totalDebt
		if kd > syntheticKdFloor && kd < syntheticKdCeil {
			return kd, true
		}
	}
	return riskFree + syntheticKdSpread, false
}
