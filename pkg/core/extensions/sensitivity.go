package extensions

import (
	"math"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// Grid defaults.
const (
	defaultGridSteps  = 5
	defaultRateSpan   = 0.01
	defaultGrowthSpan = 0.005
)

// RunSensitivity evaluates the valuation over a discount-rate by
// terminal-growth grid centered on the resolved assumptions. Cells
// where the perpetuity is undefined hold NaN so heat maps can render
// them as gaps instead of fake zeros.
func (r *Runner) RunSensitivity(in *models.ResolvedInputs, params models.StrategyParams,
	cfg *models.SensitivityConfig) (*models.SensitivityResult, error) {

	steps := cfg.Steps
	if steps <= 0 {
		steps = defaultGridSteps
	}
	rateSpan := orDefault(cfg.RateSpan, defaultRateSpan)
	growthSpan := orDefault(cfg.GrowthSpan, defaultGrowthSpan)

	family := params.Methodology().Family()
	centerRate := strategy.DiscountRateFor(in, family)
	centerGrowth := terminalGrowthOf(params, in)

	rates := linspace(centerRate-rateSpan, centerRate+rateSpan, steps)
	// Growth rows run high to low so the optimistic corner sits top
	// right.
	growths := linspace(centerGrowth+growthSpan, centerGrowth-growthSpan, steps)

	gStart := startGrowthOf(in)
	matrix := make([][]float64, steps)
	var valid []float64
	for gi, g := range growths {
		row := make([]float64, steps)
		for ri, rate := range rates {
			if rate <= g {
				row[ri] = math.NaN()
				continue
			}
			beta, ok := betaForRate(in, family, rate)
			if !ok {
				row[ri] = math.NaN()
				continue
			}
			v := strategy.ValueBatch(in, params, []strategy.Sample{{
				Beta:           beta,
				StartGrowth:    gStart,
				TerminalGrowth: g,
				BaseShock:      1.0,
			}})[0]
			row[ri] = v
			if !math.IsNaN(v) && v > 0 {
				valid = append(valid, v)
			}
		}
		matrix[gi] = row
	}

	res := &models.SensitivityResult{
		XAxisName: "Discount rate",
		YAxisName: "Terminal growth",
		XValues:   rates,
		YValues:   growths,
		Matrix:    matrix,
	}
	if len(valid) > 0 {
		min, max := valid[0], valid[0]
		for _, v := range valid {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if m := finmath.Mean(valid); m != 0 {
			res.VolatilityScore = (max - min) / m
		}
	}
	return res, nil
}

// betaForRate inverts the rate construction so the grid can move the
// discount rate while everything else stays resolved. CAPM and the
// WACC blend are both linear in beta.
func betaForRate(in *models.ResolvedInputs, family models.StrategyFamily, rate float64) (float64, bool) {
	if in.MarketRiskPremium.Value == 0 {
		return 0, false
	}
	if family != models.FamilyEnterprise {
		return (rate - in.RiskFreeRate.Value) / in.MarketRiskPremium.Value, true
	}

	de := 0.0
	marketEquity := in.MarketPrice.Value * in.SharesOutstanding.Value
	if marketEquity > 0 && in.TotalDebt.Value > 0 {
		de = in.TotalDebt.Value / marketEquity
	}
	wd := de / (1.0 + de)
	we := 1.0 - wd
	if we == 0 {
		return 0, false
	}
	afterTaxKd := in.CostOfDebt.Value * (1.0 - in.TaxRate.Value)
	ke := (rate - wd*afterTaxKd) / we
	return (ke - in.RiskFreeRate.Value) / in.MarketRiskPremium.Value, true
}

func linspace(from, to float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = from
		return out
	}
	step := (to - from) / float64(steps-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}
