package extensions

import (
	"fmt"
	"math"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// Simulation defaults.
const (
	defaultSimulations  = 5000
	defaultBetaSigma    = 0.10
	defaultGrowthSigma  = 0.015
	defaultTermSigma    = 0.005
	defaultBaseSigma    = 0.05
	defaultBetaRho      = -0.30
	terminalClipSpread  = 0.01
	sampleSanityCeiling = 1_000_000.0
	convergenceFloor    = 0.5
)

// RunMonteCarlo simulates the valuation under correlated perturbation
// of beta and growth, with an independent terminal-growth draw and a
// multiplicative shock on the base flow.
func (r *Runner) RunMonteCarlo(in *models.ResolvedInputs, params models.StrategyParams,
	strat strategy.Strategy, cfg *models.MonteCarloConfig, seed int64) (*models.MonteCarloResult, error) {

	sims := cfg.Simulations
	if sims <= 0 {
		sims = defaultSimulations
	}
	betaSigma := orDefault(cfg.BetaSigma, defaultBetaSigma)
	growthSigma := orDefault(cfg.GrowthSigma, defaultGrowthSigma)
	termSigma := orDefault(cfg.TerminalSigma, defaultTermSigma)
	baseSigma := orDefault(cfg.BaseFlowSigma, defaultBaseSigma)
	rho := orDefault(cfg.BetaGrowthRho, defaultBetaRho)

	family := params.Methodology().Family()
	rate := strategy.DiscountRateFor(in, family)
	gStart := startGrowthOf(in)
	gTerm := terminalGrowthOf(params, in)

	sampler := finmath.NewSampler(seed)
	samples := make([]strategy.Sample, sims)
	for i := range samples {
		zb, zg := sampler.CorrelatedStandardPair(rho)
		s := strategy.Sample{
			Beta:        in.Beta.Value + betaSigma*zb,
			StartGrowth: gStart + growthSigma*zg,
			BaseShock:   sampler.Normal(1.0, baseSigma),
		}
		// Terminal growth stays inside [0, rate - 1%] so the Gordon
		// denominator never collapses.
		s.TerminalGrowth = finmath.Clip(sampler.Normal(gTerm, termSigma), 0, rate-terminalClipSpread)
		samples[i] = s
	}

	var values []float64
	var traces [][]models.CalculationStep
	if cfg.UseSlowPath {
		values, traces = r.slowPath(in, params, strat, samples, cfg.TraceFirstN)
	} else {
		values = strategy.ValueBatch(in, params, samples)
	}

	valid := make([]float64, 0, sims)
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v < sampleSanityCeiling {
			valid = append(valid, v)
		}
	}
	if ratio := float64(len(valid)) / float64(sims); ratio < convergenceFloor {
		return nil, fmt.Errorf("only %.0f%% of %d draws produced usable values: %w",
			ratio*100, sims, models.ErrSimulationUnstable)
	}

	return &models.MonteCarloResult{
		Values: valid,
		Quantiles: map[string]float64{
			"P10": finmath.Quantile(valid, 0.10),
			"P50": finmath.Quantile(valid, 0.50),
			"P90": finmath.Quantile(valid, 0.90),
		},
		Mean:   finmath.Mean(valid),
		StdDev: finmath.StdDev(valid),
		Valid:  len(valid),
		Total:  sims,
		Traces: traces,
	}, nil
}

// slowPath replays each draw through the full strategy execution.
// Tracing is off except for the first traceN draws; the cost is the
// point of the fast kernel, but traced draws are invaluable when a
// distribution looks wrong.
func (r *Runner) slowPath(in *models.ResolvedInputs, params models.StrategyParams,
	strat strategy.Strategy, samples []strategy.Sample, traceN int) ([]float64, [][]models.CalculationStep) {

	values := make([]float64, len(samples))
	var traces [][]models.CalculationStep

	for i, s := range samples {
		perturbed := perturbInputs(in, s)
		p := withTerminalGrowth(params.Clone(), s.TerminalGrowth)

		out, err := strat.Execute(perturbed, p, strategy.ExecOptions{Trace: i < traceN})
		if err != nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = out.IntrinsicValue
		if i < traceN {
			traces = append(traces, out.Steps)
		}
	}
	return values, traces
}

// perturbInputs shallow-copies the resolved inputs with the sampled
// drivers swapped in.
func perturbInputs(in *models.ResolvedInputs, s strategy.Sample) *models.ResolvedInputs {
	out := *in
	out.Beta = models.Field{Value: s.Beta, Source: models.SourceCalculated}
	out.Anchors = scaleAnchors(in.Anchors, s)
	return &out
}

func scaleAnchors(a models.ResolvedAnchors, s strategy.Sample) models.ResolvedAnchors {
	scale := func(f *models.Field, factor float64) *models.Field {
		if f == nil {
			return nil
		}
		return &models.Field{Value: f.Value * factor, Source: models.SourceCalculated}
	}
	set := func(f *models.Field, v float64) *models.Field {
		if f == nil {
			return nil
		}
		return &models.Field{Value: v, Source: models.SourceCalculated}
	}

	out := a
	out.FCFAnchor = scale(a.FCFAnchor, s.BaseShock)
	out.NormalizedFCF = scale(a.NormalizedFCF, s.BaseShock)
	out.RevenueAnchor = scale(a.RevenueAnchor, s.BaseShock)
	// EBIT must move with revenue, or the shock leaks into the
	// current margin and the slow path drifts off the kernel.
	out.EBITAnchor = scale(a.EBITAnchor, s.BaseShock)
	out.FCFEAnchor = scale(a.FCFEAnchor, s.BaseShock)
	out.DividendPerShare = scale(a.DividendPerShare, s.BaseShock)
	out.EPSAnchor = scale(a.EPSAnchor, s.BaseShock)
	out.EPSNormalized = scale(a.EPSNormalized, s.BaseShock)
	out.GrowthEstimate = set(a.GrowthEstimate, s.StartGrowth)
	out.StartGrowth = set(a.StartGrowth, s.StartGrowth)
	return out
}

// withTerminalGrowth rewrites the perpetual growth on a cloned
// parameter set. The switch is exhaustive over the sealed variants.
func withTerminalGrowth(params models.StrategyParams, g float64) models.StrategyParams {
	switch p := params.(type) {
	case models.FCFFStandardParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.FCFFNormalizedParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.FCFFGrowthParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.FCFEParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.DDMParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.RIMParams:
		p.Shared.Terminal.PerpetualGrowthRate = &g
		return p
	case models.GrahamParams:
		return p
	default:
		return params
	}
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func startGrowthOf(in *models.ResolvedInputs) float64 {
	if in.Anchors.StartGrowth != nil {
		return in.Anchors.StartGrowth.Value
	}
	if in.Anchors.GrowthEstimate != nil {
		return in.Anchors.GrowthEstimate.Value
	}
	return 0
}

func terminalGrowthOf(params models.StrategyParams, in *models.ResolvedInputs) float64 {
	if g := params.Common().Terminal.PerpetualGrowthRate; g != nil {
		return *g
	}
	return in.Inflation.Value
}
