package extensions

import (
	"github.com/rs/zerolog"

	"fairvalue/pkg/core/resolve"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// Runner executes the analytical extensions requested on a run. An
// extension that fails records its error on the result and the base
// valuation stands.
type Runner struct {
	registry *strategy.Registry
	resolver *resolve.Resolver
	log      zerolog.Logger
}

func NewRunner(registry *strategy.Registry, resolver *resolve.Resolver, log zerolog.Logger) *Runner {
	return &Runner{registry: registry, resolver: resolver, log: log}
}

// Process walks the requested bundle and attaches each outcome.
func (r *Runner) Process(req *models.ValuationRequest, snap *models.CompanySnapshot,
	in *models.ResolvedInputs, strat strategy.Strategy, result *models.ValuationResult) {

	ext := req.Extensions
	if ext == nil {
		return
	}
	record := func(name string, err error) {
		if result.Extensions.Errors == nil {
			result.Extensions.Errors = make(map[string]string)
		}
		result.Extensions.Errors[name] = err.Error()
		r.log.Warn().Str("ticker", req.Ticker).Str("extension", name).Err(err).
			Msg("extension failed, base valuation unaffected")
	}

	if ext.MonteCarlo != nil {
		mc, err := r.RunMonteCarlo(in, req.Params, strat, ext.MonteCarlo, req.Seed)
		if err != nil {
			record("monte_carlo", err)
		} else {
			result.Extensions.MonteCarlo = mc
		}
	}
	if ext.Sensitivity != nil {
		sens, err := r.RunSensitivity(in, req.Params, ext.Sensitivity)
		if err != nil {
			record("sensitivity", err)
		} else {
			result.Extensions.Sensitivity = sens
		}
	}
	if ext.Scenarios != nil {
		sc, err := r.RunScenarios(in, req.Params, strat, ext.Scenarios, result.MarketPrice)
		if err != nil {
			record("scenarios", err)
		} else {
			result.Extensions.Scenarios = sc
		}
	}
	if ext.SOTP != nil {
		sotp, err := r.RunSOTP(in, ext.SOTP)
		if err != nil {
			record("sotp", err)
		} else {
			result.Extensions.SOTP = sotp
		}
	}
	if ext.Peers != nil {
		peers, err := r.RunPeers(in, ext.Peers)
		if err != nil {
			record("peers", err)
		} else {
			result.Extensions.Peers = peers
		}
	}
	if ext.Backtest != nil {
		bt, err := r.RunBacktest(req, snap, strat, ext.Backtest)
		if err != nil {
			record("backtest", err)
		} else {
			result.Extensions.Backtest = bt
		}
	}
}
