package extensions

import (
	"fmt"

	"fairvalue/pkg/core/finmath"
	"fairvalue/pkg/models"
)

// RunPeers triangulates an intrinsic value from peer trading
// multiples: median P/E on earnings, median EV/EBITDA and EV/Revenue
// bridged to equity. Non-positive multiples are noise and never enter
// a median.
func (r *Runner) RunPeers(in *models.ResolvedInputs, cfg *models.PeersConfig) (*models.PeersResult, error) {
	if len(cfg.Peers) == 0 {
		return nil, fmt.Errorf("peer triangulation requested with no comparables: %w", models.ErrNoPeerSignal)
	}
	shares := in.SharesOutstanding.Value
	if shares <= 0 {
		return nil, fmt.Errorf("peer triangulation needs a positive share count")
	}

	var pes, evEbitdas, evRevs []float64
	for _, p := range cfg.Peers {
		if p.PE > 0 {
			pes = append(pes, p.PE)
		}
		if p.EVToEBITDA > 0 {
			evEbitdas = append(evEbitdas, p.EVToEBITDA)
		}
		if p.EVToRevenue > 0 {
			evRevs = append(evRevs, p.EVToRevenue)
		}
	}

	bridge := in.NetDebt() + in.Minorities.Value + in.Pensions.Value
	signals := make(map[string]float64)

	if len(pes) > 0 && in.NetIncomeTTM.Value > 0 {
		signals["pe"] = finmath.Median(pes) * in.NetIncomeTTM.Value / shares
	}
	if len(evEbitdas) > 0 && in.EBITDATTM.Value > 0 {
		if v := (finmath.Median(evEbitdas)*in.EBITDATTM.Value - bridge) / shares; v > 0 {
			signals["ev_ebitda"] = v
		}
	}
	if len(evRevs) > 0 && in.RevenueTTM.Value > 0 {
		if v := (finmath.Median(evRevs)*in.RevenueTTM.Value - bridge) / shares; v > 0 {
			signals["ev_revenue"] = v
		}
	}

	if len(signals) == 0 {
		return nil, fmt.Errorf("no peer multiple produced a usable signal for %s: %w",
			in.Ticker, models.ErrNoPeerSignal)
	}

	var sum float64
	for _, v := range signals {
		sum += v
	}
	return &models.PeersResult{
		Signals:      signals,
		Triangulated: sum / float64(len(signals)),
		PeersUsed:    len(cfg.Peers),
	}, nil
}
