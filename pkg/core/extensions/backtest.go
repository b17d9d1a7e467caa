package extensions

import (
	"fmt"
	"sort"

	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// RunBacktest replays the valuation against frozen fiscal years. Each
// year sees only the data that existed then, so there is no look-ahead
// into later statements; the produced value is compared with the
// price the market actually paid at that year end.
func (r *Runner) RunBacktest(req *models.ValuationRequest, snap *models.CompanySnapshot,
	strat strategy.Strategy, cfg *models.BacktestConfig) (*models.BacktestResult, error) {

	if snap == nil || len(snap.History) == 0 {
		return nil, fmt.Errorf("backtest requested without historical statements: %w", models.ErrSnapshotEmpty)
	}
	if len(cfg.Years) == 0 {
		return nil, fmt.Errorf("backtest requested with no target years")
	}

	byYear := make(map[int]models.FiscalYearData, len(snap.History))
	for _, fy := range snap.History {
		byYear[fy.Year] = fy
	}

	res := &models.BacktestResult{Skipped: make(map[int]string)}
	years := append([]int(nil), cfg.Years...)
	sort.Ints(years)

	for _, year := range years {
		fy, ok := byYear[year]
		if !ok {
			res.Skipped[year] = "no statements for fiscal year"
			continue
		}
		if !fy.Complete() {
			res.Skipped[year] = "incomplete core statements"
			continue
		}

		frozen := freezeSnapshot(snap, fy)
		frozenReq := *req
		frozenReq.Extensions = nil

		in, err := r.resolver.Resolve(&frozenReq, frozen)
		if err != nil {
			res.Skipped[year] = err.Error()
			continue
		}
		out, err := strat.Execute(in, req.Params, strategy.ExecOptions{})
		if err != nil {
			res.Skipped[year] = err.Error()
			continue
		}

		by := models.BacktestYear{Year: year, IntrinsicValue: out.IntrinsicValue}
		if fy.YearEndPrice != nil && *fy.YearEndPrice > 0 {
			by.ActualPrice = *fy.YearEndPrice
			by.ImpliedUpside = (out.IntrinsicValue - by.ActualPrice) / by.ActualPrice
		}
		res.Years = append(res.Years, by)
	}

	if len(res.Years) == 0 {
		return nil, fmt.Errorf("no requested year could be replayed: %w", models.ErrSnapshotEmpty)
	}
	if len(res.Skipped) == 0 {
		res.Skipped = nil
	}
	return res, nil
}

// freezeSnapshot rebuilds a snapshot as the engine would have seen it
// at the end of the given fiscal year. The frozen annual figures are
// injected as the trailing dataset so resolution runs unchanged.
func freezeSnapshot(snap *models.CompanySnapshot, fy models.FiscalYearData) *models.CompanySnapshot {
	frozen := &models.CompanySnapshot{
		Ticker:   snap.Ticker,
		Name:     snap.Name,
		Sector:   snap.Sector,
		Currency: snap.Currency,

		RevenueTTM:        fy.Revenue,
		EBITTTM:           fy.EBIT,
		NetIncomeTTM:      fy.NetIncome,
		FCFTTM:            fy.FCF,
		EPSTTM:            fy.EPS,
		DividendPerShare:  fy.DividendShare,
		BookValuePerShare: fy.BookValuePS,
		MarketPrice:       fy.YearEndPrice,

		Beta: snap.Beta,
		AsOf: snap.AsOf,
	}
	if fy.TotalDebt != nil {
		frozen.TotalDebt = fy.TotalDebt
	} else {
		frozen.TotalDebt = snap.TotalDebt
	}
	if fy.Cash != nil {
		frozen.Cash = fy.Cash
	} else {
		frozen.Cash = snap.Cash
	}
	if fy.Shares != nil {
		frozen.SharesOutstanding = fy.Shares
	} else {
		frozen.SharesOutstanding = snap.SharesOutstanding
	}
	return frozen
}
