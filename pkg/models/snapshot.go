package models

import "time"

// CompanySnapshot is the provider-supplied financial picture of a
// company at a point in time. Nil pointers mean the provider had no
// figure; the resolver decides what happens then.
type CompanySnapshot struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Currency string `json:"currency,omitempty"`

	MarketPrice       *float64 `json:"market_price,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	TotalDebt         *float64 `json:"total_debt,omitempty"`
	Cash              *float64 `json:"cash,omitempty"`
	Minorities        *float64 `json:"minorities,omitempty"`
	Pensions          *float64 `json:"pensions,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	InterestExpense   *float64 `json:"interest_expense,omitempty"`
	TaxRate           *float64 `json:"tax_rate,omitempty"`

	RevenueTTM        *float64 `json:"revenue_ttm,omitempty"`
	EBITTTM           *float64 `json:"ebit_ttm,omitempty"`
	EBITDATTM         *float64 `json:"ebitda_ttm,omitempty"`
	NetIncomeTTM      *float64 `json:"net_income_ttm,omitempty"`
	FCFTTM            *float64 `json:"fcf_ttm,omitempty"`
	EPSTTM            *float64 `json:"eps_ttm,omitempty"`
	DividendPerShare  *float64 `json:"dividend_per_share,omitempty"`
	BookValuePerShare *float64 `json:"book_value_per_share,omitempty"`

	// History holds per-fiscal-year statements for point-in-time runs.
	History []FiscalYearData `json:"history,omitempty"`

	AsOf time.Time `json:"as_of"`
}

// FiscalYearData is a frozen annual slice of the snapshot. Incomplete
// years (any nil core statement figure) are unusable for backtesting.
type FiscalYearData struct {
	Year          int      `json:"year"`
	Revenue       *float64 `json:"revenue,omitempty"`
	EBIT          *float64 `json:"ebit,omitempty"`
	NetIncome     *float64 `json:"net_income,omitempty"`
	FCF           *float64 `json:"fcf,omitempty"`
	TotalDebt     *float64 `json:"total_debt,omitempty"`
	Cash          *float64 `json:"cash,omitempty"`
	Shares        *float64 `json:"shares,omitempty"`
	YearEndPrice  *float64 `json:"year_end_price,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	DividendShare *float64 `json:"dividend_share,omitempty"`
	BookValuePS   *float64 `json:"book_value_ps,omitempty"`
}

// Complete reports whether the year carries the three core statements.
func (f FiscalYearData) Complete() bool {
	return f.Revenue != nil && f.NetIncome != nil && f.FCF != nil
}

// UserOverrides are operator-supplied values that beat the provider on
// a field-by-field basis.
type UserOverrides struct {
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Currency string `json:"currency,omitempty"`

	MarketPrice       *float64 `json:"market_price,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	TotalDebt         *float64 `json:"total_debt,omitempty"`
	Cash              *float64 `json:"cash,omitempty"`
	Minorities        *float64 `json:"minorities,omitempty"`
	Pensions          *float64 `json:"pensions,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	UnleveredBeta     *float64 `json:"unlevered_beta,omitempty"`
	TaxRate           *float64 `json:"tax_rate,omitempty"`

	RiskFreeRate      *float64 `json:"risk_free_rate,omitempty"`
	MarketRiskPremium *float64 `json:"market_risk_premium,omitempty"`
	CostOfDebt        *float64 `json:"cost_of_debt,omitempty"`
	AAACorporateYield *float64 `json:"aaa_corporate_yield,omitempty"`
	Inflation         *float64 `json:"inflation,omitempty"`
}
