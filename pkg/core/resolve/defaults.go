package resolve

// Macro assumptions used when neither the operator nor the provider
// supplies a figure.
const (
	DefaultRiskFreeRate      = 0.0425
	DefaultMarketRiskPremium = 0.05
	DefaultTaxRate           = 0.25
	DefaultInflation         = 0.02
	DefaultAAAYield          = 0.045
)

// Data defaults for structural fields.
const (
	DefaultBeta              = 1.0
	DefaultSharesOutstanding = 1.0
	DefaultTotalDebt         = 0.0
	DefaultCash              = 0.0
	DefaultMinorities        = 0.0
	DefaultPensions          = 0.0
)

// Strategy-level defaults.
const (
	DefaultPayoutRatio       = 0.50
	DefaultPersistence       = 0.70
	DefaultTargetFCFMargin   = 0.15
	DefaultStartGrowth       = 0.10
	DefaultGrahamGrowth      = 0.05
	DefaultDilutionRate      = 0.0
	DefaultUnknownEntityName = "Unknown Entity"
	DefaultUnknownSector     = "Unknown Sector"
	DefaultCurrency          = "USD"
)
