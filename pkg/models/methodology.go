package models

// Methodology identifies one of the supported valuation strategies.
type Methodology string

const (
	MethodologyFCFFStandard   Methodology = "FCFF_STANDARD"
	MethodologyFCFFNormalized Methodology = "FCFF_NORMALIZED"
	MethodologyFCFFGrowth     Methodology = "FCFF_GROWTH"
	MethodologyFCFE           Methodology = "FCFE"
	MethodologyDDM            Methodology = "DDM"
	MethodologyRIM            Methodology = "RIM"
	MethodologyGraham         Methodology = "GRAHAM"
)

// StrategyFamily groups methodologies that share a discounting surface.
type StrategyFamily string

const (
	// FamilyEnterprise discounts firm-level flows at WACC and bridges to equity.
	FamilyEnterprise StrategyFamily = "ENTERPRISE"
	// FamilyEquityDirect discounts equity flows at the cost of equity.
	FamilyEquityDirect StrategyFamily = "EQUITY_DIRECT"
	// FamilyHeuristic covers closed-form screens with no projection.
	FamilyHeuristic StrategyFamily = "HEURISTIC"
)

// Family returns the discounting family of a methodology.
func (m Methodology) Family() StrategyFamily {
	switch m {
	case MethodologyFCFFStandard, MethodologyFCFFNormalized, MethodologyFCFFGrowth:
		return FamilyEnterprise
	case MethodologyFCFE, MethodologyDDM, MethodologyRIM:
		return FamilyEquityDirect
	default:
		return FamilyHeuristic
	}
}

// VariableSource records where a resolved input value came from.
type VariableSource string

const (
	SourceProvider   VariableSource = "provider"
	SourceManual     VariableSource = "manual"
	SourceCalculated VariableSource = "calculated"
	SourceDefault    VariableSource = "default"
	SourceMacro      VariableSource = "macro"
)

// TerminalMethod selects how the terminal value is computed.
type TerminalMethod string

const (
	TerminalGordon       TerminalMethod = "gordon"
	TerminalExitMultiple TerminalMethod = "exit_multiple"
)
