package strategy

import "fairvalue/pkg/models"

// Strategy executes one valuation methodology on resolved inputs.
// Implementations are stateless; all run state travels through the
// arguments.
type Strategy interface {
	Methodology() models.Methodology
	Execute(in *models.ResolvedInputs, params models.StrategyParams, opts ExecOptions) (*Outcome, error)
}

// ExecOptions tunes a single execution.
type ExecOptions struct {
	// Trace enables the glass-box step log. Stochastic batch callers
	// turn it off.
	Trace bool
}

// Outcome is the raw output of a strategy before orchestration wraps
// it into a ValuationResult.
type Outcome struct {
	IntrinsicValue  float64
	EnterpriseValue float64
	EquityValue     float64
	PVExplicit      float64
	PVTerminal      float64
	TVWeight        float64
	DiscountRate    float64
	Flows           []float64
	Steps           []models.CalculationStep
}

// tracer collects glass-box steps, or swallows them when tracing is
// off. Step ids are assigned in append order, starting at 1.
type tracer struct {
	on    bool
	steps []models.CalculationStep
}

func (t *tracer) add(key, label, formula string, inputs map[string]models.Field, output float64) {
	if !t.on {
		return
	}
	t.steps = append(t.steps, models.CalculationStep{
		StepID:  len(t.steps) + 1,
		Key:     key,
		Label:   label,
		Formula: formula,
		Inputs:  inputs,
		Output:  output,
	})
}

// calcVal tags a trace input derived during execution; paramVal tags
// one supplied on the parameter set. Resolved inputs are passed
// through as their own Field so the original provenance survives.
func calcVal(v float64) models.Field {
	return models.Field{Value: v, Source: models.SourceCalculated}
}

func paramVal(v float64) models.Field {
	return models.Field{Value: v, Source: models.SourceManual}
}

// projectionYears applies the default horizon when the caller left it
// unset.
func projectionYears(c models.CommonParams) int {
	if c.ProjectionYears > 0 {
		return c.ProjectionYears
	}
	return 5
}

// terminalGrowth falls back to the macro inflation assumption when no
// perpetual growth rate was requested.
func terminalGrowth(c models.CommonParams, in *models.ResolvedInputs) float64 {
	if c.Terminal.PerpetualGrowthRate != nil {
		return *c.Terminal.PerpetualGrowthRate
	}
	return in.Inflation.Value
}

// terminalGrowthField mirrors terminalGrowth, keeping the provenance
// of whichever source supplied the rate.
func terminalGrowthField(c models.CommonParams, in *models.ResolvedInputs) models.Field {
	if c.Terminal.PerpetualGrowthRate != nil {
		return paramVal(*c.Terminal.PerpetualGrowthRate)
	}
	return in.Inflation
}

func dilutionRate(c models.CommonParams) float64 {
	if c.DilutionRate != nil {
		return *c.DilutionRate
	}
	return 0
}
