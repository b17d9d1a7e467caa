package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fairvalue/pkg/core/audit"
	"fairvalue/pkg/core/extensions"
	"fairvalue/pkg/core/resolve"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
)

// Orchestrator drives a valuation run end to end: resolution,
// guardrails, strategy execution, extensions, audit. Every dependency
// is injected; the orchestrator holds no globals and no mutable state,
// so one instance serves any number of sequential runs.
type Orchestrator struct {
	registry   *strategy.Registry
	resolver   *resolve.Resolver
	extensions *extensions.Runner
	auditor    *audit.Engine
	log        zerolog.Logger
}

func NewOrchestrator(registry *strategy.Registry, resolver *resolve.Resolver,
	ext *extensions.Runner, auditor *audit.Engine, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		resolver:   resolver,
		extensions: ext,
		auditor:    auditor,
		log:        log,
	}
}

// Run executes one valuation request against a provider snapshot.
// Domain failures (missing anchors, blocking guardrails, undefined
// terminal values) come back as their typed errors; anything else is
// wrapped with the run identity. Compute is single-threaded and
// deterministic for a fixed (request, snapshot, seed) triple.
func (o *Orchestrator) Run(ctx context.Context, req *models.ValuationRequest, snap *models.CompanySnapshot) (*models.ValuationResult, error) {
	started := time.Now()
	runID := uuid.NewString()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := o.resolver.Resolve(req, snap)
	if err != nil {
		return nil, err
	}

	checks := audit.RunGuardrails(in, req.Params, req.Extensions)
	if models.HasBlocking(checks) {
		o.log.Warn().Str("run_id", runID).Str("ticker", req.Ticker).
			Int("checks", len(checks)).Msg("run blocked by guardrails")
		return nil, &models.GuardrailViolationError{Checks: checks}
	}

	strat, meta, err := o.registry.Get(req.Params.Methodology())
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := strat.Execute(in, req.Params, strategy.ExecOptions{Trace: true})
	if err != nil {
		return nil, fmt.Errorf("run %s (%s on %s): %w", runID, meta.DisplayName, req.Ticker, err)
	}

	result := &models.ValuationResult{
		Ticker:          req.Ticker,
		Methodology:     req.Params.Methodology(),
		IntrinsicValue:  out.IntrinsicValue,
		MarketPrice:     in.MarketPrice.Value,
		EnterpriseValue: out.EnterpriseValue,
		EquityValue:     out.EquityValue,
		PVExplicit:      out.PVExplicit,
		PVTerminal:      out.PVTerminal,
		TVWeight:        out.TVWeight,
		DiscountRate:    out.DiscountRate,
		Flows:           out.Flows,
		Inputs:          in,
		Steps:           out.Steps,
		Guardrails:      checks,
	}
	if result.MarketPrice > 0 {
		result.Upside = (result.IntrinsicValue - result.MarketPrice) / result.MarketPrice
	}

	o.extensions.Process(req, snap, in, strat, result)

	result.Audit = o.auditor.Audit(result, in, req.Params)

	result.Meta = models.RunMetadata{
		RunID:           runID,
		InputHash:       inputHash(req, snap),
		Seed:            req.Seed,
		ExecutionTimeMS: time.Since(started).Milliseconds(),
		StartedAt:       started,
	}

	o.log.Info().
		Str("run_id", runID).
		Str("ticker", req.Ticker).
		Str("methodology", string(req.Params.Methodology())).
		Float64("intrinsic_value", result.IntrinsicValue).
		Float64("market_price", result.MarketPrice).
		Float64("upside", result.Upside).
		Float64("audit_score", result.Audit.GlobalScore).
		Str("audit_rating", result.Audit.Rating).
		Str("input_hash", result.Meta.InputHash).
		Int64("seed", req.Seed).
		Int64("elapsed_ms", result.Meta.ExecutionTimeMS).
		Msg("valuation run complete")

	return result, nil
}

// inputHash fingerprints everything that determines the run outcome.
// Two runs with equal hashes and equal seeds must produce identical
// results.
func inputHash(req *models.ValuationRequest, snap *models.CompanySnapshot) string {
	payload := struct {
		Ticker      string                  `json:"ticker"`
		Methodology models.Methodology      `json:"methodology"`
		Params      models.StrategyParams   `json:"params"`
		Overrides   *models.UserOverrides   `json:"overrides,omitempty"`
		Extensions  *models.ExtensionBundle `json:"extensions,omitempty"`
		Seed        int64                   `json:"seed"`
		Snapshot    *models.CompanySnapshot `json:"snapshot,omitempty"`
	}{
		Ticker:      req.Ticker,
		Methodology: req.Params.Methodology(),
		Params:      req.Params,
		Overrides:   req.Overrides,
		Extensions:  req.Extensions,
		Seed:        req.Seed,
		Snapshot:    snap,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// Marshaling plain data structs cannot fail; keep the run
		// alive with a recognizable marker if it somehow does.
		return "hash-unavailable"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
