package models

import (
	"errors"
	"fmt"
)

// Sentinel errors of the valuation domain. Callers classify failures
// with errors.Is.
var (
	ErrMissingAnchor      = errors.New("required valuation anchor is missing")
	ErrUnknownStrategy    = errors.New("unknown valuation strategy")
	ErrTerminalValue      = errors.New("terminal value is undefined")
	ErrGuardrail          = errors.New("blocking guardrail violation")
	ErrSimulationUnstable = errors.New("simulation did not converge")
	ErrNoPeerSignal       = errors.New("no valid peer multiple signal")
	ErrSnapshotEmpty      = errors.New("provider snapshot carries no data")
)

// Domain error codes surfaced to callers and logs.
const (
	CodeDataMissingAnchor = "DATA_MISSING_ANCHOR"
)

// MissingAnchorError reports which anchor could not be resolved for
// which methodology.
type MissingAnchorError struct {
	Methodology Methodology
	Anchor      string
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("%s: %s requires anchor %q and no source provided one",
		CodeDataMissingAnchor, e.Methodology, e.Anchor)
}

func (e *MissingAnchorError) Unwrap() error { return ErrMissingAnchor }

// GuardrailViolationError aborts a run before strategy execution. It
// carries the full check set, blocking and advisory alike, so the
// caller can render everything the checks found.
type GuardrailViolationError struct {
	Checks []GuardrailCheck
}

func (e *GuardrailViolationError) Error() string {
	n := 0
	first := ""
	for _, c := range e.Checks {
		if c.Severity == GuardrailError {
			if first == "" {
				first = c.Code
			}
			n++
		}
	}
	return fmt.Sprintf("%d blocking guardrail violation(s), first %s", n, first)
}

func (e *GuardrailViolationError) Unwrap() error { return ErrGuardrail }
