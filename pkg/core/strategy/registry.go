package strategy

import (
	"fmt"

	"fairvalue/pkg/models"
)

// Metadata describes a registered strategy for routing and display.
type Metadata struct {
	DisplayName string
	Family      models.StrategyFamily
}

type entry struct {
	strategy Strategy
	meta     Metadata
}

// Registry maps methodologies to executable strategies. It is a plain
// value wired in by the caller; nothing in the engine reaches for a
// global.
type Registry struct {
	entries map[models.Methodology]entry
}

// NewRegistry returns a registry holding the complete strategy set.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[models.Methodology]entry)}
	r.register(fcffStandard{}, "DCF (FCFF, standard)")
	r.register(fcffNormalized{}, "DCF (FCFF, normalized)")
	r.register(fcffGrowth{}, "DCF (FCFF, growth / margin convergence)")
	r.register(fcfe{}, "FCFE")
	r.register(ddm{}, "Dividend discount")
	r.register(rim{}, "Residual income")
	r.register(graham{}, "Graham 1974 screen")
	return r
}

func (r *Registry) register(s Strategy, display string) {
	m := s.Methodology()
	r.entries[m] = entry{
		strategy: s,
		meta:     Metadata{DisplayName: display, Family: m.Family()},
	}
}

// Get resolves a methodology to its strategy and metadata.
func (r *Registry) Get(m models.Methodology) (Strategy, Metadata, error) {
	e, ok := r.entries[m]
	if !ok {
		return nil, Metadata{}, fmt.Errorf("methodology %q: %w", m, models.ErrUnknownStrategy)
	}
	return e.strategy, e.meta, nil
}

// Methodologies lists everything registered, for CLIs and validation.
func (r *Registry) Methodologies() []models.Methodology {
	out := make([]models.Methodology, 0, len(r.entries))
	for m := range r.entries {
		out = append(out, m)
	}
	return out
}
