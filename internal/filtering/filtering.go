// Package filtering applies post-scoring cuts to the ranked candidate list.
// Filters only ever see anonymized profiles.
package filtering

import (
	"go.uber.org/zap"

	"blindhire/internal/screening"
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(c *screening.Candidates) (*screening.Candidates, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Filtering runs an ordered list of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// Run executes the enabled filters sequentially and returns the remaining
// candidates. Ranking order is preserved.
func (f *Filtering) Run(candidates *screening.Candidates) *screening.Candidates {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(candidates)

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates
}
