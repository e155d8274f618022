package filtering

import "blindhire/internal/screening"

type minScoreFilter struct {
	threshold int
}

// NewMinScore creates a filter that drops candidates scoring below the
// threshold. A threshold of zero disables the filter.
func NewMinScore(threshold int) Filter {
	return &minScoreFilter{threshold: threshold}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) IsEnabled() bool { return f.threshold > 0 }

func (f *minScoreFilter) Apply(c *screening.Candidates) (*screening.Candidates, Step) {
	initial := c.Len()

	kept := &screening.Candidates{}
	for _, candidate := range c.Items {
		if candidate.Profile.Score >= f.threshold {
			kept.Items = append(kept.Items, candidate)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}
}
