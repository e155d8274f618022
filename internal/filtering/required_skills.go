package filtering

import (
	"strings"

	"blindhire/internal/screening"
)

type requiredSkillsFilter struct {
	enabled bool
	skills  map[string]struct{}
}

// NewRequiredSkills creates a filter that drops candidates matching none of
// the job's required skills. With no required skills the filter is disabled.
func NewRequiredSkills(enabled bool, required []string) Filter {
	skills := make(map[string]struct{}, len(required))
	for _, skill := range required {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			skills[skill] = struct{}{}
		}
	}

	return &requiredSkillsFilter{
		enabled: enabled && len(skills) > 0,
		skills:  skills,
	}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) IsEnabled() bool { return f.enabled }

func (f *requiredSkillsFilter) Apply(c *screening.Candidates) (*screening.Candidates, Step) {
	initial := c.Len()

	kept := &screening.Candidates{}
	for _, candidate := range c.Items {
		if f.matchesAny(candidate.Profile.Skills) {
			kept.Items = append(kept.Items, candidate)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}
}

func (f *requiredSkillsFilter) matchesAny(skills []string) bool {
	for _, skill := range skills {
		if _, ok := f.skills[strings.ToLower(strings.TrimSpace(skill))]; ok {
			return true
		}
	}
	return false
}
