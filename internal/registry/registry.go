// Package registry tracks reviewer decisions over anonymized candidates.
// Selection and reveal are independent flags per token; reveal is the only
// irreversible transition and the only path that touches the vault.
package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"blindhire/internal/screening"
	"blindhire/internal/vault"
)

// ExportEntry is one line of the shortlist export. Identity is set only when
// the candidate has been revealed; otherwise the alias stands in.
type ExportEntry struct {
	Alias     string
	Identity  string
	Score     int
	Rationale string
	Revealed  bool
}

type state struct {
	candidate *screening.Candidate
	selected  bool
	revealed  bool
	identity  screening.PiiRecord
}

// Registry enforces the reveal state machine for one batch of candidates.
type Registry struct {
	mu         sync.RWMutex
	vault      *vault.Vault
	candidates *screening.Candidates
	states     map[screening.Token]*state
	logger     *zap.Logger
}

// New builds a registry over the pipeline's output. Every candidate starts
// unselected and hidden.
func New(v *vault.Vault, candidates *screening.Candidates, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	states := make(map[screening.Token]*state, candidates.Len())
	for _, candidate := range candidates.Items {
		states[candidate.Token] = &state{candidate: candidate}
	}

	return &Registry{
		vault:      v,
		candidates: candidates,
		states:     states,
		logger:     logger,
	}
}

// Select marks the candidate as selected. Idempotent.
func (r *Registry) Select(tok screening.Token) error {
	return r.setSelected(tok, true)
}

// Deselect clears the selection flag. Idempotent, allowed in any reveal state.
func (r *Registry) Deselect(tok screening.Token) error {
	return r.setSelected(tok, false)
}

func (r *Registry) setSelected(tok screening.Token, selected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[tok]
	if !ok {
		return screening.ErrUnknownCandidate
	}
	st.selected = selected
	return nil
}

// Reveal joins the candidate with its vaulted PII and records the monotonic
// revealed flag. Repeat calls are idempotent and return the same record; the
// flag never regresses. This is an auditable action and is logged by alias,
// never by identity.
func (r *Registry) Reveal(tok screening.Token) (screening.RevealedCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[tok]
	if !ok {
		return screening.RevealedCandidate{}, screening.ErrUnknownCandidate
	}

	if st.revealed {
		return screening.RevealedCandidate{Candidate: *st.candidate, Identity: st.identity}, nil
	}

	pii, err := r.vault.Retrieve(tok)
	if err != nil {
		return screening.RevealedCandidate{}, fmt.Errorf("reveal %s: %w", st.candidate.Alias, err)
	}

	st.revealed = true
	st.identity = pii

	r.logger.Info("candidate revealed", zap.String("alias", st.candidate.Alias))

	return screening.RevealedCandidate{Candidate: *st.candidate, Identity: pii}, nil
}

// Selected reports the selection flag for the token.
func (r *Registry) Selected(tok screening.Token) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[tok]
	if !ok {
		return false, screening.ErrUnknownCandidate
	}
	return st.selected, nil
}

// Revealed reports whether the candidate's identity has been exposed.
func (r *Registry) Revealed(tok screening.Token) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[tok]
	if !ok {
		return false, screening.ErrUnknownCandidate
	}
	return st.revealed, nil
}

// Selection returns the selected candidates in ranking order.
func (r *Registry) Selection() *screening.Candidates {
	r.mu.RLock()
	defer r.mu.RUnlock()

	selection := &screening.Candidates{}
	for _, candidate := range r.candidates.Items {
		if st, ok := r.states[candidate.Token]; ok && st.selected {
			selection.Items = append(selection.Items, candidate)
		}
	}
	return selection
}

// ExportSelection renders the selected candidates in ranking order. The
// revealed-vs-anonymous branch is the one place identity handling is
// deliberate: a hidden candidate exports its alias only, and export never
// triggers a reveal on its own.
func (r *Registry) ExportSelection() []ExportEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]ExportEntry, 0)
	for _, candidate := range r.candidates.Items {
		st, ok := r.states[candidate.Token]
		if !ok || !st.selected {
			continue
		}

		entry := ExportEntry{
			Alias:     candidate.Alias,
			Score:     candidate.Profile.Score,
			Rationale: candidate.Profile.Rationale,
		}
		if st.revealed {
			entry.Identity = st.identity.Name
			entry.Revealed = true
		}
		entries = append(entries, entry)
	}
	return entries
}
