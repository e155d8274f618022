package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blindhire/internal/screening"
	"blindhire/internal/vault"
)

func newTestRegistry(t *testing.T) (*Registry, *screening.Candidates, *vault.Vault) {
	t.Helper()

	v := vault.New()

	records := []struct {
		name  string
		score int
	}{
		{"Jane Doe", 92},
		{"John Roe", 60},
	}

	candidates := &screening.Candidates{}
	for i, record := range records {
		tok, err := v.Store(screening.PiiRecord{Name: record.name})
		require.NoError(t, err)

		candidates.Items = append(candidates.Items, &screening.Candidate{
			Token:   tok,
			Alias:   "Candidate " + string(rune('A'+i)),
			Profile: screening.ProfessionalProfile{Score: record.score},
		})
	}

	return New(v, candidates, nil), candidates, v
}

func TestSelectIsIdempotent(t *testing.T) {
	reg, candidates, _ := newTestRegistry(t)
	tok := candidates.Items[0].Token

	require.NoError(t, reg.Select(tok))
	require.NoError(t, reg.Select(tok))

	selected, err := reg.Selected(tok)
	require.NoError(t, err)
	assert.True(t, selected)

	require.NoError(t, reg.Deselect(tok))
	require.NoError(t, reg.Deselect(tok))

	selected, err = reg.Selected(tok)
	require.NoError(t, err)
	assert.False(t, selected)
}

func TestUnknownCandidateErrors(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	require.ErrorIs(t, reg.Select("stale-token"), screening.ErrUnknownCandidate)
	require.ErrorIs(t, reg.Deselect("stale-token"), screening.ErrUnknownCandidate)

	_, err := reg.Reveal("stale-token")
	require.ErrorIs(t, err, screening.ErrUnknownCandidate)

	_, err = reg.Selected("stale-token")
	require.ErrorIs(t, err, screening.ErrUnknownCandidate)
}

func TestRevealIsMonotonicAndIdempotent(t *testing.T) {
	reg, candidates, _ := newTestRegistry(t)
	tok := candidates.Items[0].Token

	revealed, err := reg.Revealed(tok)
	require.NoError(t, err)
	require.False(t, revealed)

	first, err := reg.Reveal(tok)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", first.Identity.Name)

	revealed, err = reg.Revealed(tok)
	require.NoError(t, err)
	require.True(t, revealed)

	// Selection toggles must not regress the reveal flag.
	require.NoError(t, reg.Select(tok))
	require.NoError(t, reg.Deselect(tok))

	revealed, err = reg.Revealed(tok)
	require.NoError(t, err)
	require.True(t, revealed)

	second, err := reg.Reveal(tok)
	require.NoError(t, err)
	assert.Equal(t, first.Identity, second.Identity)
}

func TestRevealSurvivesVaultPurge(t *testing.T) {
	reg, candidates, v := newTestRegistry(t)
	tok := candidates.Items[0].Token

	_, err := reg.Reveal(tok)
	require.NoError(t, err)

	// The registry keeps the already-revealed record; the vault copy is gone.
	v.Purge()

	again, err := reg.Reveal(tok)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", again.Identity.Name)

	// A hidden candidate can no longer be revealed after the purge.
	_, err = reg.Reveal(candidates.Items[1].Token)
	require.ErrorIs(t, err, screening.ErrUnknownToken)
}

func TestExportSelectionBranchesOnReveal(t *testing.T) {
	reg, candidates, _ := newTestRegistry(t)
	best, runnerUp := candidates.Items[0], candidates.Items[1]

	require.NoError(t, reg.Select(best.Token))
	require.NoError(t, reg.Select(runnerUp.Token))

	_, err := reg.Reveal(best.Token)
	require.NoError(t, err)

	entries := reg.ExportSelection()
	require.Len(t, entries, 2)

	assert.True(t, entries[0].Revealed)
	assert.Equal(t, "Jane Doe", entries[0].Identity)
	assert.Equal(t, 92, entries[0].Score)

	assert.False(t, entries[1].Revealed)
	assert.Empty(t, entries[1].Identity)
	assert.Equal(t, runnerUp.Alias, entries[1].Alias)

	// Export must not reveal as a side effect.
	revealed, err := reg.Revealed(runnerUp.Token)
	require.NoError(t, err)
	assert.False(t, revealed)
}

func TestExportSelectionOmitsUnselected(t *testing.T) {
	reg, candidates, _ := newTestRegistry(t)
	best := candidates.Items[0]

	require.NoError(t, reg.Select(best.Token))

	_, err := reg.Reveal(best.Token)
	require.NoError(t, err)

	entries := reg.ExportSelection()
	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Doe", entries[0].Identity)
	assert.Equal(t, 92, entries[0].Score)
}

func TestSelectionPreservesRankingOrder(t *testing.T) {
	reg, candidates, _ := newTestRegistry(t)

	// Select in reverse rank order.
	require.NoError(t, reg.Select(candidates.Items[1].Token))
	require.NoError(t, reg.Select(candidates.Items[0].Token))

	selection := reg.Selection()
	require.Equal(t, 2, selection.Len())
	assert.Equal(t, candidates.Items[0].Token, selection.Items[0].Token)
	assert.Equal(t, candidates.Items[1].Token, selection.Items[1].Token)
}
