package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"blindhire/internal/registry"
)

func TestWriteShortlistBranchesOnReveal(t *testing.T) {
	entries := []registry.ExportEntry{
		{Alias: "Candidate A", Identity: "Jane Doe", Score: 92, Rationale: "strong skill overlap", Revealed: true},
		{Alias: "Candidate B", Score: 81},
	}

	path := filepath.Join(t.TempDir(), "shortlist.xlsx")
	require.NoError(t, WriteShortlist(entries, "Backend Engineer", path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Backend Engineer")

	revealed, err := f.GetCellValue(sheetName, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", revealed)

	hidden, err := f.GetCellValue(sheetName, "B6")
	require.NoError(t, err)
	assert.Equal(t, "Candidate B", hidden)

	score, err := f.GetCellValue(sheetName, "C6")
	require.NoError(t, err)
	assert.Equal(t, "81", score)

	rationale, err := f.GetCellValue(sheetName, "E5")
	require.NoError(t, err)
	assert.Equal(t, "strong skill overlap", rationale)
}

func TestWriteShortlistAppendsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortlist")
	require.NoError(t, WriteShortlist([]registry.ExportEntry{{Alias: "Candidate A", Score: 50}}, "Job", path))

	_, err := excelize.OpenFile(path + ".xlsx")
	require.NoError(t, err)
}
