// Package export renders the reviewer's shortlist to a spreadsheet. Identity
// handling is delegated entirely to the registry's export entries: this code
// writes what it is given and never looks up PII itself.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"blindhire/internal/registry"
)

const sheetName = "Shortlist"

// WriteShortlist writes one row per selected candidate. Revealed candidates
// show their real name, hidden ones their alias.
func WriteShortlist(entries []registry.ExportEntry, jobTitle, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 60)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Shortlist: %s", jobTitle))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "E1", headerStyle)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Exported %s", time.Now().Format(time.RFC3339)))

	headers := []string{"Rank", "Candidate", "Score", "Revealed", "Rationale"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, entry := range entries {
		row := 5 + i

		identity := entry.Alias
		if entry.Revealed {
			identity = entry.Identity
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), identity)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.Revealed)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.Rationale)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save shortlist: %w", err)
	}

	return nil
}
