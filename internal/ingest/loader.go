// Package ingest reads raw candidate documents from a directory and
// normalizes them into plain text for the pipeline.
package ingest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"blindhire/internal/screening"
)

// minTextLength guards against binary garbage and failed PDF extraction.
const minTextLength = 50

// Failure describes one file excluded from the batch input. The reason
// carries no file contents.
type Failure struct {
	Name   string
	Reason string
}

// LoadDocuments reads every supported file from dir in name order. Name order
// is the batch's input order, so the resulting ranking is deterministic for
// the same directory contents. A file that cannot be read or normalized is
// reported as a Failure and skipped; only a missing directory fails the call.
func LoadDocuments(dir string) ([]screening.Document, []Failure, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read documents directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md", ".pdf":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	documents := make([]screening.Document, 0, len(names))
	failures := make([]Failure, 0)
	for _, name := range names {
		path := filepath.Join(dir, name)

		text, err := extractText(path)
		if err != nil {
			failures = append(failures, Failure{Name: name, Reason: err.Error()})
			continue
		}

		documents = append(documents, screening.Document{
			ID:   uuid.NewString(),
			Name: name,
			Text: text,
		})
	}

	return documents, failures, nil
}

func extractText(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return extractPDF(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(content))
	if len(text) < minTextLength {
		return "", fmt.Errorf("document is too short (%d bytes)", len(text))
	}
	return text, nil
}

// extractPDF shells out to pdftotext from poppler-utils.
func extractPDF(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires 'pdftotext' (poppler-utils): %w", err)
	}

	text := strings.TrimSpace(string(output))
	if len(text) < minTextLength {
		return "", fmt.Errorf("extracted text is too short, likely a scanned or corrupt pdf")
	}
	return text, nil
}
