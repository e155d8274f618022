package gemini

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestAnalyzerBuildsJobProfile(t *testing.T) {
	stub := &stubGenerator{response: `{
		"title": "Backend Engineer",
		"required_skills": ["Go", "SQL", ""],
		"experience": "5+ years of backend development",
		"qualification": "CS degree or equivalent"
	}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	job, err := analyzer.Analyze(context.Background(), "We are hiring a backend engineer...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Title != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", job.Title)
	}
	if len(job.RequiredSkills) != 2 {
		t.Fatalf("expected empty skill to be dropped, got %v", job.RequiredSkills)
	}
	if job.Experience == "" || job.Qualification == "" {
		t.Fatalf("expected experience and qualification to be populated")
	}
}

func TestAnalyzerRejectsEmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := analyzer.Analyze(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty job description")
	}
}

func TestAnalyzerRejectsMissingTitle(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{response: `{"required_skills": ["Go"]}`}, zap.NewNop(), 0)

	if _, err := analyzer.Analyze(context.Background(), "job text"); err == nil {
		t.Fatalf("expected error for missing title")
	}
}
