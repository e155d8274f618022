package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"blindhire/internal/screening"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestExtractorSplitsPiiFromProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" +
		`{"name": "Jane Doe", "email": "jane@example.com", "phone": "+1 555 0100",` +
		` "skills": ["Go", "SQL", "go"], "summary": "the candidate builds backend services"}` +
		"\n```"}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	doc := screening.Document{ID: "doc-1", Name: "jane_cv.txt", Text: "cv text"}

	extraction, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if extraction.Pii.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", extraction.Pii.Name)
	}
	if extraction.Pii.Email != "jane@example.com" {
		t.Fatalf("unexpected email: %q", extraction.Pii.Email)
	}

	// Duplicate skills collapse, order preserved.
	if len(extraction.Skills) != 2 || extraction.Skills[0] != "Go" || extraction.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills: %v", extraction.Skills)
	}

	if !strings.Contains(stub.lastPrompt, "cv text") {
		t.Fatalf("expected document text in prompt")
	}
}

func TestExtractorScrubsLeakedIdentity(t *testing.T) {
	stub := &stubGenerator{response: `{"name": "Jane Doe", "email": "jane@example.com",` +
		` "skills": ["Go"], "summary": "Jane Doe has ten years of Go experience"}`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	extraction, err := extractor.Extract(context.Background(), screening.Document{ID: "d", Text: "cv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(extraction.Summary, "Jane") {
		t.Fatalf("summary still contains the applicant name: %q", extraction.Summary)
	}
	if !strings.Contains(extraction.Summary, "the candidate") {
		t.Fatalf("expected placeholder in summary: %q", extraction.Summary)
	}
}

func TestScrubIdentity(t *testing.T) {
	cases := []struct {
		name    string
		summary string
		values  []string
		want    string
	}{
		{
			name:    "plain name",
			summary: "Jane Doe writes Go services",
			values:  []string{"Jane Doe"},
			want:    "the candidate writes Go services",
		},
		{
			name:    "case insensitive",
			summary: "JANE DOE writes Go services",
			values:  []string{"Jane Doe"},
			want:    "the candidate writes Go services",
		},
		{
			// "Ida" is a substring of the replacement word "candidate"; the
			// scrub must terminate instead of chasing its own output.
			name:    "name inside the replacement",
			summary: "Ida has ten years of Go experience",
			values:  []string{"Ida"},
			want:    "the candidate has ten years of Go experience",
		},
		{
			name:    "non-ascii name",
			summary: "Zoë leads the platform team",
			values:  []string{"ZOË"},
			want:    "the candidate leads the platform team",
		},
		{
			name:    "repeated occurrences",
			summary: "Ida built the billing system. Ida also ran the migration.",
			values:  []string{"Ida", "", "ida@example.com"},
			want:    "the candidate built the billing system. the candidate also ran the migration.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scrubIdentity(tc.summary, tc.values...); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractorRejectsEmptyDocument(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{}, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), screening.Document{ID: "d", Text: "  "})
	if err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestExtractorRejectsEmptyExtraction(t *testing.T) {
	stub := &stubGenerator{response: `{"name": "Jane Doe", "skills": [], "summary": ""}`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), screening.Document{ID: "d", Text: "cv"})
	if err == nil {
		t.Fatalf("expected error for extraction without professional attributes")
	}
}

func TestExtractorPropagatesGeneratorError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	extractor := NewExtractor(&stubGenerator{err: wantErr}, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), screening.Document{ID: "d", Text: "cv"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generator error, got: %v", err)
	}
}
