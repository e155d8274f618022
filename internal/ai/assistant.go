package ai

import (
	"context"

	"blindhire/internal/screening"
)

// Extraction is the structured result of analyzing one candidate document.
// PII fields and professional attributes are split at this boundary and an
// implementation must never mix them.
type Extraction struct {
	Pii     screening.PiiRecord
	Skills  []string
	Summary string
}

// Assessment is the result of scoring a professional profile against a job
// profile. Score is an integer in [0, 100].
type Assessment struct {
	Score     int
	Rationale string
	Raw       string
}

// Analyzer turns a free-text job description into an immutable JobProfile.
type Analyzer interface {
	Analyze(ctx context.Context, jobText string) (*screening.JobProfile, error)
}

// Extractor converts a normalized document into a structured attribute set.
type Extractor interface {
	Extract(ctx context.Context, doc screening.Document) (*Extraction, error)
}

// Scorer compares a professional profile against a job profile.
type Scorer interface {
	Score(ctx context.Context, job screening.JobProfile, profile screening.ProfessionalProfile) (*Assessment, error)
}
