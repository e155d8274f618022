// Package screening holds the shared data model for the anonymized
// candidate-screening workflow. PII-bearing and PII-free views of a candidate
// are distinct types: ranking and selection code only ever sees Candidate,
// while RevealedCandidate is produced solely by an explicit reveal. Callers
// should match sentinel errors with errors.Is.
package screening

import "errors"

var (
	// Vault misuse: the token was never issued or the vault has been purged.
	// Security-relevant, never swallowed.
	ErrUnknownToken = errors.New("unknown token")

	// Registry misuse: the token has no backing candidate from the pipeline.
	ErrUnknownCandidate = errors.New("unknown candidate")

	// For callers that treat a repeat reveal as a distinct condition. Reveal
	// itself is idempotent and never returns this.
	ErrAlreadyRevealed = errors.New("already revealed")

	// Per-document failures. Recoverable: the document is excluded from the
	// batch result, the batch continues.
	ErrExtractionFailed = errors.New("extraction failed")
	ErrScoringFailed    = errors.New("scoring failed")
	ErrAdapterTimeout   = errors.New("adapter timeout")
)
