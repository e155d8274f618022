// Package pipeline turns a batch of raw documents into a ranked set of
// anonymized candidates. Documents are processed concurrently and failures
// are isolated per document: one bad CV never aborts the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"blindhire/internal/ai"
	"blindhire/internal/screening"
	"blindhire/internal/vault"
)

const (
	defaultWorkers = 4
	aliasPrefix    = "Candidate "
)

// Options bound the fan-out and the time each document may spend in adapter
// calls.
type Options struct {
	Workers         int
	DocumentTimeout time.Duration
}

// Failure describes one document excluded from the batch result. It carries
// no PII, only the document identity and the reason.
type Failure struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Reason       string `json:"reason"`
}

// Result is the outcome of one batch: N of M documents processed.
type Result struct {
	Candidates *screening.Candidates
	Failures   []Failure
}

// Pipeline orchestrates extraction, vault storage and scoring for a batch.
type Pipeline struct {
	vault     *vault.Vault
	extractor ai.Extractor
	scorer    ai.Scorer
	workers   int
	timeout   time.Duration
	logger    *zap.Logger
}

func New(v *vault.Vault, extractor ai.Extractor, scorer ai.Scorer, opts Options, logger *zap.Logger) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		vault:     v,
		extractor: extractor,
		scorer:    scorer,
		workers:   workers,
		timeout:   opts.DocumentTimeout,
		logger:    logger,
	}
}

// Process runs the batch. Candidates come back sorted by score descending,
// ties broken by input order. The only error returned is cancellation of the
// whole batch; per-document problems end up in Result.Failures.
func (p *Pipeline) Process(ctx context.Context, job screening.JobProfile, docs []screening.Document) (*Result, error) {
	type outcome struct {
		index     int
		candidate *screening.Candidate
		failure   *Failure
	}

	outcomes := make([]outcome, len(docs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, doc := range docs {
		g.Go(func() error {
			candidate, err := p.processDocument(groupCtx, job, doc)
			if err != nil {
				if groupCtx.Err() != nil && errors.Is(err, groupCtx.Err()) {
					return err
				}

				p.logger.Warn("document excluded from batch",
					zap.String("document_id", doc.ID),
					zap.String("document_name", doc.Name),
					zap.Error(err),
				)
				outcomes[i] = outcome{index: i, failure: &Failure{
					DocumentID:   doc.ID,
					DocumentName: doc.Name,
					Reason:       err.Error(),
				}}
				return nil
			}

			outcomes[i] = outcome{index: i, candidate: candidate}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Documents that finished before the cancellation already stored
		// their PII. Their candidates are discarded with the batch, so the
		// tokens must go too: a token never outlives its candidate.
		for _, out := range outcomes {
			if out.candidate != nil {
				p.vault.Discard(out.candidate.Token)
			}
		}
		return nil, fmt.Errorf("batch canceled: %w", err)
	}

	ranked := make([]outcome, 0, len(docs))
	failures := make([]Failure, 0)
	for _, out := range outcomes {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		if out.candidate != nil {
			ranked = append(ranked, out)
		}
	}

	// ranked is in input order here, so the stable sort keeps the
	// first-submitted document ahead on equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].candidate.Profile.Score > ranked[j].candidate.Profile.Score
	})

	candidates := &screening.Candidates{Items: make([]*screening.Candidate, 0, len(ranked))}
	for rank, out := range ranked {
		out.candidate.Alias = aliasPrefix + letters(rank)
		candidates.Items = append(candidates.Items, out.candidate)
	}

	p.logger.Info("batch processed",
		zap.Int("documents", len(docs)),
		zap.Int("candidates", candidates.Len()),
		zap.Int("failures", len(failures)),
	)

	return &Result{Candidates: candidates, Failures: failures}, nil
}

// processDocument runs the per-document chain: extract, score, then store the
// PII last. Issuing the token after everything else succeeded means a vault
// entry never exists without its candidate.
func (p *Pipeline) processDocument(ctx context.Context, job screening.JobProfile, doc screening.Document) (*screening.Candidate, error) {
	docCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	extraction, err := p.extractor.Extract(docCtx, doc)
	if err != nil {
		return nil, p.classify(ctx, docCtx, err, screening.ErrExtractionFailed)
	}

	profile := screening.ProfessionalProfile{
		Skills:  extraction.Skills,
		Summary: extraction.Summary,
	}

	assessment, err := p.scorer.Score(docCtx, job, profile)
	if err != nil {
		return nil, p.classify(ctx, docCtx, err, screening.ErrScoringFailed)
	}

	profile.Score = assessment.Score
	profile.Rationale = assessment.Rationale

	pii := extraction.Pii
	pii.DocumentID = doc.ID

	tok, err := p.vault.Store(pii)
	if err != nil {
		return nil, err
	}

	return &screening.Candidate{Token: tok, Profile: profile}, nil
}

// classify maps an adapter error onto the failure taxonomy. A deadline hit on
// the per-document context while the batch is still alive is a timeout; a
// dead batch context propagates as cancellation.
func (p *Pipeline) classify(batchCtx, docCtx context.Context, err error, sentinel error) error {
	if batchCtx.Err() != nil {
		return batchCtx.Err()
	}
	if docCtx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", screening.ErrAdapterTimeout, p.timeout)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// letters renders a zero-based rank as a spreadsheet-style letter sequence:
// A..Z, AA, AB and so on.
func letters(rank int) string {
	name := ""
	for {
		name = string(rune('A'+rank%26)) + name
		rank = rank/26 - 1
		if rank < 0 {
			break
		}
	}
	return name
}
