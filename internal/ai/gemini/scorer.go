package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"blindhire/internal/ai"
	"blindhire/internal/screening"
	"blindhire/internal/util"
)

//go:embed prompt_score.md
var scorePromptTemplate string

// Scorer rates an anonymized professional profile against a job profile.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

type assessmentResponse struct {
	Score     int    `mapstructure:"score"`
	Rationale string `mapstructure:"rationale"`
}

func NewScorer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Score implements ai.Scorer. Both inputs are PII-free, so previews are safe
// to log.
func (s *Scorer) Score(ctx context.Context, job screening.JobProfile, profile screening.ProfessionalProfile) (*ai.Assessment, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job profile: %w", err)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal professional profile: %w", err)
	}

	prompt := strings.ReplaceAll(scorePromptTemplate, "{{JOB_JSON}}", string(jobJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", string(profileJSON))

	s.logger.Debug("scoring request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scoring response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	var resp assessmentResponse
	if err := decodeResponse(raw, &resp); err != nil {
		return nil, err
	}

	rationale := strings.TrimSpace(resp.Rationale)
	if rationale == "" {
		return nil, errors.New("model returned no rationale")
	}

	return &ai.Assessment{
		Score:     clampScore(resp.Score),
		Rationale: rationale,
		Raw:       raw,
	}, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
