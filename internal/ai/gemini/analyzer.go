package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"blindhire/internal/screening"
	"blindhire/internal/util"
)

//go:embed prompt_analyze.md
var analyzePromptTemplate string

// Analyzer structures a free-text job description into a JobProfile.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

type jobProfileResponse struct {
	Title          string   `mapstructure:"title"`
	RequiredSkills []string `mapstructure:"required_skills"`
	Experience     string   `mapstructure:"experience"`
	Qualification  string   `mapstructure:"qualification"`
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze implements ai.Analyzer.
func (a *Analyzer) Analyze(ctx context.Context, jobText string) (*screening.JobProfile, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, errors.New("job description text is empty")
	}

	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{JOB_TEXT}}", jobText)

	a.logger.Debug("job analysis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("job analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	var resp jobProfileResponse
	if err := decodeResponse(raw, &resp); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(resp.Title)
	if title == "" {
		return nil, errors.New("model returned no job title")
	}

	return &screening.JobProfile{
		Title:          title,
		RequiredSkills: cleanStrings(resp.RequiredSkills),
		Experience:     strings.TrimSpace(resp.Experience),
		Qualification:  strings.TrimSpace(resp.Qualification),
	}, nil
}
