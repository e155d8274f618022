package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"blindhire/internal/ai"
	"blindhire/internal/screening"
)

//go:embed prompt_extract.md
var extractPromptTemplate string

const defaultMaxLogLength = 200

// Extractor asks Gemini to split one CV into PII fields and a PII-free
// professional profile.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

type extractionResponse struct {
	Name    string   `mapstructure:"name"`
	Email   string   `mapstructure:"email"`
	Phone   string   `mapstructure:"phone"`
	Skills  []string `mapstructure:"skills"`
	Summary string   `mapstructure:"summary"`
}

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract implements ai.Extractor. Extracted PII values never appear in log
// output; only lengths and counts do.
func (e *Extractor) Extract(ctx context.Context, doc screening.Document) (*ai.Extraction, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, errors.New("document text is empty")
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{DOCUMENT_TEXT}}", doc.Text)

	e.logger.Debug("extraction request",
		zap.String("document_id", doc.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The raw response carries PII, so no preview here. Lengths only.
	e.logger.Debug("extraction response",
		zap.String("document_id", doc.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
	)

	var resp extractionResponse
	if err := decodeResponse(raw, &resp); err != nil {
		return nil, err
	}

	skills := cleanStrings(resp.Skills)
	summary := strings.TrimSpace(resp.Summary)
	if len(skills) == 0 && summary == "" {
		return nil, errors.New("model returned no professional attributes")
	}

	summary = scrubIdentity(summary, resp.Name, resp.Email, resp.Phone)

	extraction := &ai.Extraction{
		Pii: screening.PiiRecord{
			Name:  strings.TrimSpace(resp.Name),
			Email: strings.TrimSpace(resp.Email),
			Phone: strings.TrimSpace(resp.Phone),
		},
		Skills:  skills,
		Summary: summary,
	}

	e.logger.Debug("extraction assembled",
		zap.String("document_id", doc.ID),
		zap.Int("skills", len(extraction.Skills)),
		zap.Int("summary_length", utf8.RuneCountInString(extraction.Summary)),
	)

	return extraction, nil
}

// scrubIdentity removes any extracted identity value the model leaked into
// the summary despite the prompt. The scan only ever moves forward, so a
// value that happens to be a substring of the replacement cannot re-match
// inside it.
func scrubIdentity(summary string, values ...string) string {
	const replacement = "the candidate"

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		var scrubbed strings.Builder
		rest := summary
		for {
			start, end := foldIndex(rest, value)
			if start == -1 {
				scrubbed.WriteString(rest)
				break
			}
			scrubbed.WriteString(rest[:start])
			scrubbed.WriteString(replacement)
			rest = rest[end:]
		}
		summary = scrubbed.String()
	}
	return strings.Join(strings.Fields(summary), " ")
}

// foldIndex returns the byte bounds of the first case-insensitive occurrence
// of needle in s, or (-1, -1). Offsets are measured on s itself; lowering a
// copy first could shift byte positions for non-ASCII runes.
func foldIndex(s, needle string) (int, int) {
	want := []rune(needle)
	if len(want) == 0 {
		return -1, -1
	}

	for i := range s {
		j := i
		matched := true
		for _, r := range want {
			got, size := utf8.DecodeRuneInString(s[j:])
			if size == 0 || unicode.ToLower(got) != unicode.ToLower(r) {
				matched = false
				break
			}
			j += size
		}
		if matched {
			return i, j
		}
	}
	return -1, -1
}
