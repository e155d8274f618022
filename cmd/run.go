package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"blindhire/internal/ai"
	"blindhire/internal/ai/gemini"
	"blindhire/internal/export"
	"blindhire/internal/filtering"
	"blindhire/internal/ingest"
	"blindhire/internal/logger"
	"blindhire/internal/pipeline"
	"blindhire/internal/registry"
	"blindhire/internal/screening"
	"blindhire/internal/secrets"
	"blindhire/internal/vault"
)

const (
	PromptReview        = "Review candidates"
	PromptShowSelection = "Show current selection"
	PromptExport        = "Export shortlist"
	PromptDump          = "Dump candidates to file"
	PromptExit          = "Exit"

	PromptSelect   = "Select"
	PromptDeselect = "Deselect"
	PromptReveal   = "Reveal identity"
	PromptBack     = "back"

	defaultExportFile = "shortlist.xlsx"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "Action?",
	Items: []string{PromptReview, PromptShowSelection, PromptExport, PromptDump, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the anonymized screening batch and review the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("workers", "w", 0, "number of concurrent document workers")
	runCmd.Flags().StringP("export-file", "o", "", "path for the exported shortlist")

	viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	viper.BindPFlag("export-file", runCmd.Flags().Lookup("export-file"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting blindhire", zap.String("version", version))

	if config == nil {
		zlog.Fatal("config is required")
	}

	if config.DocumentsDir == "" {
		zlog.Fatal("documents directory is required under documents-dir")
	}

	if config.JobFile == "" {
		zlog.Fatal("job description file is required under job-file")
	}

	adapters, err := newGeminiAdapters(ctx, config.AI, zlog)
	if err != nil {
		zlog.Fatal("building ai adapters",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
	}

	jobText, err := os.ReadFile(config.JobFile)
	if err != nil {
		zlog.Fatal("reading job description", zap.Error(err))
	}

	job, err := adapters.analyzer.Analyze(ctx, string(jobText))
	if err != nil {
		zlog.Fatal("analyzing job description", zap.Error(err))
	}

	zlog.Info("job profile ready",
		zap.String("title", job.Title),
		zap.Strings("required_skills", job.RequiredSkills),
	)

	documents, skipped, err := ingest.LoadDocuments(config.DocumentsDir)
	if err != nil {
		zlog.Fatal("loading documents", zap.Error(err))
	}

	for _, failure := range skipped {
		zlog.Warn("document skipped",
			zap.String("document_name", failure.Name),
			zap.String("reason", failure.Reason),
		)
	}

	if len(documents) == 0 {
		zlog.Info("exiting", zap.String("reason", "no documents found"))
		return
	}

	zlog.Info("loaded documents", zap.Int("count", len(documents)))

	// The vault lives exactly as long as this session.
	piiVault := vault.New()
	defer piiVault.Purge()

	batch := pipeline.New(piiVault, adapters.extractor, adapters.scorer, pipeline.Options{
		Workers:         config.Workers,
		DocumentTimeout: config.DocumentTimeout,
	}, zlog)

	result, err := batch.Process(ctx, *job, documents)
	if err != nil {
		zlog.Fatal("processing batch", zap.Error(err))
	}

	for _, failure := range result.Failures {
		zlog.Warn("document failed",
			zap.String("document_id", failure.DocumentID),
			zap.String("document_name", failure.DocumentName),
			zap.String("reason", failure.Reason),
		)
	}

	filters := filtering.New([]filtering.Filter{
		filtering.NewMinScore(config.MinScore),
		filtering.NewRequiredSkills(config.SkillFilter, job.RequiredSkills),
	}, zlog)

	candidates := filters.Run(result.Candidates)

	if candidates.Len() == 0 {
		zlog.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	reg := registry.New(piiVault, candidates, zlog)

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, reg, candidates, config, job, zlog); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			zlog.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, reg *registry.Registry, candidates *screening.Candidates, config *Config, job *screening.JobProfile, zlog *zap.Logger) error {
	switch action {
	case PromptReview:
		return reviewCandidates(reg, candidates, zlog)
	case PromptShowSelection:
		printSelection(reg)
		return nil
	case PromptExport:
		exportFile := strings.TrimSpace(config.ExportFile)
		if exportFile == "" {
			exportFile = defaultExportFile
		}

		entries := reg.ExportSelection()
		if len(entries) == 0 {
			zlog.Info("nothing to export", zap.String("reason", "no candidates selected"))
			return nil
		}

		if err := export.WriteShortlist(entries, job.Title, exportFile); err != nil {
			return fmt.Errorf("export shortlist: %w", err)
		}

		zlog.Info("shortlist exported",
			zap.String("filename", exportFile),
			zap.Int("entries", len(entries)),
		)
		return nil
	case PromptDump:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		zlog.Info("dumping candidates to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		zlog.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// reviewCandidates walks the ranked list: pick a candidate, then an action on
// it. Reveal happens only here, from an explicit prompt choice.
func reviewCandidates(reg *registry.Registry, candidates *screening.Candidates, zlog *zap.Logger) error {
	for {
		items := make([]string, 0, candidates.Len()+1)
		for _, candidate := range candidates.Items {
			items = append(items, candidateLabel(reg, candidate))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  12,
		}

		idx, picked, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if picked == PromptBack {
			return nil
		}

		candidate := candidates.Items[idx]

		fmt.Printf("\n%s — score %d\n", candidate.Alias, candidate.Profile.Score)
		fmt.Printf("skills: %s\n", strings.Join(candidate.Profile.Skills, ", "))
		fmt.Printf("summary: %s\n", candidate.Profile.Summary)
		fmt.Printf("rationale: %s\n\n", candidate.Profile.Rationale)

		if err := candidateAction(reg, candidate, zlog); err != nil {
			return err
		}
	}
}

func candidateAction(reg *registry.Registry, candidate *screening.Candidate, zlog *zap.Logger) error {
	prompt := promptui.Select{
		Label: "What to do with " + candidate.Alias + "?",
		Items: []string{PromptSelect, PromptDeselect, PromptReveal, PromptBack},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptSelect:
		if err := reg.Select(candidate.Token); err != nil {
			return err
		}
		zlog.Info("candidate selected", zap.String("alias", candidate.Alias))
	case PromptDeselect:
		if err := reg.Deselect(candidate.Token); err != nil {
			return err
		}
		zlog.Info("candidate deselected", zap.String("alias", candidate.Alias))
	case PromptReveal:
		revealed, err := reg.Reveal(candidate.Token)
		if err != nil {
			return err
		}
		// Identity goes to the reviewer's screen, never into the log.
		fmt.Printf("\n%s is %s (%s, %s)\n\n",
			revealed.Alias, revealed.Identity.Name, revealed.Identity.Email, revealed.Identity.Phone)
	case PromptBack:
	}

	return nil
}

func candidateLabel(reg *registry.Registry, candidate *screening.Candidate) string {
	label := fmt.Sprintf("%s / score %d", candidate.Alias, candidate.Profile.Score)

	if selected, err := reg.Selected(candidate.Token); err == nil && selected {
		label += " [selected]"
	}
	if revealed, err := reg.Revealed(candidate.Token); err == nil && revealed {
		label += " [revealed]"
	}
	return label
}

func printSelection(reg *registry.Registry) {
	entries := reg.ExportSelection()
	if len(entries) == 0 {
		fmt.Println("no candidates selected")
		return
	}

	for i, entry := range entries {
		identity := entry.Alias
		if entry.Revealed {
			identity = entry.Identity
		}
		fmt.Printf("%d. %s — score %d\n", i+1, identity, entry.Score)
	}
}

type geminiAdapters struct {
	analyzer  ai.Analyzer
	extractor ai.Extractor
	scorer    ai.Scorer
}

func newGeminiAdapters(ctx context.Context, cfg *AIConfig, zlog *zap.Logger) (*geminiAdapters, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(zlog, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	maxLogLength := cfg.Gemini.MaxLogLength

	return &geminiAdapters{
		analyzer:  gemini.NewAnalyzer(generator, genLogger, maxLogLength),
		extractor: gemini.NewExtractor(generator, genLogger, maxLogLength),
		scorer:    gemini.NewScorer(generator, genLogger, maxLogLength),
	}, nil
}
