package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/code-annotator/internal/annotate"
	"github.com/jonathan/code-annotator/internal/config"
	"github.com/jonathan/code-annotator/internal/ignore"
	"github.com/jonathan/code-annotator/internal/ledger"
	"github.com/jonathan/code-annotator/internal/llm"
	"github.com/jonathan/code-annotator/internal/observability"
	"github.com/jonathan/code-annotator/internal/walker"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Walk a directory tree and annotate every matched source file",
	Long: `Walks the root directory, skips paths matched by the ignore patterns, and
sends each file with an allowed suffix to the generation backend. The response
is written back according to the selected policy: "replace" overwrites the
file with the trimmed response, "prepend" adds it as a leading comment block.
Exactly one policy is active per run.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values. Per-file failures are logged and
reported but never fail the run.`,
	RunE: runAnnotateCmd,
}

var (
	runConfigPath   string
	runRoot         string
	runPolicy       string
	runSuffixes     []string
	runConcurrency  int
	runModel        string
	runTemperature  float64
	runAPIKey       string
	runIgnoreFile   string
	runLedgerPath   string
	runDropLeading  int
	runDropTrailing int
	runVerbose      bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runRoot, "root", "r", "", "Directory to walk (defaults to the current working directory)")
	runCommand.Flags().StringVarP(&runPolicy, "policy", "p", "", `Write policy: "replace" or "prepend"`)
	runCommand.Flags().StringSliceVar(&runSuffixes, "suffix", nil, "File suffix to annotate (repeatable; defaults to .js,.ts)")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Maximum simultaneous annotation workers")
	runCommand.Flags().StringVarP(&runModel, "model", "m", "", "Generation model name")
	runCommand.Flags().Float64Var(&runTemperature, "temperature", 0, "Generation temperature")
	runCommand.Flags().StringVar(&runIgnoreFile, "ignore-file", "", "Path to the ignore-pattern file (defaults to .ignoreconfig)")
	runCommand.Flags().StringVar(&runLedgerPath, "ledger", "", "Path to the SQLite run ledger (empty disables persistence)")
	runCommand.Flags().IntVar(&runDropLeading, "drop-leading", 0, "Leading response lines stripped by the replace policy")
	runCommand.Flags().IntVar(&runDropTrailing, "drop-trailing", 0, "Trailing response lines stripped by the replace policy")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(runCommand)
}

func runAnnotateCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply defaults for unset values. Defaults are merged before the
	// flag overrides so an explicit zero on the command line survives; the
	// merge cannot tell a set zero from an unset field.
	cfg = cfg.MergeWithDefaults(runDefaults())

	// Step 3: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	applyRunFlagOverrides(cmd, &cfg)

	// Step 4: Validate the merged configuration
	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, err := annotate.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	// Step 5: API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.SetVerbose(cfg.Verbose)

	// Step 6: Load ignore patterns (absence of the file is not an error)
	patterns, err := ignore.Load(cfg.IgnoreFile)
	if err != nil {
		return err
	}
	printer.Verbosef("loaded %d ignore patterns from %s", patterns.Len(), cfg.IgnoreFile)

	// Step 7: Build the backend client and annotator
	llmCfg := &llm.Config{
		Provider:    llm.ProviderGemini,
		Model:       cfg.Model,
		Temperature: float32(cfg.Temperature),
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = client.Close() }()

	annotator, err := annotate.New(client, annotate.Options{
		Policy:  policy,
		Trim:    annotate.TrimPolicy{DropLeading: cfg.DropLeading, DropTrailing: cfg.DropTrailing},
		Printer: printer,
	})
	if err != nil {
		return err
	}

	w, err := walker.New(annotator, walker.Options{
		Root:        cfg.Root,
		Patterns:    patterns,
		Suffixes:    cfg.Suffixes,
		Concurrency: cfg.Concurrency,
		Printer:     printer,
	})
	if err != nil {
		return err
	}

	// Step 8: Run the walk to completion
	startedAt := time.Now()
	printer.Stepf("Annotating %s (policy: %s, model: %s, workers: %d)...",
		cfg.Root, cfg.Policy, cfg.Model, cfg.Concurrency)

	report, err := w.Run(ctx)
	if err != nil {
		return err
	}

	printer.Box("Run Summary", report.Summary())

	// Step 9: Persist the run if a ledger is configured. Ledger failures
	// degrade to a warning; the annotation work is already done.
	if cfg.Ledger != "" {
		if err := persistRun(cmd, cfg, report, startedAt); err != nil {
			printer.Warnf("failed to record run in ledger: %v", err)
		}
	}

	// Per-file failures are reported above but never change the exit code.
	return nil
}

// runDefaults returns the built-in defaults applied after config and flags.
func runDefaults() config.Config {
	return config.Config{
		Root:         ".",
		IgnoreFile:   ignore.DefaultFile,
		Policy:       string(annotate.PolicyPrepend),
		Suffixes:     walker.DefaultSuffixes,
		DropLeading:  annotate.DefaultTrim.DropLeading,
		DropTrailing: annotate.DefaultTrim.DropTrailing,
		Concurrency:  walker.DefaultConcurrency,
		Model:        llm.DefaultModel,
		Temperature:  llm.DefaultTemperature,
	}
}

// applyRunFlagOverrides copies explicitly set flags over config file values.
func applyRunFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("root") {
		cfg.Root = runRoot
	}
	if cmd.Flags().Changed("policy") {
		cfg.Policy = runPolicy
	}
	if cmd.Flags().Changed("suffix") {
		cfg.Suffixes = runSuffixes
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = runTemperature
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("ignore-file") {
		cfg.IgnoreFile = runIgnoreFile
	}
	if cmd.Flags().Changed("ledger") {
		cfg.Ledger = runLedgerPath
	}
	if cmd.Flags().Changed("drop-leading") {
		cfg.DropLeading = runDropLeading
	}
	if cmd.Flags().Changed("drop-trailing") {
		cfg.DropTrailing = runDropTrailing
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
}

// persistRun writes one run and its per-file outcomes to the ledger.
func persistRun(cmd *cobra.Command, cfg config.Config, report *walker.Report, startedAt time.Time) error {
	led, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	run := ledger.Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Root:      cfg.Root,
		Policy:    cfg.Policy,
		Model:     cfg.Model,
		Matched:   report.Matched,
		Annotated: report.Annotated(),
		Skipped:   len(report.Skipped),
		Ignored:   report.Ignored,
		Failed:    report.Failed(),
	}

	files := make([]ledger.FileRecord, 0, len(report.Succeeded)+len(report.Skipped)+len(report.Failures))
	for _, path := range report.Succeeded {
		files = append(files, ledger.FileRecord{Path: path, Status: ledger.StatusAnnotated})
	}
	for _, path := range report.Skipped {
		files = append(files, ledger.FileRecord{Path: path, Status: ledger.StatusSkipped})
	}
	for _, failure := range report.Failures {
		files = append(files, ledger.FileRecord{
			Path:   failure.Path,
			Status: ledger.StatusFailed,
			Error:  failure.Err.Error(),
		})
	}

	return led.RecordRun(cmd.Context(), run, files)
}
