package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/config"
	"github.com/jonathan/knit-tech-editor/internal/observability"
	"github.com/jonathan/knit-tech-editor/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a knitting pattern for stitch-count consistency",
	Long: `Parses a written knitting pattern, resolves multi-size values, simulates
stitch counts row by row for every size and reports rows where the stated
counts do not match the arithmetic.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath string
	analyzeFile       string
	analyzeURL        string
	analyzeText       string
	analyzeSizes      []string
	analyzeUseLLM     bool
	analyzeAPIKey     string
	analyzeUseBrowser bool
	analyzeJSON       bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a pattern file (.txt, .md, .html)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL to fetch the pattern from")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Pattern text passed inline")
	analyzeCmd.Flags().StringSliceVar(&analyzeSizes, "sizes", nil, "Size labels, overrides detection (e.g. --sizes S,M,L)")
	analyzeCmd.Flags().BoolVar(&analyzeUseLLM, "llm", false, "Enable LLM enrichment for prose-heavy patterns")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for JS-only pattern pages (requires Chrome)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full report as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print formatted report boxes")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if analyzeConfigPath != "" {
		loadedCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Command-line args take priority over config file values
	if cmd.Flags().Changed("file") {
		cfg.Pattern = analyzeFile
	}
	if cmd.Flags().Changed("url") {
		cfg.PatternURL = analyzeURL
	}
	if cmd.Flags().Changed("sizes") {
		cfg.Sizes = analyzeSizes
	}
	if cmd.Flags().Changed("llm") {
		cfg.UseLLM = analyzeUseLLM
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	inputs := 0
	for _, set := range []bool{analyzeText != "", cfg.Pattern != "", cfg.PatternURL != ""} {
		if set {
			inputs++
		}
	}
	if inputs == 0 {
		return fmt.Errorf("one of --text, --file or --url is required")
	}
	if inputs > 1 {
		return fmt.Errorf("--text, --file and --url are mutually exclusive")
	}

	opts := pipeline.Options{
		Text:       analyzeText,
		FilePath:   cfg.Pattern,
		URL:        cfg.PatternURL,
		SizeHints:  cfg.Sizes,
		UseLLM:     cfg.UseLLM && cfg.APIKey != "",
		APIKey:     cfg.APIKey,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	}
	if cfg.Verbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Step, event.Message)
		}
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSummary(result.Report)
	if cfg.Verbose {
		printer.PrintSections(result.Report)
	}
	printer.PrintIssues(result.Report)
	printer.PrintLint(result.Lint)

	if result.Report.Summary.StitchCountErrors == 0 && result.Report.Summary.RepetitionMismatches == 0 {
		fmt.Println("Stitch counts check out for all sizes: " + strings.Join(result.Report.Sizes, ", "))
	}

	return nil
}
