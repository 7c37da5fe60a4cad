// Package pipeline orchestrates the full pattern analysis: ingest, lint,
// segment, optional LLM enrichment, and stitch-count simulation.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/knit-tech-editor/internal/enrich"
	"github.com/jonathan/knit-tech-editor/internal/ingestion"
	"github.com/jonathan/knit-tech-editor/internal/lint"
	"github.com/jonathan/knit-tech-editor/internal/llm"
	"github.com/jonathan/knit-tech-editor/internal/segment"
	"github.com/jonathan/knit-tech-editor/internal/simulate"
	"github.com/jonathan/knit-tech-editor/internal/types"
)

// Step identifiers for progress events.
const (
	StepIngest   = "ingest"
	StepLint     = "lint"
	StepEnrich   = "enrich"
	StepSegment  = "segment"
	StepSimulate = "simulate"
)

// ProgressEvent is one progress update during a pipeline run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback receives progress events as the pipeline advances.
type ProgressCallback func(event ProgressEvent)

// Options configures a pipeline run. Exactly one of Text, FilePath and URL
// must be set.
type Options struct {
	Text     string
	FilePath string
	URL      string

	// SizeHints overrides size-label detection when the caller already
	// knows the size set.
	SizeHints []string

	UseLLM     bool
	APIKey     string
	UseBrowser bool
	Verbose    bool
	OnProgress ProgressCallback
}

// Result bundles everything a run produces.
type Result struct {
	Report   *types.Report       `json:"report"`
	Lint     []lint.Issue        `json:"lint"`
	Text     string              `json:"text"`
	Metadata *ingestion.Metadata `json:"metadata,omitempty"`
}

func emitProgress(opts *Options, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run executes the analysis pipeline and returns the stitch-count report
// together with the lint findings. LLM enrichment is best effort: a failed
// model call degrades to the deterministic result instead of failing the
// run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	text, metadata, err := resolveText(ctx, &opts)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepIngest, fmt.Sprintf("ingested %d chars of pattern text", len(text)), nil)

	lintIssues := lint.Check(text)
	emitProgress(&opts, StepLint, fmt.Sprintf("lint found %d findings", len(lintIssues)), nil)

	declared := opts.SizeHints
	var extraction *enrich.Extraction

	if opts.UseLLM && opts.APIKey != "" {
		extraction, lintIssues = runEnrichment(ctx, &opts, text, lintIssues)
		if extraction != nil && len(declared) == 0 {
			declared = extraction.Sizes
		}
	}

	pattern, err := segment.Segment(text, declared)
	if err != nil {
		return nil, fmt.Errorf("segmenting pattern: %w", err)
	}
	emitProgress(&opts, StepSegment,
		fmt.Sprintf("segmented %d sections, %d rows, %d sizes",
			len(pattern.Sections), pattern.RowCount(), len(pattern.Sizes)), nil)

	if extraction != nil {
		enrich.Merge(pattern, extraction)
	}

	report, err := simulate.Run(ctx, pattern)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepSimulate,
		fmt.Sprintf("simulated %d rows across %d sizes", report.Summary.RowsParsed, report.Summary.Sizes), report.Summary)

	return &Result{
		Report:   report,
		Lint:     lintIssues,
		Text:     text,
		Metadata: metadata,
	}, nil
}

func resolveText(ctx context.Context, opts *Options) (string, *ingestion.Metadata, error) {
	switch {
	case opts.Text != "":
		return ingestion.CleanText(opts.Text), nil, nil
	case opts.FilePath != "":
		text, meta, err := ingestion.ReadPatternFile(opts.FilePath)
		if err != nil {
			return "", nil, fmt.Errorf("reading pattern file: %w", err)
		}
		return text, meta, nil
	case opts.URL != "":
		text, meta, err := ingestion.IngestFromURL(ctx, opts.URL, opts.UseBrowser, opts.Verbose)
		if err != nil {
			return "", nil, fmt.Errorf("fetching pattern: %w", err)
		}
		return text, meta, nil
	default:
		return "", nil, fmt.Errorf("no pattern input: set Text, FilePath or URL")
	}
}

// runEnrichment calls the model for structured extraction and terminology
// review. Failures are logged and swallowed.
func runEnrichment(ctx context.Context, opts *Options, text string, lintIssues []lint.Issue) (*enrich.Extraction, []lint.Issue) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), opts.APIKey)
	if err != nil {
		log.Printf("LLM client unavailable: %v, continuing deterministically", err)
		return nil, lintIssues
	}
	defer func() { _ = client.Close() }()

	extraction, err := enrich.Extract(ctx, client, text)
	if err != nil {
		log.Printf("LLM extraction failed: %v, continuing deterministically", err)
		extraction = nil
	} else {
		emitProgress(opts, StepEnrich,
			fmt.Sprintf("model read %d rows, %d between-steps", len(extraction.Rows), len(extraction.BetweenSteps)), nil)
	}

	reviewed, err := enrich.Review(ctx, client, text)
	if err != nil {
		log.Printf("LLM terminology review failed: %v", err)
	} else {
		lintIssues = append(lintIssues, reviewed...)
	}

	return extraction, lintIssues
}
