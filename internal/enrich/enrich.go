package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/lint"
	"github.com/jonathan/knit-tech-editor/internal/llm"
	"github.com/jonathan/knit-tech-editor/internal/prompts"
	"github.com/jonathan/knit-tech-editor/internal/schemas"
)

// Extract asks the model to read the full pattern text, including the prose
// between rows, and returns its schema-validated structured reading.
func Extract(ctx context.Context, client llm.Client, rawText string) (*Extraction, error) {
	prompt := prompts.Format(
		prompts.MustGet("analysis.json", "pattern_extraction"),
		map[string]string{"PatternText": rawText},
	)

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("pattern extraction failed: %w", err)
	}

	payload := llm.ExtractJSON(resp)
	if payload == "" {
		return nil, fmt.Errorf("no JSON in extraction response")
	}
	if err := schemas.ValidateExtraction(payload); err != nil {
		return nil, fmt.Errorf("extraction payload rejected: %w", err)
	}

	return ParseExtraction(payload)
}

// reviewItem matches the terminology-review prompt's output rows.
type reviewItem struct {
	Line       *int   `json:"line"`
	Severity   string `json:"severity"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	RawText    string `json:"raw_text"`
	Suggestion string `json:"suggestion"`
}

// Review runs the terminology-review prompt over the pattern and converts
// the findings into lint issues.
func Review(ctx context.Context, client llm.Client, rawText string) ([]lint.Issue, error) {
	var numbered strings.Builder
	for i, line := range strings.Split(rawText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(&numbered, "Line %d: %s\n", i+1, line)
	}

	prompt := prompts.Format(
		prompts.MustGet("analysis.json", "terminology_review"),
		map[string]string{"PatternText": numbered.String()},
	)

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("terminology review failed: %w", err)
	}

	payload := llm.ExtractJSON(resp)
	if payload == "" {
		return nil, fmt.Errorf("no JSON in review response")
	}

	var items []reviewItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("review payload rejected: %w", err)
	}

	issues := make([]lint.Issue, 0, len(items))
	for _, item := range items {
		if item.Message == "" {
			continue
		}
		msg := item.Message
		if item.Suggestion != "" {
			msg = fmt.Sprintf("%s (suggestion: %s)", msg, item.Suggestion)
		}
		typ := item.Type
		if typ == "" {
			typ = "terminology"
		}
		sev := item.Severity
		if sev == "" {
			sev = "info"
		}
		issues = append(issues, lint.Issue{
			Type:     typ,
			Severity: sev,
			Line:     item.Line,
			Message:  msg,
			RawText:  item.RawText,
		})
	}
	return issues, nil
}
