// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/lint"
	"github.com/jonathan/knit-tech-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs the sizes, cast-on counts and issue totals of a report.
func (p *Printer) PrintSummary(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sizes:    %s\n", strings.Join(report.Sizes, ", ")))

	if len(report.CastOnCounts) > 0 {
		counts := make([]string, 0, len(report.Sizes))
		for _, size := range report.Sizes {
			if n, ok := report.CastOnCounts[size]; ok {
				counts = append(counts, fmt.Sprintf("%s=%d", size, n))
			}
		}
		sb.WriteString(fmt.Sprintf("Cast on:  %s\n", strings.Join(counts, "  ")))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Rows parsed:           %d\n", report.Summary.RowsParsed))
	sb.WriteString(fmt.Sprintf("Stitch count errors:   %d\n", report.Summary.StitchCountErrors))
	sb.WriteString(fmt.Sprintf("Repetition mismatches: %d\n", report.Summary.RepetitionMismatches))
	sb.WriteString(fmt.Sprintf("Warnings:              %d", report.Summary.TotalWarnings))

	p.printBox("PATTERN ANALYSIS", sb.String())
}

// PrintIssues outputs the validation findings grouped by severity.
func (p *Printer) PrintIssues(report *types.Report) {
	if report == nil || len(report.Issues) == 0 {
		return
	}

	var sb strings.Builder

	errors := make([]types.Issue, 0, len(report.Issues))
	warnings := make([]types.Issue, 0, len(report.Issues))
	for _, issue := range report.Issues {
		if issue.Severity == types.SeverityError {
			errors = append(errors, issue)
		} else {
			warnings = append(warnings, issue)
		}
	}

	writeGroup := func(label string, issues []types.Issue) {
		if len(issues) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(issues)))
		count := min(len(issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			issue := issues[i]
			if issue.Number != nil {
				sb.WriteString(fmt.Sprintf("  • Row %d %s\n", *issue.Number, issue.Tagged()))
			} else {
				sb.WriteString(fmt.Sprintf("  • %s\n", issue.Tagged()))
			}
		}
		if len(issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(issues)-maxItemsToShow))
		}
	}

	writeGroup("Errors", errors)
	if len(errors) > 0 && len(warnings) > 0 {
		sb.WriteString("\n")
	}
	writeGroup("Warnings", warnings)

	p.printBox("VALIDATION ISSUES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLint outputs the formatting and terminology findings.
func (p *Printer) PrintLint(issues []lint.Issue) {
	if len(issues) == 0 {
		return
	}

	sorted := make([]lint.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := 0, 0
		if sorted[i].Line != nil {
			li = *sorted[i].Line
		}
		if sorted[j].Line != nil {
			lj = *sorted[j].Line
		}
		return li < lj
	})

	var sb strings.Builder
	count := min(len(sorted), maxItemsToShow)
	for i := 0; i < count; i++ {
		issue := sorted[i]
		if issue.Line != nil {
			sb.WriteString(fmt.Sprintf("  • L%d [%s] %s\n", *issue.Line, issue.Severity, issue.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", issue.Severity, issue.Message))
		}
	}
	if len(sorted) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(sorted)-maxItemsToShow))
	}

	p.printBox("FORMAT & TERMINOLOGY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs a per-section row overview with calculated counts.
func (p *Printer) PrintSections(report *types.Report) {
	if report == nil {
		return
	}

	for _, section := range report.Sections {
		var sb strings.Builder
		count := min(len(section.Rows), maxItemsToShow)
		for i := 0; i < count; i++ {
			row := section.Rows[i]
			label := "—"
			if row.Number != nil {
				label = fmt.Sprintf("%d", *row.Number)
			}
			marker := " "
			if len(row.Errors) > 0 {
				marker = "✗"
			} else if len(row.Warnings) > 0 {
				marker = "!"
			}
			sb.WriteString(fmt.Sprintf("%s Row %-4s %s\n", marker, label, row.RawText))
		}
		if len(section.Rows) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more rows\n", len(section.Rows)-maxItemsToShow))
		}
		p.printBox("SECTION: "+strings.ToUpper(section.Name), strings.TrimSuffix(sb.String(), "\n"))
	}
}
