package observability

import (
	"bytes"
	"testing"

	"github.com/jonathan/knit-tech-editor/internal/lint"
	"github.com/jonathan/knit-tech-editor/internal/types"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func sampleReport() *types.Report {
	return &types.Report{
		Sizes:        []string{"S", "M", "L"},
		CastOnCounts: map[string]int{"S": 40, "M": 44, "L": 48},
		Sections: []types.SectionReport{
			{
				Name: "Ribbing",
				Rows: []types.RowReport{
					{Number: intPtr(1), RawText: "K2, p2 to end.", Errors: []string{}, Warnings: []string{}},
					{Number: intPtr(2), RawText: "K2, p2 to end.", Errors: []string{"[S] stated stitch count 41 does not match calculated 40"}, Warnings: []string{}},
				},
			},
		},
		Issues: []types.Issue{
			{Severity: types.SeverityError, Category: types.CategoryCount, Size: "S", Number: intPtr(2), Message: "stated stitch count 41 does not match calculated 40"},
			{Severity: types.SeverityWarning, Category: types.CategoryParse, Size: "all", Message: "row could not be verified"},
		},
		Summary: types.Summary{
			RowsParsed:        2,
			Sizes:             3,
			StitchCountErrors: 1,
			TotalWarnings:     1,
		},
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "PATTERN ANALYSIS")
	assert.Contains(t, output, "S, M, L")
	assert.Contains(t, output, "S=40")
	assert.Contains(t, output, "Stitch count errors:   1")
}

func TestPrintSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIssues(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "VALIDATION ISSUES")
	assert.Contains(t, output, "Errors (1):")
	assert.Contains(t, output, "Warnings (1):")
	assert.Contains(t, output, "[S]")
}

func TestPrintIssues_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIssues(&types.Report{})

	assert.Empty(t, buf.String())
}

func TestPrintLint(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLint([]lint.Issue{
		{Type: "typo", Severity: "warning", Line: intPtr(6), Message: `Possible typo: "k2tg" — did you mean "k2tog"?`},
		{Type: "structure", Severity: "info", Message: "Missing section: gauge"},
	})
	output := buf.String()

	assert.Contains(t, output, "FORMAT & TERMINOLOGY")
	assert.Contains(t, output, "L6")
	assert.Contains(t, output, "k2tg")
}

func TestPrintLint_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLint(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSections(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "SECTION: RIBBING")
	assert.Contains(t, output, "Row 1")
	assert.Contains(t, output, "✗")
}
