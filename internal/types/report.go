package types

import "fmt"

// Severity of a validation issue.
type Severity string

// Issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCategory buckets issues for the report summary.
type IssueCategory string

// Issue categories.
const (
	CategoryCount       IssueCategory = "stitch_count" // stated vs calculated mismatch
	CategoryRepeat      IssueCategory = "repetition"   // repeat-block arithmetic failure
	CategoryConsistency IssueCategory = "consistency"  // cross-row / size-list issues
	CategoryParse       IssueCategory = "parse"        // unverifiable rows, unknown tokens
)

// Issue is a single validation finding, scoped to one size (or "all") and
// one row. Immutable once emitted.
type Issue struct {
	Severity Severity      `json:"severity"`
	Category IssueCategory `json:"category"`
	Size     string        `json:"size"` // size label or "all"
	Section  int           `json:"section"`
	Row      int           `json:"row"`              // index within the section
	Number   *int          `json:"number,omitempty"` // declared row number, if any
	Message  string        `json:"message"`
}

// Tagged returns the message prefixed with the size label, so a
// size-agnostic consumer can still filter by size.
func (i Issue) Tagged() string {
	return fmt.Sprintf("[%s] %s", i.Size, i.Message)
}

// RowReport is the per-row slice of the Report. CalculatedSts omits sizes
// for which the row was unverifiable.
type RowReport struct {
	Number        *int           `json:"number"`
	IsRound       bool           `json:"isRound"`
	Side          string         `json:"side,omitempty"`
	RawText       string         `json:"rawText"`
	CalculatedSts map[string]int `json:"calculatedSts,omitempty"`
	ExpectedSts   map[string]int `json:"expectedSts,omitempty"`
	Errors        []string       `json:"errors"`
	Warnings      []string       `json:"warnings"`
}

// SectionReport groups row reports under the section name.
type SectionReport struct {
	Name string      `json:"name"`
	Rows []RowReport `json:"rows"`
}

// Summary aggregates issue counts for the whole analysis.
type Summary struct {
	RowsParsed           int `json:"rowsParsed"`
	Sizes                int `json:"sizes"`
	StitchCountErrors    int `json:"stitchCountErrors"`
	RepetitionMismatches int `json:"repetitionMismatches"`
	TotalWarnings        int `json:"totalWarnings"`
}

// Report is the single output contract of the analysis pipeline.
type Report struct {
	Sizes        []string        `json:"sizes"`
	CastOnCounts map[string]int  `json:"castOnCounts"`
	Sections     []SectionReport `json:"sections"`
	Issues       []Issue         `json:"issues"`
	Summary      Summary         `json:"summary"`
}
