// Package enrich merges LLM-parsed structure into the deterministic pattern
// model. The model handles the natural-language part (prose between rows,
// setup steps, implied shaping); the stitch math stays deterministic.
package enrich

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt tolerates models emitting counts as either numbers or strings.
type FlexInt int

// UnmarshalJSON accepts 4, "4" and null; anything unparseable becomes 1.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 1
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 1
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Extraction is the structured payload the extraction prompt asks for.
type Extraction struct {
	Sizes        []string       `json:"sizes"`
	CastOn       []int          `json:"cast_on"`
	Sections     []string       `json:"sections"`
	Rows         []ExtractedRow `json:"rows"`
	BetweenSteps []BetweenStep  `json:"between_steps"`
}

// ExtractedRow mirrors one row as the model read it.
type ExtractedRow struct {
	Number       *int             `json:"number"`
	Side         string           `json:"side"`
	IsRound      bool             `json:"is_round"`
	IsWorkEven   bool             `json:"is_work_even"`
	Operations   []ExtractedOp    `json:"operations"`
	RepeatBlocks []ExtractedBlock `json:"repeat_blocks"`
	ExpectedSts  []int            `json:"expected_sts"`
}

// ExtractedOp is one operation with an optional count.
type ExtractedOp struct {
	Op    string  `json:"op"`
	Count FlexInt `json:"count"`
}

// ExtractedBlock is one repeat block with its repetition policy.
type ExtractedBlock struct {
	Operations     []ExtractedOp `json:"operations"`
	RepeatToEnd    bool          `json:"repeat_to_end"`
	RepeatCount    *int          `json:"repeat_count"`
	UntilStsRemain *int          `json:"until_sts_remain"`
}

// BetweenStep is an instruction between numbered rows, such as a mid-piece
// cast-on at an underarm.
type BetweenStep struct {
	AfterRow    int    `json:"after_row"`
	Description string `json:"description"`
	CastOnExtra *int   `json:"cast_on_extra"`
}

// ParseExtraction decodes a validated extraction payload.
func ParseExtraction(payload string) (*Extraction, error) {
	var ex Extraction
	if err := json.Unmarshal([]byte(payload), &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}
