package sizes

import (
	"regexp"
	"strings"
)

// Stated-count markers at the end of a row: "(42 sts)", "— 42 sts",
// "(57, 61, 69 sts)". Lines talking about stitches remaining or
// increased/decreased are change descriptions, not totals.
var (
	remainRE     = regexp.MustCompile(`(?i)sts?\s+remain|remain\s+on`)
	changeRE     = regexp.MustCompile(`(?i)increased?|decreased?`)
	dashStatedRE = regexp.MustCompile(`(?i)[-–—]\s*([\d\s,()]+?)\s*sts?\s*\.?\s*$`)
	parenRE      = regexp.MustCompile(`(?i)\(\s*([\d\s,]+)\s*sts?\s*\)\s*\.?\s*$`)
)

// StatedCount extracts the stated end-of-row stitch count(s) from a row's
// instruction text. Returns nil when no total is stated.
func StatedCount(text string) []int {
	text = strings.TrimSpace(text)
	if remainRE.MatchString(text) {
		return nil
	}
	if m := dashStatedRE.FindStringSubmatch(text); m != nil && !changeRE.MatchString(m[0]) {
		return ParseValues(m[1])
	}
	if m := parenRE.FindStringSubmatch(text); m != nil && !changeRE.MatchString(m[0]) {
		return ParseValues(m[1])
	}
	return nil
}

// StripStatedCount removes the stated-count marker from the instruction text
// and returns the cleaned text together with the extracted values. The
// tokenizer must never see the stated total, or its bare numbers would merge
// into adjacent stitch counts.
func StripStatedCount(text string) (string, []int) {
	trimmed := strings.TrimSpace(text)
	if remainRE.MatchString(trimmed) {
		return trimmed, nil
	}
	for _, re := range []*regexp.Regexp{dashStatedRE, parenRE} {
		if m := re.FindStringSubmatch(trimmed); m != nil && !changeRE.MatchString(m[0]) {
			values := ParseValues(m[1])
			if len(values) == 0 {
				continue
			}
			cleaned := strings.TrimSpace(strings.TrimSuffix(trimmed, m[0]))
			cleaned = strings.TrimRight(cleaned, ",;")
			return cleaned, values
		}
	}
	return trimmed, nil
}
