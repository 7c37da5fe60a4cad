// Package lint runs formatting and terminology checks over the raw pattern
// text. Lint findings are advisory: they never block the stitch-count
// analysis and are reported alongside it.
package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Issue is one lint finding. Line is nil for document-level findings.
type Issue struct {
	Type     string `json:"type"` // "format", "grammar" or "terminology"
	Severity string `json:"severity"`
	Line     *int   `json:"line,omitempty"`
	Message  string `json:"message"`
	RawText  string `json:"rawText,omitempty"`
}

// ukTerms maps UK knitting vocabulary to the US equivalent.
var ukTerms = map[string]string{
	"tension":         "gauge",
	"moss stitch":     "seed stitch",
	"stocking stitch": "stockinette",
	"colour":          "color",
	"cast off":        "bind off",
}

// commonTypos maps frequently seen misspellings to the intended term.
var commonTypos = map[string]string{
	"knt":          "knit",
	"prrl":         "purl",
	"slp":          "slip",
	"caston":       "cast on",
	"bindoff":      "bind off",
	"yran over":    "yarn over",
	"k2tg":         "k2tog",
	"k2 tg":        "k2tog",
	"yoknit":       "yo, knit",
	"stiches":      "stitches",
	"guage":        "gauge",
	"gague":        "gauge",
	"stockingette": "stockinette",
	"incease":      "increase",
	"decease":      "decrease",
	"repeatfrom":   "repeat from",
}

// requiredSections are the parts a publishable pattern should carry.
var requiredSections = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)materials?\s*:`), "Materials section"},
	{regexp.MustCompile(`(?i)gauge|tension`), "Gauge section"},
	{regexp.MustCompile(`(?i)finished\s+measurements?|dimensions?`), "Finished measurements"},
	{regexp.MustCompile(`(?i)abbreviations?`), "Abbreviations section"},
	{regexp.MustCompile(`(?i)(?:row|rnd|round)\s+\d+`), "Pattern instructions"},
}

var (
	typoREs  = buildWordREs(commonTypos)
	typoKeys = sortedKeys(commonTypos)
	ukKeys   = sortedKeys(ukTerms)

	// glossary lines ("K2TOG: Knit two together") mix abbreviations and
	// full words on purpose
	glossaryRE = regexp.MustCompile(`^[A-Za-z0-9*/]+(?:\s+[a-z]+)?:\s*.+`)

	fullKnitRE = regexp.MustCompile(`(?i)\bknit\b`)
	abbrKRE    = regexp.MustCompile(`(?i)\bk\d`)
	fullPurlRE = regexp.MustCompile(`(?i)\bpurl\b`)
	abbrPRE    = regexp.MustCompile(`(?i)\bp\d`)
)

func buildWordREs(terms map[string]string) map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(terms))
	for term := range terms {
		res[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return res
}

// sortedKeys fixes the rule order so findings are deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Check runs every lint rule over the raw pattern text and returns the
// findings in document order: section checks first, then per-line findings,
// then document-level balance checks.
func Check(text string) []Issue {
	issues := []Issue{}

	for _, sec := range requiredSections {
		if !sec.re.MatchString(text) {
			issues = append(issues, Issue{
				Type:     "format",
				Severity: "warning",
				Message:  "Missing: " + sec.label,
			})
		}
	}

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(line)

		issues = append(issues, checkTypos(trimmed, lower, lineNum)...)
		issues = append(issues, checkTerminology(trimmed, lower, lineNum)...)
		issues = append(issues, checkAbbrevMixing(trimmed, lineNum)...)
	}

	issues = append(issues, checkBracketBalance(text)...)
	return issues
}

func checkTypos(trimmed, lower string, lineNum int) []Issue {
	var issues []Issue
	for _, typo := range typoKeys {
		if !typoREs[typo].MatchString(lower) {
			continue
		}
		fix := commonTypos[typo]
		issues = append(issues, Issue{
			Type:     "grammar",
			Severity: "warning",
			Line:     intPtr(lineNum),
			Message:  fmt.Sprintf("Possible typo: %q — did you mean %q?", typo, fix),
			RawText:  trimmed,
		})
	}
	return issues
}

func checkTerminology(trimmed, lower string, lineNum int) []Issue {
	var issues []Issue
	for _, uk := range ukKeys {
		if !strings.Contains(lower, uk) {
			continue
		}
		us := ukTerms[uk]
		issues = append(issues, Issue{
			Type:     "terminology",
			Severity: "info",
			Line:     intPtr(lineNum),
			Message:  fmt.Sprintf("UK term %q found — US equivalent is %q", uk, us),
			RawText:  trimmed,
		})
	}
	return issues
}

func checkAbbrevMixing(trimmed string, lineNum int) []Issue {
	if glossaryRE.MatchString(trimmed) {
		return nil
	}
	var issues []Issue
	if fullKnitRE.MatchString(trimmed) && abbrKRE.MatchString(trimmed) {
		issues = append(issues, Issue{
			Type:     "terminology",
			Severity: "info",
			Line:     intPtr(lineNum),
			Message:  `Mixed use of "knit" and "k" abbreviation in same line`,
			RawText:  trimmed,
		})
	}
	if fullPurlRE.MatchString(trimmed) && abbrPRE.MatchString(trimmed) {
		issues = append(issues, Issue{
			Type:     "terminology",
			Severity: "info",
			Line:     intPtr(lineNum),
			Message:  `Mixed use of "purl" and "p" abbreviation in same line`,
			RawText:  trimmed,
		})
	}
	return issues
}

// checkBracketBalance counts opener/closer pairs over the whole document;
// per-line checks false-positive on multi-line size lists.
func checkBracketBalance(text string) []Issue {
	var issues []Issue
	pairs := []struct {
		open, close string
		name        string
	}{
		{"(", ")", "parentheses"},
		{"[", "]", "brackets"},
		{"{", "}", "braces"},
	}
	for _, p := range pairs {
		if strings.Count(text, p.open) != strings.Count(text, p.close) {
			issues = append(issues, Issue{
				Type:     "grammar",
				Severity: "warning",
				Message: fmt.Sprintf("Unbalanced %s in document (check that all %s have a matching %s)",
					p.name, p.open, p.close),
			})
		}
	}
	return issues
}

func intPtr(n int) *int { return &n }
