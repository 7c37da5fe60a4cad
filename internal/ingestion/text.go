// Package ingestion turns pattern files and pattern web pages into clean
// analyzable text.
package ingestion

import (
	"regexp"
	"strings"
)

// page furniture that survives HTML extraction but carries no instructions
var furnitureREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`),
	regexp.MustCompile(`(?i)^print(\s+this)?\s+pattern$`),
	regexp.MustCompile(`(?i)^(©|copyright\b).*$`),
	regexp.MustCompile(`(?i)^all\s+rights\s+reserved\.?$`),
	regexp.MustCompile(`(?i)^(share|pin|tweet)(\s+(this|it))?$`),
	regexp.MustCompile(`(?i)^add\s+to\s+(favorites|queue|library)$`),
	regexp.MustCompile(`(?i)^skip\s+to\s+(content|instructions)$`),
}

var multiSpaceRE = regexp.MustCompile(`[ \t]+`)

// CleanText normalizes pattern text for analysis: line endings become LF,
// page furniture is dropped, runs of spaces collapse, and blank runs shrink
// to one. Instruction lines keep their one-row-per-line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if isFurniture(line) {
			continue
		}
		if line == "" {
			// collapse runs of blanks, keep one as a paragraph break
			if len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
				continue
			}
			cleaned = append(cleaned, "")
			continue
		}
		cleaned = append(cleaned, multiSpaceRE.ReplaceAllString(line, " "))
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func isFurniture(line string) bool {
	if line == "" {
		return false
	}
	for _, re := range furnitureREs {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
