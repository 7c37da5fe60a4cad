// Package sizes resolves garment size labels and multi-size numeric value
// lists. It has no dependency on the other pipeline components.
package sizes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	sizeLineRE  = regexp.MustCompile(`(?i)sizes?\s*:\s*(.+)`)
	castOnRE    = regexp.MustCompile(`(?i)(?:\bCO\b|cast\s*on)\s+(.+?)(?:\bsts?\b|$)`)
	listNoiseRE = regexp.MustCompile(`(?i)\b(?:sts?|stitches?|CO|cast\s*on)\b`)
	numberRE    = regexp.MustCompile(`\b(\d+)\b`)
	splitRE     = regexp.MustCompile(`[,/]+`)
)

// ParseSizeLine extracts size labels from a declaration line such as
// "Sizes: XS (S, M, L, XL, 2XL, 3XL)". Returns nil when the line does not
// declare sizes.
func ParseSizeLine(line string) []string {
	m := sizeLineRE.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	raw := strings.NewReplacer("(", ",", ")", ",").Replace(strings.TrimSpace(m[1]))
	var labels []string
	seen := make(map[string]bool)
	for _, part := range splitRE.Split(raw, -1) {
		label := strings.TrimSpace(part)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// ParseValues parses a multi-size value list into integers. All of these
// notations yield the same result:
//
//	57 (57, 61, 69, 69, 77, 77)
//	57 (57) 61 (69) 69 (77) 77
//	57, 57, 61, 69, 69, 77, 77
//
// Unit noise ("CO", "sts", "stitches") is stripped before scanning.
func ParseValues(text string) []int {
	cleaned := strings.NewReplacer("(", " ", ")", " ", ",", " ", ";", " ").Replace(text)
	cleaned = listNoiseRE.ReplaceAllString(cleaned, " ")
	var values []int
	for _, m := range numberRE.FindAllStringSubmatch(cleaned, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		values = append(values, n)
	}
	return values
}

// ParseCastOn extracts the per-size stitch counts from a cast-on line
// ("CO 57 (57, 61, 69, 69, 77, 77) sts").
func ParseCastOn(line string) []int {
	if m := castOnRE.FindStringSubmatch(line); m != nil {
		if values := ParseValues(m[1]); len(values) > 0 {
			return values
		}
	}
	return ParseValues(line)
}

// NormalizeCastOn drops a leading outlier (needle size or similar prose
// number preceding the real counts) and truncates an over-long list to the
// last nSizes values.
func NormalizeCastOn(counts []int, nSizes int) []int {
	if len(counts) >= 2 && counts[0] < 20 {
		rest := counts[1:]
		allLarge := true
		for _, c := range rest {
			if c < 20 {
				allLarge = false
				break
			}
		}
		if allLarge {
			counts = rest
		}
	}
	if nSizes > 0 && len(counts) > nSizes {
		counts = counts[len(counts)-nSizes:]
	}
	return counts
}

// MapToSizes aligns a value list with the size labels positionally. When the
// widths disagree it falls back to mapping the first value onto the first
// size only and reports ok=false so the caller can raise a warning.
func MapToSizes(labels []string, values []int) (map[string]int, bool) {
	if len(labels) == 0 || len(values) == 0 {
		return nil, len(values) == 0
	}
	if len(labels) != len(values) {
		return map[string]int{labels[0]: values[0]}, false
	}
	result := make(map[string]int, len(labels))
	for i, label := range labels {
		result[label] = values[i]
	}
	return result, true
}

// PlaceholderLabels synthesizes "Size1".."SizeN" labels.
func PlaceholderLabels(n int) []string {
	if n < 1 {
		n = 1
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Size%d", i+1)
	}
	return labels
}

// Resolver accumulates evidence about the pattern's size set and commits to
// labels only once the whole document has been scanned. Declared labels
// always win; otherwise placeholder labels are sized to the widest value
// list observed anywhere, since the first list encountered may not be the
// widest.
type Resolver struct {
	declared []string
	widest   int
}

// SetDeclared records an explicit size declaration (from a "Sizes:" line or
// a caller override). The first declaration wins.
func (r *Resolver) SetDeclared(labels []string) {
	if len(r.declared) == 0 && len(labels) > 0 {
		r.declared = labels
	}
}

// Declared reports whether an explicit size declaration has been recorded.
func (r *Resolver) Declared() bool { return len(r.declared) > 0 }

// Observe records the width of one multi-size value list.
func (r *Resolver) Observe(width int) {
	if width > r.widest {
		r.widest = width
	}
}

// Finalize commits to the size set. Declared labels are extended with
// placeholders when the widest observed list is wider than the declaration.
func (r *Resolver) Finalize() []string {
	if len(r.declared) > 0 {
		labels := r.declared
		for i := len(labels); i < r.widest; i++ {
			labels = append(labels, fmt.Sprintf("Size%d", i+1))
		}
		return labels
	}
	return PlaceholderLabels(r.widest)
}
