package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/sizes"
	"github.com/jonathan/knit-tech-editor/internal/stitch"
	"github.com/jonathan/knit-tech-editor/internal/types"
)

var (
	rowRE     = regexp.MustCompile(`^(?i)(Row|Rnd|Round)s?\s*\.?\s*(\d+)\s*(?:\(([RW]S)\))?\s*[:\-–—]?\s*(.*)$`)
	nextRowRE = regexp.MustCompile(`^(?i)Next\s+(row|rnd|round)\s*\.?\s*(\d*)\s*(?:\(([RW]S)\))?\s*[:\-–—]?\s*(.*)$`)
	castOnRE  = regexp.MustCompile(`(?i)(?:\bCO\b|cast\s*on)\s+`)
	sectionRE = regexp.MustCompile(`^(?:#{1,3}\s+|=+\s*)?([A-Z][A-Za-z ]+?)(?:\s*=+)?\s*$`)
	workRefRE = regexp.MustCompile(`(?i)work\s+(?:as\s+above|as\s+established|even)\s+until`)

	sizesLineRE    = regexp.MustCompile(`(?i)^sizes?\s*:`)
	gaugeRE        = regexp.MustCompile(`(?i)^gauge\s*:`)
	materialsRE    = regexp.MustCompile(`(?i)^materials?\s*:`)
	measurementsRE = regexp.MustCompile(`(?i)^finished\s+measurements?\s*:`)
	abbrevRE       = regexp.MustCompile(`(?i)^abbreviations?\s*:`)
	notesRE        = regexp.MustCompile(`(?i)^notes?\s*:`)
)

// sectionStopWords keep row-ish lines from being mistaken for headings.
var sectionStopWords = []string{"row", "rnd", "round", "repeat", "next", "cast"}

// Segment partitions the pattern text into sections and rows. The declared
// argument is the caller's size-label override and always wins over labels
// found in the text; pass nil to auto-detect. The returned pattern has its
// size set finalized and all per-size value maps materialized.
func Segment(text string, declared []string) (*types.Pattern, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	p := &types.Pattern{RawText: text}
	var resolver sizes.Resolver
	resolver.SetDeclared(declared)

	current := &types.Section{Name: "Main"}
	p.Sections = append(p.Sections, current)
	instructionRows := 0

	for i, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		lineNum := i + 1
		if line == "" {
			continue
		}

		if sizesLineRE.MatchString(line) {
			resolver.SetDeclared(sizes.ParseSizeLine(line))
			continue
		}
		if gaugeRE.MatchString(line) {
			p.Gauge = line
			continue
		}
		if materialsRE.MatchString(line) {
			p.Materials = line
			continue
		}
		if measurementsRE.MatchString(line) {
			p.Measurements = line
			continue
		}
		if abbrevRE.MatchString(line) {
			p.Abbrevs = line
			continue
		}
		if notesRE.MatchString(line) && len(current.Rows) == 0 {
			p.Notes = line
			continue
		}

		if m := rowRE.FindStringSubmatch(line); m != nil {
			current.Rows = append(current.Rows, buildRow(m, line, lineNum))
			instructionRows++
			continue
		}
		if m := nextRowRE.FindStringSubmatch(line); m != nil {
			current.Rows = append(current.Rows, buildRow(m, line, lineNum))
			instructionRows++
			continue
		}

		if castOnRE.MatchString(line) {
			if row, ok := buildCastOnRow(p, line, lineNum); ok {
				current.Rows = append(current.Rows, row)
				if row.IsCastOn {
					resolver.Observe(len(p.CastOnRaw))
				}
			}
			continue
		}

		if workRefRE.MatchString(line) {
			current.Rows = append(current.Rows, &types.Row{
				RawText:     line,
				LineNumber:  lineNum,
				IsReference: true,
			})
			instructionRows++
			continue
		}

		if name, ok := sectionName(line); ok {
			current = &types.Section{Name: name}
			p.Sections = append(p.Sections, current)
			continue
		}

		// non-row prose attaches to the section as context
		if current.Notes == "" {
			current.Notes = line
		} else {
			current.Notes += "\n" + line
		}
	}

	if instructionRows == 0 {
		return nil, ErrNoRows
	}

	// drop sections that gathered nothing
	kept := p.Sections[:0]
	for _, s := range p.Sections {
		if len(s.Rows) > 0 || s.Notes != "" {
			kept = append(kept, s)
		}
	}
	p.Sections = kept

	finalize(p, &resolver)
	return p, nil
}

// buildRow constructs a row from a Row/Rnd/Next-row regex match. The match
// groups are keyword, number, side, instruction text.
func buildRow(m []string, line string, lineNum int) *types.Row {
	row := &types.Row{
		RawText:    line,
		LineNumber: lineNum,
	}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			row.Number = &n
		}
	}
	if m[3] != "" {
		row.Side = strings.ToUpper(m[3])
	}
	keyword := strings.ToLower(m[1])
	row.IsRound = keyword == "rnd" || keyword == "round"

	instr, stated := sizes.StripStatedCount(m[4])
	row.ExpectedRaw = stated
	row.Ops = stitch.ParseRow(instr)
	return row
}

// buildCastOnRow handles a cast-on line. The first multi-value cast-on
// establishes the pattern's initial counts; a later single-value cast-on is
// an extra ("cast on 8 more at underarm").
func buildCastOnRow(p *types.Pattern, line string, lineNum int) (*types.Row, bool) {
	counts := sizes.ParseCastOn(line)
	if len(counts) == 0 {
		return nil, false
	}

	if len(p.CastOnRaw) > 0 {
		if len(counts) == 1 {
			return &types.Row{
				RawText:     line,
				LineNumber:  lineNum,
				CastOnExtra: counts[0],
			}, true
		}
		// a second multi-value cast-on is prose we cannot attribute
		return nil, false
	}

	p.CastOnRaw = sizes.NormalizeCastOn(counts, 0)
	return &types.Row{
		RawText:     line,
		LineNumber:  lineNum,
		IsCastOn:    true,
		ExpectedRaw: p.CastOnRaw,
	}, true
}

func sectionName(line string) (string, bool) {
	m := sectionRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if len(name) <= 3 {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, kw := range sectionStopWords {
		if strings.Contains(lower, kw) {
			return "", false
		}
	}
	return name, true
}

// finalize commits the size set and re-maps every raw value list collected
// during segmentation against the final labels. Width mismatches degrade to
// single-size treatment with a warning, never a failure.
func finalize(p *types.Pattern, resolver *sizes.Resolver) {
	for _, s := range p.Sections {
		for _, row := range s.Rows {
			resolver.Observe(len(row.ExpectedRaw))
		}
	}
	p.Sizes = resolver.Finalize()

	if len(p.CastOnRaw) > 0 {
		counts := sizes.NormalizeCastOn(p.CastOnRaw, len(p.Sizes))
		castOn, ok := sizes.MapToSizes(p.Sizes, counts)
		p.CastOn = castOn
		if !ok {
			p.Issues = append(p.Issues, types.Issue{
				Severity: types.SeverityWarning,
				Category: types.CategoryConsistency,
				Size:     "all",
				Section:  -1,
				Row:      -1,
				Message: fmt.Sprintf("cast-on lists %d values for %d sizes; treating as single-size with %d sts",
					len(counts), len(p.Sizes), counts[0]),
			})
		}
	}

	for si, s := range p.Sections {
		for ri, row := range s.Rows {
			if len(row.ExpectedRaw) == 0 {
				continue
			}
			expected, ok := sizes.MapToSizes(p.Sizes, row.ExpectedRaw)
			row.Expected = expected
			if !ok && !row.IsCastOn {
				p.Issues = append(p.Issues, types.Issue{
					Severity: types.SeverityWarning,
					Category: types.CategoryConsistency,
					Size:     "all",
					Section:  si,
					Row:      ri,
					Number:   row.Number,
					Message: fmt.Sprintf("stated count lists %d values for %d sizes; treating as single-size",
						len(row.ExpectedRaw), len(p.Sizes)),
				})
			}
		}
	}
}
