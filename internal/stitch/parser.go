package stitch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/types"
)

var (
	workEvenRE = regexp.MustCompile(`(?i)\bwork\s+even\b|\b(?:knit|work)\s+as\s+established\b`)
	// classic notation closes an open * with "rep(eat) from *"; rewriting it
	// to a bare closing star lets one grammar handle both styles.
	repFromRE = regexp.MustCompile(`(?i)(?:,|;)?\s*rep(?:eat)?\s+from\s+\*`)
	dashesRE  = regexp.MustCompile(`[–—]`)
	digitsRE  = regexp.MustCompile(`^\d+$`)
)

// ParseRow tokenizes one row's instruction text (with any stated-count
// marker already stripped) into an ordered operation sequence. Unrecognized
// stitch-like tokens are preserved as unknown operations; prose is skipped.
// The function is deterministic and performs no I/O.
func ParseRow(text string) []types.Operation {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if workEvenRE.MatchString(text) {
		return []types.Operation{{Raw: "work even", Kind: types.KindNeutral, Count: 1}}
	}

	p := &rowParser{toks: tokenize(text)}
	ops, _ := p.parseSequence("")
	return ops
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = dashesRE.ReplaceAllString(text, "-")
	text = repFromRE.ReplaceAllString(text, " * ")
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '*', '[', ']':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		case ',', ';', '(', ')', '.', ':':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

type rowParser struct {
	toks []string
	pos  int
}

func (p *rowParser) peek(offset int) string {
	if p.pos+offset < len(p.toks) {
		return p.toks[p.pos+offset]
	}
	return ""
}

// parseSequence consumes operations until the stop token (or end of input
// for the top level). Returns the sequence and whether the stop was found.
func (p *rowParser) parseSequence(stop string) ([]types.Operation, bool) {
	var ops []types.Operation
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		switch {
		case tok == stop:
			p.pos++
			return ops, true
		case tok == "*" || tok == "[":
			ops = append(ops, p.parseRepeat(tok))
		case tok == "]":
			// stray closer; tolerate
			p.pos++
		default:
			if op, ok := p.parseToken(); ok {
				ops = append(ops, op)
			}
		}
	}
	return ops, false
}

func (p *rowParser) parseRepeat(open string) types.Operation {
	closer := "*"
	if open == "[" {
		closer = "]"
	}
	start := p.pos
	p.pos++
	inner, _ := p.parseSequence(closer)
	block := types.RepeatBlock{Ops: inner}
	p.parseClause(&block)
	block.Raw = strings.Join(p.toks[start:p.pos], " ")
	return types.Operation{
		Raw:   block.Raw,
		Kind:  types.KindRepeat,
		Count: 1,
		Block: &block,
	}
}

// parseClause reads the repetition policy following a closed block:
// "repeat N times", "twice", "to end", "across", "until K sts remain",
// "to last [N] st(s)". An absent policy means repeat to end.
func (p *rowParser) parseClause(block *types.RepeatBlock) {
	// optional "rep"/"repeat" lead-in
	if t := p.peek(0); t == "rep" || t == "repeat" {
		p.pos++
	}

	switch t := p.peek(0); {
	case digitsRE.MatchString(t):
		n, _ := strconv.Atoi(t)
		block.Times = &n
		p.pos++
		if next := p.peek(0); next == "times" || next == "time" {
			p.pos++
		}
	case t == "twice":
		two := 2
		block.Times = &two
		p.pos++
	case t == "across" || t == "around":
		block.ToEnd = true
		p.pos++
	case t == "to" && p.peek(1) == "end":
		block.ToEnd = true
		p.pos += 2
		if p.peek(0) == "of" && (p.peek(1) == "row" || p.peek(1) == "rnd" || p.peek(1) == "round") {
			p.pos += 2
		}
	case t == "to" && p.peek(1) == "last":
		p.pos += 2
		k := 1
		if digitsRE.MatchString(p.peek(0)) {
			k, _ = strconv.Atoi(p.peek(0))
			p.pos++
		}
		block.UntilRemaining = &k
		p.skipStitchWords()
	case t == "until":
		p.pos++
		if digitsRE.MatchString(p.peek(0)) {
			k, _ := strconv.Atoi(p.peek(0))
			p.pos++
			block.UntilRemaining = &k
			p.skipStitchWords()
		} else {
			// "until end" and similar
			block.ToEnd = true
			p.skipStitchWords()
		}
	default:
		block.ToEnd = true
	}
}

// skipStitchWords consumes the trailing "st(s) remain" / "sts are left"
// filler after a numeric bound.
func (p *rowParser) skipStitchWords() {
	for {
		switch p.peek(0) {
		case "st", "sts", "stitch", "stitches", "is", "are", "remain", "remains", "remaining", "left", "end":
			p.pos++
		default:
			return
		}
	}
}

// parseToken reads one atomic operation starting at the current position.
func (p *rowParser) parseToken() (types.Operation, bool) {
	// multi-word aliases first, longest match wins
	for n := maxAliasWords; n >= 1; n-- {
		if p.pos+n > len(p.toks) {
			continue
		}
		joined := strings.Join(p.toks[p.pos:p.pos+n], " ")
		canonical, ok := aliases[joined]
		if !ok {
			continue
		}
		p.pos += n
		if p.boundAhead() && (canonical == "k" || canonical == "p" || canonical == "sl") {
			return p.boundedRun(canonical), true
		}
		return p.buildOp(canonical, canonical, 0), true
	}

	tok := p.toks[p.pos]
	p.pos++

	if m := tokenRE.FindStringSubmatch(tok); m != nil {
		count := 0
		if m[2] != "" {
			count, _ = strconv.Atoi(m[2])
		}
		if count == 0 && p.boundAhead() && (m[1] == "k" || m[1] == "p" || m[1] == "sl") {
			return p.boundedRun(m[1]), true
		}
		return p.buildOp(m[1], tok, count), true
	}

	if digitsRE.MatchString(tok) || filler[tok] {
		return types.Operation{}, false
	}
	if unknownRE.MatchString(tok) {
		return types.Operation{Raw: tok, Kind: types.KindUnknown, Count: 1}, true
	}
	return types.Operation{}, false
}

// boundAhead reports whether the next tokens are a run bound: "to end",
// "to last [N]", "until N sts remain".
func (p *rowParser) boundAhead() bool {
	switch {
	case p.peek(0) == "to" && (p.peek(1) == "end" || p.peek(1) == "last"):
		return true
	case p.peek(0) == "until":
		return true
	}
	return false
}

// boundedRun turns "k to end" / "k to last 3 sts" into a single-stitch
// repeat block carrying the bound, so the simulator treats the run as
// consuming whatever the bound leaves it.
func (p *rowParser) boundedRun(abbrev string) types.Operation {
	effect, _ := Lookup(abbrev)
	inner := types.Operation{
		Raw:      abbrev,
		Kind:     effect.Kind,
		Count:    1,
		Delta:    effect.Delta,
		Consumed: effect.Consumed,
	}
	block := types.RepeatBlock{Ops: []types.Operation{inner}}
	start := p.pos
	p.parseClause(&block)
	block.Raw = abbrev + " " + strings.Join(p.toks[start:p.pos], " ")
	return types.Operation{
		Raw:   block.Raw,
		Kind:  types.KindRepeat,
		Count: 1,
		Block: &block,
	}
}

// buildOp finishes an operation from its canonical abbreviation, merging a
// following bare number as the count for countable stitches ("Knit 4").
func (p *rowParser) buildOp(abbrev, raw string, count int) types.Operation {
	effect, _ := Lookup(abbrev)
	if count == 0 {
		count = 1
		if mergeable(abbrev) && digitsRE.MatchString(p.peek(0)) {
			count, _ = strconv.Atoi(p.peek(0))
			p.pos++
			raw = abbrev + strconv.Itoa(count)
		}
	}
	return types.Operation{
		Raw:      raw,
		Kind:     effect.Kind,
		Count:    count,
		Delta:    effect.Delta,
		Consumed: effect.Consumed,
	}
}

// mergeable reports whether a bare following number is a stitch count for
// this abbreviation rather than unrelated prose.
func mergeable(abbrev string) bool {
	switch abbrev {
	case "k", "p", "sl", "bo", "co":
		return true
	}
	return false
}
