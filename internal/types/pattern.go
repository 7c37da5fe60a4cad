// Package types provides type definitions for the structured data exchanged
// between the knit-tech-editor pipeline stages.
package types

// OpKind classifies a stitch operation. The set is closed: every token the
// tokenizer recognizes maps to exactly one kind, and anything else becomes
// KindUnknown.
type OpKind string

// Operation kinds.
const (
	KindPlain    OpKind = "plain"    // k, p, sl; no count change
	KindDecrease OpKind = "decrease" // k2tog, ssk, sk2p, ...
	KindIncrease OpKind = "increase" // yo, m1l, m1r, kfb, ...
	KindNeutral  OpKind = "neutral"  // work even, knit as established
	KindMarker   OpKind = "marker"   // pm, sm
	KindBindOff  OpKind = "bind_off" // bo
	KindCastOn   OpKind = "cast_on"  // co inside a row
	KindRepeat   OpKind = "repeat"   // a repeat block; Block is non-nil
	KindUnknown  OpKind = "unknown"  // unrecognized token, preserved verbatim
)

// Operation is a single stitch action. For atomic operations Delta and
// Consumed describe one application and Count says how many consecutive
// applications the token encodes (k3 = Count 3). A KindRepeat operation
// carries its nested sequence in Block and leaves Delta/Consumed at zero;
// its effect depends on the running count and is resolved by the simulator.
type Operation struct {
	Raw      string       `json:"raw"`
	Kind     OpKind       `json:"kind"`
	Count    int          `json:"count"`
	Delta    int          `json:"delta"`    // net stitch-count change per application
	Consumed int          `json:"consumed"` // stitches taken off the left needle per application
	Block    *RepeatBlock `json:"block,omitempty"`
}

// TotalDelta returns the net stitch-count change of all applications.
func (o Operation) TotalDelta() int {
	return o.Delta * o.Count
}

// TotalConsumed returns the stitches consumed by all applications.
func (o Operation) TotalConsumed() int {
	return o.Consumed * o.Count
}

// TotalProduced returns the stitches left on the right needle by all
// applications (consumed plus net change).
func (o Operation) TotalProduced() int {
	return (o.Consumed + o.Delta) * o.Count
}

// RepeatBlock is a nested operation sequence with a repetition policy.
// Exactly one of Times, UntilRemaining or ToEnd applies; the parser defaults
// to ToEnd when the source states a repeat with no explicit bound.
type RepeatBlock struct {
	Ops            []Operation `json:"ops"`
	Times          *int        `json:"times,omitempty"`
	UntilRemaining *int        `json:"untilRemaining,omitempty"`
	ToEnd          bool        `json:"toEnd,omitempty"`
	Raw            string      `json:"raw"`
}

// DeltaPerPass returns the net stitch-count change of one pass through the
// block. Nested blocks contribute only when they carry an explicit Times.
func (b *RepeatBlock) DeltaPerPass() int {
	total := 0
	for _, op := range b.Ops {
		if op.Kind == KindRepeat && op.Block != nil {
			if op.Block.Times != nil {
				total += *op.Block.Times * op.Block.DeltaPerPass()
			}
			continue
		}
		total += op.TotalDelta()
	}
	return total
}

// ConsumedPerPass returns the stitches one pass through the block takes off
// the left needle.
func (b *RepeatBlock) ConsumedPerPass() int {
	total := 0
	for _, op := range b.Ops {
		if op.Kind == KindRepeat && op.Block != nil {
			if op.Block.Times != nil {
				total += *op.Block.Times * op.Block.ConsumedPerPass()
			}
			continue
		}
		total += op.TotalConsumed()
	}
	return total
}

// Flexible reports whether the block (or any nested block) repeats an
// unbounded number of times. A flexible block inside another block cannot be
// resolved statically, so the simulator marks such rows unverifiable.
func (b *RepeatBlock) Flexible() bool {
	if b.Times == nil {
		return true
	}
	for _, op := range b.Ops {
		if op.Kind == KindRepeat && op.Block != nil && op.Block.Flexible() {
			return true
		}
	}
	return false
}

// Row is one instruction line of a pattern. Expected maps size labels to the
// count stated in the source text; it is built only after the SizeSet is
// final, from ExpectedRaw. The simulator never mutates a Row.
type Row struct {
	Number      *int           `json:"number,omitempty"`
	LineNumber  int            `json:"lineNumber"`
	RawText     string         `json:"rawText"`
	Side        string         `json:"side,omitempty"` // "RS", "WS" or empty
	IsRound     bool           `json:"isRound"`
	Ops         []Operation    `json:"ops"`
	ExpectedRaw []int          `json:"-"`
	Expected    map[string]int `json:"expectedSts,omitempty"`
	IsReference bool           `json:"isReference,omitempty"` // "work as established until ..."
	IsCastOn    bool           `json:"isCastOn,omitempty"`    // the initial cast-on line
	CastOnExtra int            `json:"castOnExtra,omitempty"` // "cast on 8 more" mid-pattern
}

// HasUnknown reports whether any operation in the row, including those
// nested in repeat blocks, is unrecognized.
func (r *Row) HasUnknown() bool {
	return opsHaveUnknown(r.Ops)
}

// HasNestedFlexible reports whether a repeat block without a fixed count sits
// inside another repeat block. Only the outermost block can be resolved
// against the running count, so such rows cannot be verified.
func (r *Row) HasNestedFlexible() bool {
	for _, op := range r.Ops {
		if op.Kind == KindRepeat && op.Block != nil && blockHasFlexibleChild(op.Block) {
			return true
		}
	}
	return false
}

func blockHasFlexibleChild(b *RepeatBlock) bool {
	for _, op := range b.Ops {
		if op.Kind == KindRepeat && op.Block != nil {
			if op.Block.Times == nil || blockHasFlexibleChild(op.Block) {
				return true
			}
		}
	}
	return false
}

func opsHaveUnknown(ops []Operation) bool {
	for _, op := range ops {
		if op.Kind == KindUnknown {
			return true
		}
		if op.Kind == KindRepeat && op.Block != nil && opsHaveUnknown(op.Block.Ops) {
			return true
		}
	}
	return false
}

// Section is an ordered run of rows under one heading. Sections never reset
// the running stitch count; only an explicit cast-on does.
type Section struct {
	Name  string `json:"name"`
	Rows  []*Row `json:"rows"`
	Notes string `json:"notes,omitempty"`
}

// Pattern is the top-level parse result for one analysis request.
type Pattern struct {
	RawText      string         `json:"-"`
	Sizes        []string       `json:"sizes"`
	CastOn       map[string]int `json:"castOnCounts"`
	CastOnRaw    []int          `json:"-"`
	Sections     []*Section     `json:"sections"`
	Gauge        string         `json:"gauge,omitempty"`
	Materials    string         `json:"materials,omitempty"`
	Measurements string         `json:"measurements,omitempty"`
	Abbrevs      string         `json:"abbreviations,omitempty"`
	Notes        string         `json:"notes,omitempty"`

	// Issues raised while parsing (size-list width mismatches and the
	// like). The simulator folds them into the Report.
	Issues []Issue `json:"-"`
}

// RowCount returns the total number of rows across all sections.
func (p *Pattern) RowCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Rows)
	}
	return n
}
