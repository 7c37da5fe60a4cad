// Package simulate walks each size's running stitch count through every row
// of a segmented pattern and reports mismatches, repeat-block arithmetic
// failures and cross-row discontinuities.
package simulate

import (
	"fmt"

	"github.com/jonathan/knit-tech-editor/internal/types"
)

// rowOutcome is the result of evaluating one row for one size.
type rowOutcome struct {
	end      int
	errors   []string
	warnings []string
}

// evalRow evaluates a row's operation sequence left to right against the
// starting count. Needle accounting: remaining is what is still unworked on
// the left needle, produced is what the row has put on the right needle; the
// end-of-row count is their sum, so stitches a repeat leaves unworked still
// count.
func evalRow(ops []types.Operation, start int) rowOutcome {
	out := rowOutcome{}
	remaining := start
	produced := 0

	for i, op := range ops {
		if op.Kind == types.KindRepeat && op.Block != nil {
			remaining, produced = evalBlock(op.Block, ops[i+1:], remaining, produced, &out)
			continue
		}
		remaining -= op.TotalConsumed()
		produced += op.TotalProduced()
	}

	if remaining < 0 {
		out.warnings = append(out.warnings, fmt.Sprintf(
			"row works %d more sts than are on the needle", -remaining))
		remaining = 0
	}
	out.end = produced + remaining
	if out.end < 0 {
		out.end = 0
	}
	return out
}

// evalBlock resolves one repeat block given the unworked stitches before it.
// suffix is the rest of the row after the block; a repeat-to-end reserves
// the suffix's fixed consumption before dividing.
func evalBlock(b *types.RepeatBlock, suffix []types.Operation, remaining, produced int, out *rowOutcome) (int, int) {
	span := b.ConsumedPerPass()
	perPassProduced := span + b.DeltaPerPass()

	switch {
	case b.Times != nil:
		need := span * *b.Times
		if need > remaining {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat block %q requires %d sts, %d available", b.Raw, need, remaining))
			return remaining, produced
		}
		return remaining - need, produced + perPassProduced*(*b.Times)

	case b.UntilRemaining != nil:
		k := *b.UntilRemaining
		workable := remaining - k
		if workable < 0 {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat %q runs until %d sts remain but only %d are available", b.Raw, k, remaining))
			return remaining, produced
		}
		if span <= 0 {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat %q consumes no stitches and can never leave %d sts", b.Raw, k))
			return remaining, produced
		}
		passes := workable / span
		leftover := workable % span
		if leftover != 0 {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat %q does not divide evenly: %d workable sts in spans of %d leave %d extra before the final %d",
				b.Raw, workable, span, leftover, k))
		}
		return k + leftover, produced + perPassProduced*passes

	default: // to end
		avail := remaining - fixedConsumption(suffix)
		if span <= 0 {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat %q consumes no stitches; repeating to end never terminates", b.Raw))
			return remaining, produced
		}
		if avail < 0 {
			avail = 0
		}
		passes := avail / span
		leftover := avail % span
		if leftover != 0 {
			out.errors = append(out.errors, fmt.Sprintf(
				"repeat %q does not divide evenly: %d sts available in spans of %d leave %d over",
				b.Raw, avail, span, leftover))
		}
		return remaining - passes*span, produced + perPassProduced*passes
	}
}

// fixedConsumption sums the statically known consumption of an operation
// sequence: atomic operations plus times-bounded repeat blocks. Flexible
// blocks contribute nothing.
func fixedConsumption(ops []types.Operation) int {
	total := 0
	for _, op := range ops {
		if op.Kind == types.KindRepeat {
			if op.Block != nil && !op.Block.Flexible() {
				total += *op.Block.Times * op.Block.ConsumedPerPass()
			}
			continue
		}
		total += op.TotalConsumed()
	}
	return total
}

// fullyFixed reports whether the row's consumption is statically known:
// no flexible repeats and no unknown tokens.
func fullyFixed(ops []types.Operation) bool {
	for _, op := range ops {
		switch op.Kind {
		case types.KindUnknown, types.KindNeutral:
			return false
		case types.KindRepeat:
			if op.Block == nil || op.Block.Flexible() || !fullyFixed(op.Block.Ops) {
				return false
			}
		}
	}
	return true
}

// hasMarker reports whether the row places or slips markers.
func hasMarker(ops []types.Operation) bool {
	for _, op := range ops {
		if op.Kind == types.KindMarker {
			return true
		}
		if op.Kind == types.KindRepeat && op.Block != nil && hasMarker(op.Block.Ops) {
			return true
		}
	}
	return false
}
