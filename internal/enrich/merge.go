package enrich

import (
	"fmt"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/sizes"
	"github.com/jonathan/knit-tech-editor/internal/stitch"
	"github.com/jonathan/knit-tech-editor/internal/types"
)

// Merge folds the model's reading into the deterministically segmented
// pattern. Deterministic results always win; the extraction only fills rows
// the tokenizer could not handle, missing stated counts, sides, cast-on
// counts and between-row setup steps.
func Merge(p *types.Pattern, ex *Extraction) {
	if ex == nil {
		return
	}

	if len(p.CastOn) == 0 && len(ex.CastOn) > 0 {
		counts := sizes.NormalizeCastOn(ex.CastOn, len(p.Sizes))
		if m, ok := sizes.MapToSizes(p.Sizes, counts); ok {
			p.CastOn = m
		}
	}

	byNumber := make(map[int]*ExtractedRow, len(ex.Rows))
	for i := range ex.Rows {
		if ex.Rows[i].Number != nil {
			byNumber[*ex.Rows[i].Number] = &ex.Rows[i]
		}
	}

	for _, sec := range p.Sections {
		for _, row := range sec.Rows {
			if row.Number == nil {
				continue
			}
			lr, ok := byNumber[*row.Number]
			if !ok {
				continue
			}
			mergeRow(p, row, lr)
		}
	}

	insertBetweenSteps(p, ex.BetweenSteps)
}

func mergeRow(p *types.Pattern, row *types.Row, lr *ExtractedRow) {
	if lr.IsWorkEven && !isNeutral(row.Ops) {
		row.Ops = []types.Operation{{Raw: "work even", Kind: types.KindNeutral, Count: 1}}
	} else if (len(row.Ops) == 0 || row.HasUnknown()) && (len(lr.Operations) > 0 || len(lr.RepeatBlocks) > 0) {
		row.Ops = buildOps(lr)
	}

	if len(row.Expected) == 0 && len(lr.ExpectedSts) > 0 {
		if m, ok := sizes.MapToSizes(p.Sizes, lr.ExpectedSts); ok {
			row.Expected = m
			row.ExpectedRaw = lr.ExpectedSts
		}
	}

	if row.Side == "" && (lr.Side == "RS" || lr.Side == "WS") {
		row.Side = lr.Side
	}
	if lr.IsRound {
		row.IsRound = true
	}
}

func isNeutral(ops []types.Operation) bool {
	for _, op := range ops {
		if op.Kind == types.KindNeutral {
			return true
		}
	}
	return false
}

func buildOps(lr *ExtractedRow) []types.Operation {
	ops := make([]types.Operation, 0, len(lr.Operations)+len(lr.RepeatBlocks))
	for _, eo := range lr.Operations {
		if op, ok := buildOp(eo); ok {
			ops = append(ops, op)
		}
	}
	for _, eb := range lr.RepeatBlocks {
		if op, ok := buildBlock(eb); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

func buildOp(eo ExtractedOp) (types.Operation, bool) {
	abbrev := strings.ToLower(strings.TrimSpace(eo.Op))
	if abbrev == "" {
		return types.Operation{}, false
	}
	count := int(eo.Count)
	if count < 1 {
		count = 1
	}

	raw := abbrev
	if count > 1 {
		raw = fmt.Sprintf("%s%d", abbrev, count)
	}

	effect, ok := stitch.Lookup(abbrev)
	if !ok {
		return types.Operation{Raw: raw, Kind: types.KindUnknown, Count: count}, true
	}
	return types.Operation{
		Raw:      raw,
		Kind:     effect.Kind,
		Count:    count,
		Delta:    effect.Delta,
		Consumed: effect.Consumed,
	}, true
}

func buildBlock(eb ExtractedBlock) (types.Operation, bool) {
	var inner []types.Operation
	var raws []string
	for _, eo := range eb.Operations {
		if op, ok := buildOp(eo); ok {
			inner = append(inner, op)
			raws = append(raws, op.Raw)
		}
	}
	if len(inner) == 0 {
		return types.Operation{}, false
	}

	block := &types.RepeatBlock{
		Ops:            inner,
		Times:          eb.RepeatCount,
		UntilRemaining: eb.UntilStsRemain,
		ToEnd:          eb.RepeatToEnd,
		Raw:            "*" + strings.Join(raws, ", ") + "*",
	}
	if block.Times == nil && block.UntilRemaining == nil {
		block.ToEnd = true
	}

	return types.Operation{
		Raw:   block.Raw,
		Kind:  types.KindRepeat,
		Count: 1,
		Block: block,
	}, true
}

func insertBetweenSteps(p *types.Pattern, steps []BetweenStep) {
	byAfter := make(map[int][]BetweenStep)
	for _, step := range steps {
		if step.CastOnExtra == nil || *step.CastOnExtra <= 0 {
			continue
		}
		byAfter[step.AfterRow] = append(byAfter[step.AfterRow], step)
	}
	if len(byAfter) == 0 {
		return
	}

	for _, sec := range p.Sections {
		out := make([]*types.Row, 0, len(sec.Rows))
		for _, row := range sec.Rows {
			out = append(out, row)
			if row.Number == nil {
				continue
			}
			for _, step := range byAfter[*row.Number] {
				desc := step.Description
				if desc == "" {
					desc = fmt.Sprintf("Cast on %d more sts", *step.CastOnExtra)
				}
				out = append(out, &types.Row{
					RawText:     desc,
					CastOnExtra: *step.CastOnExtra,
				})
			}
		}
		sec.Rows = out
	}
}
