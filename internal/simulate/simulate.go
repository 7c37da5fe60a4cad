package simulate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/knit-tech-editor/internal/types"
)

// sizeResult holds one size's walk through the pattern: a calculated count
// per row (nil where the row could not be verified) and the issues raised
// along the way, in row order.
type sizeResult struct {
	calc   [][]*int
	issues []types.Issue
}

// Run simulates the running stitch count of every size through every row of
// the pattern and assembles the validation report. Sizes are independent, so
// each one is walked on its own goroutine; results are merged in declared
// size order to keep the report deterministic.
func Run(ctx context.Context, p *types.Pattern) (*types.Report, error) {
	results := make([]*sizeResult, len(p.Sizes))

	g, ctx := errgroup.WithContext(ctx)
	for i, size := range p.Sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = walkSize(p, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulating pattern: %w", err)
	}

	return assemble(p, results), nil
}

// walkSize runs one size's stitch count through the whole pattern. The count
// starts from the cast-on entry for the size; when there is none it stays
// unknown until the first row with a stated count, which is adopted as-is.
func walkSize(p *types.Pattern, size string) *sizeResult {
	res := &sizeResult{calc: make([][]*int, len(p.Sections))}

	running := 0
	known := false
	if n, ok := p.CastOn[size]; ok {
		running, known = n, true
	}

	for si, sec := range p.Sections {
		res.calc[si] = make([]*int, len(sec.Rows))
		for ri, row := range sec.Rows {
			issue := func(sev types.Severity, cat types.IssueCategory, msg string) {
				res.issues = append(res.issues, types.Issue{
					Severity: sev, Category: cat, Size: size,
					Section: si, Row: ri, Number: row.Number, Message: msg,
				})
			}

			switch {
			case row.IsCastOn:
				if n, ok := p.CastOn[size]; ok {
					running, known = n, true
					res.calc[si][ri] = intPtr(running)
				}
				continue

			case row.CastOnExtra > 0:
				if known {
					running += row.CastOnExtra
					res.calc[si][ri] = intPtr(running)
				}
				continue

			case row.IsReference:
				// "Work as established ..." carries the count unchanged.
				if known {
					res.calc[si][ri] = intPtr(running)
				}
				continue

			case row.HasUnknown(), row.HasNestedFlexible():
				// Flagged once for all sizes during assembly; here we only
				// resynchronize on a stated count if the row has one.
				if n, ok := row.Expected[size]; ok {
					running, known = n, true
				}
				continue
			}

			if !known {
				if n, ok := row.Expected[size]; ok {
					running, known = n, true
				}
				continue
			}

			out := evalRow(row.Ops, running)
			for _, msg := range out.errors {
				issue(types.SeverityError, types.CategoryRepeat, msg)
			}
			for _, msg := range out.warnings {
				issue(types.SeverityWarning, types.CategoryRepeat, msg)
			}

			if fullyFixed(row.Ops) {
				if fc := fixedConsumption(row.Ops); fc != running {
					if hasMarker(row.Ops) {
						issue(types.SeverityError, types.CategoryCount, fmt.Sprintf(
							"marker placement spans %d sts but %d are on the needle", fc, running))
					} else if len(out.errors) == 0 {
						issue(types.SeverityWarning, types.CategoryConsistency, fmt.Sprintf(
							"row works %d sts but %d are on the needle", fc, running))
					}
				}
			}

			running = out.end
			res.calc[si][ri] = intPtr(out.end)

			if stated, ok := row.Expected[size]; ok && stated != out.end {
				issue(types.SeverityError, types.CategoryCount, fmt.Sprintf(
					"stated stitch count %d does not match calculated %d", stated, out.end))
			}
		}
	}
	return res
}

// assemble merges the per-size walks, the segmentation issues carried on the
// pattern and the unverifiable-row warnings into the final report.
func assemble(p *types.Pattern, results []*sizeResult) *types.Report {
	rep := &types.Report{
		Sizes:        p.Sizes,
		CastOnCounts: p.CastOn,
		Issues:       []types.Issue{},
	}
	if rep.CastOnCounts == nil {
		rep.CastOnCounts = map[string]int{}
	}

	rep.Issues = append(rep.Issues, p.Issues...)

	// Unverifiable rows are flagged once, size "all".
	for si, sec := range p.Sections {
		for ri, row := range sec.Rows {
			if row.IsCastOn || row.IsReference {
				continue
			}
			var msg string
			switch {
			case row.HasUnknown():
				msg = "row contains unrecognized instructions and was not verified"
			case row.HasNestedFlexible():
				msg = "repeat nested inside another repeat has no fixed count; row was not verified"
			default:
				continue
			}
			rep.Issues = append(rep.Issues, types.Issue{
				Severity: types.SeverityWarning,
				Category: types.CategoryParse,
				Size:     "all",
				Section:  si,
				Row:      ri,
				Number:   row.Number,
				Message:  msg,
			})
		}
	}

	for _, res := range results {
		rep.Issues = append(rep.Issues, res.issues...)
	}

	for si, sec := range p.Sections {
		sr := types.SectionReport{Name: sec.Name}
		for ri, row := range sec.Rows {
			rr := types.RowReport{
				Number:      row.Number,
				IsRound:     row.IsRound,
				Side:        row.Side,
				RawText:     row.RawText,
				ExpectedSts: row.Expected,
				Errors:      []string{},
				Warnings:    []string{},
			}
			calc := map[string]int{}
			for i, size := range p.Sizes {
				if results[i] == nil {
					continue
				}
				if n := results[i].calc[si][ri]; n != nil {
					calc[size] = *n
				}
			}
			if len(calc) > 0 {
				rr.CalculatedSts = calc
			}
			for _, is := range rep.Issues {
				if is.Section != si || is.Row != ri {
					continue
				}
				if is.Severity == types.SeverityError {
					rr.Errors = append(rr.Errors, is.Tagged())
				} else {
					rr.Warnings = append(rr.Warnings, is.Tagged())
				}
			}
			sr.Rows = append(sr.Rows, rr)
		}
		rep.Sections = append(rep.Sections, sr)
	}

	rep.Summary = summarize(p, rep.Issues)
	return rep
}

func summarize(p *types.Pattern, issues []types.Issue) types.Summary {
	s := types.Summary{
		RowsParsed: p.RowCount(),
		Sizes:      len(p.Sizes),
	}
	for _, is := range issues {
		if is.Severity == types.SeverityWarning {
			s.TotalWarnings++
			continue
		}
		switch is.Category {
		case types.CategoryCount:
			s.StitchCountErrors++
		case types.CategoryRepeat:
			s.RepetitionMismatches++
		}
	}
	return s
}

func intPtr(n int) *int { return &n }
