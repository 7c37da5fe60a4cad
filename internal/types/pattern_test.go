package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(n int) *int { return &n }

func TestOperationTotals(t *testing.T) {
	op := Operation{Raw: "k2tog", Kind: KindDecrease, Count: 3, Delta: -1, Consumed: 2}

	assert.Equal(t, -3, op.TotalDelta())
	assert.Equal(t, 6, op.TotalConsumed())
	assert.Equal(t, 3, op.TotalProduced())
}

func TestRepeatBlockPerPass(t *testing.T) {
	block := &RepeatBlock{
		Ops: []Operation{
			{Raw: "k2tog", Kind: KindDecrease, Count: 1, Delta: -1, Consumed: 2},
			{Raw: "k5", Kind: KindPlain, Count: 5, Delta: 0, Consumed: 1},
		},
		ToEnd: true,
	}

	assert.Equal(t, -1, block.DeltaPerPass())
	assert.Equal(t, 7, block.ConsumedPerPass())
	assert.True(t, block.Flexible())
}

func TestRepeatBlockNestedTimes(t *testing.T) {
	inner := &RepeatBlock{
		Ops: []Operation{
			{Raw: "yo", Kind: KindIncrease, Count: 1, Delta: 1, Consumed: 0},
			{Raw: "k1", Kind: KindPlain, Count: 1, Delta: 0, Consumed: 1},
		},
		Times: intp(2),
	}
	outer := &RepeatBlock{
		Ops: []Operation{
			{Raw: "p1", Kind: KindPlain, Count: 1, Delta: 0, Consumed: 1},
			{Kind: KindRepeat, Count: 1, Block: inner},
		},
		Times: intp(4),
	}

	// one outer pass: p1 plus two (yo, k1) = 3 consumed, +2 delta
	assert.Equal(t, 2, outer.DeltaPerPass())
	assert.Equal(t, 3, outer.ConsumedPerPass())
	assert.False(t, outer.Flexible())
}

func TestRepeatBlockFlexibleNested(t *testing.T) {
	inner := &RepeatBlock{
		Ops:   []Operation{{Raw: "k1", Kind: KindPlain, Count: 1, Consumed: 1}},
		ToEnd: true,
	}
	outer := &RepeatBlock{
		Ops:   []Operation{{Kind: KindRepeat, Count: 1, Block: inner}},
		Times: intp(3),
	}

	assert.True(t, outer.Flexible())
}

func TestRowHasUnknown(t *testing.T) {
	row := &Row{Ops: []Operation{
		{Raw: "k3", Kind: KindPlain, Count: 3, Consumed: 1},
	}}
	assert.False(t, row.HasUnknown())

	nested := &Row{Ops: []Operation{
		{Kind: KindRepeat, Count: 1, Block: &RepeatBlock{
			Ops:   []Operation{{Raw: "kzz", Kind: KindUnknown, Count: 1}},
			ToEnd: true,
		}},
	}}
	assert.True(t, nested.HasUnknown())
}

func TestIssueTagged(t *testing.T) {
	issue := Issue{Severity: SeverityError, Size: "M", Message: "calculated 43 sts, expected 42 sts"}
	assert.Equal(t, "[M] calculated 43 sts, expected 42 sts", issue.Tagged())
}

func TestPatternRowCount(t *testing.T) {
	p := &Pattern{Sections: []*Section{
		{Name: "Ribbing", Rows: []*Row{{}, {}}},
		{Name: "Body", Rows: []*Row{{}}},
	}}
	assert.Equal(t, 3, p.RowCount())
}
