package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/knit-tech-editor/internal/types"
)

func TestParseRow_Atomics(t *testing.T) {
	ops := ParseRow("k3, p2, k2tog, yo, ssk")
	require.Len(t, ops, 5)

	assert.Equal(t, types.KindPlain, ops[0].Kind)
	assert.Equal(t, 3, ops[0].Count)
	assert.Equal(t, 1, ops[0].Consumed)

	assert.Equal(t, types.KindPlain, ops[1].Kind)
	assert.Equal(t, 2, ops[1].Count)

	assert.Equal(t, types.KindDecrease, ops[2].Kind)
	assert.Equal(t, -1, ops[2].Delta)
	assert.Equal(t, 2, ops[2].Consumed)

	assert.Equal(t, types.KindIncrease, ops[3].Kind)
	assert.Equal(t, 1, ops[3].Delta)
	assert.Equal(t, 0, ops[3].Consumed)

	assert.Equal(t, types.KindDecrease, ops[4].Kind)
}

func TestParseRow_SpelledOutWithMergedCount(t *testing.T) {
	ops := ParseRow("Knit 4, purl 2, yarn over")
	require.Len(t, ops, 3)
	assert.Equal(t, "k4", ops[0].Raw)
	assert.Equal(t, 4, ops[0].Count)
	assert.Equal(t, 2, ops[1].Count)
	assert.Equal(t, types.KindIncrease, ops[2].Kind)
}

func TestParseRow_WorkEven(t *testing.T) {
	ops := ParseRow("Work even in stockinette")
	require.Len(t, ops, 1)
	assert.Equal(t, types.KindNeutral, ops[0].Kind)
}

func TestParseRow_RepeatTimes(t *testing.T) {
	ops := ParseRow("*k2, p2* repeat 10 times")
	require.Len(t, ops, 1)
	require.Equal(t, types.KindRepeat, ops[0].Kind)
	block := ops[0].Block
	require.NotNil(t, block)
	require.NotNil(t, block.Times)
	assert.Equal(t, 10, *block.Times)
	assert.Equal(t, 4, block.ConsumedPerPass())
	assert.Equal(t, 0, block.DeltaPerPass())
}

func TestParseRow_RepeatToEndWithPrefix(t *testing.T) {
	ops := ParseRow("k3, *k2tog, k5* repeat to end")
	require.Len(t, ops, 2)
	assert.Equal(t, types.KindPlain, ops[0].Kind)
	block := ops[1].Block
	require.NotNil(t, block)
	assert.True(t, block.ToEnd)
	assert.Equal(t, 7, block.ConsumedPerPass())
	assert.Equal(t, -1, block.DeltaPerPass())
}

func TestParseRow_UntilRemainWithTail(t *testing.T) {
	ops := ParseRow("*P1, K1*, repeat until 1 st is left, p1")
	require.Len(t, ops, 2)
	block := ops[0].Block
	require.NotNil(t, block)
	require.NotNil(t, block.UntilRemaining)
	assert.Equal(t, 1, *block.UntilRemaining)
	assert.Equal(t, 2, block.ConsumedPerPass())

	// the tail is a non-repeated suffix
	assert.Equal(t, types.KindPlain, ops[1].Kind)
	assert.Equal(t, 1, ops[1].Count)
}

func TestParseRow_RepFromStarNotation(t *testing.T) {
	ops := ParseRow("k1, *k2, p2; rep from * to last st, k1")
	require.Len(t, ops, 3)
	block := ops[1].Block
	require.NotNil(t, block)
	require.NotNil(t, block.UntilRemaining)
	assert.Equal(t, 1, *block.UntilRemaining)
	assert.Equal(t, types.KindPlain, ops[2].Kind)
}

func TestParseRow_ToLastN(t *testing.T) {
	ops := ParseRow("*k2tog* rep to last 3 sts, k3")
	require.Len(t, ops, 2)
	require.NotNil(t, ops[0].Block.UntilRemaining)
	assert.Equal(t, 3, *ops[0].Block.UntilRemaining)
}

func TestParseRow_BracketNesting(t *testing.T) {
	ops := ParseRow("[k1, [yo, k2tog] 2 times] 3 times, k1")
	require.Len(t, ops, 2)
	outer := ops[0].Block
	require.NotNil(t, outer)
	require.NotNil(t, outer.Times)
	assert.Equal(t, 3, *outer.Times)

	require.Len(t, outer.Ops, 2)
	inner := outer.Ops[1].Block
	require.NotNil(t, inner)
	require.NotNil(t, inner.Times)
	assert.Equal(t, 2, *inner.Times)
	// one outer pass: k1 + 2x(yo + k2tog) = 5 consumed, +0 net
	assert.Equal(t, 5, outer.ConsumedPerPass())
	assert.Equal(t, 0, outer.DeltaPerPass())
}

func TestParseRow_UnknownTokenPreserved(t *testing.T) {
	ops := ParseRow("k3, kzz2, p1")
	require.Len(t, ops, 3)
	assert.Equal(t, types.KindUnknown, ops[1].Kind)
	assert.Equal(t, "kzz2", ops[1].Raw)
	assert.Equal(t, 0, ops[1].Delta)
}

func TestParseRow_ProseSkipped(t *testing.T) {
	ops := ParseRow("k5 and then continue in pattern to the end of the row")
	require.Len(t, ops, 1)
	assert.Equal(t, 5, ops[0].Count)
}

func TestParseRow_MarkersConsumeNothing(t *testing.T) {
	ops := ParseRow("k10, pm, k20, pm, k10")
	require.Len(t, ops, 5)
	assert.Equal(t, types.KindMarker, ops[1].Kind)
	assert.Equal(t, 0, ops[1].Consumed)
	assert.Equal(t, types.KindMarker, ops[3].Kind)
}

func TestParseRow_CastOnMidRow(t *testing.T) {
	ops := ParseRow("k5, cast on 8, k5")
	require.Len(t, ops, 3)
	assert.Equal(t, types.KindCastOn, ops[1].Kind)
	assert.Equal(t, 8, ops[1].Count)
	assert.Equal(t, 8, ops[1].TotalDelta())
}

func TestParseRow_Deterministic(t *testing.T) {
	text := "k1, *k2, p2; rep from * to last st, k1"
	first := ParseRow(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ParseRow(text))
	}
}

func TestParseRow_Empty(t *testing.T) {
	assert.Nil(t, ParseRow("   "))
}
