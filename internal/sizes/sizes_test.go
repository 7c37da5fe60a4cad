package sizes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeLine(t *testing.T) {
	labels := ParseSizeLine("Sizes: XS (S, M, L, XL, 2XL, 3XL)")
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL", "2XL", "3XL"}, labels)
}

func TestParseSizeLine_SlashSeparated(t *testing.T) {
	labels := ParseSizeLine("Size: S/M/L")
	assert.Equal(t, []string{"S", "M", "L"}, labels)
}

func TestParseSizeLine_NotADeclaration(t *testing.T) {
	assert.Nil(t, ParseSizeLine("Row 1: k2, p2"))
}

func TestParseValues_Notations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"lead value with group", "57 (57, 61, 69, 69, 77, 77)", []int{57, 57, 61, 69, 69, 77, 77}},
		{"repeated parenthetical singles", "57 (57) 61 (69) 69 (77) 77", []int{57, 57, 61, 69, 69, 77, 77}},
		{"flat comma list", "57, 57, 61, 69, 69, 77, 77", []int{57, 57, 61, 69, 69, 77, 77}},
		{"unit noise stripped", "CO 42 sts", []int{42}},
		{"no numbers", "cast on loosely", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValues(tt.in))
		})
	}
}

func TestParseCastOn(t *testing.T) {
	values := ParseCastOn("CO 57 (57, 61, 69, 69, 77, 77) sts")
	assert.Equal(t, []int{57, 57, 61, 69, 69, 77, 77}, values)
}

func TestParseCastOn_Wordy(t *testing.T) {
	values := ParseCastOn("Cast on 112 sts and join to work in the round.")
	assert.Equal(t, []int{112}, values)
}

func TestNormalizeCastOn_DropsLeadingOutlier(t *testing.T) {
	// "using size 8 needles cast on 57, 61, 69" style noise
	values := NormalizeCastOn([]int{8, 57, 61, 69}, 3)
	assert.Equal(t, []int{57, 61, 69}, values)
}

func TestNormalizeCastOn_TruncatesToLastN(t *testing.T) {
	values := NormalizeCastOn([]int{57, 61, 69, 77}, 2)
	assert.Equal(t, []int{69, 77}, values)
}

func TestMapToSizes_Exact(t *testing.T) {
	labels := []string{"XS", "S", "M", "L", "XL", "2XL", "3XL"}
	m, ok := MapToSizes(labels, []int{57, 57, 61, 69, 69, 77, 77})
	require.True(t, ok)
	assert.Equal(t, map[string]int{
		"XS": 57, "S": 57, "M": 61, "L": 69, "XL": 69, "2XL": 77, "3XL": 77,
	}, m)
}

func TestMapToSizes_WidthMismatchFallsBackToFirst(t *testing.T) {
	m, ok := MapToSizes([]string{"S", "M", "L"}, []int{40, 44})
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"S": 40}, m)
}

func TestResolver_DeclaredWins(t *testing.T) {
	var r Resolver
	r.SetDeclared([]string{"S", "M", "L"})
	r.Observe(3)
	r.Observe(2)
	assert.Equal(t, []string{"S", "M", "L"}, r.Finalize())
}

func TestResolver_PlaceholdersSizedToWidestList(t *testing.T) {
	var r Resolver
	r.Observe(2) // first list seen is not the widest
	r.Observe(7)
	r.Observe(4)
	assert.Equal(t, []string{"Size1", "Size2", "Size3", "Size4", "Size5", "Size6", "Size7"}, r.Finalize())
}

func TestResolver_NoListsYieldsSingleSize(t *testing.T) {
	var r Resolver
	assert.Equal(t, []string{"Size1"}, r.Finalize())
}

func TestStatedCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"parenthetical", "k3, *k2tog, k5* repeat to end (42 sts)", []int{42}},
		{"dash", "knit to end — 108 sts", []int{108}},
		{"multi-size dash", "work in rib — 108, 116, 128 sts", []int{108, 116, 128}},
		{"remain context ignored", "[108, 116] st remain on the needles", nil},
		{"increase note ignored", "m1 at each end (2 sts increased)", nil},
		{"no total", "k2, p2 to end", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatedCount(tt.in))
		})
	}
}

func TestStripStatedCount(t *testing.T) {
	cleaned, values := StripStatedCount("k3, *k2tog, k5* repeat to end (42 sts)")
	assert.Equal(t, "k3, *k2tog, k5* repeat to end", cleaned)
	assert.Equal(t, []int{42}, values)
}

func TestStripStatedCount_NothingStated(t *testing.T) {
	cleaned, values := StripStatedCount("k2, p2 to end")
	assert.Equal(t, "k2, p2 to end", cleaned)
	assert.Nil(t, values)
}
