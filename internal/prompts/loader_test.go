package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPrompts(t *testing.T) {
	for _, key := range []string{"pattern_extraction", "terminology_review"} {
		prompt, err := Get("analysis.json", key)
		require.NoError(t, err, key)
		assert.Contains(t, prompt, "{{.PatternText}}", key)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := Get("analysis.json", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)

	_, err = Get("missing.json", "pattern_extraction")
	require.Error(t, err)
}

func TestMustGetPanics(t *testing.T) {
	assert.Panics(t, func() { MustGet("analysis.json", "nope") })
	assert.NotPanics(t, func() { MustGet("analysis.json", "pattern_extraction") })
}

func TestFormat(t *testing.T) {
	out := Format("analyze:\n{{.PatternText}}", map[string]string{"PatternText": "Row 1: Knit."})
	assert.Equal(t, "analyze:\nRow 1: Knit.", out)
}

func TestList(t *testing.T) {
	keys, err := List("analysis.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pattern_extraction", "terminology_review"}, keys)
}
