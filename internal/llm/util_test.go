package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with lang", "```javascript\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.in))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"rows": []}`, ExtractJSON(`Here is the result: {"rows": []} hope that helps`))
	assert.Equal(t, `[{"line": 1}]`, ExtractJSON("```json\n[{\"line\": 1}]\n```"))
	assert.Equal(t, `[{"line": 1}, {"line": 4}]`, ExtractJSON(`Review findings: [{"line": 1}, {"line": 4}] done`))
	assert.Equal(t, `{"rows": [{"ops": []}]}`, ExtractJSON(`{"rows": [{"ops": []}]} trailing`))
	assert.Equal(t, `{"a": "va}ue"}`, ExtractJSON(`{"a": "va}ue"} trailing`))
	assert.Equal(t, "", ExtractJSON("no json here"))
	assert.Equal(t, "", ExtractJSON(""))
}

func TestConfigTierFallback(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))

	cfg = DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))

	override := cfg.WithModel(TierStandard, "custom")
	assert.Equal(t, "custom", override.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard), "original config untouched")
}
