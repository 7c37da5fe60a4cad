package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExtraction = `{
  "sizes": ["S", "M"],
  "cast_on": [57, 61],
  "sections": ["Ribbing"],
  "rows": [
    {
      "number": 1,
      "side": "RS",
      "is_round": false,
      "is_work_even": false,
      "operations": [{"op": "k", "count": 1}],
      "repeat_blocks": [
        {"operations": [{"op": "k", "count": 2}, {"op": "p", "count": 2}], "repeat_to_end": true, "repeat_count": null, "until_sts_remain": null}
      ],
      "expected_sts": [57, 61]
    }
  ],
  "between_steps": [{"after_row": 1, "description": "cast on at underarm", "cast_on_extra": 8}]
}`

func TestValidateExtractionAccepts(t *testing.T) {
	assert.NoError(t, ValidateExtraction(validExtraction))
	assert.NoError(t, ValidateExtraction(`{"rows": []}`))
}

func TestValidateExtractionRejects(t *testing.T) {
	err := ValidateExtraction(`{"sizes": ["S"]}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "rows")
}

func TestValidateExtractionRejectsBadOperation(t *testing.T) {
	err := ValidateExtraction(`{"rows": [{"operations": [{"count": 2}]}]}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidateExtractionMalformedJSON(t *testing.T) {
	err := ValidateExtraction(`{"rows": [`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name": "hat"}`))
	assert.Error(t, ValidateJSONString(schema, `{}`))
}
