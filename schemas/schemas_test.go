package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{AnalysisPayload, ResumeData}, Names())
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			content, err := Get(name)
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal([]byte(content), &v), "schema should be valid JSON")
			assert.Equal(t, "object", v["type"])

			_, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
			assert.NoError(t, err, "schema should compile")
		})
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("missing.schema.json")
	assert.Error(t, err)
	assert.Panics(t, func() { MustGet("missing.schema.json") })
}
