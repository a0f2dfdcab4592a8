package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "number"}
	}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)

	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{name: "valid", document: `{"name": "Jane", "age": 30}`},
		{name: "missing field", document: `{"age": 30}`, wantError: true},
		{name: "wrong type", document: `{"name": "Jane", "age": "thirty"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, writeFile(t, "doc.json", tt.document))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)
	docPath := writeFile(t, "doc.json", `{"name": "x"}`)

	err := ValidateJSON("/nonexistent/schema.json", docPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, "/nonexistent/doc.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)
	err := ValidateJSON(schemaPath, writeFile(t, "bad.json", "{ invalid json }"))
	require.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(personSchema, `{"name": "test"}`))

	err := ValidateJSONString(personSchema, `{"age": 30}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. age: must be a number")
}

func TestValidateResume(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{name: "minimal", document: `{"name": "A"}`},
		{
			name: "full",
			document: `{"name": "A", "skills": {"languages": "Go"},
				"experience": [{"role": "SWE", "points": ["x"]}],
				"projects": [{"name": "p", "github": "https://g", "live": "https://l"}],
				"certifications": [{"title": "CKA", "org": "CNCF", "date": "2022"}],
				"education": [{"institution": "MIT"}]}`,
		},
		{name: "missing name", document: `{"summary": "x"}`, wantError: true},
		{name: "empty name", document: `{"name": ""}`, wantError: true},
		{name: "points not an array", document: `{"name": "A", "experience": [{"points": "x"}]}`, wantError: true},
		{name: "unknown fields allowed", document: `{"name": "A", "hobbies": ["chess"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResume(tt.document)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestValidateAnalysisPayload(t *testing.T) {
	assert.NoError(t, ValidateAnalysisPayload(`{"atsScore": 72, "skillsToAdd": ["Docker", {"name": "K8s"}]}`))
	assert.NoError(t, ValidateAnalysisPayload(`{}`))

	err := ValidateAnalysisPayload(`{"atsScore": 140}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors[0].Field, "atsScore")

	assert.Error(t, ValidateAnalysisPayload(`{"bullets": [{"section": "x"}]}`))
}

func TestValidateEmbedded_UnknownSchema(t *testing.T) {
	err := ValidateEmbedded("nope.schema.json", `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
