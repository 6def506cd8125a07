package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchemaJSON(t *testing.T) {
	schema := GetSchemaJSON()
	assert.Contains(t, schema, `"borg_binary"`)
	assert.Contains(t, schema, `"repositories"`)
	assert.Contains(t, schema, `"$schema"`)
}

func TestValidateWithSchema_ValidJSON(t *testing.T) {
	content := []byte(`{
		"aliases": {"create": "create --stats"},
		"repositories": {"docs": {"repository": "/backup/docs"}}
	}`)

	result, err := ValidateWithSchema("borg-helper.json", content)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateWithSchema_InvalidJSONSyntax(t *testing.T) {
	result, err := ValidateWithSchema("borg-helper.json", []byte(`{"repositories":`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "syntax", result.Errors[0].Field)
}

func TestValidateWithSchema_MissingRepositoryLocation(t *testing.T) {
	content := []byte(`{"repositories": {"docs": {"passphrase": "x"}}}`)

	result, err := ValidateWithSchema("borg-helper.json", content)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "repository") {
			found = true
		}
	}
	assert.True(t, found, "expected an error about the missing repository field")
}

func TestValidateWithSchema_YAML(t *testing.T) {
	content := []byte(`
repositories:
  docs:
    repository: /backup/docs
`)

	result, err := ValidateWithSchema("extra.yml", content)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithSchema_InvalidYAMLSyntax(t *testing.T) {
	result, err := ValidateWithSchema("extra.yaml", []byte("repositories: [\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "syntax", result.Errors[0].Field)
}
