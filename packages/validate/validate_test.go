package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestJSON_Valid(t *testing.T) {
	violations, err := JSON([]byte(userSchema), []byte(`{"name":"ada","age":36}`))

	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestJSON_Violations(t *testing.T) {
	violations, err := JSON([]byte(userSchema), []byte(`{"name":42}`))

	require.NoError(t, err)
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0]+violations[1], "age")
	assert.Contains(t, violations[0]+violations[1], "name")
}

func TestJSON_DocumentNotJSON(t *testing.T) {
	_, err := JSON([]byte(userSchema), []byte("not json at all"))
	assert.Error(t, err)
}

func TestJSON_SchemaNotJSON(t *testing.T) {
	_, err := JSON([]byte("{broken"), []byte(`{}`))
	assert.Error(t, err)
}

func TestJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(userSchema), 0o644))

	violations, err := JSONFile(path, []byte(`{"name":"ada","age":-1}`))

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "age")
}

func TestJSONFile_MissingSchema(t *testing.T) {
	_, err := JSONFile(filepath.Join(t.TempDir(), "nope.json"), []byte(`{}`))
	assert.Error(t, err)
}
