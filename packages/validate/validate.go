// Package validate checks response bodies against JSON Schema documents.
package validate

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// JSON validates document against the schema bytes and returns the list
// of violations, empty when the document conforms. A document that is not
// valid JSON at all is reported as an error, not a violation.
func JSON(schema, document []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}

// JSONFile validates document against the schema stored at path.
func JSONFile(schemaPath string, document []byte) ([]string, error) {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return JSON(schema, document)
}
