package outline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var outlineSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("outline.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("load outline schema: %v", err))
	}
	s, err := c.Compile("outline.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile outline schema: %v", err))
	}
	return s
}

// ValidateJSON checks an encoded outline against the embedded schema. A
// violation can only come from a programming error, never from input data,
// so the pipeline treats it as an internal failure for that file.
func ValidateJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode outline for validation: %w", err)
	}
	if err := outlineSchema.Validate(doc); err != nil {
		return fmt.Errorf("outline does not match schema: %w", err)
	}
	return nil
}
