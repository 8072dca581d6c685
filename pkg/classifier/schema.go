package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// attributeSchema is the shape model responses must satisfy before they are
// accepted. Every field is optional; sanitation fills the gaps afterwards.
var attributeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"alt":        map[string]any{"type": []string{"string", "null"}},
		"actualText": map[string]any{"type": []string{"string", "null"}},
		"lang":       map[string]any{"type": []string{"string", "null"}},
		"title":      map[string]any{"type": []string{"string", "null"}},
		"summary":    map[string]any{"type": []string{"string", "null"}},
	},
}

var compiledAttributeSchema = mustCompileSchema(attributeSchema)

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("attributes.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("attributes.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// validateAttributes checks a raw model response against the attribute
// schema.
func validateAttributes(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiledAttributeSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
