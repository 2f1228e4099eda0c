package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReplySchema returns the JSON-Schema a processor reply must satisfy.
func ReplySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success":  map[string]any{"type": "boolean"},
			"text":     map[string]any{"type": "string"},
			"error":    map[string]any{"type": "string"},
			"fileName": map[string]any{"type": "string"},
		},
		"required": []string{"success"},
		"if": map[string]any{
			"properties": map[string]any{"success": map[string]any{"const": true}},
		},
		"then": map[string]any{"required": []string{"text"}},
	}
}

var (
	replyOnce   sync.Once
	replySchema *jsonschema.Schema
	replyErr    error
)

func compiledReplySchema() (*jsonschema.Schema, error) {
	replyOnce.Do(func() {
		replySchema, replyErr = compileSchema("reply.json", ReplySchema())
	})
	return replySchema, replyErr
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateReply checks raw JSON against ReplySchema.
func ValidateReply(data []byte) error {
	schema, err := compiledReplySchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
