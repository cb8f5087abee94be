package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse strips markdown fences from raw, then validates it
// against the given Schema. It returns the cleaned JSON.
// Returns raw unchanged if no schema is provided.
// Returns *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}

	cleaned := StripCodeFences(raw)

	// Parse JSON first.
	var parsed any
	if err := json.Unmarshal(cleaned, &parsed); err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	// Get or compile the schema.
	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	// Validate against schema.
	if err := compiled.Validate(parsed); err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return cleaned, nil
}

// StripCodeFences removes a surrounding ```json ... ``` (or bare ```)
// wrapper that chat models like to add around JSON output.
func StripCodeFences(raw []byte) json.RawMessage {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return json.RawMessage(s)
	}
	s = s[3:]
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line, e.g. "json".
		s = s[nl+1:]
	} else {
		s = bytes.TrimPrefix(s, []byte("json"))
	}
	if end := bytes.LastIndex(s, []byte("```")); end >= 0 {
		s = s[:end]
	}
	return json.RawMessage(bytes.TrimSpace(s))
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

// schemaInstructions renders the format instructions appended to the system
// prompt for providers running in plain JSON mode.
func schemaInstructions(schema *Schema) string {
	def, err := json.MarshalIndent(schema.Definition, "", "  ")
	if err != nil {
		return ""
	}
	return fmt.Sprintf(
		"Respond ONLY with a single JSON object (no prose, no markdown) that conforms to this JSON Schema named %q (%s):\n%s",
		schema.Name, schema.Description, def,
	)
}
