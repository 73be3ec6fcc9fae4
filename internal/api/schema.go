package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// dictionaryEntrySchema is the shape a dictionary lookup result must have
// before it is admitted into the data model.
var dictionaryEntrySchema = map[string]any{
	"type":     "object",
	"required": []any{"word_ru", "translation_de", "part_of_speech"},
	"properties": map[string]any{
		"word_ru":        map[string]any{"type": "string", "minLength": 1},
		"translation_de": map[string]any{"type": "string", "minLength": 1},
		"part_of_speech": map[string]any{"type": "string", "minLength": 1},
		"article":        map[string]any{"type": "string"},
		"forms":          map[string]any{"type": "string"},
		"prefixes": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"usage_examples": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

var (
	compileDictSchema sync.Once
	compiledDict      *jsonschema.Schema
	compiledDictErr   error
)

// validateDictionaryEntry validates raw lookup JSON against the dictionary
// entry schema.
func validateDictionaryEntry(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := dictSchema()
	if err != nil {
		return fmt.Errorf("compile dictionary schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func dictSchema() (*jsonschema.Schema, error) {
	compileDictSchema.Do(func() {
		// The compiler expects a parsed JSON value, so round-trip the
		// definition through encoding/json.
		defBytes, err := json.Marshal(dictionaryEntrySchema)
		if err != nil {
			compiledDictErr = err
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compiledDictErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://dictionary_entry.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compiledDictErr = err
			return
		}
		compiledDict, compiledDictErr = c.Compile(schemaURL)
	})
	return compiledDict, compiledDictErr
}
