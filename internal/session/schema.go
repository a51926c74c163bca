package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema describes the persisted configuration record.
var configSchema = map[string]any{
	"type":     "object",
	"required": []string{"questionCount", "choiceCount", "choiceNames"},
	"properties": map[string]any{
		"questionCount": map[string]any{"type": "integer", "minimum": MinQuestions, "maximum": MaxQuestions},
		"choiceCount":   map[string]any{"type": "integer", "minimum": MinChoices, "maximum": MaxChoices},
		"choiceNames": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"timeLimit": map[string]any{"type": []string{"integer", "null"}, "minimum": 0, "maximum": MaxTimeLimitMinutes},
	},
}

// stateSchema describes the persisted session record.
var stateSchema = map[string]any{
	"type":     "object",
	"required": []string{"answers", "correctAnswers", "currentMode"},
	"properties": map[string]any{
		"answers":          answerListSchema,
		"correctAnswers":   answerListSchema,
		"remainingSeconds": map[string]any{"type": "integer", "minimum": 0},
		"currentMode": map[string]any{
			"enum": []string{"setupMode", "answerMode", "gradingMode"},
		},
		"timestamp": map[string]any{"type": "integer"},
		"sessionId": map[string]any{"type": "string"},
	},
}

var answerListSchema = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

// validateRecord checks raw JSON against the named record schema.
func validateRecord(name string, def map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[name]; ok {
		return s, nil
	}

	// The compiler wants a plain decoded JSON value, not Go-typed maps.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache[name] = compiled
	return compiled, nil
}
