package api

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const experimentsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": ["string", "number", "null"]},
      "title": {"type": ["string", "null"]},
      "description": {"type": ["string", "null"]}
    }
  }
}`

const subjectsSchema = `{
  "type": "object",
  "properties": {
    "subjects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "number", "null"]},
          "display_name": {"type": ["string", "null"]},
          "device_install_id": {"type": ["string", "null"]},
          "last_seen_at": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

const sessionListSchema = `{
  "type": "object",
  "properties": {
    "sessions": {
      "type": ["array", "null"],
      "items": {"type": "object"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schemas    map[string]*gojsonschema.Schema
	schemaErr  error
)

func loadSchemas() {
	schemas = make(map[string]*gojsonschema.Schema)
	for name, src := range map[string]string{
		"experiments": experimentsSchema,
		"subjects":    subjectsSchema,
		"sessions":    sessionListSchema,
	} {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			schemaErr = fmt.Errorf("compile %s schema: %w", name, err)
			return
		}
		schemas[name] = s
	}
}

// validateShape checks a response body against the named response schema.
func validateShape(name string, body []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown response schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrMalformedResponse, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s: %w: %s", name, ErrMalformedResponse, strings.Join(msgs, "; "))
	}
	return nil
}
