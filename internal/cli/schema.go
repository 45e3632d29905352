package cli

import (
	"encoding/json"
	"strings"
)

// schemaTypes lists the NDJSON record types in display order
var schemaTypes = []string{"experiment", "subject", "session", "session_detail", "error"}

// SchemaCmd outputs JSON Schema for pcx output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (experiment,subject,session,session_detail,error). Default: all"`
}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = schemaTypes
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outputSchemas(typesToOutput))
}

// outputSchemas builds the combined document for the requested types.
// Unknown names are skipped.
func outputSchemas(types []string) map[string]interface{} {
	schemas := map[string]func() map[string]interface{}{
		"experiment":     experimentSchema,
		"subject":        subjectSchema,
		"session":        sessionSchema,
		"session_detail": sessionDetailSchema,
		"error":          errorSchema,
	}

	defs := map[string]interface{}{}
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if build, ok := schemas[t]; ok {
			defs[t] = build()
		}
	}

	return map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "pcx Output Schemas",
		"description": "JSON Schema definitions for all pcx NDJSON output types",
		"definitions": defs,
	}
}

func recordSchema(typ, title, description string, props map[string]interface{}, required ...string) map[string]interface{} {
	props["type"] = map[string]interface{}{"type": "string", "const": typ}
	props["schemaVersion"] = map[string]interface{}{"type": "integer", "const": 1}
	return map[string]interface{}{
		"type":        "object",
		"title":       title,
		"description": description,
		"properties":  props,
		"required":    append([]string{"type", "schemaVersion"}, required...),
	}
}

func str(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func experimentSchema() map[string]interface{} {
	return recordSchema("experiment", "Experiment", "One experiment from the experiments list",
		map[string]interface{}{
			"id":          str("Experiment id"),
			"title":       str("Experiment title; sessions are queried by this value"),
			"description": str("Free-form description"),
		}, "id", "title")
}

func subjectSchema() map[string]interface{} {
	return recordSchema("subject", "Subject", "One subject from the subjects list",
		map[string]interface{}{
			"id":                str("Subject id"),
			"display_name":      str("Display name; sessions are queried by this value"),
			"device_install_id": str("Install id of the subject's device"),
			"last_seen_at":      str("Last activity timestamp as sent by the server"),
		}, "id", "display_name")
}

func sessionSchema() map[string]interface{} {
	return recordSchema("session", "Session", "A session summary with canonical field names",
		map[string]interface{}{
			"id":                str("Session id"),
			"experiment":        str("Experiment title"),
			"subject":           str("Subject display name"),
			"device_install_id": str("Device install id"),
			"uploaded_at":       str("Upload (or creation/start) timestamp"),
			"app_version":       str("App version"),
			"platform":          str("Platform"),
			"device_model":      str("Device model"),
		}, "id")
}

func sessionDetailSchema() map[string]interface{} {
	return recordSchema("session_detail", "Session Detail", "A full session document, key order as received",
		map[string]interface{}{
			"id":              str("Session id"),
			"include_samples": map[string]interface{}{"type": "boolean", "description": "Whether samples were requested"},
			"data":            map[string]interface{}{"description": "The document exactly as the server returned it"},
		}, "id", "include_samples", "data")
}

func errorSchema() map[string]interface{} {
	return recordSchema("error", "Error", "Error message from pcx",
		map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "Error code",
				"enum": []string{
					"HTTP_ERROR",
					"TRANSPORT_ERROR",
					"MALFORMED_RESPONSE",
					"FETCH_FAILED",
					"INVALID_FLAGS",
					"INVALID_CONFIG",
					"INVALID_PATTERN",
					"INVALID_EXCLUDE_PATTERN",
					"INVALID_WHERE",
					"NOT_A_TERMINAL",
					"CONFIG_GENERATE_FAILED",
				},
			},
			"message": str("Human-readable error description"),
			"hint":    str("Suggested fix"),
			"status":  map[string]interface{}{"type": "integer", "description": "HTTP status for HTTP_ERROR"},
			"details": map[string]interface{}{"description": "Error body returned by the server, when it was JSON"},
		}, "code", "message")
}
