package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/vburojevic/pcx/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:  format,
		APIBase: config.DefaultAPIBase,
		Quiet:   false,
		Verbose: false,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
	}, stdout, stderr
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

// recordServer answers the three endpoints from canned bodies.
func recordServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/experiments":
			_, _ = w.Write([]byte(`[{"id":"E1","title":"Reaction","description":"pilot"}]`))
		case r.URL.Path == "/subjects":
			_, _ = w.Write([]byte(`{"subjects":[{"id":"U1","display_name":"Ada"}]}`))
		case r.URL.Path == "/getSessionData" && q.Get("sessionId") == "missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"session not found"}`))
		case r.URL.Path == "/getSessionData" && q.Get("sessionId") != "":
			_, _ = w.Write([]byte(`{"id":"` + q.Get("sessionId") + `","includeSamples":` + q.Get("includeSamples") + `,"meta":{"z":1,"a":2}}`))
		case r.URL.Path == "/getSessionData" && q.Get("experiment") == "Reaction":
			_, _ = w.Write([]byte(`{"sessions":[
				{"id":"S1","experimentTitle":"Reaction","platform":"ios","app_version":"1.2"},
				{"session_id":"S2","experiment":{"title":"Reaction"},"platform":"android"}
			]}`))
		case r.URL.Path == "/getSessionData" && q.Get("subjectName") != "":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad request"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ndjsonLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		out = append(out, m)
	}
	return out
}

// --- Query Command Tests ---

func TestExperimentsCmd_Run(t *testing.T) {
	srv := recordServer(t)

	t.Run("ndjson", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.NoError(t, (&ExperimentsCmd{}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "experiment", lines[0]["type"])
		assert.Equal(t, "Reaction", lines[0]["title"])
	})

	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.APIBase = srv.URL

		require.NoError(t, (&ExperimentsCmd{}).Run(globals))
		assert.Contains(t, stdout.String(), "Reaction")
		assert.Contains(t, stdout.String(), "pilot")
	})
}

func TestSubjectsCmd_Run(t *testing.T) {
	srv := recordServer(t)
	globals, stdout, _ := testGlobals("ndjson")
	globals.APIBase = srv.URL

	require.NoError(t, (&SubjectsCmd{}).Run(globals))
	lines := ndjsonLines(t, stdout)
	require.Len(t, lines, 1)
	assert.Equal(t, "Ada", lines[0]["display_name"])
}

func TestSessionsCmd_Run(t *testing.T) {
	srv := recordServer(t)

	t.Run("normalizes field variants", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.NoError(t, (&SessionsCmd{Experiment: "Reaction"}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 2)
		assert.Equal(t, "S1", lines[0]["id"])
		assert.Equal(t, "S2", lines[1]["id"])
		assert.Equal(t, "Reaction", lines[1]["experiment"])
	})

	t.Run("applies where clauses", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.NoError(t, (&SessionsCmd{Experiment: "Reaction", Where: []string{"platform=android"}}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "S2", lines[0]["id"])
	})

	t.Run("applies exclude patterns to raw records", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.NoError(t, (&SessionsCmd{Experiment: "Reaction", Exclude: []string{`"session_id"`}}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "S1", lines[0]["id"])
	})

	t.Run("missing sessions key is an empty list", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.APIBase = srv.URL

		require.NoError(t, (&SessionsCmd{Subject: "Nobody"}).Run(globals))
		assert.Equal(t, "No sessions found.\n", stdout.String())
	})

	t.Run("rejects both axes", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.Error(t, (&SessionsCmd{Experiment: "A", Subject: "B"}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "INVALID_FLAGS", lines[0]["code"])
	})

	t.Run("rejects bad where clause", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.Error(t, (&SessionsCmd{Experiment: "A", Where: []string{"color=red"}}).Run(globals))
		assert.Equal(t, "INVALID_WHERE", ndjsonLines(t, stdout)[0]["code"])
	})
}

func TestSessionCmd_Run(t *testing.T) {
	srv := recordServer(t)

	t.Run("ndjson keeps the document", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL
		globals.IncludeSamples = true

		require.NoError(t, (&SessionCmd{ID: "S1"}).Run(globals))
		line := strings.TrimSpace(stdout.String())
		assert.Equal(t, `{"type":"session_detail","schemaVersion":1,"id":"S1","include_samples":true,"data":{"id":"S1","includeSamples":true,"meta":{"z":1,"a":2}}}`, line)
	})

	t.Run("text prints canonical json and copies it", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		globals.APIBase = srv.URL
		cb := &fakeClipboard{}
		globals.Clipboard = cb

		require.NoError(t, (&SessionCmd{ID: "S1", Copy: true}).Run(globals))
		want := "{\n  \"id\": \"S1\",\n  \"includeSamples\": false,\n  \"meta\": {\n    \"z\": 1,\n    \"a\": 2\n  }\n}"
		assert.Equal(t, want+"\n", stdout.String())
		assert.Equal(t, want, cb.text)
		assert.Contains(t, stderr.String(), "Copied session S1")
	})

	t.Run("copy failure does not fail the command", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		globals.APIBase = srv.URL
		globals.Clipboard = &fakeClipboard{err: errors.New("no display")}

		require.NoError(t, (&SessionCmd{ID: "S1", Copy: true}).Run(globals))
		assert.Contains(t, stderr.String(), "Copy failed")
	})

	t.Run("tree with depth", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.APIBase = srv.URL

		require.NoError(t, (&SessionCmd{ID: "S1", Tree: true, Depth: 1}).Run(globals))
		assert.Contains(t, stdout.String(), `▸ "meta": {z: 1, a: 2}`)
	})

	t.Run("http error carries status and details", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.APIBase = srv.URL

		require.Error(t, (&SessionCmd{ID: "missing"}).Run(globals))
		lines := ndjsonLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["type"])
		assert.Equal(t, "HTTP_ERROR", lines[0]["code"])
		assert.Equal(t, "session not found", lines[0]["message"])
		assert.EqualValues(t, 404, lines[0]["status"])
		assert.Equal(t, map[string]interface{}{"error": "session not found"}, lines[0]["details"])
	})

	t.Run("transport error in text mode", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		globals.APIBase = "http://127.0.0.1:1"

		require.Error(t, (&SessionCmd{ID: "S1"}).Run(globals))
		assert.Contains(t, stderr.String(), "Error [TRANSPORT_ERROR]")
		assert.Contains(t, stderr.String(), "hint: check --api-base")
	})
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		output := stdout.String()
		assert.Contains(t, output, "Current Configuration:")
		assert.Contains(t, output, "format:")
		assert.Contains(t, output, "base_url: "+config.DefaultAPIBase)
		assert.Contains(t, output, "Explorer:")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "config", result["type"])
		assert.Contains(t, result, "format")
		assert.Contains(t, result, "api")
		assert.Contains(t, result, "explorer")
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("outputs path info in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		output := stdout.String()
		// Either shows the path or says no config found
		assert.True(t, strings.Contains(output, "Config file:") || strings.Contains(output, "No configuration file found"))
	})

	t.Run("outputs path in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "config_path", result["type"])
		assert.Contains(t, result, "path")
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")

	require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

	output := stdout.String()
	assert.Contains(t, output, "# pcx configuration file")
	assert.Contains(t, output, "format: auto")
	assert.Contains(t, output, "base_url: "+config.DefaultAPIBase)
	assert.Contains(t, output, "explorer:")
	assert.Contains(t, output, "preview_count: 20")
	assert.Contains(t, output, "purge_details_on_mode_change: false")
}

// --- Schema Command Tests ---

func TestSchemaCmd_Run(t *testing.T) {
	t.Run("outputs all schemas by default", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&SchemaCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "http://json-schema.org/draft-07/schema#", result["$schema"])
		assert.Equal(t, "pcx Output Schemas", result["title"])

		defs := result["definitions"].(map[string]interface{})
		for _, typ := range schemaTypes {
			assert.Contains(t, defs, typ)
		}
	})

	t.Run("filters schemas by type", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&SchemaCmd{Type: []string{"session", "error"}}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		defs := result["definitions"].(map[string]interface{})
		assert.Len(t, defs, 2)
		assert.Contains(t, defs, "session")
		assert.Contains(t, defs, "error")
	})
}

// Every record the commands emit validates against its published schema.
func TestOutputMatchesSchema(t *testing.T) {
	srv := recordServer(t)
	globals, stdout, _ := testGlobals("ndjson")
	globals.APIBase = srv.URL

	require.NoError(t, (&ExperimentsCmd{}).Run(globals))
	require.NoError(t, (&SubjectsCmd{}).Run(globals))
	require.NoError(t, (&SessionsCmd{Experiment: "Reaction"}).Run(globals))
	require.NoError(t, (&SessionCmd{ID: "S1"}).Run(globals))
	require.Error(t, (&SessionCmd{ID: "missing"}).Run(globals))

	defs := outputSchemas(schemaTypes)["definitions"].(map[string]interface{})
	lines := bytes.Split(bytes.TrimSpace(stdout.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)

	for _, line := range lines {
		var rec struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(line, &rec))
		def, ok := defs[rec.Type]
		require.True(t, ok, "no schema for %q", rec.Type)

		result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(def), gojsonschema.NewBytesLoader(line))
		require.NoError(t, err)
		assert.True(t, result.Valid(), "%s: %v", rec.Type, result.Errors())
	}
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("outputs version and upgrade hint in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.Contains(t, stdout.String(), "pcx version")
		assert.Contains(t, stdout.String(), "Upgrade: "+goInstallCmd)
	})

	t.Run("quiet drops the upgrade hint", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.Quiet = true

		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.NotContains(t, stdout.String(), "Upgrade:")
	})

	t.Run("outputs version in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&VersionCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "version", result["type"])
		assert.Contains(t, result, "version")
		assert.Contains(t, result, "commit")
		assert.Equal(t, goInstallCmd, result["upgrade"])
	})
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, "text", resolveFormat("text", nil))
	assert.Equal(t, "ndjson", resolveFormat("ndjson", nil))
	assert.Equal(t, "ndjson", resolveFormat("auto", nil))
}

func TestNewGlobalsWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Quiet = true

	g := NewGlobalsWithConfig(&CLI{Format: "text", APIBase: "http://example.test/v1/"}, cfg)
	assert.Equal(t, "text", g.Format)
	assert.Equal(t, "http://example.test/v1", g.APIBase)
	assert.True(t, g.Quiet)

	g = NewGlobalsWithConfig(&CLI{Format: "ndjson"}, cfg)
	assert.Equal(t, config.DefaultAPIBase, g.APIBase)
}
