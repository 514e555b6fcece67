package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testRoutes = `
routes:
  - method: get
    path: /users/{id}
    tags: [api, users]
    description: Get user
    validate:
      params:
        type: object
        keys:
          id:
            type: string
            flags: {presence: required}
            rules: [{name: guid}]
    response:
      schema:
        type: object
        flags: {label: User}
        keys:
          id: {type: string}
          name: {type: string}
  - method: POST
    path: /users
    tags: [api, users]
    validate:
      payload:
        type: object
        flags: {label: NewUser}
        keys:
          name: {type: string, flags: {presence: required}}
    response:
      status:
        201:
          type: object
          flags: {label: User}
          keys:
            id: {type: string}
            name: {type: string}
    options:
      id: createUser
      responses:
        "409": {description: Already exists}
        default: {description: Unexpected error}
  - method: GET
    path: /internal/stats
    tags: [api, internal]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	routes := writeFile(t, "routes.yaml", testRoutes)

	t.Run("json to stdout", func(t *testing.T) {
		out, err := execute(t, "generate", "--routes", routes)
		require.NoError(t, err)

		var doc struct {
			Swagger     string                               `json:"swagger"`
			Paths       map[string]map[string]map[string]any `json:"paths"`
			Definitions map[string]any                       `json:"definitions"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))

		assert.Equal(t, "2.0", doc.Swagger)
		assert.Len(t, doc.Paths, 3)
		assert.Equal(t, "createUser", doc.Paths["/users"]["post"]["operationId"])
		assert.Contains(t, doc.Paths["/users"]["post"]["responses"], "409")
		assert.Contains(t, doc.Paths["/users"]["post"]["responses"], "default")
		assert.Contains(t, doc.Definitions, "User")
		assert.Contains(t, doc.Definitions, "NewUser")
	})

	t.Run("tag filter", func(t *testing.T) {
		out, err := execute(t, "generate", "--routes", routes, "--tags", "users")
		require.NoError(t, err)

		var doc struct {
			Paths map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Len(t, doc.Paths, 2)
		assert.NotContains(t, doc.Paths, "/internal/stats")
	})

	t.Run("yaml file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "swagger.yaml")

		out, err := execute(t, "generate", "--routes", routes, "--out", target, "--host", "api.example.com")
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(target)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, "2.0", doc["swagger"])
		assert.Equal(t, "api.example.com", doc["host"])
	})

	t.Run("deref", func(t *testing.T) {
		out, err := execute(t, "generate", "--routes", routes, "--deref")
		require.NoError(t, err)
		assert.NotContains(t, out, "$ref")
	})

	t.Run("config file", func(t *testing.T) {
		config := writeFile(t, "settings.yaml", "info:\n  title: Users API\n  version: 2.0.0\nsortPaths: path-method\n")

		out, err := execute(t, "--config", config, "generate", "--routes", routes)
		require.NoError(t, err)

		var doc struct {
			Info struct {
				Title   string `json:"title"`
				Version string `json:"version"`
			} `json:"info"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "Users API", doc.Info.Title)
		assert.Equal(t, "2.0.0", doc.Info.Version)
	})

	t.Run("invalid config", func(t *testing.T) {
		config := writeFile(t, "settings.yaml", "ui: unknown\n")

		_, err := execute(t, "--config", config, "generate", "--routes", routes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ui")
	})

	t.Run("usage errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"missing routes", []string{"generate"}},
			{"unknown format", []string{"generate", "--routes", routes, "--format", "xml"}},
			{"unknown flag", []string{"generate", "--bogus"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := execute(t, tt.args...)
				assert.True(t, errors.Is(err, ErrUsage), "got %v", err)
			})
		}
	})

	t.Run("missing routes file", func(t *testing.T) {
		_, err := execute(t, "generate", "--routes", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUsage))
	})
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", formatFromPath("out/swagger.YML"))
	assert.Equal(t, "yaml", formatFromPath("swagger.yaml"))
	assert.Equal(t, "json", formatFromPath("swagger.json"))
	assert.Equal(t, "json", formatFromPath(""))
}

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		routes := writeFile(t, "routes.yaml", testRoutes)
		target := filepath.Join(t.TempDir(), "swagger.yaml")

		_, err := execute(t, "generate", "--routes", routes, "--out", target)
		require.NoError(t, err)

		out, err := execute(t, "validate", target)
		require.NoError(t, err)
		assert.Contains(t, out, "document is valid")
	})

	t.Run("broken reference", func(t *testing.T) {
		doc := writeFile(t, "swagger.json", `{
			"swagger": "2.0",
			"info": {"title": "t", "version": "1"},
			"paths": {"/a": {"get": {"responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/Missing"}}}}}}
		}`)

		out, err := execute(t, "validate", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issue(s) found")
		assert.Contains(t, out, "reference: /paths/~1a/get/responses/200/schema")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "validate")
		assert.ErrorIs(t, err, ErrUsage)
	})
}

func TestParseRoutes(t *testing.T) {
	t.Run("routes registered", func(t *testing.T) {
		catalog, err := parseRoutes([]byte(testRoutes))
		require.NoError(t, err)

		r, ok := catalog.Lookup("GET", "/users/{id}")
		require.True(t, ok)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Get user", r.Description)
		require.NotNil(t, r.Validate.Params)
		assert.True(t, r.Validate.Params.Child("id").IsRequired())
		assert.Nil(t, r.Validate.Query)

		r, ok = catalog.Lookup("POST", "/users")
		require.True(t, ok)
		assert.NotNil(t, r.Response.Status[201])
		assert.Equal(t, "createUser", r.Options.ID)
		assert.Equal(t, "Already exists", r.Options.Responses["409"].Description)
		assert.Equal(t, "Unexpected error", r.Options.Responses["default"].Description)
	})

	t.Run("invalid entries", func(t *testing.T) {
		tests := []struct {
			name string
			data string
		}{
			{"missing method", "routes:\n  - path: /a\n"},
			{"relative path", "routes:\n  - method: GET\n    path: a\n"},
			{"schema not a mapping", "routes:\n  - method: GET\n    path: /a\n    validate:\n      query: [1, 2]\n"},
			{"bad response key", "routes:\n  - method: GET\n    path: /a\n    options:\n      responses:\n        ok: {description: fine}\n"},
			{"malformed yaml", "routes: [\n"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := parseRoutes([]byte(tt.data))
				assert.Error(t, err)
			})
		}
	})
}
