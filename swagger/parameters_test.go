package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerdoc/schema"
)

func TestParameters(t *testing.T) {
	t.Run("query keys", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(
			schema.Field("limit", schema.Integer().Min(1).Max(100).Default(20).Description("Page size")),
			schema.Field("sort", schema.String().Valid("asc", "desc").Required()),
		), inQuery, "query")

		require.Len(t, params, 2)

		limit := params[0]
		assert.Equal(t, "limit", limit.Name)
		assert.Equal(t, "query", limit.In)
		assert.Equal(t, "integer", limit.Type)
		assert.Equal(t, "Page size", limit.Description)
		assert.Equal(t, 20, limit.Default)
		require.NotNil(t, limit.Minimum)
		assert.Equal(t, 1.0, *limit.Minimum)
		require.NotNil(t, limit.Maximum)
		assert.Equal(t, 100.0, *limit.Maximum)
		assert.False(t, limit.Required)

		sort := params[1]
		assert.Equal(t, []any{"asc", "desc"}, sort.Enum)
		assert.True(t, sort.Required)
		assert.Empty(t, tr.warnings)
	})

	t.Run("path params are required", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(schema.Field("id", schema.String())), inPath, "params")

		require.Len(t, params, 1)
		assert.True(t, params[0].Required)
	})

	t.Run("array in query uses multi", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(schema.Field("ids", schema.Array(schema.Integer()))), inQuery, "query")

		require.Len(t, params, 1)
		assert.Equal(t, "array", params[0].Type)
		assert.Equal(t, "multi", params[0].CollectionFormat)
		assert.Equal(t, "integer", params[0].Items.Type)
	})

	t.Run("array in header uses csv", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(schema.Field("x-ids", schema.Array(schema.String()))), inHeader, "headers")

		require.Len(t, params, 1)
		assert.Equal(t, "csv", params[0].CollectionFormat)
	})

	t.Run("array of objects documented as strings", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(
			schema.Field("filters", schema.Array(schema.Object(schema.Field("k", schema.String())))),
		), inQuery, "query")

		require.Len(t, params, 1)
		assert.Equal(t, &Schema{Type: "string"}, params[0].Items)
		require.Len(t, tr.warnings, 1)
		assert.Equal(t, "query.filters", tr.warnings[0].Path)
	})

	t.Run("object parameter degrades", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(
			schema.Field("filter", schema.Object(schema.Field("k", schema.String()))),
		), inQuery, "query")

		require.Len(t, params, 1)
		assert.Empty(t, params[0].Type)
		require.Len(t, tr.warnings, 1)
		assert.Nil(t, tr.defs.result())
	})

	t.Run("file outside form data degrades", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.Object(schema.Field("upload", schema.File())), inQuery, "query")

		require.Len(t, params, 1)
		assert.Empty(t, params[0].Type)
		assert.Len(t, tr.warnings, 1)
	})

	t.Run("non object schema", func(t *testing.T) {
		tr := newTranslator(true, true)
		params := tr.parameters(schema.String(), inQuery, "query")

		assert.Empty(t, params)
		assert.Len(t, tr.warnings, 1)
	})

	t.Run("nil schema", func(t *testing.T) {
		tr := newTranslator(true, true)
		assert.Nil(t, tr.parameters(nil, inQuery, "query"))
		assert.Empty(t, tr.warnings)
	})
}

func TestPayload(t *testing.T) {
	user := func() *schema.Node {
		return schema.Object(
			schema.Field("name", schema.String().Required()),
		).Label("User").Required()
	}

	t.Run("json body", func(t *testing.T) {
		tr := newTranslator(true, true)
		params, consumes := tr.payload(user(), PayloadJSON)

		require.Len(t, params, 1)
		assert.Equal(t, "body", params[0].Name)
		assert.Equal(t, "body", params[0].In)
		assert.True(t, params[0].Required)
		assert.Equal(t, "#/definitions/User", params[0].Schema.Ref)
		assert.Nil(t, consumes)
	})

	t.Run("form fields", func(t *testing.T) {
		tr := newTranslator(true, true)
		params, consumes := tr.payload(user(), PayloadForm)

		require.Len(t, params, 1)
		assert.Equal(t, "name", params[0].Name)
		assert.Equal(t, "formData", params[0].In)
		assert.True(t, params[0].Required)
		assert.Equal(t, []string{"application/x-www-form-urlencoded"}, consumes)
		assert.Nil(t, tr.defs.result())
	})

	t.Run("file forces multipart form", func(t *testing.T) {
		tr := newTranslator(true, true)
		params, consumes := tr.payload(schema.Object(
			schema.Field("title", schema.String()),
			schema.Field("upload", schema.Any().Meta("swaggerType", "file").Required()),
		), PayloadJSON)

		require.Len(t, params, 2)
		assert.Equal(t, "formData", params[1].In)
		assert.Equal(t, "file", params[1].Type)
		assert.Equal(t, []string{"multipart/form-data"}, consumes)
		assert.Empty(t, tr.warnings)
	})

	t.Run("array payload", func(t *testing.T) {
		tr := newTranslator(true, true)
		params, _ := tr.payload(schema.Array(user()), PayloadJSON)

		require.Len(t, params, 1)
		assert.Equal(t, "#/definitions/Array1", params[0].Schema.Ref)
	})

	t.Run("no payload", func(t *testing.T) {
		tr := newTranslator(true, true)
		params, consumes := tr.payload(nil, PayloadJSON)

		assert.Nil(t, params)
		assert.Nil(t, consumes)
	})
}

func TestPathTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/users/{id}", "/users/{id}"},
		{"/users/:id", "/users/{id}"},
		{"/users/:id?", "/users/{id}"},
		{"/files/*path", "/files/{path}"},
		{"/files/*", "/files/{wildcard}"},
		{"/files/{path*}", "/files/{path}"},
		{"/files/{path*2}", "/files/{path}"},
		{"/items/{id:uuid}", "/items/{id}"},
		{"/plain", "/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _ := parsePathTemplate(NormalizePath(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("variables", func(t *testing.T) {
		_, vars := parsePathTemplate("/a/{id:int}/{name?}")

		require.Len(t, vars, 2)
		assert.Equal(t, pathVar{name: "id", macro: "int"}, vars[0])
		assert.Equal(t, pathVar{name: "name", optional: true}, vars[1])
	})

	t.Run("macro parameters", func(t *testing.T) {
		p := pathVarParameter(pathVar{name: "id", macro: "uuid"})
		assert.Equal(t, "string", p.Type)
		assert.Equal(t, "uuid", p.Format)
		assert.True(t, p.Required)

		p = pathVarParameter(pathVar{name: "n", macro: "int"})
		assert.Equal(t, "integer", p.Type)

		p = pathVarParameter(pathVar{name: "code", macro: "[A-Z]{3}"})
		assert.Equal(t, "string", p.Type)
		assert.Equal(t, "[A-Z]{3}", p.Pattern)
	})
}
