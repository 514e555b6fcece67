package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerdoc/schema"
)

func definition(t *testing.T, tr *translator, name string) *Schema {
	t.Helper()

	s, ok := tr.defs.items.Get(name)
	require.True(t, ok, "definition %s", name)
	require.NotNil(t, s)
	return s
}

func TestTranslatorScalars(t *testing.T) {
	tests := []struct {
		name string
		node *schema.Node
		want string
	}{
		{"string", schema.String(), `{"type":"string"}`},
		{"integer", schema.Integer(), `{"type":"integer"}`},
		{"number range", schema.Number().Min(1).Max(10), `{"type":"number","maximum":10,"minimum":1}`},
		{"exclusive", schema.Number().Greater(0).Less(5), `{"type":"number","maximum":5,"exclusiveMaximum":true,"minimum":0,"exclusiveMinimum":true}`},
		{"multiple", schema.Integer().Multiple(5), `{"type":"integer","multipleOf":5}`},
		{"boolean", schema.Boolean(), `{"type":"boolean"}`},
		{"date", schema.Date(), `{"type":"string","format":"date-time"}`},
		{"binary", schema.Binary(), `{"type":"string","format":"binary"}`},
		{"string length", schema.String().Min(2).Max(8), `{"type":"string","maxLength":8,"minLength":2}`},
		{"email", schema.String().Email(), `{"type":"string","format":"email"}`},
		{"guid", schema.String().GUID(), `{"type":"string","format":"uuid"}`},
		{"pattern", schema.String().Pattern("^[a-z]+$"), `{"type":"string","pattern":"^[a-z]+$"}`},
		{"description and default", schema.String().Description("Name").Default("bob"), `{"type":"string","description":"Name","default":"bob"}`},
		{"example", schema.Number().Example(3).Example(4), `{"type":"number","example":3}`},
		{"enum", schema.String().Valid("a", "b"), `{"type":"string","enum":["a","b"]}`},
		{"enum drops undefined and empty", schema.String().Valid("a", "", schema.Undefined), `{"type":"string","enum":["a"]}`},
		{"allow is not an enum", schema.String().Allow(""), `{"type":"string"}`},
		{"undefined default dropped", schema.String().Default(schema.Undefined), `{"type":"string"}`},
		{"swagger type override", schema.String().Meta("swaggerType", "integer"), `{"type":"integer"}`},
		{"format meta", schema.String().Meta("format", "password"), `{"type":"string","format":"password"}`},
		{"extensions", schema.String().Meta("x-order", 1), `{"type":"string","x-order":1}`},
		{"any", schema.Any(), `{}`},
		{"file", schema.File(), `{"type":"file"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTranslator(true, true)
			s := tr.property(tt.node, "field")

			data, err := json.Marshal(s)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
			assert.Empty(t, tr.warnings)
		})
	}
}

func TestTranslatorConstraints(t *testing.T) {
	t.Run("unmapped rule kept as x-constraint", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.String().Rule("creditCard", nil), "card")

		assert.Equal(t, map[string]any{"creditCard": true}, s.XConstraint)
	})

	t.Run("unmapped rule dropped without x-properties", func(t *testing.T) {
		tr := newTranslator(true, false)
		s := tr.property(schema.String().Rule("creditCard", nil), "card")

		assert.Nil(t, s.XConstraint)
	})
}

func TestTranslatorObjects(t *testing.T) {
	t.Run("object becomes a definition", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Object(
			schema.Field("name", schema.String().Required()),
			schema.Field("age", schema.Integer()),
		).Label("User"), "user")

		assert.Equal(t, "#/definitions/User", s.Ref)

		def := definition(t, tr, "User")
		assert.Equal(t, "object", def.Type)
		assert.Equal(t, []string{"name", "age"}, def.Properties.Keys())
		assert.Equal(t, []string{"name"}, def.Required)
	})

	t.Run("required excludes optional and undefined", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object(
			schema.Field("a", schema.String().Required()),
			schema.Field("b", schema.String()),
			schema.Field("c", schema.String().Required().Allow(schema.Undefined)),
		), "obj")

		assert.Equal(t, []string{"a"}, definition(t, tr, "Model1").Required)
	})

	t.Run("forbidden keys are skipped", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object(
			schema.Field("a", schema.String()),
			schema.Field("secret", schema.String().Forbidden()),
		), "obj")

		assert.Equal(t, []string{"a"}, definition(t, tr, "Model1").Properties.Keys())
	})

	t.Run("identical anonymous objects reused", func(t *testing.T) {
		tr := newTranslator(true, true)
		a := tr.property(schema.Object(schema.Field("name", schema.String())), "a")
		b := tr.property(schema.Object(schema.Field("name", schema.String())), "b")

		assert.Equal(t, "#/definitions/Model1", a.Ref)
		assert.Equal(t, "#/definitions/Model1", b.Ref)
		assert.Equal(t, 1, tr.defs.result().Len())
	})

	t.Run("identical anonymous objects without reuse", func(t *testing.T) {
		tr := newTranslator(false, true)
		a := tr.property(schema.Object(schema.Field("name", schema.String())), "a")
		b := tr.property(schema.Object(schema.Field("name", schema.String())), "b")

		assert.Equal(t, "#/definitions/Model1", a.Ref)
		assert.Equal(t, "#/definitions/Model2", b.Ref)
		assert.Equal(t, 2, tr.defs.result().Len())
	})

	t.Run("nested objects", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object(
			schema.Field("address", schema.Object(schema.Field("city", schema.String())).Label("Address")),
		).Label("User"), "user")

		user := definition(t, tr, "User")
		address, ok := user.Properties.Get("address")
		require.True(t, ok)
		assert.Equal(t, "#/definitions/Address", address.Ref)
		assert.Equal(t, []string{"Address", "User"}, tr.defs.result().Keys())
	})

	t.Run("pattern keys become additional properties", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object().Pattern(".*", schema.Integer()), "counts")

		def := definition(t, tr, "Model1")
		require.NotNil(t, def.AdditionalProperties)
		assert.Equal(t, "integer", def.AdditionalProperties.Type)
	})

	t.Run("unknown keys allowed", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object().AllowUnknown(), "any")

		def := definition(t, tr, "Model1")
		assert.Equal(t, &Schema{}, def.AdditionalProperties)
	})
}

func TestTranslatorCycles(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		node := schema.Object().Label("Node")
		node.Append("name", schema.String()).Append("child", node)

		tr := newTranslator(true, true)
		s := tr.property(node, "node")

		assert.Equal(t, "#/definitions/Node", s.Ref)

		def := definition(t, tr, "Node")
		child, ok := def.Properties.Get("child")
		require.True(t, ok)
		assert.Equal(t, "#/definitions/Node", child.Ref)
		assert.Equal(t, 1, tr.defs.result().Len())
	})

	t.Run("self reference through array", func(t *testing.T) {
		node := schema.Object()
		node.Append("children", schema.Array(node))

		tr := newTranslator(true, true)
		s := tr.property(node, "tree")

		assert.Equal(t, "#/definitions/Model1", s.Ref)
		children, ok := definition(t, tr, "Model1").Properties.Get("children")
		require.True(t, ok)
		assert.Equal(t, "array", children.Type)
		assert.Equal(t, "#/definitions/Model1", children.Items.Ref)
	})

	t.Run("link by id", func(t *testing.T) {
		node := schema.Object(
			schema.Field("name", schema.String()),
			schema.Field("parent", schema.Link("#person")),
		).ID("person").ClassName("Person")

		tr := newTranslator(true, true)
		tr.property(node, "person")

		parent, ok := definition(t, tr, "Person").Properties.Get("parent")
		require.True(t, ok)
		assert.Equal(t, "#/definitions/Person", parent.Ref)
		assert.Empty(t, tr.warnings)
	})

	t.Run("link to registered model", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.property(schema.Object(schema.Field("id", schema.String())).ID("item").Label("Item"), "item")
		s := tr.property(schema.Link("item"), "ref")

		assert.Equal(t, "#/definitions/Item", s.Ref)
	})

	t.Run("unresolved link degrades", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Link("nowhere"), "ref")

		assert.Equal(t, &Schema{}, s)
		require.Len(t, tr.warnings, 1)
		assert.Equal(t, "ref", tr.warnings[0].Path)
	})

	t.Run("same node reused", func(t *testing.T) {
		shared := schema.Object(schema.Field("v", schema.String()))
		tr := newTranslator(false, true)

		a := tr.property(shared, "a")
		b := tr.property(shared, "b")

		assert.Equal(t, a.Ref, b.Ref)
		assert.Equal(t, 1, tr.defs.result().Len())
	})
}

func TestTranslatorArrays(t *testing.T) {
	t.Run("items", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Array(schema.String()).Min(1).Max(3).Unique(), "list")

		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"array","items":{"type":"string"},"maxItems":3,"minItems":1,"uniqueItems":true}`, string(data))
	})

	t.Run("no items defaults to string", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Array(), "list")

		assert.Equal(t, &Schema{Type: "string"}, s.Items)
	})

	t.Run("first item type wins", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Array(schema.Number(), schema.String()), "list")

		assert.Equal(t, "number", s.Items.Type)
		require.Len(t, tr.warnings, 1)
		assert.Equal(t, "list", tr.warnings[0].Path)
	})

	t.Run("root array of objects is a model", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.rootSchema(schema.Array(schema.Object(schema.Field("id", schema.String()))), "response")

		assert.Equal(t, "#/definitions/Array1", s.Ref)

		arr := definition(t, tr, "Array1")
		assert.Equal(t, "array", arr.Type)
		assert.Equal(t, "#/definitions/Model1", arr.Items.Ref)
	})

	t.Run("root array of scalars is inline", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.rootSchema(schema.Array(schema.String()), "response")

		assert.Equal(t, "array", s.Type)
		assert.Nil(t, tr.defs.result())
	})
}

func TestTranslatorAlternatives(t *testing.T) {
	t.Run("shared primitive merges enums", func(t *testing.T) {
		tr := newTranslator(true, false)
		s := tr.property(schema.Alternatives(
			schema.String().Valid("a"),
			schema.String().Valid("b", "a"),
		), "alt")

		assert.Equal(t, "string", s.Type)
		assert.Equal(t, []any{"a", "b"}, s.Enum)
		assert.Nil(t, s.XAlternatives)
	})

	t.Run("branch without enum drops enum", func(t *testing.T) {
		tr := newTranslator(true, false)
		s := tr.property(schema.Alternatives(
			schema.String().Valid("a"),
			schema.String(),
		), "alt")

		assert.Equal(t, "string", s.Type)
		assert.Nil(t, s.Enum)
	})

	t.Run("heterogeneous branches take the first", func(t *testing.T) {
		tr := newTranslator(true, false)
		s := tr.property(schema.Alternatives(schema.Number(), schema.String()), "alt")

		assert.Equal(t, &Schema{Type: "number"}, s)
	})

	t.Run("x-alternatives lists every branch", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Alternatives(
			schema.Object(schema.Field("a", schema.String())).Label("A"),
			schema.Object(schema.Field("b", schema.String())).Label("B"),
		), "alt")

		assert.Equal(t, "#/definitions/A", s.Ref)
		require.Len(t, s.XAlternatives, 2)
		assert.Equal(t, "#/x-alt-definitions/A", s.XAlternatives[0].Ref)
		assert.Equal(t, "#/x-alt-definitions/B", s.XAlternatives[1].Ref)

		assert.Equal(t, []string{"A"}, tr.defs.result().Keys())
		assert.Equal(t, []string{"A", "B"}, tr.alts.result().Keys())
	})

	t.Run("empty alternatives degrade", func(t *testing.T) {
		tr := newTranslator(true, true)
		s := tr.property(schema.Alternatives(), "alt")

		assert.Equal(t, &Schema{}, s)
		assert.Len(t, tr.warnings, 1)
	})
}

func TestTranslatorWarnings(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		n := schema.Any()
		n.Type = "symbol"

		tr := newTranslator(true, true)
		s := tr.property(n, "field")

		assert.Equal(t, &Schema{}, s)
		require.Len(t, tr.warnings, 1)
		assert.Contains(t, tr.warnings[0].Message, `"symbol"`)
	})

	t.Run("nil schema", func(t *testing.T) {
		tr := newTranslator(true, true)
		assert.Equal(t, &Schema{}, tr.property(nil, "field"))
		assert.Len(t, tr.warnings, 1)
	})

	t.Run("scope prefixes path", func(t *testing.T) {
		tr := newTranslator(true, true)
		tr.scope = "GET /users"
		tr.property(nil, "query.id")

		require.Len(t, tr.warnings, 1)
		assert.Equal(t, "GET /users query.id", tr.warnings[0].Path)
		assert.Equal(t, "GET /users query.id: missing schema, documented as untyped", tr.warnings[0].String())
	})
}

func TestTranslatorRollback(t *testing.T) {
	tr := newTranslator(true, true)
	user := schema.Object(schema.Field("name", schema.String())).Label("User")
	tr.property(user, "user")

	cp := tr.checkpoint()
	order := schema.Object(
		schema.Field("id", schema.Integer()),
		schema.Field("owner", user),
	).Label("Order")
	tr.property(order, "order")
	tr.property(schema.Alternatives(schema.Object().Label("A"), schema.String()), "alt")
	require.Equal(t, []string{"User", "Order", "A"}, tr.defs.items.Keys())

	tr.rollback(cp)

	assert.Equal(t, []string{"User"}, tr.defs.items.Keys())
	assert.Equal(t, 0, tr.alts.items.Len())
	assert.Empty(t, tr.stack)

	s := tr.property(order, "order")
	assert.Equal(t, "#/definitions/Order", s.Ref)
	assert.Equal(t, "#/definitions/User", tr.property(user, "user").Ref)
	assert.Equal(t, []string{"User", "Order"}, tr.defs.items.Keys())
}
