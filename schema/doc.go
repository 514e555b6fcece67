/*
Package schema defines the canonical validation-schema node consumed by the
swagger document builder, together with adapters that produce nodes from
other sources.

A Node is a tagged variant: Kind selects between scalars, objects (Keys),
arrays (Items), unions (Matches), links (Ref) and uploaded files. Flags carry
label, class name, description, default, presence and the only/unknown
switches of the validation library.

# Building nodes

Nodes can be written directly with the fluent constructors:

	user := schema.Object(
		schema.Field("id", schema.String().GUID().Required()),
		schema.Field("name", schema.String().Min(1).Max(64).Description("Display name")),
		schema.Field("role", schema.String().Valid("admin", "user").Default("user")),
	).ClassName("User")

Self-referential schemas are built with Append and Link, or by appending the
node to itself:

	tree := schema.Object().ID("tree")
	tree.Append("children", schema.Array(schema.Link("#tree")))

# Describe dumps

ParseDescription reads the JSON or YAML output of a describe() call of a
Joi-style validation library. Both generations of the dump are accepted:

	legacy:  children, valids, rules[].arg, alternatives, meta, label
	current: keys, allow + flags.only, rules[].args, matches, metas, flags.label

Type tags that have no counterpart (function, symbol, lazy) produce KindAny
nodes that keep the raw tag in Type, which the document builder reports as
a degraded schema.

# Go types

FromType reflects over Go types. It honours the json tag for names and
omitempty, go-playground validator tags (required, min, max, len, gt, lt,
oneof, email, url, uuid) and a swagger tag for documentation settings:

	type CreateUser struct {
	    Name  string                `json:"name" validate:"required,min=1,max=64" swagger:"description=Display name"`
	    Role  string                `json:"role,omitempty" validate:"oneof=admin user"`
	    Photo *multipart.FileHeader `json:"photo,omitempty"`
	}

time.Time maps to a date node, []byte to binary and multipart.FileHeader to
a file node. Named struct types carry their type name as class name.
*/
package schema
