package swagger

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vitalvas/swaggerdoc/schema"
)

// translator turns schema nodes into Swagger schemas. Objects are registered
// as definitions and referenced; scalars are inlined. Untranslatable
// fragments degrade to untyped schemas and are recorded as warnings.
type translator struct {
	defs   *definitions
	alts   *definitions
	xprops bool

	// scope prefixes warning paths, usually "METHOD /path".
	scope    string
	warnings []Warning
	done     map[nodeKey]string
	ids      map[idKey]string
	stack    []*frame
}

type nodeKey struct {
	node *schema.Node
	reg  *definitions
}

type idKey struct {
	id  string
	reg *definitions
}

// frame is an object whose translation is in progress. name is reserved
// lazily when a cycle reaches the object.
type frame struct {
	node *schema.Node
	reg  *definitions
	name string
}

func newTranslator(reuse, xprops bool) *translator {
	return &translator{
		defs:   newDefinitions("#/definitions/", reuse),
		alts:   newDefinitions("#/x-alt-definitions/", reuse),
		xprops: xprops,
		done:   make(map[nodeKey]string),
		ids:    make(map[idKey]string),
	}
}

// checkpoint marks the registry sizes so a failed operation can be undone.
type checkpoint struct {
	defs int
	alts int
}

func (t *translator) checkpoint() checkpoint {
	return checkpoint{defs: t.defs.items.Len(), alts: t.alts.items.Len()}
}

// rollback drops the models registered since cp together with the identity
// entries pointing at them.
func (t *translator) rollback(cp checkpoint) {
	t.stack = nil

	for _, r := range []struct {
		reg  *definitions
		size int
	}{{t.defs, cp.defs}, {t.alts, cp.alts}} {
		for _, name := range r.reg.truncate(r.size) {
			for k, v := range t.done {
				if k.reg == r.reg && v == name {
					delete(t.done, k)
				}
			}
			for k, v := range t.ids {
				if k.reg == r.reg && v == name {
					delete(t.ids, k)
				}
			}
		}
	}
}

func (t *translator) warn(path, format string, args ...any) {
	if t.scope != "" {
		path = t.scope + " " + path
	}
	t.warnings = append(t.warnings, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
}

// property translates n with objects registered in the main definitions.
func (t *translator) property(n *schema.Node, path string) *Schema {
	return t.propertyIn(n, path, t.defs)
}

func (t *translator) propertyIn(n *schema.Node, path string, reg *definitions) *Schema {
	if n == nil {
		t.warn(path, "missing schema, documented as untyped")
		return &Schema{}
	}

	if n.IsFile() {
		return t.decorate(&Schema{Type: "file"}, n)
	}

	switch n.Kind {
	case schema.KindString, schema.KindNumber, schema.KindBoolean, schema.KindDate, schema.KindBinary:
		return t.scalar(n, path)
	case schema.KindObject:
		return t.object(n, path, reg)
	case schema.KindArray:
		return t.array(n, path, reg)
	case schema.KindAlternatives:
		return t.alternatives(n, path, reg)
	case schema.KindReference:
		return t.reference(n, path, reg)
	case schema.KindAny:
		if n.Type != "" && n.Type != schema.KindAny.String() {
			t.warn(path, "unsupported type %q, documented as untyped", n.Type)
		}
		return t.decorate(&Schema{}, n)
	}

	t.warn(path, "unknown schema kind %d, documented as untyped", int(n.Kind))
	return &Schema{}
}

// rootSchema translates payload and response schemas. Arrays of objects are
// registered as models of their own.
func (t *translator) rootSchema(n *schema.Node, path string) *Schema {
	if n != nil && n.Kind == schema.KindArray && len(n.Items) > 0 && n.Items[0] != nil {
		switch n.Items[0].Kind {
		case schema.KindObject, schema.KindReference:
			s := t.array(n, path, t.defs)
			return t.defs.refTo(t.defs.append(n.Name(), arrayPrefix, s))
		}
	}
	return t.property(n, path)
}

func (t *translator) scalar(n *schema.Node, path string) *Schema {
	s := &Schema{}

	switch n.Kind {
	case schema.KindString:
		s.Type = "string"
	case schema.KindNumber:
		s.Type = "number"
		if n.HasRule("integer") {
			s.Type = "integer"
		}
	case schema.KindBoolean:
		s.Type = "boolean"
	case schema.KindDate:
		s.Type = "string"
		s.Format = "date-time"
	case schema.KindBinary:
		s.Type = "string"
		s.Format = "binary"
	}

	t.applyRules(s, n)
	return t.decorate(s, n)
}

func (t *translator) object(n *schema.Node, path string, reg *definitions) *Schema {
	key := nodeKey{node: n, reg: reg}
	if name, ok := t.done[key]; ok {
		return reg.refTo(name)
	}

	for _, f := range t.stack {
		if f.node == n && f.reg == reg {
			if f.name == "" {
				f.name = reg.reserve(n.Name(), modelPrefix)
			}
			return reg.refTo(f.name)
		}
	}

	f := &frame{node: n, reg: reg}
	t.stack = append(t.stack, f)

	s := &Schema{Type: "object"}
	props := NewOrderedMap[*Schema]()

	for _, k := range n.Keys {
		if k.Node != nil && k.Node.Flags.Presence == schema.PresenceForbidden {
			continue
		}

		props.Set(k.Name, t.propertyIn(k.Node, path+"."+k.Name, reg))
		if k.Node.IsRequired() {
			s.Required = append(s.Required, k.Name)
		}
	}

	if props.Len() > 0 {
		s.Properties = props
	}

	if len(n.Patterns) > 0 && n.Patterns[0].Node != nil {
		s.AdditionalProperties = t.propertyIn(n.Patterns[0].Node, path+".*", reg)
	} else if n.Flags.Unknown {
		s.AdditionalProperties = &Schema{}
	}

	t.applyRules(s, n)
	t.decorate(s, n)

	t.stack = t.stack[:len(t.stack)-1]

	name := f.name
	if name != "" {
		reg.fill(name, s)
	} else {
		name = reg.append(n.Name(), modelPrefix, s)
	}

	t.done[key] = name
	for _, id := range []string{n.Flags.ID, n.Flags.ClassName, n.Flags.Label} {
		if id != "" {
			t.ids[idKey{id: id, reg: reg}] = name
		}
	}

	return reg.refTo(name)
}

func (t *translator) array(n *schema.Node, path string, reg *definitions) *Schema {
	s := &Schema{Type: "array"}

	switch len(n.Items) {
	case 0:
		s.Items = &Schema{Type: "string"}
	default:
		if len(n.Items) > 1 {
			t.warn(path, "array declares %d item types, only the first is documented", len(n.Items))
		}
		s.Items = t.propertyIn(n.Items[0], path+"[]", reg)
	}

	t.applyRules(s, n)
	return t.decorate(s, n)
}

// alternatives documents a union by its first branch. When every branch is
// the same primitive the enums are merged. With x-properties enabled all
// branches are listed under x-alternatives, objects registered in the
// alternative definitions.
func (t *translator) alternatives(n *schema.Node, path string, reg *definitions) *Schema {
	if len(n.Matches) == 0 {
		t.warn(path, "alternatives without branches, documented as untyped")
		return t.decorate(&Schema{}, n)
	}

	s := t.propertyIn(n.Matches[0], path, reg)

	if sharedPrimitive(n.Matches) {
		s.Enum = mergedEnum(n.Matches)
	}

	if t.xprops && len(n.Matches) > 1 {
		for i, m := range n.Matches {
			s.XAlternatives = append(s.XAlternatives, t.propertyIn(m, fmt.Sprintf("%s<%d>", path, i), t.alts))
		}
	}

	if s.Ref == "" {
		t.decorate(s, n)
	}
	return s
}

// reference resolves a link against the objects being translated and the
// named objects already registered.
func (t *translator) reference(n *schema.Node, path string, reg *definitions) *Schema {
	for i := len(t.stack) - 1; i >= 0; i-- {
		f := t.stack[i]
		if f.reg != reg || !matchesRef(f.node, n.Ref) {
			continue
		}
		if f.name == "" {
			f.name = reg.reserve(f.node.Name(), modelPrefix)
		}
		return reg.refTo(f.name)
	}

	if n.Ref == "" {
		for _, f := range t.stack {
			if f.reg == reg {
				if f.name == "" {
					f.name = reg.reserve(f.node.Name(), modelPrefix)
				}
				return reg.refTo(f.name)
			}
		}
	}

	if name, ok := t.ids[idKey{id: n.Ref, reg: reg}]; ok {
		return reg.refTo(name)
	}

	t.warn(path, "unresolved link %q, documented as untyped", n.Ref)
	return t.decorate(&Schema{}, n)
}

func matchesRef(n *schema.Node, ref string) bool {
	return ref != "" && (n.Flags.ID == ref || n.Flags.ClassName == ref || n.Flags.Label == ref)
}

// decorate copies descriptive flags and metadata onto an inline schema.
func (t *translator) decorate(s *Schema, n *schema.Node) *Schema {
	if s.Ref != "" {
		return s
	}

	if n.Flags.Description != "" {
		s.Description = n.Flags.Description
	}
	if def := n.Flags.Default; def != nil && !schema.IsUndefined(def) {
		s.Default = def
	}
	if len(n.Examples) > 0 {
		s.Example = n.Examples[0]
	}
	if n.Flags.Only {
		s.Enum = enumValues(n.Values)
	}

	if format, ok := n.Metas["format"].(string); ok && format != "" {
		s.Format = format
	}
	if st := n.SwaggerType(); st != "" && st != "file" {
		s.Type = st
	}

	for k, v := range n.Metas {
		if strings.HasPrefix(k, "x-") {
			if s.Extensions == nil {
				s.Extensions = make(map[string]any)
			}
			s.Extensions[k] = v
		}
	}

	return s
}

// enumValues drops the Undefined sentinel and empty strings.
func enumValues(values []any) []any {
	var out []any
	for _, v := range values {
		if schema.IsUndefined(v) {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func primitiveType(n *schema.Node) (string, bool) {
	if n == nil || !n.Kind.IsScalar() || n.SwaggerType() != "" {
		return "", false
	}
	if n.Kind == schema.KindNumber && n.HasRule("integer") {
		return "integer", true
	}
	return n.Kind.String(), true
}

func sharedPrimitive(nodes []*schema.Node) bool {
	first, ok := primitiveType(nodes[0])
	if !ok {
		return false
	}
	for _, n := range nodes[1:] {
		if typ, ok := primitiveType(n); !ok || typ != first {
			return false
		}
	}
	return true
}

// mergedEnum unions the enums of all branches. A branch without an enum
// accepts any value, so the merged enum is dropped.
func mergedEnum(nodes []*schema.Node) []any {
	var out []any
	for _, n := range nodes {
		if !n.Flags.Only {
			return nil
		}
		for _, v := range enumValues(n.Values) {
			if !containsValue(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func containsValue(values []any, v any) bool {
	for _, existing := range values {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}
