package schema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDescription is returned when a description is not a mapping.
var ErrInvalidDescription = errors.New("schema: invalid description")

// ParseDescription parses a JSON or YAML describe() dump. Key order of
// objects is preserved.
func ParseDescription(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}

	return FromYAML(&doc)
}

// FromDescription converts an already decoded describe() value. Go maps have
// no order, so keys of plain maps are taken in sorted order; pass a
// *yaml.Node to keep declaration order.
func FromDescription(desc any) (*Node, error) {
	if node, ok := desc.(*yaml.Node); ok {
		return FromYAML(node)
	}

	var doc yaml.Node
	if err := doc.Encode(desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}

	return FromYAML(&doc)
}

// FromYAML converts a describe() dump held in a YAML node tree. Both the
// legacy (children, valids, alternatives, meta) and the current (keys,
// allow, matches, metas) shapes are understood.
func FromYAML(doc *yaml.Node) (*Node, error) {
	doc = resolve(doc)
	if doc != nil && doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDescription)
		}
		doc = resolve(doc.Content[0])
	}

	if doc == nil || doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping", ErrInvalidDescription)
	}

	return describeNode(doc), nil
}

var describeKinds = map[string]Kind{
	"":             KindAny,
	"any":          KindAny,
	"string":       KindString,
	"number":       KindNumber,
	"boolean":      KindBoolean,
	"date":         KindDate,
	"binary":       KindBinary,
	"object":       KindObject,
	"array":        KindArray,
	"alternatives": KindAlternatives,
	"link":         KindReference,
	"file":         KindFile,
}

func describeNode(m *yaml.Node) *Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return &Node{Kind: KindAny, Type: "unknown"}
	}

	typ := scalarString(lookup(m, "type"))
	kind, ok := describeKinds[typ]
	if !ok {
		kind = KindAny
	}
	if typ == "" {
		typ = kind.String()
	}

	n := &Node{Kind: kind, Type: typ}

	describeFlags(n, m)
	describeMetas(n, lookup(m, "meta"))
	describeMetas(n, lookup(m, "metas"))

	if className, ok := n.Metas["className"].(string); ok && n.Flags.ClassName == "" {
		n.Flags.ClassName = className
	}

	for _, key := range []string{"valids", "allow"} {
		for _, v := range sequence(lookup(m, key)) {
			if value, ok := allowedValue(v); ok {
				n.Values = append(n.Values, value)
			}
		}
	}

	for _, v := range sequence(lookup(m, "examples")) {
		n.Examples = append(n.Examples, exampleValue(v))
	}

	for _, v := range sequence(lookup(m, "notes")) {
		if s := scalarString(v); s != "" {
			n.Notes = append(n.Notes, s)
		}
	}

	for _, r := range sequence(lookup(m, "rules")) {
		if rule, ok := describeRule(r); ok {
			n.Rules = append(n.Rules, rule)
		}
	}

	switch kind {
	case KindObject:
		describeKeys(n, lookup(m, "children"))
		describeKeys(n, lookup(m, "keys"))
		for _, p := range sequence(lookup(m, "patterns")) {
			child := lookup(p, "schema")
			if child == nil {
				child = lookup(p, "rule")
			}
			pattern := KeyPattern{Regex: scalarString(lookup(p, "regex"))}
			if child != nil {
				pattern.Node = describeNode(child)
			}
			n.Patterns = append(n.Patterns, pattern)
		}
	case KindArray:
		for _, item := range sequence(lookup(m, "items")) {
			n.Items = append(n.Items, describeNode(item))
		}
	case KindAlternatives:
		describeMatches(n, lookup(m, "alternatives"))
		describeMatches(n, lookup(m, "matches"))
	case KindReference:
		n.Ref = describeLink(lookup(m, "link"))
	}

	return n
}

func describeFlags(n *Node, m *yaml.Node) {
	flags := lookup(m, "flags")

	n.Flags.Label = firstString(lookup(flags, "label"), lookup(m, "label"))
	n.Flags.Description = firstString(lookup(flags, "description"), lookup(m, "description"))
	n.Flags.ID = scalarString(lookup(flags, "id"))
	n.Flags.Only = scalarBool(lookup(flags, "only")) || scalarBool(lookup(flags, "allowOnly"))
	n.Flags.Unknown = scalarBool(lookup(flags, "unknown")) || scalarBool(lookup(flags, "allowUnknown"))

	switch scalarString(lookup(flags, "presence")) {
	case "required":
		n.Flags.Presence = PresenceRequired
	case "forbidden":
		n.Flags.Presence = PresenceForbidden
	}

	if def := lookup(flags, "default"); def != nil {
		// Function and reference defaults are described as {special: ...}.
		if lookup(def, "special") == nil && lookup(def, "ref") == nil {
			n.Flags.Default = decode(def)
		}
	}
}

func describeMetas(n *Node, metas *yaml.Node) {
	for _, item := range sequence(metas) {
		values, ok := decode(item).(map[string]any)
		if !ok {
			continue
		}
		for k, v := range values {
			n.Meta(k, v)
		}
	}
}

func describeKeys(n *Node, keys *yaml.Node) {
	keys = resolve(keys)
	if keys == nil || keys.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(keys.Content); i += 2 {
		n.Keys = append(n.Keys, Key{
			Name: keys.Content[i].Value,
			Node: describeNode(keys.Content[i+1]),
		})
	}
}

func describeMatches(n *Node, matches *yaml.Node) {
	for _, item := range sequence(matches) {
		switch {
		case lookup(item, "schema") != nil:
			n.Matches = append(n.Matches, describeNode(lookup(item, "schema")))
		case lookup(item, "type") != nil:
			n.Matches = append(n.Matches, describeNode(item))
		case lookup(item, "switch") != nil:
			for _, branch := range sequence(lookup(item, "switch")) {
				appendConditional(n, branch)
			}
		default:
			appendConditional(n, item)
		}
	}
}

func appendConditional(n *Node, item *yaml.Node) {
	for _, key := range []string{"then", "otherwise"} {
		if branch := lookup(item, key); branch != nil {
			n.Matches = append(n.Matches, describeNode(branch))
		}
	}
}

func describeLink(link *yaml.Node) string {
	ref := lookup(link, "ref")
	if ref == nil {
		return strings.TrimPrefix(scalarString(link), "#")
	}
	if s := scalarString(ref); s != "" {
		return strings.TrimPrefix(s, "#")
	}

	path := sequence(lookup(ref, "path"))
	if len(path) == 0 {
		return ""
	}

	return scalarString(path[len(path)-1])
}

// describeRule folds the legacy {name, arg} and current {name, args} rule
// shapes into a Rule.
func describeRule(r *yaml.Node) (Rule, bool) {
	name := scalarString(lookup(r, "name"))
	if name == "" {
		return Rule{}, false
	}

	rule := Rule{Name: name}

	if args, ok := decode(lookup(r, "args")).(map[string]any); ok {
		rule.Args = args
	} else if arg := lookup(r, "arg"); arg != nil {
		switch v := decode(arg).(type) {
		case map[string]any:
			rule.Args = v
		case nil:
		default:
			rule.Args = map[string]any{"limit": v}
		}
	}

	if name == "regex" {
		rule.Name = "pattern"
		if p, ok := rule.Args["pattern"]; ok {
			rule.Args["regex"] = p
		}
	}

	return rule, true
}

// allowedValue unwraps {value: x} entries of an allow list and skips the
// {override: true} marker.
func allowedValue(n *yaml.Node) (any, bool) {
	if lookup(n, "override") != nil && lookup(n, "value") == nil {
		return nil, false
	}
	if value := lookup(n, "value"); value != nil {
		return decode(value), true
	}
	return decode(n), true
}

func exampleValue(n *yaml.Node) any {
	v := decode(n)
	if m, ok := v.(map[string]any); ok {
		if value, ok := m["value"]; ok && len(m) <= 2 {
			return value
		}
	}
	return v
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}

	return nil
}

func sequence(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

func decode(n *yaml.Node) any {
	if n == nil {
		return nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil
	}

	return v
}

func scalarString(n *yaml.Node) string {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func scalarBool(n *yaml.Node) bool {
	v, ok := decode(n).(bool)
	return ok && v
}

func firstString(nodes ...*yaml.Node) string {
	for _, n := range nodes {
		if s := scalarString(n); s != "" {
			return s
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
