package schema

// Kind tags the variant a Node represents.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindDate
	KindBinary
	KindObject
	KindArray
	KindAlternatives
	KindReference
	KindFile
)

var kindNames = map[Kind]string{
	KindAny:          "any",
	KindString:       "string",
	KindNumber:       "number",
	KindBoolean:      "boolean",
	KindDate:         "date",
	KindBinary:       "binary",
	KindObject:       "object",
	KindArray:        "array",
	KindAlternatives: "alternatives",
	KindReference:    "link",
	KindFile:         "file",
}

// String returns the validation-library type tag for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsScalar reports whether the kind maps onto a single primitive value.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindDate, KindBinary:
		return true
	}
	return false
}

// Presence controls whether a key must, may or must not appear.
type Presence int

const (
	PresenceOptional Presence = iota
	PresenceRequired
	PresenceForbidden
)

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is the sentinel for an explicitly allowed missing value.
// A node whose valid set contains Undefined is never required.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Rule is a named constraint with optional arguments, e.g. {min, {limit: 1}}.
type Rule struct {
	Name string
	Args map[string]any
}

// Limit returns the numeric "limit" argument of the rule.
func (r Rule) Limit() (float64, bool) {
	if r.Args == nil {
		return 0, false
	}
	return toFloat(r.Args["limit"])
}

// Key is a named child of an object node.
type Key struct {
	Name string
	Node *Node
}

// Field is a shorthand constructor for Key.
func Field(name string, node *Node) Key {
	return Key{Name: name, Node: node}
}

// KeyPattern describes object keys matching Regex whose values follow Node.
type KeyPattern struct {
	Regex string
	Node  *Node
}

// Flags are the per-node settings of the validation library.
type Flags struct {
	Label       string
	ClassName   string
	ID          string
	Description string
	Presence    Presence
	Default     any
	Only        bool
	Unknown     bool
}

// Node is the canonical representation of a validation schema. One struct
// covers every variant and Kind selects which of Keys, Items, Matches or Ref
// is meaningful. Values holds allowed values; with Flags.Only set they are
// the only accepted values.
type Node struct {
	Kind Kind
	// Type is the raw type tag reported by the source library. It differs
	// from Kind.String() only for tags the adapters do not recognise.
	Type string

	Flags    Flags
	Values   []any
	Rules    []Rule
	Examples []any
	Notes    []string
	Metas    map[string]any

	Keys     []Key
	Patterns []KeyPattern
	Items    []*Node
	Matches  []*Node
	Ref      string
}

func newNode(kind Kind) *Node {
	return &Node{Kind: kind, Type: kind.String()}
}

func Any() *Node     { return newNode(KindAny) }
func String() *Node  { return newNode(KindString) }
func Number() *Node  { return newNode(KindNumber) }
func Boolean() *Node { return newNode(KindBoolean) }
func Date() *Node    { return newNode(KindDate) }
func Binary() *Node  { return newNode(KindBinary) }
func File() *Node    { return newNode(KindFile) }

// Integer returns a number node carrying the integer rule.
func Integer() *Node {
	return Number().Rule("integer", nil)
}

// Object returns an object node with the given keys in declaration order.
func Object(keys ...Key) *Node {
	n := newNode(KindObject)
	n.Keys = append(n.Keys, keys...)
	return n
}

// Array returns an array node. Only the first item type is documented.
func Array(items ...*Node) *Node {
	n := newNode(KindArray)
	n.Items = append(n.Items, items...)
	return n
}

// Alternatives returns a union of the given branches.
func Alternatives(matches ...*Node) *Node {
	n := newNode(KindAlternatives)
	n.Matches = append(n.Matches, matches...)
	return n
}

// Link returns a reference to the node whose id, label or class name is ref.
// A leading "#" is accepted and stripped.
func Link(ref string) *Node {
	n := newNode(KindReference)
	if len(ref) > 0 && ref[0] == '#' {
		ref = ref[1:]
	}
	n.Ref = ref
	return n
}

// Append adds a key to an object node. It is the mutable counterpart of
// Object and is used to build self-referential schemas.
func (n *Node) Append(name string, child *Node) *Node {
	n.Keys = append(n.Keys, Key{Name: name, Node: child})
	return n
}

// Pattern adds a key pattern to an object node or a regex rule to a string.
func (n *Node) Pattern(regex string, child ...*Node) *Node {
	if n.Kind == KindObject {
		var value *Node
		if len(child) > 0 {
			value = child[0]
		}
		n.Patterns = append(n.Patterns, KeyPattern{Regex: regex, Node: value})
		return n
	}
	return n.Rule("pattern", map[string]any{"regex": regex})
}

func (n *Node) Label(label string) *Node {
	n.Flags.Label = label
	return n
}

func (n *Node) ClassName(name string) *Node {
	n.Flags.ClassName = name
	return n
}

func (n *Node) ID(id string) *Node {
	n.Flags.ID = id
	return n
}

func (n *Node) Description(desc string) *Node {
	n.Flags.Description = desc
	return n
}

func (n *Node) Required() *Node {
	n.Flags.Presence = PresenceRequired
	return n
}

func (n *Node) Optional() *Node {
	n.Flags.Presence = PresenceOptional
	return n
}

func (n *Node) Forbidden() *Node {
	n.Flags.Presence = PresenceForbidden
	return n
}

func (n *Node) Default(v any) *Node {
	n.Flags.Default = v
	return n
}

func (n *Node) Example(v any) *Node {
	n.Examples = append(n.Examples, v)
	return n
}

func (n *Node) Note(notes ...string) *Node {
	n.Notes = append(n.Notes, notes...)
	return n
}

// Meta stores an arbitrary metadata entry such as swaggerType or x-* keys.
func (n *Node) Meta(key string, value any) *Node {
	if n.Metas == nil {
		n.Metas = make(map[string]any)
	}
	n.Metas[key] = value
	return n
}

// Valid restricts the node to the given values.
func (n *Node) Valid(values ...any) *Node {
	n.Values = append(n.Values, values...)
	n.Flags.Only = true
	return n
}

// Allow adds values that pass validation without restricting the node.
func (n *Node) Allow(values ...any) *Node {
	n.Values = append(n.Values, values...)
	return n
}

// AllowUnknown permits keys that are not declared on an object.
func (n *Node) AllowUnknown() *Node {
	n.Flags.Unknown = true
	return n
}

// Rule appends a raw constraint.
func (n *Node) Rule(name string, args map[string]any) *Node {
	n.Rules = append(n.Rules, Rule{Name: name, Args: args})
	return n
}

func (n *Node) limitRule(name string, limit float64) *Node {
	return n.Rule(name, map[string]any{"limit": limit})
}

func (n *Node) Min(limit float64) *Node     { return n.limitRule("min", limit) }
func (n *Node) Max(limit float64) *Node     { return n.limitRule("max", limit) }
func (n *Node) Length(limit float64) *Node  { return n.limitRule("length", limit) }
func (n *Node) Greater(limit float64) *Node { return n.limitRule("greater", limit) }
func (n *Node) Less(limit float64) *Node    { return n.limitRule("less", limit) }
func (n *Node) Multiple(base float64) *Node {
	return n.Rule("multiple", map[string]any{"base": base})
}

func (n *Node) Email() *Node   { return n.Rule("email", nil) }
func (n *Node) URI() *Node     { return n.Rule("uri", nil) }
func (n *Node) GUID() *Node    { return n.Rule("guid", nil) }
func (n *Node) ISODate() *Node { return n.Rule("isoDate", nil) }
func (n *Node) Unique() *Node  { return n.Rule("unique", nil) }

// HasRule reports whether a rule with the given name is present.
func (n *Node) HasRule(name string) bool {
	for _, r := range n.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsRequired reports whether the node must be present: its presence flag is
// required and Undefined is not part of its valid set.
func (n *Node) IsRequired() bool {
	if n == nil || n.Flags.Presence != PresenceRequired {
		return false
	}
	for _, v := range n.Values {
		if IsUndefined(v) {
			return false
		}
	}
	return true
}

// Name returns the explicit model name of the node, if any.
func (n *Node) Name() string {
	if n.Flags.ClassName != "" {
		return n.Flags.ClassName
	}
	return n.Flags.Label
}

// SwaggerType returns the swaggerType meta override, if any.
func (n *Node) SwaggerType() string {
	if v, ok := n.Metas["swaggerType"].(string); ok {
		return v
	}
	return ""
}

// IsFile reports whether the node describes an uploaded file.
func (n *Node) IsFile() bool {
	return n != nil && (n.Kind == KindFile || n.SwaggerType() == "file")
}

// Child returns the object key with the given name.
func (n *Node) Child(name string) *Node {
	for _, k := range n.Keys {
		if k.Name == name {
			return k.Node
		}
	}
	return nil
}
