package schema

import (
	"encoding/json"
	"maps"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Exampler can be implemented by types to attach an example value to the
// node generated for them.
//
//	func (u User) SwaggerExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
type Exampler interface {
	SwaggerExample() any
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	fileHeaderType = reflect.TypeOf(multipart.FileHeader{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// Reflector converts Go types into nodes. Named struct types are converted
// once; every use gets a shallow copy so per-field presence does not leak.
// A type that refers to itself while being built yields a link node.
type Reflector struct {
	nodes    map[reflect.Type]*Node
	building map[reflect.Type]bool
}

// NewReflector creates a reflector with an empty type cache.
func NewReflector() *Reflector {
	return &Reflector{
		nodes:    make(map[reflect.Type]*Node),
		building: make(map[reflect.Type]bool),
	}
}

// FromType builds a node for the dynamic type of v using a fresh reflector.
func FromType(v any) *Node {
	return NewReflector().Node(v)
}

// Node builds a node for the dynamic type of v.
func (r *Reflector) Node(v any) *Node {
	if v == nil {
		return nil
	}
	return r.node(reflect.TypeOf(v))
}

func (r *Reflector) node(t reflect.Type) *Node {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return Date()
	case fileHeaderType:
		return File()
	case rawMessageType:
		return Any()
	}

	switch t.Kind() {
	case reflect.Bool:
		return Boolean()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer()
	case reflect.Float32, reflect.Float64:
		return Number()
	case reflect.String:
		return String()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Binary()
		}
		n := Array(r.node(t.Elem()))
		if t.Kind() == reflect.Array {
			n.Length(float64(t.Len()))
		}
		return n
	case reflect.Map:
		n := Object()
		if t.Key().Kind() == reflect.String {
			n.Pattern(".*", r.node(t.Elem()))
		} else {
			n.AllowUnknown()
		}
		return n
	case reflect.Struct:
		return r.structNode(t)
	case reflect.Interface:
		return Any()
	}

	return &Node{Kind: KindAny, Type: t.Kind().String()}
}

func (r *Reflector) structNode(t reflect.Type) *Node {
	if n, ok := r.nodes[t]; ok {
		if r.building[t] {
			return Link(n.Flags.ClassName)
		}
		return n.shallowCopy()
	}

	n := Object()
	name := sanitizeTypeName(t.Name())
	if name != "" && t.PkgPath() != "" {
		n.ClassName(name)
		r.nodes[t] = n
		r.building[t] = true
	}

	r.collectFields(t, n, false)
	delete(r.building, t)

	if ex, ok := reflect.New(t).Interface().(Exampler); ok {
		n.Example(ex.SwaggerExample())
	}

	if name == "" {
		return n
	}
	return n.shallowCopy()
}

func (n *Node) shallowCopy() *Node {
	cp := *n
	cp.Values = slices.Clip(n.Values)
	cp.Rules = slices.Clip(n.Rules)
	cp.Examples = slices.Clip(n.Examples)
	cp.Notes = slices.Clip(n.Notes)
	cp.Metas = maps.Clone(n.Metas)
	return &cp
}

// collectFields appends the exported fields of t to n. Fields of
// pointer-embedded structs are optional because the pointer can be nil.
func (r *Reflector) collectFields(t reflect.Type, n *Node, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)

		// Promoted fields of embedded structs are inlined even when the
		// embedded type itself is unexported.
		if field.Anonymous && name == "" {
			ft := field.Type
			isPtr := ft.Kind() == reflect.Pointer
			if isPtr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				r.collectFields(ft, n, allOptional || isPtr)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		child := r.node(field.Type)

		if opts.stringEncode && child.Kind.IsScalar() {
			child.Kind = KindString
			child.Type = KindString.String()
			child.Rules = nil
		}

		required := !opts.omitempty && !allOptional && field.Type.Kind() != reflect.Pointer
		if validate := field.Tag.Get("validate"); validate != "" {
			required = applyValidateTag(child, validate, required)
		}

		applySwaggerTag(child, field.Tag.Get("swagger"))

		if required {
			child.Required()
		}

		n.Append(name, child)
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applyValidateTag maps go-playground validator tags onto rules and returns
// the resulting required state.
func applyValidateTag(n *Node, tag string, required bool) bool {
	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")

		switch key {
		case "required":
			required = true
		case "omitempty":
			required = false
		case "min", "gte":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				n.Min(v)
			}
		case "max", "lte":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				n.Max(v)
			}
		case "gt":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				n.Greater(v)
			}
		case "lt":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				n.Less(v)
			}
		case "len":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				n.Length(v)
			}
		case "oneof":
			for v := range strings.FieldsSeq(value) {
				n.Valid(typedValue(n, v))
			}
		case "email":
			n.Email()
		case "url", "uri":
			n.URI()
		case "uuid", "uuid4":
			n.GUID()
		case "datetime":
			n.ISODate()
		case "unique":
			n.Unique()
		}
	}

	return required
}

// applySwaggerTag parses the `swagger` struct tag:
//
//	Name string `swagger:"description=Display name,example=Alice"`
func applySwaggerTag(n *Node, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "description":
			n.Description(value)
		case "example":
			n.Example(typedValue(n, value))
		case "default":
			n.Default(typedValue(n, value))
		case "format":
			n.Meta("format", value)
		case "label":
			n.Label(value)
		case "className":
			n.ClassName(value)
		case "pattern":
			n.Pattern(value)
		case "enum":
			for v := range strings.SplitSeq(value, "|") {
				n.Valid(typedValue(n, v))
			}
		case "file":
			n.Meta("swaggerType", "file")
		}
	}
}

// typedValue converts a tag value to the Go type matching the node kind.
func typedValue(n *Node, value string) any {
	switch n.Kind {
	case KindNumber:
		if n.HasRule("integer") {
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				return v
			}
		}
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case KindBoolean:
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

// sanitizeTypeName turns generic names like "Page[User]" into "PageUser"
// and "Page[[]User]" into "PageUserList".
func sanitizeTypeName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}

	return result
}
