package swagger

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// maxDereferenceDepth bounds the number of nested $ref expansions on one
// branch. Plain JSON nesting does not count.
const maxDereferenceDepth = 64

// Dereference inlines every local $ref of a document and removes the
// definitions and x-alt-definitions sections. v may be a *Document, raw
// JSON bytes or any value that serializes to a JSON object. Sibling keys of
// a $ref such as x-alternatives are merged into the inlined schema. Cyclic
// references and chains of more than maxDereferenceDepth nested references
// fail with a *DereferenceError; the input is never modified.
func Dereference(v any) (*OrderedMap[any], error) {
	if v == nil {
		return nil, &DereferenceError{Reason: "document is nil"}
	}

	var data []byte
	switch doc := v.(type) {
	case []byte:
		data = doc
	case json.RawMessage:
		data = doc
	default:
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, &DereferenceError{Reason: err.Error()}
		}
	}

	tree, err := decodeTree(data)
	if err != nil {
		return nil, &DereferenceError{Reason: err.Error()}
	}

	root, ok := tree.(*OrderedMap[any])
	if !ok {
		return nil, &DereferenceError{Reason: "document is not an object"}
	}

	d := &dereferencer{root: root}
	out := NewOrderedMap[any]()

	for _, key := range root.Keys() {
		if key == "definitions" || key == "x-alt-definitions" {
			continue
		}

		value, _ := root.Get(key)
		resolved, err := d.resolve(value, 0, nil, "/"+escapePointer(key))
		if err != nil {
			return nil, err
		}
		out.Set(key, resolved)
	}

	return out, nil
}

type dereferencer struct {
	root *OrderedMap[any]
}

// resolve returns a copy of v with references inlined. chain holds the
// references being expanded on the current branch; depth is its length.
func (d *dereferencer) resolve(v any, depth int, chain []string, at string) (any, error) {
	switch node := v.(type) {
	case *OrderedMap[any]:
		if ref, ok := node.Get("$ref"); ok {
			if s, ok := ref.(string); ok {
				return d.inline(node, s, depth, chain, at)
			}
		}

		out := NewOrderedMap[any]()
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			resolved, err := d.resolve(child, depth, chain, at+"/"+escapePointer(key))
			if err != nil {
				return nil, err
			}
			out.Set(key, resolved)
		}
		return out, nil

	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			resolved, err := d.resolve(child, depth, chain, at+"/"+jsonIndex(i))
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	}

	return v, nil
}

func (d *dereferencer) inline(node *OrderedMap[any], ref string, depth int, chain []string, at string) (any, error) {
	if slices.Contains(chain, ref) {
		return nil, &DereferenceError{Pointer: ref, Reason: "circular reference"}
	}
	if depth >= maxDereferenceDepth {
		return nil, &DereferenceError{Pointer: ref, Reason: "maximum depth exceeded"}
	}

	pointer, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return nil, &DereferenceError{Pointer: ref, Reason: "only local references are supported"}
	}

	ptr, err := jsonpointer.New(pointer)
	if err != nil {
		return nil, &DereferenceError{Pointer: ref, Reason: err.Error()}
	}

	target, _, err := ptr.Get(d.root)
	if err != nil {
		return nil, &DereferenceError{Pointer: ref, Reason: err.Error()}
	}

	resolved, err := d.resolve(target, depth+1, append(slices.Clip(chain), ref), at)
	if err != nil {
		return nil, err
	}

	merged, ok := resolved.(*OrderedMap[any])
	if !ok || node.Len() == 1 {
		return resolved, nil
	}

	for _, key := range node.Keys() {
		if key == "$ref" || merged.Has(key) {
			continue
		}
		sibling, _ := node.Get(key)
		value, err := d.resolve(sibling, depth, chain, at+"/"+escapePointer(key))
		if err != nil {
			return nil, err
		}
		merged.Set(key, value)
	}

	return merged, nil
}

func escapePointer(token string) string {
	return jsonpointer.Escape(token)
}

func jsonIndex(i int) string {
	data, _ := json.Marshal(i)
	return string(data)
}
