package swagger

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/vitalvas/swaggerdoc/schema"
)

const defaultResponseDescription = "Successful"

// responseDescription returns the standard reason phrase for a status key,
// "Successful" for "default" and unknown codes.
func responseDescription(key string) string {
	code, err := strconv.Atoi(key)
	if err != nil {
		return defaultResponseDescription
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return defaultResponseDescription
}

// responses merges response validation schemas with the per-route response
// options. Without either, a single default response is documented.
func (t *translator) responses(r *Route) *OrderedMap[*Response] {
	collected := make(map[string]*Response)

	codes := make([]int, 0, len(r.Response.Status))
	for code := range r.Response.Status {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	for _, code := range codes {
		key := strconv.Itoa(code)
		collected[key] = &Response{
			Description: responseDescription(key),
			Schema:      t.responseSchema(r.Response.Status[code], "response."+key),
		}
	}

	if r.Response.Schema != nil {
		if _, ok := collected["200"]; !ok {
			collected["200"] = &Response{
				Description: defaultResponseDescription,
				Schema:      t.responseSchema(r.Response.Schema, "response"),
			}
		}
	}

	optionKeys := make([]string, 0, len(r.Options.Responses))
	for key := range r.Options.Responses {
		optionKeys = append(optionKeys, key)
	}
	slices.SortFunc(optionKeys, compareStatusKeys)

	for _, key := range optionKeys {
		opt := r.Options.Responses[key]

		resp, ok := collected[key]
		if !ok {
			resp = &Response{Description: responseDescription(key)}
			collected[key] = resp
		}
		if opt.Description != "" {
			resp.Description = opt.Description
		}
		if opt.Schema != nil {
			resp.Schema = t.responseSchema(opt.Schema, "responses."+key)
		}
		if opt.Headers != nil {
			resp.Headers = t.responseHeaders(opt.Headers, "responses."+key+".headers")
		}
		if len(opt.Examples) > 0 {
			resp.Examples = opt.Examples
		}
	}

	out := NewOrderedMap[*Response]()

	if len(collected) == 0 {
		out.Set("default", &Response{
			Description: defaultResponseDescription,
			Schema:      &Schema{Type: "string"},
		})
		return out
	}

	keys := make([]string, 0, len(collected))
	for key := range collected {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareStatusKeys)

	for _, key := range keys {
		out.Set(key, collected[key])
	}
	return out
}

// compareStatusKeys orders numeric status codes ascending, followed by
// other keys such as "default" in lexical order.
func compareStatusKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)

	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (t *translator) responseSchema(n *schema.Node, path string) *Schema {
	if n.IsFile() {
		return &Schema{Type: "file", Description: n.Flags.Description}
	}
	return t.rootSchema(n, path)
}

// responseHeaders documents the keys of an object schema as response
// headers. Headers must be primitives or arrays of primitives.
func (t *translator) responseHeaders(n *schema.Node, path string) *OrderedMap[*Header] {
	if n.Kind != schema.KindObject {
		t.warn(path, "header schema of kind %s cannot be expanded into headers", n.Kind)
		return nil
	}

	headers := NewOrderedMap[*Header]()
	for _, k := range n.Keys {
		p := &Parameter{Name: k.Name, In: inHeader}
		t.parameterType(p, k.Node, path+"."+k.Name)

		h := &Header{
			Description: p.Description,
			Type:        p.Type,
			Format:      p.Format,
			Items:       p.Items,
			Default:     p.Default,
			Maximum:     p.Maximum,
			Minimum:     p.Minimum,
			MaxLength:   p.MaxLength,
			MinLength:   p.MinLength,
			Pattern:     p.Pattern,
			Enum:        p.Enum,
		}
		if h.Type == "" {
			h.Type = "string"
		}
		headers.Set(k.Name, h)
	}

	if headers.Len() == 0 {
		return nil
	}
	return headers
}
