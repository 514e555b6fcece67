package swagger

import (
	"github.com/vitalvas/swaggerdoc/schema"
)

// Parameter locations.
const (
	inPath     = "path"
	inQuery    = "query"
	inHeader   = "header"
	inFormData = "formData"
	inBody     = "body"
)

// Consumed MIME types set by payload translation.
const (
	mimeMultipart  = "multipart/form-data"
	mimeURLEncoded = "application/x-www-form-urlencoded"
)

// parameters expands the keys of an object schema into parameters located
// in "in".
func (t *translator) parameters(n *schema.Node, in, path string) []*Parameter {
	if n == nil {
		return nil
	}

	if n.Kind != schema.KindObject {
		t.warn(path, "%s schema of kind %s cannot be expanded into parameters", in, n.Kind)
		return nil
	}

	params := make([]*Parameter, 0, len(n.Keys))
	for _, k := range n.Keys {
		if k.Node != nil && k.Node.Flags.Presence == schema.PresenceForbidden {
			continue
		}

		p := &Parameter{
			Name:     k.Name,
			In:       in,
			Required: in == inPath || k.Node.IsRequired(),
		}
		t.parameterType(p, k.Node, path+"."+k.Name)
		params = append(params, p)
	}

	return params
}

// parameterType describes the value of a non-body parameter. Objects cannot
// be expressed inline and degrade to untyped parameters.
func (t *translator) parameterType(p *Parameter, n *schema.Node, path string) {
	if n == nil {
		t.warn(path, "missing schema, documented as untyped")
		return
	}

	p.Description = n.Flags.Description

	if n.IsFile() {
		if p.In != inFormData {
			t.warn(path, "file parameter %q is only valid in form data, documented as untyped", p.Name)
			return
		}
		p.Type = "file"
		return
	}

	if n.Kind == schema.KindObject || n.Kind == schema.KindReference {
		t.warn(path, "%s parameter %q is an object, documented as untyped", p.In, p.Name)
		return
	}

	s := t.property(n, path)
	if s.Ref != "" {
		t.warn(path, "%s parameter %q resolves to a model, documented as untyped", p.In, p.Name)
		return
	}

	p.Type = s.Type
	p.Format = s.Format
	if s.Description != "" {
		p.Description = s.Description
	}
	p.Default = s.Default
	p.Enum = s.Enum
	p.Minimum = s.Minimum
	p.ExclusiveMinimum = s.ExclusiveMinimum
	p.Maximum = s.Maximum
	p.ExclusiveMaximum = s.ExclusiveMaximum
	p.MultipleOf = s.MultipleOf
	p.MinLength = s.MinLength
	p.MaxLength = s.MaxLength
	p.Pattern = s.Pattern
	p.MinItems = s.MinItems
	p.MaxItems = s.MaxItems
	p.UniqueItems = s.UniqueItems

	if s.Type != "array" {
		return
	}

	p.Items = s.Items
	if p.Items == nil || p.Items.Ref != "" || p.Items.Type == "object" {
		t.warn(path, "items of %s parameter %q are not primitive, documented as strings", p.In, p.Name)
		p.Items = &Schema{Type: "string"}
	}

	switch p.In {
	case inQuery, inFormData:
		p.CollectionFormat = "multi"
	default:
		p.CollectionFormat = "csv"
	}
}

// payload translates the request body. File fields force form style with
// multipart/form-data; the json style produces a single body parameter.
func (t *translator) payload(n *schema.Node, style string) ([]*Parameter, []string) {
	if n == nil {
		return nil, nil
	}

	var consumes []string
	if hasFileKey(n) {
		style = PayloadForm
		consumes = []string{mimeMultipart}
	}

	if style == PayloadForm {
		if consumes == nil {
			consumes = []string{mimeURLEncoded}
		}
		return t.parameters(n, inFormData, "payload"), consumes
	}

	body := &Parameter{
		Name:        "body",
		In:          inBody,
		Description: n.Flags.Description,
		Required:    n.IsRequired(),
		Schema:      t.rootSchema(n, "payload"),
	}

	return []*Parameter{body}, nil
}

func hasFileKey(n *schema.Node) bool {
	if n.Kind != schema.KindObject {
		return false
	}
	for _, k := range n.Keys {
		if k.Node.IsFile() {
			return true
		}
	}
	return false
}
