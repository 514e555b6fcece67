package swagger

import (
	"fmt"
	"strings"
	"unicode"
)

// documentedMethods lists the methods a Swagger 2.0 path item can hold.
var documentedMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
}

// operation translates one route into an operation and returns it with the
// Swagger path it belongs to.
func (t *translator) operation(r *Route, s *Settings, tags []string) (op *Operation, swaggerPath string, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("translate %s %s: %v", r.Method, r.Path, rv)
		}
	}()

	swaggerPath, vars := operationPath(r, s)

	op = &Operation{
		Tags:        tags,
		Summary:     r.Description,
		Description: strings.Join(r.Notes, "\n\n"),
		OperationID: r.Options.ID,
		Consumes:    r.Options.Consumes,
		Produces:    r.Options.Produces,
		Deprecated:  r.Options.Deprecated,
		Security:    r.Options.Security,
		Extensions:  r.Options.Extensions,
	}
	if op.OperationID == "" {
		op.OperationID = operationID(r.Method, swaggerPath)
	}

	params := t.parameters(r.Validate.Params, inPath, "params")
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Name] = true
	}
	for _, v := range vars {
		if !declared[v.name] {
			params = append(params, pathVarParameter(v))
		}
	}

	params = append(params, t.parameters(r.Validate.Query, inQuery, "query")...)
	params = append(params, t.parameters(r.Validate.Headers, inHeader, "headers")...)

	style := r.Options.PayloadType
	if style == "" {
		style = s.PayloadType
	}
	body, consumes := t.payload(r.Validate.Payload, style)
	params = append(params, body...)
	if len(op.Consumes) == 0 {
		op.Consumes = consumes
	}

	if len(params) > 0 {
		op.Parameters = params
	}

	op.Responses = t.responses(r)
	return op, swaggerPath, nil
}

// operationPath returns the Swagger path of a route and its path variables.
func operationPath(r *Route, s *Settings) (string, []pathVar) {
	return parsePathTemplate(applyReplacements(NormalizePath(r.Path), ReplaceEndpoints, s.PathReplacements))
}

// operationID derives an id such as "getUsersId" from method and path.
func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	upper := true
	for _, r := range path {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
