package swagger

import (
	"regexp"
	"strings"
)

// macroTypeMap maps router path macros such as {id:uuid} to a Swagger type
// and format.
var macroTypeMap = map[string][2]string{
	"uuid":     {"string", "uuid"},
	"int":      {"integer", ""},
	"float":    {"number", ""},
	"slug":     {"string", ""},
	"alpha":    {"string", ""},
	"alphanum": {"string", ""},
	"date":     {"string", "date"},
	"hex":      {"string", ""},
	"domain":   {"string", "hostname"},
}

// pathVarRegexp matches route variables in the form {name}, {name?},
// {name*}, {name*2} or {name:macro}.
var pathVarRegexp = regexp.MustCompile(`\{([^}]+)\}`)

const wildcardName = "wildcard"

type pathVar struct {
	name     string
	macro    string
	optional bool
}

// NormalizePath rewrites colon and star parameters (":id", ":id?", "*path",
// "*") into brace form ("{id}", "{id?}", "{path*}", "{wildcard*}").
// Brace paths are returned unchanged.
func NormalizePath(path string) string {
	if !strings.ContainsAny(path, ":*+") {
		return path
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, "{"):
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if strings.HasSuffix(name, "?") {
				segments[i] = "{" + strings.TrimSuffix(name, "?") + "?}"
			} else {
				segments[i] = "{" + name + "}"
			}
		case strings.HasPrefix(seg, "*"), strings.HasPrefix(seg, "+"):
			name := seg[1:]
			if name == "" {
				name = wildcardName
			}
			segments[i] = "{" + name + "*}"
		}
	}

	return strings.Join(segments, "/")
}

// parsePathTemplate strips optional markers, multi-segment counts and
// macros from brace parameters and returns the Swagger path together with
// the variables it declares.
func parsePathTemplate(tpl string) (string, []pathVar) {
	var vars []pathVar

	path := pathVarRegexp.ReplaceAllStringFunc(tpl, func(match string) string {
		inner := match[1 : len(match)-1]
		name, macro, _ := strings.Cut(inner, ":")

		v := pathVar{macro: macro}
		if idx := strings.IndexByte(name, '*'); idx >= 0 {
			name = name[:idx]
			v.optional = true
		}
		if strings.HasSuffix(name, "?") {
			name = strings.TrimSuffix(name, "?")
			v.optional = true
		}
		if name == "" {
			name = wildcardName
		}
		v.name = name

		vars = append(vars, v)
		return "{" + name + "}"
	})

	return path, vars
}

// pathVarParameter builds a string path parameter for a variable that has
// no validation schema, typed by its macro when one is known.
func pathVarParameter(v pathVar) *Parameter {
	param := &Parameter{
		Name:     v.name,
		In:       "path",
		Required: true,
		Type:     "string",
	}

	if typeInfo, ok := macroTypeMap[v.macro]; ok {
		param.Type = typeInfo[0]
		param.Format = typeInfo[1]
	} else if v.macro != "" {
		param.Pattern = v.macro
	}

	return param
}
