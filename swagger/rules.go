package swagger

import (
	"strings"

	"github.com/vitalvas/swaggerdoc/schema"
)

// stringFormats maps string rules onto Swagger formats.
var stringFormats = map[string]string{
	"email":    "email",
	"uri":      "uri",
	"guid":     "uuid",
	"uuid":     "uuid",
	"isoDate":  "date-time",
	"hostname": "hostname",
	"base64":   "byte",
}

// applyRules maps the rules of n onto Swagger keywords. Rules without a
// keyword are kept under x-constraint when x-properties are enabled.
func (t *translator) applyRules(s *Schema, n *schema.Node) {
	for _, r := range n.Rules {
		if applyRule(s, n.Kind, r) {
			continue
		}
		if !t.xprops {
			continue
		}
		if s.XConstraint == nil {
			s.XConstraint = make(map[string]any)
		}
		s.XConstraint[r.Name] = constraintValue(r)
	}
}

func applyRule(s *Schema, kind schema.Kind, r schema.Rule) bool {
	limit, hasLimit := r.Limit()

	switch kind {
	case schema.KindNumber:
		switch r.Name {
		case "integer":
			return true
		case "min":
			if hasLimit {
				s.Minimum = &limit
				return true
			}
		case "max":
			if hasLimit {
				s.Maximum = &limit
				return true
			}
		case "greater":
			if hasLimit {
				s.Minimum = &limit
				s.ExclusiveMinimum = true
				return true
			}
		case "less":
			if hasLimit {
				s.Maximum = &limit
				s.ExclusiveMaximum = true
				return true
			}
		case "positive":
			zero := 0.0
			s.Minimum = &zero
			s.ExclusiveMinimum = true
			return true
		case "negative":
			zero := 0.0
			s.Maximum = &zero
			s.ExclusiveMaximum = true
			return true
		case "multiple":
			if base, ok := toFloat(r.Args["base"]); ok {
				s.MultipleOf = &base
				return true
			}
			if hasLimit {
				s.MultipleOf = &limit
				return true
			}
		}

	case schema.KindString:
		switch r.Name {
		case "min":
			if hasLimit {
				s.MinLength = intPtr(limit)
				return true
			}
		case "max":
			if hasLimit {
				s.MaxLength = intPtr(limit)
				return true
			}
		case "length":
			if hasLimit {
				s.MinLength = intPtr(limit)
				s.MaxLength = intPtr(limit)
				return true
			}
		case "pattern":
			if regex, ok := r.Args["regex"].(string); ok {
				s.Pattern = regexSource(regex)
				return true
			}
		default:
			if format, ok := stringFormats[r.Name]; ok {
				s.Format = format
				return true
			}
		}

	case schema.KindArray:
		switch r.Name {
		case "min":
			if hasLimit {
				s.MinItems = intPtr(limit)
				return true
			}
		case "max":
			if hasLimit {
				s.MaxItems = intPtr(limit)
				return true
			}
		case "length":
			if hasLimit {
				s.MinItems = intPtr(limit)
				s.MaxItems = intPtr(limit)
				return true
			}
		case "unique":
			s.UniqueItems = true
			return true
		}

	case schema.KindObject:
		switch r.Name {
		case "min":
			if hasLimit {
				s.MinProperties = intPtr(limit)
				return true
			}
		case "max":
			if hasLimit {
				s.MaxProperties = intPtr(limit)
				return true
			}
		case "length":
			if hasLimit {
				s.MinProperties = intPtr(limit)
				s.MaxProperties = intPtr(limit)
				return true
			}
		}
	}

	return false
}

// constraintValue is the x-constraint entry of a rule: true without
// arguments, the bare limit when that is the only argument, otherwise the
// argument map.
func constraintValue(r schema.Rule) any {
	switch len(r.Args) {
	case 0:
		return true
	case 1:
		if limit, ok := r.Limit(); ok {
			return limit
		}
	}
	return r.Args
}

// regexSource strips the /.../flags delimiters of a serialized regular
// expression.
func regexSource(regex string) string {
	if len(regex) < 2 || regex[0] != '/' {
		return regex
	}
	if end := strings.LastIndexByte(regex, '/'); end > 0 {
		return regex[1:end]
	}
	return regex
}

func intPtr(v float64) *int {
	n := int(v)
	return &n
}
