package swagger

import (
	"regexp"
	"slices"
	"strings"
)

// applyReplacements runs every replacement whose scope covers scope over
// path. Invalid patterns are skipped; settings validation rejects them
// before a plugin is built.
func applyReplacements(path, scope string, replacements []PathReplacement) string {
	for _, r := range replacements {
		if r.Scope != scope && r.Scope != ReplaceAll && !(r.Scope == "" && scope == ReplaceGroups) {
			continue
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		path = re.ReplaceAllString(path, r.Replacement)
	}
	return path
}

// trimSlashes normalizes a base path to "/" or "/a/b" form.
func trimSlashes(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

func hasTag(tags []string, tag string) bool {
	return slices.Contains(tags, tag)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// firstValue returns the first comma-separated element of a header value.
func firstValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
