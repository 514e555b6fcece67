package swagger

import (
	"strings"
)

// FilterByTags selects routes by a comma-separated tag expression:
//
//	"a,b"    routes tagged a or b
//	"+a,+b"  routes tagged both a and b
//	"a,-b"   routes tagged a but not b
//
// Every "+" tag is required, every "-" tag excludes, and at least one
// unprefixed tag must match when any is given. Routes without tags never
// match. An empty expression returns routes unchanged.
func FilterByTags(expr string, routes []Route) []Route {
	var include, require, exclude []string

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "", part == "+", part == "-":
		case strings.HasPrefix(part, "+"):
			require = append(require, part[1:])
		case strings.HasPrefix(part, "-"):
			exclude = append(exclude, part[1:])
		default:
			include = append(include, part)
		}
	}

	if len(include) == 0 && len(require) == 0 && len(exclude) == 0 {
		return routes
	}

	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if matchesTags(r.Tags, include, require, exclude) {
			out = append(out, r)
		}
	}
	return out
}

func matchesTags(tags, include, require, exclude []string) bool {
	if len(tags) == 0 {
		return false
	}

	for _, tag := range exclude {
		if hasTag(tags, tag) {
			return false
		}
	}

	for _, tag := range require {
		if !hasTag(tags, tag) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, tag := range include {
		if hasTag(tags, tag) {
			return true
		}
	}
	return false
}

// FilterByFunction keeps routes whose tags satisfy pred. Routes of the
// plugin's own realm are always dropped.
func FilterByFunction(pred func(tags []string) bool, routes []Route) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if r.Realm == PluginRealm {
			continue
		}
		if pred(r.Tags) {
			out = append(out, r)
		}
	}
	return out
}
