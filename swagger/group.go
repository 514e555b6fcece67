package swagger

import (
	"strings"
)

// GroupName derives the group of a route path: replacements scoped to
// groups are applied, basePath is stripped at a segment boundary and the
// first prefixSize non-empty segments are joined with "/".
//
//	GroupName(1, "/", "/lala/foo")       // "lala"
//	GroupName(2, "/", "/lala/foo/blah")  // "lala/foo"
//	GroupName(1, "/v1", "/v1/users/{id}") // "users"
func GroupName(prefixSize int, basePath, path string, replacements ...PathReplacement) string {
	path = applyReplacements(path, ReplaceGroups, replacements)

	if base := trimSlashes(basePath); base != "/" {
		switch {
		case path == base:
			path = "/"
		case strings.HasPrefix(path, base+"/"):
			path = path[len(base):]
		}
	}

	if prefixSize < 1 {
		prefixSize = 1
	}

	segments := make([]string, 0, prefixSize)
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
		if len(segments) == prefixSize {
			break
		}
	}

	return strings.Join(segments, "/")
}

// routeGroups returns the groups of a route: its path group, or its tags
// that pass the grouping filter.
func routeGroups(r *Route, s *Settings) []string {
	if s.Grouping == GroupingTags {
		filter := s.TagsGroupingFilter
		if filter == nil {
			filter = func(tag string) bool { return tag != s.RouteTag }
		}

		var groups []string
		for _, tag := range r.Tags {
			if filter(tag) && !hasTag(groups, tag) {
				groups = append(groups, tag)
			}
		}
		return groups
	}

	canonical, _ := parsePathTemplate(NormalizePath(r.Path))
	if name := GroupName(s.PathPrefixSize, s.BasePath, canonical, s.PathReplacements...); name != "" {
		return []string{name}
	}
	return nil
}
