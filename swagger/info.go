package swagger

import (
	"maps"
	"slices"
	"strings"
)

// buildInfo returns a copy of info with the title and version defaults
// applied.
func buildInfo(info Info) Info {
	d := DefaultSettings().Info
	if info.Title == "" {
		info.Title = d.Title
	}
	if info.Version == "" {
		info.Version = d.Version
	}
	info.Extensions = maps.Clone(info.Extensions)
	return info
}

// buildTags merges user tags with the discovered groups. User tags keep
// their position and metadata; groups without a user tag are appended in
// discovery order. With SortTagsName the result is sorted by name.
func buildTags(user []Tag, groups []string, mode string) []Tag {
	tags := slices.Clone(user)

	for _, g := range groups {
		if !slices.ContainsFunc(tags, func(t Tag) bool { return t.Name == g }) {
			tags = append(tags, Tag{Name: g})
		}
	}

	if mode == SortTagsName {
		slices.SortStableFunc(tags, func(a, b Tag) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}
