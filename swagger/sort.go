package swagger

import (
	"cmp"
	"slices"
	"strings"
)

// SortRoutes orders routes for the document. "unsorted" keeps route-table
// order, "path-method" orders by path then method, and "ordered" orders by
// the route order option, routes with equal order keeping their route-table
// order. Methods compare lexicographically in lower case. The input slice
// is not modified.
func SortRoutes(mode string, routes []Route) []Route {
	out := slices.Clone(routes)

	switch mode {
	case SortPathsPathMethod:
		slices.SortStableFunc(out, comparePathMethod)
	case SortPathsOrdered:
		slices.SortStableFunc(out, func(a, b Route) int {
			return cmp.Compare(a.Options.Order, b.Options.Order)
		})
	}

	return out
}

func comparePathMethod(a, b Route) int {
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.Method), strings.ToLower(b.Method))
}
