package swagger

import (
	"slices"
	"strings"
)

// buildInput carries the request-derived parameters of a build.
type buildInput struct {
	host    string
	schemes []string
	tags    string
}

// build assembles a document from a route table snapshot. Routes that
// cannot be documented are skipped and reported as warnings.
func (p *Plugin) build(routes []Route, in buildInput) (*Document, []Warning) {
	s := &p.settings

	routes = slices.Clone(routes)
	for i := range routes {
		if p.OwnsPath(routes[i].Path) {
			routes[i].Realm = PluginRealm
		}
	}

	routes = FilterByFunction(p.isDocumented, routes)
	routes = FilterByTags(in.tags, routes)
	routes = SortRoutes(s.SortPaths, routes)

	t := newTranslator(s.reuseDefinitions(), s.xProperties())
	paths := NewOrderedMap[*PathItem]()

	var groups []string

	for i := range routes {
		r := &routes[i]
		method := strings.ToLower(r.Method)
		t.scope = strings.ToUpper(r.Method) + " " + r.Path

		if !documentedMethods[method] {
			t.warn("method", "method %s cannot be documented, route skipped", r.Method)
			continue
		}

		swaggerPath, _ := operationPath(r, s)
		if item, ok := paths.Get(swaggerPath); ok && item.Has(method) {
			t.warn("method", "duplicate operation for %s, first declaration kept", swaggerPath)
			continue
		}

		routeTags := routeGroups(r, s)
		if len(routeTags) > 0 {
			r.Group = routeTags[0]
		}

		cp := t.checkpoint()
		op, swaggerPath, err := t.operation(r, s, routeTags)
		if err != nil {
			t.rollback(cp)
			t.warn("operation", "%v, route skipped", err)
			continue
		}

		item, ok := paths.Get(swaggerPath)
		if !ok {
			item = NewOrderedMap[*Operation]()
			paths.Set(swaggerPath, item)
		}
		item.Set(method, op)

		for _, g := range routeTags {
			if !hasTag(groups, g) {
				groups = append(groups, g)
			}
		}
	}
	t.scope = ""

	doc := &Document{
		Swagger:             Version,
		Info:                buildInfo(s.Info),
		Host:                in.host,
		BasePath:            s.BasePath,
		Schemes:             in.schemes,
		Consumes:            s.Consumes,
		Produces:            s.Produces,
		Tags:                buildTags(s.Tags, groups, s.SortTags),
		Paths:               paths,
		Definitions:         t.defs.result(),
		SecurityDefinitions: s.SecurityDefinitions,
		Security:            s.Security,
		ExternalDocs:        s.ExternalDocs,
	}
	if t.xprops {
		doc.XAltDefinitions = t.alts.result()
	}

	return doc, t.warnings
}

// isDocumented reports whether a route with tags belongs to the document.
func (p *Plugin) isDocumented(tags []string) bool {
	if p.settings.RouteTagFilter != nil {
		return p.settings.RouteTagFilter(tags)
	}
	return hasTag(tags, p.settings.RouteTag)
}
