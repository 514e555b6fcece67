// Package hostgin documents gin engines.
package hostgin

import (
	"github.com/gin-gonic/gin"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// Table lists the routes of engine on every call, annotated with the
// catalog entries. Gin's ":id" and "*path" parameters are understood by the
// catalog lookup.
func Table(engine *gin.Engine, catalog *swagger.Catalog) swagger.RouteTable {
	return swagger.RouteTableFunc(func() ([]swagger.Route, error) {
		info := engine.Routes()

		routes := make([]swagger.Route, 0, len(info))
		for _, ri := range info {
			routes = append(routes, catalog.Annotate(ri.Method, ri.Path))
		}

		return routes, nil
	})
}

// Register mounts the plugin endpoints on router for GET and HEAD.
func Register(router gin.IRoutes, p *swagger.Plugin) {
	s := p.Settings()

	mount := func(path string, h gin.HandlerFunc) {
		router.GET(path, h)
		router.HEAD(path, h)
	}

	mount(s.JSONPath, gin.WrapH(p.JSONHandler()))
	if s.YAMLPath != "" {
		mount(s.YAMLPath, gin.WrapH(p.YAMLHandler()))
	}
	if !s.DisableDocumentationPage {
		mount(s.DocumentationPath, gin.WrapH(p.DocsHandler()))
	}
}

// New creates a plugin documenting engine and mounts its endpoints.
func New(engine *gin.Engine, catalog *swagger.Catalog, settings swagger.Settings) (*swagger.Plugin, error) {
	p, err := swagger.New(Table(engine, catalog), settings)
	if err != nil {
		return nil, err
	}

	Register(engine, p)
	return p, nil
}
