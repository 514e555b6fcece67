// Package hostfiber documents fiber applications.
package hostfiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// Table lists the routes of app on every call, annotated with the catalog
// entries. Middleware registered with Use is skipped, as are the HEAD
// routes fiber adds for every GET route.
func Table(app *fiber.App, catalog *swagger.Catalog) swagger.RouteTable {
	return swagger.RouteTableFunc(func() ([]swagger.Route, error) {
		stack := app.GetRoutes(true)

		gets := make(map[string]bool)
		for _, r := range stack {
			if r.Method == http.MethodGet {
				gets[r.Path] = true
			}
		}

		routes := make([]swagger.Route, 0, len(stack))
		for _, r := range stack {
			if r.Method == http.MethodHead && gets[r.Path] {
				continue
			}
			routes = append(routes, catalog.Annotate(r.Method, r.Path))
		}

		return routes, nil
	})
}

// Register mounts the plugin endpoints on router. Fiber answers HEAD for
// every GET route.
func Register(router fiber.Router, p *swagger.Plugin) {
	s := p.Settings()

	router.Get(s.JSONPath, adaptor.HTTPHandler(p.JSONHandler()))
	if s.YAMLPath != "" {
		router.Get(s.YAMLPath, adaptor.HTTPHandler(p.YAMLHandler()))
	}
	if !s.DisableDocumentationPage {
		router.Get(s.DocumentationPath, adaptor.HTTPHandler(p.DocsHandler()))
	}
}

// New creates a plugin documenting app and mounts its endpoints.
func New(app *fiber.App, catalog *swagger.Catalog, settings swagger.Settings) (*swagger.Plugin, error) {
	p, err := swagger.New(Table(app, catalog), settings)
	if err != nil {
		return nil, err
	}

	Register(app, p)
	return p, nil
}
