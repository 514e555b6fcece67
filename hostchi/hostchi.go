// Package hostchi documents go-chi routers.
//
//	r := chi.NewRouter()
//	catalog := swagger.NewCatalog()
//	r.Get("/users/{id}", getUser)
//	catalog.Get("/users/{id}").Tags("api", "users").Response(userSchema)
//
//	plugin, err := hostchi.New(r, catalog, swagger.Settings{})
package hostchi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// Table lists the routes of r on every call, annotated with the catalog
// entries. Mounted sub-routers are walked too.
func Table(r chi.Routes, catalog *swagger.Catalog) swagger.RouteTable {
	return swagger.RouteTableFunc(func() ([]swagger.Route, error) {
		var routes []swagger.Route

		err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			routes = append(routes, catalog.Annotate(method, route))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("hostchi: walk routes: %w", err)
		}

		return routes, nil
	})
}

// Register mounts the plugin endpoints on r.
func Register(r chi.Router, p *swagger.Plugin) {
	p.Register(r)
}

// New creates a plugin documenting r and mounts its endpoints.
func New(r chi.Router, catalog *swagger.Catalog, settings swagger.Settings) (*swagger.Plugin, error) {
	p, err := swagger.New(Table(r, catalog), settings)
	if err != nil {
		return nil, err
	}

	Register(r, p)
	return p, nil
}
