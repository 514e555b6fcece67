package swagger

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/vitalvas/swaggerdoc/schema"
)

// PluginRealm marks routes registered by the plugin itself. They are never
// documented.
const PluginRealm = "swaggerdoc"

// Route is one entry of the host route table with its documentation
// metadata and validation schemas.
type Route struct {
	Method      string
	Path        string
	Tags        []string
	Group       string
	Realm       string
	Description string
	Notes       []string
	Validate    Validate
	Response    ResponseValidation
	Options     RouteOptions
}

// Validate holds the request validation schemas of a route.
type Validate struct {
	Params  *schema.Node
	Query   *schema.Node
	Payload *schema.Node
	Headers *schema.Node
}

// ResponseValidation holds the response schemas of a route. Schema is the
// schema of the default success response; Status maps status codes to
// their own schemas.
type ResponseValidation struct {
	Schema *schema.Node
	Status map[int]*schema.Node
}

// RouteOptions are the per-route plugin settings.
type RouteOptions struct {
	Order       int
	Deprecated  bool
	Consumes    []string
	Produces    []string
	PayloadType string
	Responses   map[string]ResponseOption
	ID          string
	Security    []SecurityRequirement
	Extensions  map[string]any
}

// ResponseOption overrides or adds a documented response. The key in
// RouteOptions.Responses is a status code or "default".
type ResponseOption struct {
	Description string
	Schema      *schema.Node
	Headers     *schema.Node
	Examples    map[string]any
}

// RouteTable supplies the routes of the host application.
type RouteTable interface {
	Routes() ([]Route, error)
}

// RouteTableFunc adapts a function to the RouteTable interface.
type RouteTableFunc func() ([]Route, error)

// Routes calls f.
func (f RouteTableFunc) Routes() ([]Route, error) {
	return f()
}

// Catalog stores documentation metadata for routes, keyed by method and
// canonical path. Host adapters combine the host router's route list with
// the catalog; a Catalog is also a RouteTable on its own.
//
//	catalog := swagger.NewCatalog()
//	catalog.Route(http.MethodGet, "/users/{id}").
//	    Tags("api", "users").
//	    Description("Get user").
//	    Params(schema.Object(schema.Field("id", schema.String().GUID().Required()))).
//	    Response(schema.FromType(User{}))
type Catalog struct {
	mu     sync.RWMutex
	routes []*Route
	index  map[string]*Route
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]*Route)}
}

func catalogKey(method, path string) string {
	canonical, _ := parsePathTemplate(NormalizePath(path))
	return strings.ToUpper(method) + " " + canonical
}

// Route returns a builder for the route with the given method and path,
// creating the entry on first use.
func (c *Catalog) Route(method, path string) *RouteBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := catalogKey(method, path)
	route, ok := c.index[key]
	if !ok {
		route = &Route{Method: strings.ToUpper(method), Path: path}
		c.index[key] = route
		c.routes = append(c.routes, route)
	}

	return &RouteBuilder{route: route, mu: &c.mu}
}

// Get is a shortcut for Route(http.MethodGet, path).
func (c *Catalog) Get(path string) *RouteBuilder { return c.Route(http.MethodGet, path) }

// Post is a shortcut for Route(http.MethodPost, path).
func (c *Catalog) Post(path string) *RouteBuilder { return c.Route(http.MethodPost, path) }

// Put is a shortcut for Route(http.MethodPut, path).
func (c *Catalog) Put(path string) *RouteBuilder { return c.Route(http.MethodPut, path) }

// Patch is a shortcut for Route(http.MethodPatch, path).
func (c *Catalog) Patch(path string) *RouteBuilder { return c.Route(http.MethodPatch, path) }

// Delete is a shortcut for Route(http.MethodDelete, path).
func (c *Catalog) Delete(path string) *RouteBuilder { return c.Route(http.MethodDelete, path) }

// Lookup returns a copy of the catalog entry for method and path.
func (c *Catalog) Lookup(method, path string) (Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	route, ok := c.index[catalogKey(method, path)]
	if !ok {
		return Route{}, false
	}
	return *route, true
}

// Annotate returns the catalog entry for a route reported by the host
// router, keeping the host's path. Unknown routes are returned bare.
func (c *Catalog) Annotate(method, path string) Route {
	if c == nil {
		return Route{Method: strings.ToUpper(method), Path: path}
	}

	route, ok := c.Lookup(method, path)
	if !ok {
		return Route{Method: strings.ToUpper(method), Path: path}
	}

	route.Path = path
	return route
}

// Routes returns copies of all catalog entries in registration order.
func (c *Catalog) Routes() ([]Route, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	routes := make([]Route, 0, len(c.routes))
	for _, r := range c.routes {
		routes = append(routes, *r)
	}
	return routes, nil
}

// RouteBuilder provides a fluent API for attaching documentation metadata
// to a catalog route.
type RouteBuilder struct {
	route *Route
	mu    *sync.RWMutex
}

func (b *RouteBuilder) update(fn func(r *Route)) *RouteBuilder {
	b.mu.Lock()
	fn(b.route)
	b.mu.Unlock()
	return b
}

// Tags adds tags to the route. Routes are documented only when tagged with
// the configured route tag.
func (b *RouteBuilder) Tags(tags ...string) *RouteBuilder {
	return b.update(func(r *Route) { r.Tags = append(r.Tags, tags...) })
}

// Description sets the operation summary.
func (b *RouteBuilder) Description(desc string) *RouteBuilder {
	return b.update(func(r *Route) { r.Description = desc })
}

// Notes adds paragraphs to the operation description.
func (b *RouteBuilder) Notes(notes ...string) *RouteBuilder {
	return b.update(func(r *Route) { r.Notes = append(r.Notes, notes...) })
}

// Params sets the path parameter schema.
func (b *RouteBuilder) Params(n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) { r.Validate.Params = n })
}

// Query sets the query parameter schema.
func (b *RouteBuilder) Query(n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) { r.Validate.Query = n })
}

// Payload sets the request body schema.
func (b *RouteBuilder) Payload(n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) { r.Validate.Payload = n })
}

// Headers sets the request header schema.
func (b *RouteBuilder) Headers(n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) { r.Validate.Headers = n })
}

// Response sets the schema of the default success response.
func (b *RouteBuilder) Response(n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) { r.Response.Schema = n })
}

// ResponseStatus sets the schema for a specific status code.
func (b *RouteBuilder) ResponseStatus(code int, n *schema.Node) *RouteBuilder {
	return b.update(func(r *Route) {
		if r.Response.Status == nil {
			r.Response.Status = make(map[int]*schema.Node)
		}
		r.Response.Status[code] = n
	})
}

// ResponseOption documents a response by status code, overriding the
// description and schema derived from response validation.
func (b *RouteBuilder) ResponseOption(code int, opt ResponseOption) *RouteBuilder {
	return b.responseOption(strconv.Itoa(code), opt)
}

// DefaultResponseOption documents the "default" response.
func (b *RouteBuilder) DefaultResponseOption(opt ResponseOption) *RouteBuilder {
	return b.responseOption("default", opt)
}

func (b *RouteBuilder) responseOption(key string, opt ResponseOption) *RouteBuilder {
	return b.update(func(r *Route) {
		if r.Options.Responses == nil {
			r.Options.Responses = make(map[string]ResponseOption)
		}
		r.Options.Responses[key] = opt
	})
}

// Order sets the position of the route when paths are sorted by order.
func (b *RouteBuilder) Order(order int) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.Order = order })
}

// Deprecated marks the operation as deprecated.
func (b *RouteBuilder) Deprecated() *RouteBuilder {
	return b.update(func(r *Route) { r.Options.Deprecated = true })
}

// Consumes overrides the consumed MIME types of the operation.
func (b *RouteBuilder) Consumes(types ...string) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.Consumes = append(r.Options.Consumes, types...) })
}

// Produces overrides the produced MIME types of the operation.
func (b *RouteBuilder) Produces(types ...string) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.Produces = append(r.Options.Produces, types...) })
}

// PayloadType selects "json" (body parameter) or "form" (formData
// parameters) for this route.
func (b *RouteBuilder) PayloadType(style string) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.PayloadType = style })
}

// ID sets the operation id.
func (b *RouteBuilder) ID(id string) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.ID = id })
}

// Security sets the security requirements of the operation.
func (b *RouteBuilder) Security(reqs ...SecurityRequirement) *RouteBuilder {
	return b.update(func(r *Route) { r.Options.Security = append(r.Options.Security, reqs...) })
}

// Extension sets an x-* vendor extension on the operation. Keys without
// the x- prefix are ignored when the document is serialized.
func (b *RouteBuilder) Extension(key string, value any) *RouteBuilder {
	return b.update(func(r *Route) {
		if r.Options.Extensions == nil {
			r.Options.Extensions = make(map[string]any)
		}
		r.Options.Extensions[key] = value
	})
}
