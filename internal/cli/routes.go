package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vitalvas/swaggerdoc/schema"
	"github.com/vitalvas/swaggerdoc/swagger"
	"gopkg.in/yaml.v3"
)

// routesFile is the route file layout. Schemas are describe() dumps kept as
// YAML nodes so object keys stay in declaration order.
//
//	routes:
//	  - method: GET
//	    path: /users/{id}
//	    tags: [api, users]
//	    description: Get user
//	    validate:
//	      params:
//	        type: object
//	        keys:
//	          id: {type: string, rules: [{name: guid}]}
//	    response:
//	      schema: {type: object, flags: {label: User}, keys: {...}}
type routesFile struct {
	Routes []routeEntry `yaml:"routes"`
}

type routeEntry struct {
	Method      string       `yaml:"method"`
	Path        string       `yaml:"path"`
	Tags        []string     `yaml:"tags"`
	Description string       `yaml:"description"`
	Notes       []string     `yaml:"notes"`
	Validate    validateEntry `yaml:"validate"`
	Response    responseEntry `yaml:"response"`
	Options     optionsEntry  `yaml:"options"`
}

type validateEntry struct {
	Params  yaml.Node `yaml:"params"`
	Query   yaml.Node `yaml:"query"`
	Payload yaml.Node `yaml:"payload"`
	Headers yaml.Node `yaml:"headers"`
}

type responseEntry struct {
	Schema yaml.Node         `yaml:"schema"`
	Status map[int]yaml.Node `yaml:"status"`
}

type optionsEntry struct {
	Order       int                           `yaml:"order"`
	Deprecated  bool                          `yaml:"deprecated"`
	Consumes    []string                      `yaml:"consumes"`
	Produces    []string                      `yaml:"produces"`
	PayloadType string                        `yaml:"payloadType"`
	ID          string                        `yaml:"id"`
	Responses   map[string]responseOptionEntry `yaml:"responses"`
	Security    []swagger.SecurityRequirement `yaml:"security"`
	Extensions  map[string]any                `yaml:"extensions"`
}

type responseOptionEntry struct {
	Description string         `yaml:"description"`
	Schema      yaml.Node      `yaml:"schema"`
	Headers     yaml.Node      `yaml:"headers"`
	Examples    map[string]any `yaml:"examples"`
}

// loadRoutes reads a route file into a catalog.
func loadRoutes(path string) (*swagger.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes %q: %w", path, err)
	}

	catalog, err := parseRoutes(data)
	if err != nil {
		return nil, fmt.Errorf("load routes %q: %w", path, err)
	}
	return catalog, nil
}

func parseRoutes(data []byte) (*swagger.Catalog, error) {
	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	catalog := swagger.NewCatalog()
	for i, entry := range file.Routes {
		if err := entry.register(catalog); err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	return catalog, nil
}

func (s routeEntry) register(c *swagger.Catalog) error {
	method := strings.ToUpper(strings.TrimSpace(s.Method))
	if method == "" {
		return errors.New("method is required")
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("path %q must start with /", s.Path)
	}

	b := c.Route(method, s.Path).
		Tags(s.Tags...).
		Description(s.Description).
		Notes(s.Notes...)

	for _, v := range []struct {
		name string
		node *yaml.Node
		set  func(*schema.Node) *swagger.RouteBuilder
	}{
		{"validate.params", &s.Validate.Params, b.Params},
		{"validate.query", &s.Validate.Query, b.Query},
		{"validate.payload", &s.Validate.Payload, b.Payload},
		{"validate.headers", &s.Validate.Headers, b.Headers},
		{"response.schema", &s.Response.Schema, b.Response},
	} {
		n, err := parseSchema(v.node, v.name)
		if err != nil {
			return err
		}
		if n != nil {
			v.set(n)
		}
	}

	for code, node := range s.Response.Status {
		n, err := parseSchema(&node, fmt.Sprintf("response.status.%d", code))
		if err != nil {
			return err
		}
		if n != nil {
			b.ResponseStatus(code, n)
		}
	}

	return s.Options.apply(b)
}

func (o optionsEntry) apply(b *swagger.RouteBuilder) error {
	b.Order(o.Order).
		Consumes(o.Consumes...).
		Produces(o.Produces...).
		PayloadType(o.PayloadType).
		ID(o.ID).
		Security(o.Security...)

	if o.Deprecated {
		b.Deprecated()
	}

	for key, value := range o.Extensions {
		b.Extension(key, value)
	}

	for key, entry := range o.Responses {
		opt := swagger.ResponseOption{
			Description: entry.Description,
			Examples:    entry.Examples,
		}

		var err error
		if opt.Schema, err = parseSchema(&entry.Schema, "options.responses."+key+".schema"); err != nil {
			return err
		}
		if opt.Headers, err = parseSchema(&entry.Headers, "options.responses."+key+".headers"); err != nil {
			return err
		}

		if key == "default" {
			b.DefaultResponseOption(opt)
			continue
		}

		code, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("options.responses: %q is not a status code", key)
		}
		b.ResponseOption(code, opt)
	}

	return nil
}

func parseSchema(n *yaml.Node, field string) (*schema.Node, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return nil, nil
	}

	node, err := schema.FromYAML(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return node, nil
}
