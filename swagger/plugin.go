package swagger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Plugin generates Swagger 2.0 documents from a route table.
type Plugin struct {
	table    RouteTable
	settings Settings
	logger   *slog.Logger
	metrics  *metrics
	cache    *responseCache
}

// New creates a plugin documenting the routes of table. Settings are merged
// over DefaultSettings and validated; invalid settings fail with a
// *ConfigError.
func New(table RouteTable, settings Settings) (*Plugin, error) {
	if table == nil {
		return nil, &ConfigError{Field: "routeTable", Reason: "is required"}
	}

	s := settings.withDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}

	m, err := newMetrics(s.Registerer)
	if err != nil {
		return nil, fmt.Errorf("swagger: register metrics: %w", err)
	}

	return &Plugin{
		table:    table,
		settings: s,
		logger:   s.Logger,
		metrics:  m,
		cache:    newResponseCache(s.cacheTTL(), s.cacheEntries()),
	}, nil
}

// Settings returns the effective settings, defaults included.
func (p *Plugin) Settings() Settings {
	return p.settings
}

// OwnsPath reports whether path is one of the plugin's endpoints.
func (p *Plugin) OwnsPath(path string) bool {
	s := &p.settings
	switch path {
	case "":
		return false
	case s.JSONPath, s.DocumentationPath:
		return true
	case s.YAMLPath:
		return true
	}
	return strings.TrimSuffix(path, "/") == s.DocumentationPath
}

// Endpoints returns the routes served by the plugin, marked with
// PluginRealm.
func (p *Plugin) Endpoints() []Route {
	s := &p.settings

	paths := []string{s.JSONPath}
	if s.YAMLPath != "" {
		paths = append(paths, s.YAMLPath)
	}
	if !s.DisableDocumentationPage {
		paths = append(paths, s.DocumentationPath)
	}

	routes := make([]Route, 0, len(paths))
	for _, path := range paths {
		routes = append(routes, Route{Method: http.MethodGet, Path: path, Realm: PluginRealm})
	}
	return routes
}

// Document builds the document for a request. The request supplies the
// host, the schemes and the "tags" query filter; it may be nil, in which
// case only settings are used. Warnings list the schema fragments that were
// documented as untyped.
func (p *Plugin) Document(r *http.Request) (*Document, []Warning, error) {
	routes, err := p.table.Routes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRouteTable, err)
	}

	host, schemes := resolveOrigin(r, &p.settings)

	in := buildInput{host: host, schemes: schemes}
	if r != nil && r.URL != nil {
		in.tags = r.URL.Query().Get("tags")
	}

	doc, warnings := p.build(routes, in)
	return doc, warnings, nil
}

// Render builds the document for a request and serializes it in format.
// With Deref enabled references are inlined; with Debug enabled warnings
// and validation issues are logged.
func (p *Plugin) Render(ctx context.Context, r *http.Request, format string) (data []byte, err error) {
	start := time.Now()
	log := p.logger.With(slog.String("build_id", uuid.NewString()))

	var warnings []Warning

	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("swagger: build document: %v", rv)
		}
		p.metrics.observeBuild(start, len(warnings), err)
		if err != nil {
			attrs := []any{slog.Any("error", err)}
			var derefErr *DereferenceError
			if errors.As(err, &derefErr) {
				attrs = append(attrs, slog.String("pointer", derefErr.Pointer), slog.String("reason", derefErr.Reason))
			}
			log.Error("failed to build swagger document", attrs...)
		}
	}()

	var doc *Document
	doc, warnings, err = p.Document(r)
	if err != nil {
		return nil, err
	}

	var v any = doc
	if p.settings.Deref {
		tree, err := Dereference(doc)
		if err != nil {
			return nil, err
		}
		v = tree
	}

	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("swagger: encode document: %w", err)
	}

	if p.settings.Debug {
		p.debug(ctx, log, data, warnings)
	}

	log.Debug("swagger document built",
		slog.Int("paths", doc.Paths.Len()),
		slog.Int("definitions", doc.Definitions.Len()),
		slog.Int("warnings", len(warnings)),
		slog.Duration("duration", time.Since(start)),
	)

	if format == FormatYAML {
		return jsonToYAML(data)
	}
	return data, nil
}

func (p *Plugin) debug(ctx context.Context, log *slog.Logger, data []byte, warnings []Warning) {
	for _, w := range warnings {
		log.Warn("schema documented as untyped", slog.String("path", w.Path), slog.String("reason", w.Message))
	}

	for _, issue := range ValidateDocument(ctx, data) {
		log.Warn("swagger document issue",
			slog.String("source", issue.Source),
			slog.String("path", issue.Path),
			slog.String("message", issue.Message),
		)
	}
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key
// order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("swagger: encode yaml: %w", err)
	}
	blockStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("swagger: encode yaml: %w", err)
	}
	return out, nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
