package swagger

import (
	"encoding/json"
	"fmt"
	"html"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Registrar mounts handlers by path. *http.ServeMux and chi.Router satisfy
// it.
type Registrar interface {
	Handle(pattern string, handler http.Handler)
}

// Register mounts the document endpoints and, unless disabled, the
// documentation page:
//
//	<JSONPath>           document as JSON
//	<YAMLPath>           document as YAML (when configured)
//	<DocumentationPath>  interactive UI
func (p *Plugin) Register(r Registrar) {
	s := &p.settings

	r.Handle(s.JSONPath, p.JSONHandler())
	if s.YAMLPath != "" {
		r.Handle(s.YAMLPath, p.YAMLHandler())
	}
	if !s.DisableDocumentationPage {
		r.Handle(s.DocumentationPath, p.DocsHandler())
	}
}

// JSONHandler serves the document as JSON. The "tags" query parameter
// filters the documented routes.
func (p *Plugin) JSONHandler() http.Handler {
	return p.documentHandler(FormatJSON, "application/json")
}

// YAMLHandler serves the document as YAML.
func (p *Plugin) YAMLHandler() http.Handler {
	return p.documentHandler(FormatYAML, "application/x-yaml")
}

func (p *Plugin) documentHandler(format, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}

		host, schemes := resolveOrigin(r, &p.settings)
		key := cacheKey(format, host, schemes, r.URL.Query().Get("tags"))

		data, ok := p.cache.Get(key)
		if p.cache != nil {
			p.metrics.observeCache(ok)
		}

		if !ok {
			var err error
			data, err = p.Render(r.Context(), r, format)
			if err != nil {
				http.Error(w, "failed to build swagger document", http.StatusInternalServerError)
				return
			}
			p.cache.Set(key, data)
		}

		if ttl := p.settings.cacheTTL(); ttl > 0 {
			w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(int(ttl.Seconds())))
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// DocsHandler serves the interactive documentation page pointing at the
// JSON endpoint.
func (p *Plugin) DocsHandler() http.Handler {
	var (
		once sync.Once
		data []byte
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}

		once.Do(func() {
			s := &p.settings
			title := s.Info.Title

			var page string
			switch s.UI {
			case UIRapiDoc:
				page = rapidocTemplate(title, s.JSONPath)
			case UIRedoc:
				page = redocTemplate(title, s.JSONPath)
			default:
				page = swaggerUITemplate(title, s.JSONPath, s.SwaggerUIConfig)
			}
			data = []byte(page)
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func swaggerUITemplate(title, specURL string, config map[string]any) string {
	var options strings.Builder
	for _, k := range slices.Sorted(maps.Keys(config)) {
		key, err := json.Marshal(k)
		if err != nil {
			continue
		}
		value, err := json.Marshal(config[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&options, ", %s: %s", key, value)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: %q, dom_id: "#swagger-ui", deepLinking: true%s});
</script>
</body>
</html>`, html.EscapeString(title), specURL, options.String())
}

func rapidocTemplate(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url="%s" render-style="read"></rapi-doc>
</body>
</html>`, html.EscapeString(title), html.EscapeString(specURL))
}

func redocTemplate(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url="%s"></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), html.EscapeString(specURL))
}
