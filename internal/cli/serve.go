package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/vitalvas/swaggerdoc/hostchi"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// ServeConfig captures the inputs of the serve command.
type ServeConfig struct {
	Routes          string
	Addr            string
	ShutdownTimeout time.Duration
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Swagger document and UI of a route file",
		Long: "Serve the Swagger document and documentation page of a route file. " +
			"Every documented route answers 501 Not Implemented.",
		Example: strings.TrimSpace(`  swaggerdoc serve --routes routes.yaml --addr :8080`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			var cfg ServeConfig
			var err error
			if cfg.Routes, err = flags.GetString("routes"); err != nil {
				return err
			}
			if cfg.Addr, err = flags.GetString("addr"); err != nil {
				return err
			}
			if cfg.ShutdownTimeout, err = flags.GetDuration("shutdown-timeout"); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Routes) == "" {
				return usageErrorf("--routes is required")
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg, settings)
		},
	}

	flags := cmd.Flags()
	flags.String("routes", "", "Route file path (YAML or JSON)")
	flags.String("addr", ":8080", "Listen address")
	flags.Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")

	return cmd
}

// newServeHandler builds a router answering every catalog route with 501
// and serving the plugin endpoints.
func newServeHandler(catalog *swagger.Catalog, settings swagger.Settings) (http.Handler, *swagger.Plugin, error) {
	routes, err := catalog.Routes()
	if err != nil {
		return nil, nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	for _, route := range routes {
		if !chiMethods[route.Method] {
			return nil, nil, fmt.Errorf("route %s %s: method cannot be served", route.Method, route.Path)
		}
		r.MethodFunc(route.Method, chiPath(route.Path), notImplemented)
	}

	p, err := swagger.New(catalog, settings)
	if err != nil {
		return nil, nil, err
	}
	hostchi.Register(r, p)

	return r, p, nil
}

var chiMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
}

// chiPath rewrites a route path into chi syntax. Optional markers and
// macros are dropped and a wildcard parameter ends the path as "*".
func chiPath(path string) string {
	segments := strings.Split(swagger.NormalizePath(path), "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}

		name, _, _ := strings.Cut(seg[1:len(seg)-1], ":")
		if strings.Contains(name, "*") {
			segments[i] = "*"
			return strings.Join(segments[:i+1], "/")
		}
		segments[i] = "{" + strings.TrimSuffix(name, "?") + "}"
	}
	return strings.Join(segments, "/")
}

func notImplemented(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
}

func runServe(ctx context.Context, cfg ServeConfig, settings swagger.Settings) error {
	catalog, err := loadRoutes(cfg.Routes)
	if err != nil {
		return err
	}

	handler, p, err := newServeHandler(catalog, settings)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s := p.Settings()
	s.Logger.Info("serving swagger documentation",
		slog.String("addr", cfg.Addr),
		slog.String("json", s.JSONPath),
		slog.String("documentation", s.DocumentationPath),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
