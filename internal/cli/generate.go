package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// GenerateConfig captures the inputs of the generate command after flags
// were applied.
type GenerateConfig struct {
	Routes string
	Out    string
	Format string
	Tags   string
	Host   string
	Deref  bool
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the Swagger document of a route file",
		Example: strings.TrimSpace(`  swaggerdoc generate --routes routes.yaml
  swaggerdoc -c settings.yaml generate --routes routes.yaml --out swagger.yaml --tags users,-internal`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveGenerateConfig(cmd.Flags())
			if err != nil {
				return err
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			return runGenerate(cmd, cfg, settings)
		},
	}

	flags := cmd.Flags()
	flags.String("routes", "", "Route file path (YAML or JSON)")
	flags.StringP("out", "o", "", "Output file; stdout when omitted")
	flags.String("format", "", "Output format (json|yaml); derived from --out when omitted")
	flags.String("tags", "", "Tag filter expression, e.g. \"users,-internal\"")
	flags.String("host", "", "Host written to the document")
	flags.Bool("deref", false, "Inline all $ref pointers")

	return cmd
}

func resolveGenerateConfig(flags *pflag.FlagSet) (*GenerateConfig, error) {
	var cfg GenerateConfig
	var err error

	if cfg.Routes, err = flags.GetString("routes"); err != nil {
		return nil, err
	}
	if cfg.Out, err = flags.GetString("out"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.Tags, err = flags.GetString("tags"); err != nil {
		return nil, err
	}
	if cfg.Host, err = flags.GetString("host"); err != nil {
		return nil, err
	}
	if cfg.Deref, err = flags.GetBool("deref"); err != nil {
		return nil, err
	}

	cfg.Routes = strings.TrimSpace(cfg.Routes)
	if cfg.Routes == "" {
		return nil, usageErrorf("--routes is required")
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format == "" {
		cfg.Format = formatFromPath(cfg.Out)
	}
	if cfg.Format != swagger.FormatJSON && cfg.Format != swagger.FormatYAML {
		return nil, usageErrorf("unsupported format %q (expected json or yaml)", cfg.Format)
	}

	return &cfg, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return swagger.FormatYAML
	}
	return swagger.FormatJSON
}

func runGenerate(cmd *cobra.Command, cfg *GenerateConfig, settings swagger.Settings) error {
	catalog, err := loadRoutes(cfg.Routes)
	if err != nil {
		return err
	}

	table := swagger.RouteTableFunc(func() ([]swagger.Route, error) {
		routes, err := catalog.Routes()
		if err != nil {
			return nil, err
		}
		return swagger.FilterByTags(cfg.Tags, routes), nil
	})

	if cfg.Host != "" {
		settings.Host = cfg.Host
	}
	if cfg.Deref {
		settings.Deref = true
	}

	p, err := swagger.New(table, settings)
	if err != nil {
		return err
	}

	data, err := p.Render(cmd.Context(), nil, cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Out == "" || cfg.Out == "-" {
		if cfg.Format == swagger.FormatJSON {
			data = append(data, '\n')
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", cfg.Out, err)
	}
	return nil
}
