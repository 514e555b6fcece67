package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the swaggerdoc CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swaggerdoc",
		Short:         "Generate Swagger 2.0 documents from route files",
		Long:          "swaggerdoc builds Swagger 2.0 documents from a route file with validation schemas, serves them with an interactive UI and checks existing documents.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(flagUsageError)

	cmd.PersistentFlags().StringP("config", "c", "", "Settings file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and document checks")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newServeCmd(), newValidateCmd()} {
		sub.SetFlagErrorFunc(flagUsageError)
		cmd.AddCommand(sub)
	}

	return cmd
}
