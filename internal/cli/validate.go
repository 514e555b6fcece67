package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vitalvas/swaggerdoc/swagger"
	"gopkg.in/yaml.v3"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>",
		Short: "Check a Swagger 2.0 document",
		Long: "Check a Swagger 2.0 document (JSON or YAML) against the OpenAPI rules, " +
			"verify that every $ref resolves and that definition examples match their schema.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("validate expects exactly one document path\n\n%s", cmd.UsageString())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %q: %w", args[0], err)
			}

			data, err = documentJSON(data)
			if err != nil {
				return fmt.Errorf("parse %q: %w", args[0], err)
			}

			issues := swagger.ValidateDocument(cmd.Context(), data)

			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}

			if len(issues) > 0 {
				return fmt.Errorf("%s: %d issue(s) found", args[0], len(issues))
			}

			fmt.Fprintf(out, "%s: document is valid\n", args[0])
			return nil
		},
	}
}

// documentJSON returns data as JSON, converting YAML documents.
func documentJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
