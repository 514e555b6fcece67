package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vitalvas/swaggerdoc/swagger"
)

// loadSettings reads the --config file, if any, and applies --verbose.
// Logs go to the command's error stream.
func loadSettings(cmd *cobra.Command) (swagger.Settings, error) {
	var settings swagger.Settings

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return settings, err
	}

	if configPath = strings.TrimSpace(configPath); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return settings, fmt.Errorf("read config %q: %w", configPath, err)
		}

		settings, err = swagger.LoadSettings(data)
		if err != nil {
			return settings, fmt.Errorf("load config %q: %w", configPath, err)
		}
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return settings, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
		settings.Debug = true
	}
	settings.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return settings, nil
}
