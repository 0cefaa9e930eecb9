package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/scrobblemood/internal/config"
	"github.com/spf13/cobra"
)

var configSave bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging the config file, .env and the
environment. API keys are masked.

With --save the effective configuration is written to
~/.config/scrobblemood/config.yaml.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configSave, "save", false, "Write the effective configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(os.Stdout, "lastfm.api_key:            %s\n", maskSecret(cfg.LastFM.APIKey))
	fmt.Fprintf(os.Stdout, "lastfm.user:               %s\n", cfg.LastFM.User)
	fmt.Fprintf(os.Stdout, "lastfm.page_limit:         %d\n", cfg.LastFM.PageLimit)
	fmt.Fprintf(os.Stdout, "echonest.api_key:          %s\n", maskSecret(cfg.EchoNest.APIKey))
	fmt.Fprintf(os.Stdout, "echonest.pause:            %s\n", cfg.EchoNest.Pause)
	fmt.Fprintf(os.Stdout, "echonest.pause_placement:  %s\n", cfg.EchoNest.PausePlacement)
	fmt.Fprintf(os.Stdout, "echonest.studio_only:      %t\n", cfg.EchoNest.StudioOnly)
	fmt.Fprintf(os.Stdout, "echonest.calls_per_minute: %d\n", cfg.EchoNest.CallsPerMinute)
	fmt.Fprintf(os.Stdout, "workers:                   %d\n", cfg.Workers)
	fmt.Fprintf(os.Stdout, "http_timeout:              %s\n", cfg.HTTPTimeout)
	fmt.Fprintf(os.Stdout, "data_dir:                  %s\n", cfg.DataDir)

	if !configSave {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nSaved to %s\n", filepath.Join(config.GetConfigDir(), "config.yaml"))
	return nil
}

// maskSecret keeps the last four characters of a key.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
