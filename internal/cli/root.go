// Package cli implements the eventlog CLI commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/eventlog"
)

var (
	configPath string
	logDir     string
	encoding   string
	overrides  []string
)

var rootCmd = &cobra.Command{
	Use:   "eventlog",
	Short: "Write and inspect structured event logs",
	Long: `eventlog appends categorized records to the application event and
history logs, writes diagnostic traces, and reads existing log files back.

Configuration is loaded from a TOML file (keys under [eventlog]) and can be
adjusted with --dir, --encoding and repeated --set key=value overrides.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&logDir, "dir", "d", "", "log directory (overrides configuration)")
	flags.StringVar(&encoding, "encoding", "", "file encoding: utf-16le or utf-8")
	flags.StringArrayVar(&overrides, "set", nil, "configuration override key=value (repeatable)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(viewCmd)
}

// loadConfig resolves the configuration from the file, flags and overrides
func loadConfig() (*eventlog.Config, error) {
	cfg := eventlog.DefaultConfig()
	if configPath != "" {
		loaded, err := eventlog.NewConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if logDir != "" {
		cfg.Directory = logDir
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}
	if err := cfg.ApplyOverrides(overrides...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openLogger opens a logger from the resolved configuration
func openLogger() (*eventlog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := eventlog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open logger: %w", err)
	}
	return logger, nil
}
