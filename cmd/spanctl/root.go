package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

// settings holds the merged file config and flags for the running command.
var settings = defaultConfig()

var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "spanctl",
	Short: "Inspect source spans of decoded documents",
	Long: `spanctl decodes JSON, YAML, MessagePack or BSON documents and reports
where each value was read from: byte offsets, line and column.

Binary formats carry no source positions, so their spans are reported as unknown.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(spansCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and applies flag overrides before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	cfg := defaultConfig()
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	l, err := initLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	settings = cfg
	logger = l
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
