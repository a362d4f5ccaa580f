// cmd/readiness/main.go
// Package main is the offline companion to the worker manager: it scores a
// profile file, prints the reference tables and maintains the reference data
// and activity registry files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "readiness",
		Short: "UTBK readiness scoring toolkit",
		Long: "readiness scores a student profile against the reference tables, renders the " +
			"HTML report and manages the reference data and activity registry.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config YAML (defaults to configs/config.yaml when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newScoreCmd(opts),
		newTablesCmd(opts),
		newReferenceCmd(opts),
		newRegistryCmd(),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

func (o *rootOptions) logger() logger.Logger {
	if !o.verbose {
		return logger.NewNoOpLogger()
	}
	return logger.NewFromOptions(logger.Options{Level: "debug", Format: "console", Output: "stderr"})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
