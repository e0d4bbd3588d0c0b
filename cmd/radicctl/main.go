// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command radicctl runs the design generation pipeline from the terminal.
// It shares configuration with the API server and prints designs as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"radic/internal/ai"
	"radic/internal/config"
	"radic/internal/generation"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "radicctl",
	Short: "Generate and check Radic ad designs",
	Long: `radicctl drives the two-stage design pipeline without the API server.

Commands:
  radicctl generate "<prompt>"   Brief + design with the configured provider
  radicctl brief "<prompt>"      Brief stage only
  radicctl mock                  Deterministic placeholder design
  radicctl validate <file>       Check a design document (JSON or YAML)`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log level %q", logLevel)
		}
		// Logs go to stderr so stdout stays valid JSON.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newPipeline builds the pipeline from the same environment as the server.
func newPipeline() (*generation.Pipeline, *ai.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	registry := ai.NewRegistry(cfg.AIProvider, cfg.ProviderConfigs())
	return generation.NewPipeline(registry, cfg.Generation()), registry, nil
}

// writeJSON pretty-prints v to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output opens the --out file, or stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
