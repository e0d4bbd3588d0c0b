// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"radic/internal/design"
)

var (
	mockBriefPath string
	mockFormat    string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Print the deterministic placeholder design",
	Long: `Print the placeholder design for a brief. Without --brief the built-in
sample brief is used. No provider is called.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var brief *design.Brief
		if mockBriefPath != "" {
			data, err := os.ReadFile(mockBriefPath)
			if err != nil {
				return fmt.Errorf("read brief: %w", err)
			}
			brief = &design.Brief{}
			if err := decodeDocument(mockBriefPath, data, brief); err != nil {
				return fmt.Errorf("parse brief: %w", err)
			}
		}
		if mockFormat != "" {
			f := design.Format(mockFormat)
			if !f.Valid() {
				return fmt.Errorf("unsupported format %q", mockFormat)
			}
			if brief == nil {
				brief = design.MockBrief()
			}
			brief.Format = f
		}
		return writeJSON(cmd.OutOrStdout(), design.MockDesign(brief, time.Now()))
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockBriefPath, "brief", "", "Brief file (JSON or YAML)")
	mockCmd.Flags().StringVar(&mockFormat, "format", "", "Override the brief's format")
	rootCmd.AddCommand(mockCmd)
}
