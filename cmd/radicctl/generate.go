// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"radic/internal/design"
	"radic/internal/generation"
)

var (
	generateBrandPath   string
	generateReferences  []string
	generatePreferences map[string]string
	generateOutPath     string
	generateShowBrief   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a design from a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, registry, err := newPipeline()
		if err != nil {
			return err
		}

		req := generation.Request{
			Prompt:          joinArgs(args),
			ReferenceImages: generateReferences,
			Preferences:     generatePreferences,
		}
		if generateBrandPath != "" {
			kit, err := loadBrandKit(generateBrandPath)
			if err != nil {
				return err
			}
			req.BrandKit = kit
		}

		if res, err := registry.CheckPrompt(cmd.Context(), req.Prompt); err == nil && !res.Safe {
			return fmt.Errorf("prompt was flagged for: %v", res.Categories)
		}

		res, err := pipeline.Run(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		stderr := cmd.ErrOrStderr()
		if res.BriefFellBack {
			fmt.Fprintln(stderr, "note: brief stage failed, the placeholder brief was used")
		}
		fmt.Fprintf(stderr, "provider %s, brief attempts %d, design attempts %d\n",
			registry.ActiveName(), res.BriefAttempts, res.DesignAttempts)
		for _, f := range res.Fixes {
			fmt.Fprintf(stderr, "fixed %s\n", f)
		}
		for _, a := range res.Advisories {
			fmt.Fprintf(stderr, "advisory %s: %s\n", a.Kind, a.Message)
		}

		out, err := output(generateOutPath)
		if err != nil {
			return err
		}
		defer out.Close()

		if generateShowBrief {
			return writeJSON(out, map[string]any{"brief": res.Brief, "design_json": res.Design})
		}
		return writeJSON(out, res.Design)
	},
}

var briefCmd = &cobra.Command{
	Use:   "brief <prompt>",
	Short: "Run only the brief stage",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, _, err := newPipeline()
		if err != nil {
			return err
		}
		res := pipeline.Brief(cmd.Context(), joinArgs(args))
		if res.FellBack {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: placeholder brief after %d attempts\n", res.Attempts)
		}
		return writeJSON(cmd.OutOrStdout(), res.Brief)
	},
}

// loadBrandKit reads a brand kit from a JSON or YAML file.
func loadBrandKit(path string) (*design.BrandKit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand kit: %w", err)
	}
	var kit design.BrandKit
	if err := decodeDocument(path, data, &kit); err != nil {
		return nil, fmt.Errorf("parse brand kit: %w", err)
	}
	return &kit, nil
}

func init() {
	generateCmd.Flags().StringVar(&generateBrandPath, "brand", "", "Brand kit file (JSON or YAML)")
	generateCmd.Flags().StringSliceVar(&generateReferences, "ref", nil, "Reference image URL (repeatable)")
	generateCmd.Flags().StringToStringVar(&generatePreferences, "pref", nil, "Style preference as key=value (repeatable)")
	generateCmd.Flags().StringVarP(&generateOutPath, "out", "o", "", "Write the design to a file (default: stdout)")
	generateCmd.Flags().BoolVar(&generateShowBrief, "with-brief", false, "Include the brief in the output")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(briefCmd)
}
