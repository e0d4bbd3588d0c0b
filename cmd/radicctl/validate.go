// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"radic/internal/design"
)

var validateRepair bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a design document against the canonical schema",
	Long: `Check a design document (.json, .yaml or .yml) for structural errors and
constraint violations, and report the fixes Repair would apply and any
quality advisories. With --repair the repaired document is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read design: %w", err)
		}
		repaired, err := checkDesign(cmd.ErrOrStderr(), args[0], data)
		if err != nil {
			return err
		}
		if validateRepair {
			return writeJSON(cmd.OutOrStdout(), repaired)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

// checkDesign parses, repairs and audits a design, reporting to w.
func checkDesign(w io.Writer, path string, data []byte) (*design.Design, error) {
	raw, err := toJSON(path, data)
	if err != nil {
		return nil, err
	}
	d, err := design.ParseDesign(string(raw))
	if err != nil {
		return nil, err
	}

	repaired, fixes, err := design.Repair(d)
	if err != nil {
		var ce *design.ConstraintError
		if errors.As(err, &ce) {
			return nil, fmt.Errorf("constraint violation: %w", err)
		}
		return nil, err
	}
	for _, f := range fixes {
		fmt.Fprintf(w, "fix %s\n", f)
	}
	for _, a := range design.Audit(repaired) {
		fmt.Fprintf(w, "advisory %s (%s): %s\n", a.Kind, a.LayerID, a.Message)
	}
	return repaired, nil
}

// decodeDocument decodes a JSON or YAML file into v using v's json tags.
func decodeDocument(path string, data []byte, v any) error {
	raw, err := toJSON(path, data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// toJSON converts YAML input to JSON so the json tags of the design types
// apply to both formats. JSON input is returned as is.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		return raw, nil
	default:
		return data, nil
	}
}

func init() {
	validateCmd.Flags().BoolVar(&validateRepair, "repair", false, "Print the repaired document")
	rootCmd.AddCommand(validateCmd)
}
