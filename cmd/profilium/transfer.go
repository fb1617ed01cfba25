// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/ingest"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all profiles as JSON",
		Long:  "Write every stored profile to stdout (or a file) in the bulk transfer format, sorted by name.",
		RunE:  runExport,
	}

	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	records, err := st.Export(cmd.Context())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.CodeCLISetupFailure, "encoding export")
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return perr.Wrapf(err, perr.CodeCLISetupFailure, "writing export file")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d profiles to %s\n", len(records), out)
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import profiles from a JSON file",
		Long: "Read profiles in the bulk transfer format. By default existing profiles are kept " +
			"and duplicates are skipped; with --replace the whole store is replaced atomically.",
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("replace", false, "replace the entire store instead of merging")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	src := &ingest.JSONFileSource{Path: args[0]}

	replace, _ := cmd.Flags().GetBool("replace")
	if replace {
		records, err := src.Candidates(cmd.Context())
		if err != nil {
			return err
		}
		imported, err := st.ImportReplaceAll(cmd.Context(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "replaced store with %d profiles\n", imported)
		return nil
	}

	res, err := ingest.Load(cmd.Context(), st, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d profiles, skipped %d\n", res.Added, res.Skipped)
	return nil
}
