// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store and index status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	count, err := st.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "profiles: %d (%s)\n", count, cfg.Storage.DatabasePath)

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	if !ix.Loaded() {
		fmt.Fprintf(cmd.OutOrStdout(), "index: not built (%s)\n", cfg.Storage.IndexPath)
		return nil
	}

	entries, err := ix.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "index: %d entries, %d dimensions (%s)\n",
		entries, ix.Dimensions(), cfg.Storage.IndexPath)
	return nil
}
