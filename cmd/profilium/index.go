// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the vector index from current profiles",
		Long:  "Snapshot the profile store, embed every profile, and publish a fresh vector index snapshot. Replaces any previous snapshot.",
		RunE:  runIndex,
	}
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	pipe, err := newPipeline(cfg, st, emb, ix)
	if err != nil {
		return err
	}

	stats, err := pipe.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d profiles (%d dimensions) to %s\n",
		stats.Profiles, stats.Dimensions, cfg.Storage.IndexPath)
	return nil
}
