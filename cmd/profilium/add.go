// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a profile to the store",
		RunE:  runAdd,
	}

	cmd.Flags().String("name", "", "unique profile name (required)")
	cmd.Flags().String("role", "", "role or title (required)")
	cmd.Flags().String("bio", "", "short biography")
	cmd.Flags().String("photo-url", "", "absolute photo URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	bio, _ := cmd.Flags().GetString("bio")
	photoURL, _ := cmd.Flags().GetString("photo-url")

	id, err := st.Add(cmd.Context(), store.Candidate{
		Name:     name,
		Role:     role,
		Bio:      bio,
		PhotoURL: photoURL,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added profile %d: %s\n", id, name)
	return nil
}
