// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in profile data",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg, st, ix, emb, gen)
	if err != nil {
		return err
	}

	ans := orch.Ask(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), ans.Text)

	if len(ans.Sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, p := range ans.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", p.Name, p.Role)
		}
	}
	return nil
}
