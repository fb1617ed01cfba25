// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the profilium HTTP API",
		Long:  "Load configuration, open the profile store and vector index, and serve the REST API.",
		RunE:  runServe,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listen := viper.GetString("server.listen"); listen != "" {
		cfg.Server.Listen = listen
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

	pipe, err := newPipeline(cfg, st, emb, ix)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cfg, st, ix, emb, gen)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{ListenAddr: cfg.Server.Listen})
	if err != nil {
		return err
	}
	srv.RegisterServices(&server.Services{
		Store:        st,
		Index:        ix,
		Orchestrator: orch,
		Pipeline:     pipe,
		Embedder:     emb,
		Generator:    gen,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "profilium listening on %s\n", cfg.Server.Listen)
	return srv.Start(ctx)
}
