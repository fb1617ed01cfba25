// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/server"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec registers every route and extracts the OpenAPI document
// huma derives from the Go type annotations. Handlers are never invoked,
// so the service dependencies stay nil.
func generateSpec() ([]byte, error) {
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"})
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeCLISetupFailure, "creating server")
	}
	srv.RegisterServices(&server.Services{})

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}
