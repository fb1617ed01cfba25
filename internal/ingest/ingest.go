// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

// Package ingest feeds candidate profile records into the store one at a
// time. Sources are external collaborators (scrapers, manual entry,
// files); this package only defines the contract and the loading loop.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// Source produces candidate records for ingestion.
type Source interface {
	Name() string
	Candidates(ctx context.Context) ([]store.Candidate, error)
}

// JSONFileSource reads candidates from a JSON array file with fields
// {name, role, bio, photo_url}, the same shape the bulk transfer format
// uses.
type JSONFileSource struct {
	Path string
}

var _ Source = (*JSONFileSource)(nil)

func (s *JSONFileSource) Name() string { return "json:" + s.Path }

func (s *JSONFileSource) Candidates(_ context.Context) ([]store.Candidate, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeIngestSourceFailure, "reading source file %s", s.Path)
	}

	var candidates []store.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, perr.Wrapf(err, perr.CodeIngestSourceFailure, "parsing source file %s", s.Path)
	}
	return candidates, nil
}

// Result summarizes one ingestion run.
type Result struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Load adds each candidate from the source to the store. Per-item
// failures (duplicate names, invalid records) are logged and skipped;
// only a source failure aborts the run.
func Load(ctx context.Context, st store.ProfileStore, src Source) (Result, error) {
	candidates, err := src.Candidates(ctx)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, c := range candidates {
		id, err := st.Add(ctx, c)
		if err != nil {
			if perr.IsConflict(err) || perr.IsInvalidInput(err) {
				slog.WarnContext(ctx, "skipping candidate",
					"source", src.Name(), "name", c.Name, "error", err)
				res.Skipped++
				continue
			}
			return res, perr.Wrapf(err, perr.CodeIngestSourceFailure,
				"adding candidate %q", c.Name)
		}
		slog.DebugContext(ctx, "ingested profile",
			"source", src.Name(), "profile_id", id, "name", c.Name)
		res.Added++
	}
	return res, nil
}
