// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package store

import "context"

// ProfileStore is the sole authority for profile identity and durable text
// content; it doubles as the keyword search index. All mutating operations
// are atomic: readers never observe a partially applied write, and the
// full-text entry for a live profile always mirrors its current fields.
type ProfileStore interface {
	// Add stores a candidate and returns its new id. Fails with a conflict
	// error if the name already exists among live profiles.
	Add(ctx context.Context, c Candidate) (int64, error)

	// Get returns the profile with the given id or a not-found error.
	Get(ctx context.Context, id int64) (*Profile, error)

	// GetAll returns every live profile sorted by name.
	GetAll(ctx context.Context) ([]*Profile, error)

	// GetByIDs resolves ids in the caller's order. Ids with no live match
	// are silently dropped; duplicate ids resolve independently.
	GetByIDs(ctx context.Context, ids []int64) ([]*Profile, error)

	// SearchKeyword returns profiles whose indexed text matches term,
	// best match first. A blank term yields an empty result.
	SearchKeyword(ctx context.Context, term string) ([]*Profile, error)

	// Update replaces the stored fields of an existing profile.
	Update(ctx context.Context, id int64, c Candidate) error

	// Delete removes a profile. Deleting a nonexistent id is a no-op.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of live profiles.
	Count(ctx context.Context) (int64, error)

	// Export returns all live profiles as plain records, sorted by name.
	Export(ctx context.Context) ([]Candidate, error)

	// ImportReplaceAll validates every record, then replaces the entire
	// store contents in one atomic unit. A validation failure leaves the
	// store unchanged; name collisions within the batch are skipped with
	// a warning. Returns the number of records imported.
	ImportReplaceAll(ctx context.Context, records []Candidate) (int, error)

	Close() error
}
