// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// Compile-time interface check.
var _ store.ProfileStore = (*ProfileStore)(nil)

// ProfileStore implements store.ProfileStore backed by SQLite with FTS5.
// The full-text index is an external-content table kept in sync by
// triggers, so every insert, update, and delete mirrors into it within
// the same transaction as the row change.
type ProfileStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProfileStore opens (or creates) a SQLite database at dbPath and
// initialises the profiles table and its FTS5 mirror.
func NewProfileStore(dbPath string) (*ProfileStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrateProfiles(db); err != nil {
		_ = db.Close()
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "migrating profile tables: %w", err)
	}

	return &ProfileStore{db: db, logger: slog.Default()}, nil
}

func migrateProfiles(db *sql.DB) error {
	// AUTOINCREMENT keeps ids monotonic and never reused, even after
	// deletes or a bulk replacement.
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL UNIQUE,
	role      TEXT NOT NULL DEFAULT '',
	bio       TEXT NOT NULL DEFAULT '',
	photo_url TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS profiles_fts USING fts5(
	name, role, bio,
	content='profiles',
	content_rowid='id'
);

-- Triggers keep the FTS mirror in sync with the main table.
CREATE TRIGGER IF NOT EXISTS profiles_ai AFTER INSERT ON profiles BEGIN
	INSERT INTO profiles_fts(rowid, name, role, bio) VALUES (new.id, new.name, new.role, new.bio);
END;

CREATE TRIGGER IF NOT EXISTS profiles_ad AFTER DELETE ON profiles BEGIN
	INSERT INTO profiles_fts(profiles_fts, rowid, name, role, bio) VALUES ('delete', old.id, old.name, old.role, old.bio);
END;

CREATE TRIGGER IF NOT EXISTS profiles_au AFTER UPDATE ON profiles BEGIN
	INSERT INTO profiles_fts(profiles_fts, rowid, name, role, bio) VALUES ('delete', old.id, old.name, old.role, old.bio);
	INSERT INTO profiles_fts(rowid, name, role, bio) VALUES (new.id, new.name, new.role, new.bio);
END;
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *ProfileStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Add stores a validated candidate and returns the assigned id.
func (s *ProfileStore) Add(ctx context.Context, c store.Candidate) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	const q = `INSERT INTO profiles (name, role, bio, photo_url) VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, c.Name, c.Role, c.Bio, c.PhotoURL)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, perr.New(perr.CodeStoreProfileConflict,
				"profile name already exists", perr.FieldProfileName(c.Name))
		}
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "adding profile %q: %w", c.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "reading new profile id: %w", err)
	}
	return id, nil
}

// Get returns a single profile by id.
func (s *ProfileStore) Get(ctx context.Context, id int64) (*store.Profile, error) {
	const q = `SELECT id, name, role, bio, photo_url FROM profiles WHERE id = ?`

	var p store.Profile
	err := s.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Role, &p.Bio, &p.PhotoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perr.New(perr.CodeStoreProfileNotFound, "profile not found", perr.FieldProfileID(id))
		}
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "getting profile %d: %w", id, err)
	}
	return &p, nil
}

// GetAll returns every profile ordered by name.
func (s *ProfileStore) GetAll(ctx context.Context) ([]*store.Profile, error) {
	const q = `SELECT id, name, role, bio, photo_url FROM profiles ORDER BY name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "listing profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanProfiles(rows)
}

// GetByIDs resolves ids in the caller's order; ids without a live match
// are dropped and duplicates are resolved independently.
func (s *ProfileStore) GetByIDs(ctx context.Context, ids []int64) ([]*store.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role, bio, photo_url FROM profiles WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "resolving profile ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	fetched, err := scanProfiles(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*store.Profile, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	resolved := make([]*store.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			resolved = append(resolved, p)
		}
	}
	return resolved, nil
}

// SearchKeyword performs a ranked full-text search over name, role, and bio.
func (s *ProfileStore) SearchKeyword(ctx context.Context, term string) ([]*store.Profile, error) {
	match := ftsQuery(term)
	if match == "" {
		return nil, nil
	}

	const q = `SELECT p.id, p.name, p.role, p.bio, p.photo_url
FROM profiles p
JOIN profiles_fts fts ON p.id = fts.rowid
WHERE profiles_fts MATCH ?
ORDER BY fts.rank`

	rows, err := s.db.QueryContext(ctx, q, match)
	if err != nil {
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "searching profiles for %q: %w", term, err)
	}
	defer func() { _ = rows.Close() }()

	return scanProfiles(rows)
}

// ftsQuery turns free text into an FTS5 MATCH expression. Each token is
// quoted so user input cannot inject FTS query syntax.
func ftsQuery(term string) string {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// Update replaces the stored fields of an existing profile. The FTS mirror
// follows via triggers inside the same implicit transaction.
func (s *ProfileStore) Update(ctx context.Context, id int64, c store.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	const q = `UPDATE profiles SET name = ?, role = ?, bio = ?, photo_url = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, q, c.Name, c.Role, c.Bio, c.PhotoURL, id)
	if err != nil {
		if isUniqueViolation(err) {
			return perr.New(perr.CodeStoreProfileConflict,
				"profile name already exists", perr.FieldProfileName(c.Name))
		}
		return perr.Errorf(perr.CodeStoreDatabaseFailure, "updating profile %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return perr.Errorf(perr.CodeStoreDatabaseFailure, "reading update result: %w", err)
	}
	if n == 0 {
		return perr.New(perr.CodeStoreProfileNotFound, "profile not found", perr.FieldProfileID(id))
	}
	return nil
}

// Delete removes a profile; deleting a nonexistent id is a no-op.
func (s *ProfileStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return perr.Errorf(perr.CodeStoreDatabaseFailure, "deleting profile %d: %w", id, err)
	}
	return nil
}

// Count returns the number of live profiles.
func (s *ProfileStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "counting profiles: %w", err)
	}
	return count, nil
}

// Export returns all profiles as plain records in name order.
func (s *ProfileStore) Export(ctx context.Context) ([]store.Candidate, error) {
	profiles, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]store.Candidate, len(profiles))
	for i, p := range profiles {
		records[i] = p.Candidate()
	}
	return records, nil
}

// ImportReplaceAll validates every record up front, then discards the prior
// contents and inserts the batch inside one transaction. Name collisions
// within the batch are skipped with a warning rather than aborting.
func (s *ProfileStore) ImportReplaceAll(ctx context.Context, records []store.Candidate) (int, error) {
	for i, c := range records {
		if err := c.Validate(); err != nil {
			return 0, perr.Wrapf(err, perr.CodeStoreImportInvalid, "import record %d", i)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "beginning import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// sqlite_sequence is intentionally left alone so replacement ids stay
	// monotonic across imports.
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "clearing profiles for import: %w", err)
	}

	const q = `INSERT INTO profiles (name, role, bio, photo_url) VALUES (?, ?, ?, ?)`

	imported := 0
	seen := make(map[string]bool, len(records))
	for _, c := range records {
		if seen[c.Name] {
			s.logger.WarnContext(ctx, "skipping duplicate profile in import batch",
				"profile_name", c.Name,
			)
			continue
		}
		seen[c.Name] = true

		if _, err := tx.ExecContext(ctx, q, c.Name, c.Role, c.Bio, c.PhotoURL); err != nil {
			return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "importing profile %q: %w", c.Name, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, perr.Errorf(perr.CodeStoreDatabaseFailure, "committing import: %w", err)
	}
	return imported, nil
}

// scanProfiles reads profile rows into a slice.
func scanProfiles(rows *sql.Rows) ([]*store.Profile, error) {
	var profiles []*store.Profile
	for rows.Next() {
		var p store.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Bio, &p.PhotoURL); err != nil {
			return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "scanning profile row: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Errorf(perr.CodeStoreDatabaseFailure, "iterating profile rows: %w", err)
	}
	return profiles, nil
}
