// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

// Package vecindex provides the nearest-neighbor index over profile
// embeddings. The index is rebuilt wholesale by the indexing pipeline
// and is otherwise immutable: there is no incremental insert, update,
// or delete. Staleness against the profile store is tolerated and
// resolved downstream.
package vecindex

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// Entry is one (profile id, embedding) pair in a build input. Duplicate
// profile ids are permitted; each becomes an independently searchable row.
type Entry struct {
	ProfileID int64
	Embedding []float32
}

// Match is one search result, distance ascending (lower = more similar).
type Match struct {
	ProfileID int64
	Distance  float64
}

// Index is a snapshot nearest-neighbor index backed by sqlite-vec. A
// successful Build or Load atomically replaces the live handle under a
// write lock; searches in flight against the old snapshot finish safely.
type Index struct {
	mu        sync.RWMutex
	db        *sql.DB
	file      string // backing snapshot file; a staging temp until Save publishes
	published bool   // file is a published snapshot; only Save may replace it on disk
	dims      int
}

// New returns an empty index. Search fails until Build or Load succeeds.
func New() *Index {
	return &Index{}
}

func openSnapshot(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging snapshot db: %w", err)
	}
	return db, nil
}

func migrateSnapshot(db *sql.DB, dims int) error {
	// The vec0 table carries only embeddings; profile ids live in a
	// companion table keyed by the shared rowid so duplicate profile ids
	// in the build input stay distinct entries.
	vecDDL := fmt.Sprintf(`CREATE VIRTUAL TABLE vectors USING vec0(embedding float[%d])`, dims)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating vectors virtual table: %w", err)
	}

	const ddl = `
CREATE TABLE vector_ids (
	rowid      INTEGER PRIMARY KEY,
	profile_id INTEGER NOT NULL
);

CREATE TABLE index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("creating companion tables: %w", err)
	}

	if _, err := db.Exec(`INSERT INTO index_meta (key, value) VALUES ('dimensions', ?)`,
		strconv.Itoa(dims)); err != nil {
		return fmt.Errorf("recording index dimensions: %w", err)
	}
	return nil
}

// Build creates a fresh snapshot from the given entries and swaps it in as
// the live index. All embeddings must share one dimension. The snapshot
// stays in a staging file until Save publishes it.
func (ix *Index) Build(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return perr.New(perr.CodeIndexBuildInvalid, "build input is empty")
	}

	dims := len(entries[0].Embedding)
	if dims == 0 {
		return perr.New(perr.CodeIndexBuildInvalid, "build input has zero-dimension embedding")
	}
	for _, e := range entries {
		if len(e.Embedding) != dims {
			return perr.Errorf(perr.CodeIndexBuildInvalid,
				"embedding dimension mismatch for profile %d: want %d, got %d",
				e.ProfileID, dims, len(e.Embedding))
		}
	}

	staging, err := os.CreateTemp("", "profilium-index-*.db")
	if err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "creating staging file: %w", err)
	}
	stagingPath := staging.Name()
	_ = staging.Close()
	_ = os.Remove(stagingPath) // let sqlite create the file itself

	db, err := openSnapshot(stagingPath)
	if err != nil {
		return perr.Wrapf(err, perr.CodeIndexSnapshotFailure, "opening staging snapshot")
	}

	if err := migrateSnapshot(db, dims); err != nil {
		_ = db.Close()
		_ = os.Remove(stagingPath)
		return perr.Wrapf(err, perr.CodeIndexSnapshotFailure, "migrating staging snapshot")
	}

	if err := insertEntries(ctx, db, entries); err != nil {
		_ = db.Close()
		_ = os.Remove(stagingPath)
		return err
	}

	ix.swap(db, stagingPath, dims, false)
	return nil
}

func insertEntries(ctx context.Context, db *sql.DB, entries []Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "beginning build transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entries {
		blob, err := sqlite_vec.SerializeFloat32(e.Embedding)
		if err != nil {
			return perr.Errorf(perr.CodeIndexSnapshotFailure,
				"serializing embedding for profile %d: %w", e.ProfileID, err)
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO vectors (embedding) VALUES (?)`, blob)
		if err != nil {
			return perr.Errorf(perr.CodeIndexSnapshotFailure,
				"inserting embedding for profile %d: %w", e.ProfileID, err)
		}

		rowid, err := res.LastInsertId()
		if err != nil {
			return perr.Errorf(perr.CodeIndexSnapshotFailure, "reading vector rowid: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vector_ids (rowid, profile_id) VALUES (?, ?)`,
			rowid, e.ProfileID,
		); err != nil {
			return perr.Errorf(perr.CodeIndexSnapshotFailure,
				"recording profile id %d: %w", e.ProfileID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "committing build transaction: %w", err)
	}
	return nil
}

// swap atomically replaces the live handle. The old connection is closed
// after the swap; in-flight searches hold the read lock so none can be
// using it by the time the write lock is acquired. Only unpublished
// staging files are removed here: a published snapshot stays on disk
// until Save's atomic rename replaces it, so the last good snapshot
// survives a rebuild that never reaches Save.
func (ix *Index) swap(db *sql.DB, file string, dims int, published bool) {
	ix.mu.Lock()
	old, oldFile, oldPublished := ix.db, ix.file, ix.published
	ix.db, ix.file, ix.dims, ix.published = db, file, dims, published
	ix.mu.Unlock()

	if old != nil {
		_ = old.Close()
		if oldFile != "" && oldFile != file && !oldPublished {
			_ = os.Remove(oldFile)
		}
	}
}

// Search returns up to k matches for the query embedding, ascending by
// distance. It fails if the index has not been built or loaded.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return nil, perr.New(perr.CodeIndexNotLoaded, "vector index not built or loaded")
	}
	if len(query) != ix.dims {
		return nil, perr.Errorf(perr.CodeIndexBuildInvalid,
			"query dimension mismatch: want %d, got %d", ix.dims, len(query))
	}
	if k <= 0 {
		return nil, nil
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, perr.Errorf(perr.CodeIndexSnapshotFailure, "serializing query vector: %w", err)
	}

	const q = `SELECT i.profile_id, v.distance
FROM vectors v
JOIN vector_ids i ON i.rowid = v.rowid
WHERE v.embedding MATCH ? AND k = ?
ORDER BY v.distance`

	rows, err := ix.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, perr.Errorf(perr.CodeIndexSnapshotFailure, "searching vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ProfileID, &m.Distance); err != nil {
			return nil, perr.Errorf(perr.CodeIndexSnapshotFailure, "scanning match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Errorf(perr.CodeIndexSnapshotFailure, "iterating match rows: %w", err)
	}

	return matches, nil
}

// Save publishes the current snapshot to path. The bytes are copied to a
// temporary file in the target directory, synced, and renamed into place,
// so a concurrent Load never observes a half-written snapshot. The index
// reopens on the published file afterwards.
func (ix *Index) Save(path string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return perr.New(perr.CodeIndexNotLoaded, "vector index not built or loaded")
	}

	// Close so the file on disk is complete and consistent before copying.
	src, srcPublished := ix.file, ix.published
	if err := ix.db.Close(); err != nil {
		ix.db = nil
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "closing snapshot before save: %w", err)
	}
	ix.db = nil

	if err := publishFile(src, path); err != nil {
		return err
	}

	if src != path && !srcPublished {
		_ = os.Remove(src)
	}

	db, err := openSnapshot(path)
	if err != nil {
		return perr.Wrapf(err, perr.CodeIndexSnapshotFailure, "reopening published snapshot")
	}
	ix.db, ix.file, ix.published = db, path, true
	return nil
}

// publishFile copies src to a sibling temp file of dst, syncs it, and
// renames it over dst.
func publishFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "creating snapshot directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "opening staged snapshot: %w", err)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "creating publish temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "copying snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "closing snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "publishing snapshot: %w", err)
	}
	return nil
}

// Load opens an existing snapshot file and swaps it in as the live index.
func (ix *Index) Load(path string) error {
	db, err := openSnapshot(path)
	if err != nil {
		return perr.Wrapf(err, perr.CodeIndexSnapshotFailure, "loading snapshot")
	}

	var dimsStr string
	err = db.QueryRow(`SELECT value FROM index_meta WHERE key = 'dimensions'`).Scan(&dimsStr)
	if err != nil {
		_ = db.Close()
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "reading snapshot dimensions: %w", err)
	}
	dims, err := strconv.Atoi(dimsStr)
	if err != nil || dims <= 0 {
		_ = db.Close()
		return perr.Errorf(perr.CodeIndexSnapshotFailure, "snapshot dimensions %q are invalid", dimsStr)
	}

	ix.swap(db, path, dims, true)
	return nil
}

// Count returns the number of entries in the live snapshot.
func (ix *Index) Count() (int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return 0, perr.New(perr.CodeIndexNotLoaded, "vector index not built or loaded")
	}

	var count int64
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM vector_ids`).Scan(&count); err != nil {
		return 0, perr.Errorf(perr.CodeIndexSnapshotFailure, "counting index entries: %w", err)
	}
	return count, nil
}

// Dimensions returns the embedding dimension of the live snapshot, or 0
// when no snapshot is loaded.
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dims
}

// Loaded reports whether a snapshot is live.
func (ix *Index) Loaded() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.db != nil
}

// Close releases the live snapshot. A staging file that was never
// published is removed.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	if ix.file != "" && !ix.published {
		_ = os.Remove(ix.file)
	}
	ix.db = nil
	ix.file = ""
	ix.published = false
	ix.dims = 0
	return err
}
