// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store/sqlite"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func newTestStore(t *testing.T) *sqlite.ProfileStore {
	t.Helper()
	s, err := sqlite.NewProfileStore(testDBPath(t, "profiles"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProfile(t *testing.T, s *sqlite.ProfileStore, name, role, bio string) int64 {
	t.Helper()
	id, err := s.Add(context.Background(), store.Candidate{Name: name, Role: role, Bio: bio})
	require.NoError(t, err)
	return id
}

func TestProfileStore_AddAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := store.Candidate{
		Name:     "Jane Doe",
		Role:     "VP Engineering",
		Bio:      "Leads the engineering org.",
		PhotoURL: "https://example.com/jane.jpg",
	}
	id, err := s.Add(ctx, c)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Role, got.Role)
	assert.Equal(t, c.Bio, got.Bio)
	assert.Equal(t, c.PhotoURL, got.PhotoURL)
}

func TestProfileStore_AddDuplicateNameFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Jane Doe", "VP Engineering", "")

	_, err := s.Add(ctx, store.Candidate{Name: "Jane Doe", Role: "CTO"})
	require.Error(t, err)
	assert.True(t, perr.IsConflict(err))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProfileStore_AddInvalidCandidate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []struct {
		name string
		c    store.Candidate
	}{
		{"missing name", store.Candidate{Role: "CEO"}},
		{"blank name", store.Candidate{Name: "   ", Role: "CEO"}},
		{"missing role", store.Candidate{Name: "John Smith"}},
		{"relative photo url", store.Candidate{Name: "John Smith", Role: "CEO", PhotoURL: "/img/a.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, tt.c)
			require.Error(t, err)
			assert.True(t, perr.IsInvalidInput(err))
		})
	}
}

func TestProfileStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))
}

func TestProfileStore_GetAllSortedByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Charlie Root", "CTO", "")
	seedProfile(t, s, "Alice Chen", "CEO", "")
	seedProfile(t, s, "Bob Miller", "CFO", "")

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alice Chen", all[0].Name)
	assert.Equal(t, "Bob Miller", all[1].Name)
	assert.Equal(t, "Charlie Root", all[2].Name)
}

func TestProfileStore_GetByIDsPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1 := seedProfile(t, s, "Alice Chen", "CEO", "")
	id2 := seedProfile(t, s, "Bob Miller", "CFO", "")
	id3 := seedProfile(t, s, "Charlie Root", "CTO", "")

	got, err := s.GetByIDs(ctx, []int64{id3, id1, id2})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, id3, got[0].ID)
	assert.Equal(t, id1, got[1].ID)
	assert.Equal(t, id2, got[2].ID)
}

func TestProfileStore_GetByIDsDropsMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1 := seedProfile(t, s, "Alice Chen", "CEO", "")

	got, err := s.GetByIDs(ctx, []int64{id1, 999})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id1, got[0].ID)
}

func TestProfileStore_GetByIDsPreservesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1 := seedProfile(t, s, "Alice Chen", "CEO", "")

	got, err := s.GetByIDs(ctx, []int64{id1, id1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].ID, got[1].ID)
}

func TestProfileStore_GetByIDsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfileStore_SearchKeyword(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Alice Chen", "Managing Director", "Runs the advisory practice.")
	seedProfile(t, s, "Bob Miller", "CFO", "Finance veteran.")
	seedProfile(t, s, "Dana Fox", "Director of Product", "Director with a platform background.")

	got, err := s.SearchKeyword(ctx, "director")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Contains(t, p.Role+" "+p.Bio, "irector")
	}
}

func TestProfileStore_SearchKeywordBlankTerm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Alice Chen", "CEO", "")

	for _, term := range []string{"", "   "} {
		got, err := s.SearchKeyword(ctx, term)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestProfileStore_SearchKeywordQuotesUserInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Alice Chen", "CEO", "")

	// FTS5 operators in user input must not produce a syntax error.
	_, err := s.SearchKeyword(ctx, `NEAR( "unbalanced`)
	require.NoError(t, err)
}

func TestProfileStore_UpdateMirrorsSearchIndex(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := seedProfile(t, s, "Alice Chen", "CEO", "Founded the company.")

	err := s.Update(ctx, id, store.Candidate{
		Name: "Alice Chen",
		Role: "Executive Chair",
		Bio:  "Moved to the board.",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Executive Chair", got.Role)

	// Old text must no longer match; new text must.
	stale, err := s.SearchKeyword(ctx, "founded")
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := s.SearchKeyword(ctx, "board")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, id, fresh[0].ID)
}

func TestProfileStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), 999, store.Candidate{Name: "X", Role: "Y"})
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))
}

func TestProfileStore_UpdateNameConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Alice Chen", "CEO", "")
	id2 := seedProfile(t, s, "Bob Miller", "CFO", "")

	err := s.Update(ctx, id2, store.Candidate{Name: "Alice Chen", Role: "CFO"})
	require.Error(t, err)
	assert.True(t, perr.IsConflict(err))
}

func TestProfileStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := seedProfile(t, s, "Alice Chen", "CEO", "")

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id)) // second delete is a no-op

	_, err := s.Get(ctx, id)
	assert.True(t, perr.IsNotFound(err))

	// FTS mirror is gone too.
	got, err := s.SearchKeyword(ctx, "Alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfileStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1 := seedProfile(t, s, "Alice Chen", "CEO", "")
	require.NoError(t, s.Delete(ctx, id1))

	id2 := seedProfile(t, s, "Bob Miller", "CFO", "")
	assert.Greater(t, id2, id1)
}

func TestProfileStore_ExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "Bob Miller", "CFO", "Numbers person.")
	seedProfile(t, s, "Alice Chen", "CEO", "Founder.")

	records, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alice Chen", records[0].Name)
	assert.Equal(t, "Bob Miller", records[1].Name)
}

func TestProfileStore_ImportReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "X Old", "CEO", "")
	seedProfile(t, s, "Y Old", "CFO", "")
	seedProfile(t, s, "Z Old", "CTO", "")

	n, err := s.ImportReplaceAll(ctx, []store.Candidate{
		{Name: "Alice Chen", Role: "CEO"},
		{Name: "Bob Miller", Role: "CFO"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice Chen", all[0].Name)
	assert.Equal(t, "Bob Miller", all[1].Name)

	// Replaced contents are searchable; old contents are not.
	gone, err := s.SearchKeyword(ctx, "Old")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestProfileStore_ImportValidationFailureLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "X Old", "CEO", "")
	seedProfile(t, s, "Y Old", "CFO", "")

	_, err := s.ImportReplaceAll(ctx, []store.Candidate{
		{Name: "Alice Chen", Role: "CEO"},
		{Name: "", Role: "CFO"}, // malformed
	})
	require.Error(t, err)
	assert.True(t, perr.IsInvalidInput(err))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "X Old", all[0].Name)
	assert.Equal(t, "Y Old", all[1].Name)
}

func TestProfileStore_ImportSkipsIntraBatchDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.ImportReplaceAll(ctx, []store.Candidate{
		{Name: "Alice Chen", Role: "CEO"},
		{Name: "Alice Chen", Role: "CTO"}, // duplicate within the batch
		{Name: "Bob Miller", Role: "CFO"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// First occurrence wins.
	assert.Equal(t, "CEO", all[0].Role)
}

func TestProfileStore_ImportEmptyBatchClearsStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedProfile(t, s, "X Old", "CEO", "")

	n, err := s.ImportReplaceAll(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
