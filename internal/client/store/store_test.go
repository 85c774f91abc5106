package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcadive/divelog/internal/client/models"
)

func entry(id, userID, createdAt string) *models.DiveEntry {
	return &models.DiveEntry{
		ID:        id,
		UserID:    userID,
		Date:      "2025-07-14",
		Location:  "Blue Hole",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestReplaceAll_ReplacesContents(t *testing.T) {
	s := New()

	require.True(t, s.ReplaceAll(1, []*models.DiveEntry{
		entry("a", "u1", "2025-07-01T10:00:00Z"),
		entry("b", "u1", "2025-07-02T10:00:00Z"),
	}))

	require.True(t, s.ReplaceAll(2, []*models.DiveEntry{
		entry("b", "u1", "2025-07-02T10:00:00Z"),
		entry("c", "u1", "2025-07-03T10:00:00Z"),
	}))

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok, "entry absent from the latest snapshot must be gone")
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestReplaceAll_DiscardsStaleSnapshot(t *testing.T) {
	s := New()

	require.True(t, s.ReplaceAll(5, []*models.DiveEntry{
		entry("new", "u1", "2025-07-05T10:00:00Z"),
	}))

	// A slow delivery from before must not win.
	assert.False(t, s.ReplaceAll(3, []*models.DiveEntry{
		entry("old", "u1", "2025-07-01T10:00:00Z"),
	}))
	assert.False(t, s.ReplaceAll(5, nil), "equal sequence is stale too")

	_, ok := s.Get("new")
	assert.True(t, ok)
	_, ok = s.Get("old")
	assert.False(t, ok)
	assert.Equal(t, uint64(5), s.LastSeq())
}

func TestReplaceAll_FiltersMalformedAndDuplicateIDs(t *testing.T) {
	s := New()

	first := entry("dup", "u1", "2025-07-01T10:00:00Z")
	first.Location = "first"
	second := entry("dup", "u1", "2025-07-01T10:00:00Z")
	second.Location = "second"

	bad := entry("bad", "u1", "2025-07-01T10:00:00Z")
	bad.Date = ""

	require.True(t, s.ReplaceAll(1, []*models.DiveEntry{first, nil, bad, second}))

	assert.Equal(t, 1, s.Len())
	got, ok := s.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "first", got.Location, "first occurrence of an id wins")
}

func TestOptimisticInsert_FirstWriterWins(t *testing.T) {
	s := New()

	require.True(t, s.ApplyOptimisticInsert(entry("x", "u1", "2025-07-01T10:00:00Z")))
	dupe := entry("x", "u1", "2025-07-01T10:00:00Z")
	dupe.Location = "elsewhere"
	assert.False(t, s.ApplyOptimisticInsert(dupe))

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "Blue Hole", got.Location)
	assert.Equal(t, 1, s.Len(), "no duplicate ids ever")
}

func TestOptimisticUpdateAndDelete_NoOpWhenAbsent(t *testing.T) {
	s := New()

	assert.False(t, s.ApplyOptimisticUpdate(entry("ghost", "u1", "2025-07-01T10:00:00Z")))
	assert.False(t, s.ApplyOptimisticDelete("ghost"))
	assert.Equal(t, 0, s.Len())
}

func TestRollback(t *testing.T) {
	s := New()

	t.Run("failed insert removes the speculative record", func(t *testing.T) {
		require.True(t, s.ApplyOptimisticInsert(entry("i", "u1", "2025-07-01T10:00:00Z")))
		s.Rollback("i", nil)
		_, ok := s.Get("i")
		assert.False(t, ok)
	})

	t.Run("failed update restores the previous value", func(t *testing.T) {
		prev := entry("u", "u1", "2025-07-01T10:00:00Z")
		require.True(t, s.ApplyOptimisticInsert(prev))

		changed := prev.Clone()
		changed.Location = "changed"
		require.True(t, s.ApplyOptimisticUpdate(changed))

		s.Rollback("u", prev)
		got, ok := s.Get("u")
		require.True(t, ok)
		assert.Equal(t, "Blue Hole", got.Location)
	})

	t.Run("failed delete restores the removed value", func(t *testing.T) {
		prev := entry("d", "u1", "2025-07-01T10:00:00Z")
		require.True(t, s.ApplyOptimisticInsert(prev))
		require.True(t, s.ApplyOptimisticDelete("d"))

		s.Rollback("d", prev)
		_, ok := s.Get("d")
		assert.True(t, ok)
	})
}

func TestClear_ResetsSequence(t *testing.T) {
	s := New()

	require.True(t, s.ReplaceAll(7, []*models.DiveEntry{entry("a", "u1", "2025-07-01T10:00:00Z")}))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(0), s.LastSeq())

	// A fresh subscription starts its numbering over.
	assert.True(t, s.ReplaceAll(1, []*models.DiveEntry{entry("b", "u2", "2025-07-02T10:00:00Z")}))
}

func TestEntries_NewestFirstStableOrder(t *testing.T) {
	s := New()

	require.True(t, s.ReplaceAll(1, []*models.DiveEntry{
		entry("b", "u1", "2025-07-01T10:00:00Z"),
		entry("a", "u1", "2025-07-01T10:00:00Z"),
		entry("c", "u1", "2025-07-03T10:00:00Z"),
	}))

	got := s.Entries()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID, "ties broken by id, descending")
	assert.Equal(t, "a", got[2].ID)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := New()
	require.True(t, s.ApplyOptimisticInsert(entry("a", "u1", "2025-07-01T10:00:00Z")))

	got, ok := s.Get("a")
	require.True(t, ok)
	got.Location = "mutated"

	again, _ := s.Get("a")
	assert.Equal(t, "Blue Hole", again.Location, "callers must not reach internal state")
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	s := New()

	fired := 0
	unsub := s.Subscribe(func() { fired++ })

	require.True(t, s.ReplaceAll(1, []*models.DiveEntry{entry("a", "u1", "2025-07-01T10:00:00Z")}))
	assert.Equal(t, 1, fired)

	unsub()
	s.Clear()
	assert.Equal(t, 1, fired, "no notifications after unsubscribe")
}
