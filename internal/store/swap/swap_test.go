package swap

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/store/database"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func swapRow(id string, status model.SwapStatus, createdAt time.Time) *model.Swap {
	return &model.Swap{
		SwapID:       id,
		Direction:    model.DirectionBtcToStablecoin,
		Status:       status,
		RemoteStatus: string(status),
		SourceToken:  "btc_arkade",
		TargetToken:  "usdc_pol",
		SourceAmount: 100_000,
		TargetAmount: 97.5,
		CreatedAt:    createdAt,
	}
}

func TestStore_UpsertInsertsThenUpdates(t *testing.T) {
	db := newDB(t)
	s := New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	row, err := s.Upsert(db, swapRow("sw-1", model.SwapStatusPending, created))
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusPending, row.Status)
	assert.NotZero(t, row.ID)

	update := swapRow("sw-1", model.SwapStatusProcessing, created.Add(time.Hour))
	update.RemoteStatus = "server-funded"
	update.TargetAmount = 97.25
	row, err = s.Upsert(db, update)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusProcessing, row.Status)
	assert.Equal(t, "server-funded", row.RemoteStatus)
	assert.Equal(t, 97.25, row.TargetAmount)
	assert.True(t, created.Equal(row.CreatedAt), "created_at must not move")

	all, err := s.All(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_UpsertKeepsFirstCompletedAt(t *testing.T) {
	db := newDB(t)
	s := New()
	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	row := swapRow("sw-2", model.SwapStatusCompleted, first)
	row.CompletedAt = &first
	_, err := s.Upsert(db, row)
	require.NoError(t, err)

	later := first.Add(time.Hour)
	again := swapRow("sw-2", model.SwapStatusCompleted, first)
	again.CompletedAt = &later
	got, err := s.Upsert(db, again)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, first.Equal(*got.CompletedAt))
}

func TestStore_GetBySwapID_NotFound(t *testing.T) {
	db := newDB(t)
	_, err := New().GetBySwapID(db, "missing")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestStore_UpsertRequiresID(t *testing.T) {
	db := newDB(t)
	_, err := New().Upsert(db, &model.Swap{})
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
}

func TestStore_AllNewestFirst(t *testing.T) {
	db := newDB(t)
	s := New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		_, err := s.Upsert(db, swapRow(id, model.SwapStatusPending, base.Add(offsets[i])))
		require.NoError(t, err)
	}

	all, err := s.All(db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "middle", "old"}, []string{all[0].SwapID, all[1].SwapID, all[2].SwapID})
}

func TestStore_ListNonTerminal(t *testing.T) {
	db := newDB(t)
	s := New()
	now := time.Now().UTC()

	statuses := map[string]model.SwapStatus{
		"a": model.SwapStatusPending,
		"b": model.SwapStatusFunded,
		"c": model.SwapStatusProcessing,
		"d": model.SwapStatusCompleted,
		"e": model.SwapStatusExpired,
		"f": model.SwapStatusRefunded,
		"g": model.SwapStatusFailed,
	}
	for id, status := range statuses {
		_, err := s.Upsert(db, swapRow(id, status, now))
		require.NoError(t, err)
	}

	rows, err := s.ListNonTerminal(db)
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SwapID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)

	counts, err := s.CountByStatus(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.SwapStatusFailed])
	assert.Len(t, counts, 7)
}
