package skinlogrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skinguide/internal/domain/skinlog"
)

func TestMemoryRepositoryUpsertKeepsOneEntryPerDay(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, skinlog.Log{ID: "a", UserID: "u1", LoggedAt: "2024-07-01", Hydration: skinlog.IntPtr(2), CreatedAt: created})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, skinlog.Log{ID: "b", UserID: "u1", LoggedAt: "2024-07-01", Hydration: skinlog.IntPtr(4), CreatedAt: created.Add(time.Hour)})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, created, second.CreatedAt)

	logs, err := repo.ListSince(ctx, "u1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, 4, *logs[0].Hydration)
}

func TestMemoryRepositoryListSinceFiltersAndOrders(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for _, day := range []string{"2024-07-01", "2024-07-05", "2024-07-03", "2024-06-20"} {
		_, err := repo.Upsert(ctx, skinlog.Log{ID: day, UserID: "u1", LoggedAt: day})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, skinlog.Log{ID: "other", UserID: "u2", LoggedAt: "2024-07-04"})
	require.NoError(t, err)

	since := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	logs, err := repo.ListSince(ctx, "u1", since, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "2024-07-05", logs[0].LoggedAt)
	require.Equal(t, "2024-07-03", logs[1].LoggedAt)

	all, err := repo.ListSince(ctx, "u1", since, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryRepositoryRejectsMissingKeys(t *testing.T) {
	_, err := NewMemoryRepository().Upsert(context.Background(), skinlog.Log{UserID: "u1"})
	require.Error(t, err)
}
