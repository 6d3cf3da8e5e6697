package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carteiralabs/carteira/internal/models"
)

func TestSnapshotUpsertReplacesSameDay(t *testing.T) {
	repo := NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()

	snap := &models.DailySnapshot{
		UserID:       "u1",
		Date:         testDate(2024, 3, 10),
		AssetClass:   models.SnapshotClassTotal,
		Invested:     decimal.NewFromInt(1000),
		CurrentValue: decimal.NewFromInt(1100),
	}
	require.NoError(t, repo.Upsert(ctx, snap))

	// A later pass on the same day overwrites, never duplicates.
	require.NoError(t, repo.Upsert(ctx, &models.DailySnapshot{
		UserID:       "u1",
		Date:         testDate(2024, 3, 10),
		AssetClass:   models.SnapshotClassTotal,
		Invested:     decimal.NewFromInt(1000),
		CurrentValue: decimal.NewFromInt(1150),
	}))

	got, err := repo.GetByDate(ctx, "u1", testDate(2024, 3, 10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CurrentValue.Equal(decimal.NewFromInt(1150)))
}

func TestSnapshotPerClassRowsCoexist(t *testing.T) {
	repo := NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()

	for _, class := range []string{models.SnapshotClassTotal, models.ClassStock, models.ClassCDB} {
		require.NoError(t, repo.Upsert(ctx, &models.DailySnapshot{
			UserID:       "u1",
			Date:         testDate(2024, 3, 10),
			AssetClass:   class,
			Invested:     decimal.NewFromInt(100),
			CurrentValue: decimal.NewFromInt(110),
		}))
	}

	got, err := repo.GetByDate(ctx, "u1", testDate(2024, 3, 10))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSnapshotListRange(t *testing.T) {
	repo := NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		require.NoError(t, repo.Upsert(ctx, &models.DailySnapshot{
			UserID:       "u1",
			Date:         testDate(2024, 3, day),
			AssetClass:   models.SnapshotClassTotal,
			Invested:     decimal.NewFromInt(100),
			CurrentValue: decimal.NewFromInt(int64(100 + day)),
		}))
	}

	got, err := repo.ListRange(ctx, "u1", testDate(2024, 3, 2), testDate(2024, 3, 4))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Before(got[2].Date))
}
