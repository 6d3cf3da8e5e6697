package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/models"
)

type snapshotRepository struct {
	db *db.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(database *db.DB) SnapshotRepository {
	return &snapshotRepository{db: database}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snap *models.DailySnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	snap.Date = dateOnly(snap.Date)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "asset_class"}},
		DoUpdates: clause.AssignmentColumns([]string{"invested", "current_value"}),
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) GetByDate(ctx context.Context, userID string, date time.Time) ([]*models.DailySnapshot, error) {
	var snaps []*models.DailySnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dateOnly(date)).
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	return snaps, nil
}

func (r *snapshotRepository) ListRange(ctx context.Context, userID string, start, end time.Time) ([]*models.DailySnapshot, error) {
	var snaps []*models.DailySnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dateOnly(start), dateOnly(end)).
		Order("date ASC").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}
