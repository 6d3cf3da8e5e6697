package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/models"
)

type priceHistoryRepository struct {
	db *db.DB
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(database *db.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: database}
}

func (r *priceHistoryRepository) SavePrices(ctx context.Context, prices []*models.AssetPrice) error {
	if len(prices) == 0 {
		return nil
	}
	for _, p := range prices {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.Date = dateOnly(p.Date)
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "source"}),
	}).Create(prices).Error
	if err != nil {
		return fmt.Errorf("failed to save prices: %w", err)
	}
	return nil
}

// GetPriceOnOrBefore returns the most recent close at or before date, or
// nil when the ticker has no history that far back.
func (r *priceHistoryRepository) GetPriceOnOrBefore(ctx context.Context, ticker string, date time.Time) (*models.AssetPrice, error) {
	var price models.AssetPrice
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date <= ?", ticker, dateOnly(date)).
		Order("date DESC").
		First(&price).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return &price, nil
}

func (r *priceHistoryRepository) GetRange(ctx context.Context, ticker string, start, end time.Time) ([]*models.AssetPrice, error) {
	var prices []*models.AssetPrice
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date >= ? AND date <= ?", ticker, dateOnly(start), dateOnly(end)).
		Order("date ASC").
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get price range: %w", err)
	}
	return prices, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
