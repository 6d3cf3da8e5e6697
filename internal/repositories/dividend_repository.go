package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/models"
)

type dividendRepository struct {
	db *db.DB
}

// NewDividendRepository creates a new dividend repository
func NewDividendRepository(database *db.DB) DividendRepository {
	return &dividendRepository{db: database}
}

func (r *dividendRepository) Create(ctx context.Context, d *models.Dividend) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create dividend: %w", err)
	}
	return nil
}

func (r *dividendRepository) ListByUser(ctx context.Context, userID string) ([]*models.Dividend, error) {
	var divs []*models.Dividend
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("payment_date ASC, created_at ASC").
		Find(&divs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dividends: %w", err)
	}
	return divs, nil
}

func (r *dividendRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Dividend{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete dividend: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no dividend found with id %s", id)
	}
	return nil
}
