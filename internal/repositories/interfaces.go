package repositories

import (
	"context"
	"time"

	"github.com/carteiralabs/carteira/internal/models"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

// DividendRepository defines the interface for dividend data operations
type DividendRepository interface {
	Create(ctx context.Context, d *models.Dividend) error
	ListByUser(ctx context.Context, userID string) ([]*models.Dividend, error)
	Delete(ctx context.Context, id string) error
}

// PriceHistoryRepository is the persistent daily close store used for
// snapshot replays and as the last-resort pricing fallback.
type PriceHistoryRepository interface {
	SavePrices(ctx context.Context, prices []*models.AssetPrice) error
	GetPriceOnOrBefore(ctx context.Context, ticker string, date time.Time) (*models.AssetPrice, error)
	GetRange(ctx context.Context, ticker string, start, end time.Time) ([]*models.AssetPrice, error)
}

// SnapshotRepository persists end-of-day valuation checkpoints, one row
// per user, day and asset class.
type SnapshotRepository interface {
	Upsert(ctx context.Context, snap *models.DailySnapshot) error
	GetByDate(ctx context.Context, userID string, date time.Time) ([]*models.DailySnapshot, error)
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]*models.DailySnapshot, error)
}
