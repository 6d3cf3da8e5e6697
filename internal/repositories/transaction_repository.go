package repositories

import (
	"fmt"

	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/models"
)

type transactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := tx.PreSave(); err != nil {
		return err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction id is required")
	}

	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error) {
	query := r.db.WithContext(ctx)

	if filter != nil {
		if filter.UserID != "" {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.StartDate != nil {
			query = query.Where("date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			query = query.Where("date <= ?", *filter.EndDate)
		}
		if len(filter.Tickers) > 0 {
			query = query.Where("ticker IN ?", filter.Tickers)
		}
		if len(filter.Classes) > 0 {
			query = query.Where("asset_class IN ?", filter.Classes)
		}
		if len(filter.Operations) > 0 {
			query = query.Where("operation IN ?", filter.Operations)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var txs []*models.Transaction
	if err := query.Order("date ASC, created_at ASC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return r.List(ctx, &models.TransactionFilter{UserID: userID})
}

// Update overwrites the stored row with tx. Transactions are immutable
// log entries, so an edit is a full replacement, never a patch.
func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	if err := tx.PreSave(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", tx.ID).Select("*").Omit("id", "created_at").Updates(tx)
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no transaction found with id %s", tx.ID)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no transaction found with id %s", id)
	}
	return nil
}
