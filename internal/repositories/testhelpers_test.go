package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Connect(&db.Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.AutoMigrate(
		&models.Transaction{},
		&models.Dividend{},
		&models.AssetPrice{},
		&models.DailySnapshot{},
	))
	return database
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buyTx(ticker string, qty, price float64, date time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:     "u1",
		Ticker:     ticker,
		AssetClass: models.ClassStock,
		Operation:  models.OperationBuy,
		Date:       date,
		Quantity:   decimal.NewFromFloat(qty),
		UnitPrice:  decimal.NewFromFloat(price),
	}
}
