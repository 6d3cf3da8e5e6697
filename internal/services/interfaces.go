package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carteiralabs/carteira/internal/models"
)

// QuoteProvider is the live market-data capability: current quotes for a
// ticker set and historical daily closes for one ticker.
type QuoteProvider interface {
	GetQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error)
	GetHistoricalDaily(ctx context.Context, ticker string, start, end time.Time) ([]*models.AssetPrice, error)
}

// IndexProvider fetches macro reference index series (CDI, IPCA).
type IndexProvider interface {
	GetSeries(ctx context.Context, index string, start, end time.Time) (models.IndexSeries, error)
}

// QuoteCache holds recently fetched quotes. Get honors the freshness
// window; GetStale returns the last known quote regardless of age.
type QuoteCache interface {
	Get(ticker string) (*models.Quote, bool)
	GetStale(ticker string) (*models.Quote, bool)
	Put(ticker string, q *models.Quote)
}

// PositionService folds transaction and dividend records into per-asset
// positions.
type PositionService interface {
	Aggregate(txs []*models.Transaction, divs []*models.Dividend) map[string]*models.Position
}

// AccrualService computes fixed-income curve values.
type AccrualService interface {
	Accrue(tx *models.Transaction, indexes map[string]models.IndexSeries, asOf time.Time) *models.AccrualResult
}

// PricingService resolves a unified current-price map covering market
// and fixed-income tickers.
type PricingService interface {
	ResolveCurrentPrices(ctx context.Context, txs []*models.Transaction, positions map[string]*models.Position, indexes map[string]models.IndexSeries) map[string]decimal.Decimal
}

// ValuationService combines positions, prices and dividends into
// portfolio returns.
type ValuationService interface {
	Value(positions map[string]*models.Position, prices map[string]decimal.Decimal, asOf time.Time) *models.PortfolioSummary
	DayChange(positions map[string]*models.Position, todays []*models.Transaction, pricesNow, pricesYesterday map[string]decimal.Decimal) *models.DayChange
}

// SnapshotService replays history into valuation series.
type SnapshotService interface {
	BuildSeries(ctx context.Context, txs []*models.Transaction, indexes map[string]models.IndexSeries, interval string, start, end time.Time) ([]models.SnapshotPoint, error)
}

// PortfolioService is the single recomputation entry point consumed by
// the HTTP layer: it loads the user's records, fetches external series,
// and produces the derived views.
type PortfolioService interface {
	Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
	Evolution(ctx context.Context, userID, interval string, start, end time.Time) ([]models.SnapshotPoint, error)
	DayOverDay(ctx context.Context, userID string) (*models.DayChange, error)
}
