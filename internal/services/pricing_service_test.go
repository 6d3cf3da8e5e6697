package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/apperrors"
	"github.com/carteiralabs/carteira/internal/models"
)

func quote(ticker string, price float64) *models.Quote {
	return &models.Quote{
		Ticker:    ticker,
		Price:     decimal.NewFromFloat(price),
		Timestamp: time.Now().UTC(),
	}
}

func newPricingFixture(provider *mockQuoteProvider, history *mockPriceHistory) (PricingService, QuoteCache, *PricingSession) {
	if history == nil {
		history = &mockPriceHistory{}
	}
	cache := NewQuoteCache()
	session := NewPricingSession()
	accrual := NewAccrualService(zap.NewNop())
	svc := NewPricingService(provider, cache, history, accrual, session, zap.NewNop())
	return svc, cache, session
}

func marketPositions(t *testing.T, ticker string) ([]*models.Transaction, map[string]*models.Position) {
	t.Helper()
	txs := []*models.Transaction{
		newMarketTx(t, models.OperationBuy, ticker, 10, 10, testDate(2024, 1, 10)),
	}
	positions := NewPositionService(zap.NewNop()).Aggregate(txs, nil)
	require.Len(t, positions, 1)
	return txs, positions
}

func TestResolveCurrentPricesFreshCacheSkipsProvider(t *testing.T) {
	provider := &mockQuoteProvider{quotes: map[string]*models.Quote{"PETR4": quote("PETR4", 42)}}
	svc, cache, _ := newPricingFixture(provider, nil)
	txs, positions := marketPositions(t, "PETR4")

	cache.Put("PETR4", quote("PETR4", 40))

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.True(t, prices["PETR4"].Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 0, provider.calls)
}

func TestResolveCurrentPricesFetchesAndCaches(t *testing.T) {
	provider := &mockQuoteProvider{quotes: map[string]*models.Quote{"PETR4": quote("PETR4", 42)}}
	svc, _, _ := newPricingFixture(provider, nil)
	txs, positions := marketPositions(t, "PETR4")

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.True(t, prices["PETR4"].Equal(decimal.NewFromInt(42)))
	assert.Equal(t, 1, provider.calls)

	// Second resolve inside the freshness window is served from cache.
	prices = svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.True(t, prices["PETR4"].Equal(decimal.NewFromInt(42)))
	assert.Equal(t, 1, provider.calls)
}

func TestResolveCurrentPricesDegradedSessionIsSticky(t *testing.T) {
	provider := &mockQuoteProvider{err: fmt.Errorf("status 401: %w", apperrors.ErrUnauthorized)}
	history := &mockPriceHistory{prices: map[string][]*models.AssetPrice{
		"PETR4": {{Ticker: "PETR4", Date: testDate(2024, 2, 1), Price: decimal.NewFromInt(38)}},
	}}
	svc, _, session := newPricingFixture(provider, history)
	txs, positions := marketPositions(t, "PETR4")

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.True(t, session.Degraded())
	assert.Equal(t, 1, provider.calls)
	// Falls through to the persisted daily close.
	assert.True(t, prices["PETR4"].Equal(decimal.NewFromInt(38)))

	// Degraded is permanent for the session: no more live calls.
	svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.Equal(t, 1, provider.calls)
}

func TestResolveCurrentPricesTransientErrorDoesNotDegrade(t *testing.T) {
	provider := &mockQuoteProvider{err: fmt.Errorf("connection reset")}
	svc, _, session := newPricingFixture(provider, nil)
	txs, positions := marketPositions(t, "PETR4")

	svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.False(t, session.Degraded())

	svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.Equal(t, 2, provider.calls)
}

func TestResolveCurrentPricesStaleCacheBeatsHistory(t *testing.T) {
	provider := &mockQuoteProvider{err: fmt.Errorf("status 401: %w", apperrors.ErrUnauthorized)}
	history := &mockPriceHistory{prices: map[string][]*models.AssetPrice{
		"PETR4": {{Ticker: "PETR4", Date: testDate(2024, 2, 1), Price: decimal.NewFromInt(38)}},
	}}
	svc, cache, session := newPricingFixture(provider, history)
	session.MarkDegraded()
	txs, positions := marketPositions(t, "PETR4")

	// Seed only the never-expiring tier, as if the fresh entry had aged out.
	cache.(*quoteCache).stale.Set("PETR4", quote("PETR4", 41), 0)

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)
	assert.True(t, prices["PETR4"].Equal(decimal.NewFromInt(41)))
	assert.Equal(t, 0, provider.calls)
}

func TestResolveCurrentPricesZeroWhenNoSource(t *testing.T) {
	provider := &mockQuoteProvider{err: fmt.Errorf("connection reset")}
	svc, _, _ := newPricingFixture(provider, nil)
	txs, positions := marketPositions(t, "XXXX11")

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, nil)

	// The ticker is still keyed so valuation can render it.
	price, ok := prices["XXXX11"]
	require.True(t, ok)
	assert.True(t, price.IsZero())
}

func TestResolveCurrentPricesFixedIncomeAccrues(t *testing.T) {
	provider := &mockQuoteProvider{}
	svc, _, _ := newPricingFixture(provider, nil)

	txs := []*models.Transaction{
		newFixedIncomeTx(t, "CDB Banco X", models.ClassCDB, "100% do CDI", 1000, testDate(2024, 1, 1)),
	}
	positions := NewPositionService(zap.NewNop()).Aggregate(txs, nil)
	indexes := cdiSeries(
		models.IndexPoint{Date: testDate(2024, 1, 10), Rate: decimal.NewFromInt(1)},
		models.IndexPoint{Date: testDate(2024, 1, 20), Rate: decimal.NewFromInt(1)},
	)

	prices := svc.ResolveCurrentPrices(context.Background(), txs, positions, indexes)

	// Accrued net value per unit; no live call for fixed income.
	assert.Equal(t, 0, provider.calls)
	price := prices["CDB Banco X"]
	assert.True(t, price.GreaterThan(decimal.NewFromInt(1000)), price.String())

	value := positions["CDB Banco X"].Quantity.Mul(price)
	assert.True(t, value.Equal(price))
}
