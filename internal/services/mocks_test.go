package services

import (
	"context"
	"time"

	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/repositories"
)

type mockQuoteProvider struct {
	quotes map[string]*models.Quote
	err    error
	calls  int
}

func (m *mockQuoteProvider) GetQuotes(_ context.Context, tickers []string) (map[string]*models.Quote, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]*models.Quote)
	for _, t := range tickers {
		if q, ok := m.quotes[t]; ok {
			out[t] = q
		}
	}
	return out, nil
}

func (m *mockQuoteProvider) GetHistoricalDaily(_ context.Context, _ string, _, _ time.Time) ([]*models.AssetPrice, error) {
	return nil, nil
}

var _ QuoteProvider = (*mockQuoteProvider)(nil)

type mockIndexProvider struct {
	series map[string]models.IndexSeries
	err    error
}

func (m *mockIndexProvider) GetSeries(_ context.Context, index string, _, _ time.Time) (models.IndexSeries, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.series[index], nil
}

var _ IndexProvider = (*mockIndexProvider)(nil)

// mockPriceHistory keys prices by ticker and returns the newest entry at
// or before the requested date, like the real repository.
type mockPriceHistory struct {
	prices map[string][]*models.AssetPrice
	saved  []*models.AssetPrice
}

func (m *mockPriceHistory) SavePrices(_ context.Context, prices []*models.AssetPrice) error {
	m.saved = append(m.saved, prices...)
	return nil
}

func (m *mockPriceHistory) GetPriceOnOrBefore(_ context.Context, ticker string, date time.Time) (*models.AssetPrice, error) {
	var best *models.AssetPrice
	for _, p := range m.prices[ticker] {
		if p.Date.After(date) {
			continue
		}
		if best == nil || p.Date.After(best.Date) {
			best = p
		}
	}
	return best, nil
}

func (m *mockPriceHistory) GetRange(_ context.Context, ticker string, start, end time.Time) ([]*models.AssetPrice, error) {
	var out []*models.AssetPrice
	for _, p := range m.prices[ticker] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

var _ repositories.PriceHistoryRepository = (*mockPriceHistory)(nil)
