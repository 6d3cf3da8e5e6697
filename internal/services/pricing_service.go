package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/apperrors"
	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/repositories"
)

// PricingSession carries the per-session pricing state, most importantly
// the degraded flag: after a permanent auth failure from the live API,
// every later resolve in the session skips the live fetch and works from
// cache and history only. Sessions are independent so tests and users
// never share the flag.
type PricingSession struct {
	degraded atomic.Bool
}

// NewPricingSession creates a fresh, non-degraded session.
func NewPricingSession() *PricingSession {
	return &PricingSession{}
}

// Degraded reports whether the session has given up on the live API.
func (s *PricingSession) Degraded() bool {
	return s.degraded.Load()
}

// MarkDegraded permanently switches the session to cache-only pricing.
func (s *PricingSession) MarkDegraded() {
	s.degraded.Store(true)
}

type pricingService struct {
	provider QuoteProvider
	cache    QuoteCache
	history  repositories.PriceHistoryRepository
	accrual  AccrualService
	session  *PricingSession
	logger   *zap.Logger
}

// NewPricingService creates the pricing resolution layer
func NewPricingService(
	provider QuoteProvider,
	cache QuoteCache,
	history repositories.PriceHistoryRepository,
	accrual AccrualService,
	session *PricingSession,
	logger *zap.Logger,
) PricingService {
	return &pricingService{
		provider: provider,
		cache:    cache,
		history:  history,
		accrual:  accrual,
		session:  session,
		logger:   logger,
	}
}

// ResolveCurrentPrices produces one price per held ticker. Market tickers
// go cache -> live API -> stale cache -> price history -> zero; a ticker
// is never left out of the map, because downstream valuation must still
// render something. Fixed-income tickers are valued by accrual as of now.
func (s *pricingService) ResolveCurrentPrices(ctx context.Context, txs []*models.Transaction, positions map[string]*models.Position, indexes map[string]models.IndexSeries) map[string]decimal.Decimal {
	now := time.Now().UTC()
	prices := make(map[string]decimal.Decimal, len(positions))

	var market []string
	for ticker, pos := range positions {
		if models.IsFixedIncome(pos.AssetClass) {
			prices[ticker] = s.accruedUnitPrice(ticker, pos, txs, indexes, now)
			continue
		}
		if q, ok := s.cache.Get(ticker); ok {
			prices[ticker] = q.Price
			continue
		}
		market = append(market, ticker)
	}

	if len(market) > 0 && !s.session.Degraded() {
		quotes, err := s.provider.GetQuotes(ctx, market)
		if err != nil {
			if apperrors.IsUnauthorized(err) {
				s.session.MarkDegraded()
				s.logger.Warn("live quote API rejected credentials, pricing degraded for this session", zap.Error(err))
			} else {
				s.logger.Warn("live quote fetch failed, falling back to cache", zap.Error(err))
			}
		}
		for ticker, q := range quotes {
			s.cache.Put(ticker, q)
			prices[ticker] = q.Price
		}
	}

	for _, ticker := range market {
		if _, ok := prices[ticker]; ok {
			continue
		}
		if q, ok := s.cache.GetStale(ticker); ok {
			prices[ticker] = q.Price
			continue
		}
		if p, err := s.history.GetPriceOnOrBefore(ctx, ticker, now); err == nil && p != nil {
			prices[ticker] = p.Price
			continue
		}
		s.logger.Warn("no price available from any source, rendering zero", zap.String("ticker", ticker))
		prices[ticker] = decimal.Zero
	}

	return prices
}

// accruedUnitPrice folds the ticker's fixed-income contracts through the
// accrual calculator and spreads the net value over the held units, so
// quantity x price in the valuation layer lands on the accrued value.
func (s *pricingService) accruedUnitPrice(ticker string, pos *models.Position, txs []*models.Transaction, indexes map[string]models.IndexSeries, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	units := decimal.Zero
	for _, tx := range txs {
		if tx.Ticker != ticker || tx.Operation != models.OperationBuy || tx.Date.After(asOf) {
			continue
		}
		res := s.accrual.Accrue(tx, indexes, asOf)
		total = total.Add(res.NetValue)
		units = units.Add(tx.Quantity)
	}
	if !units.IsPositive() {
		return decimal.Zero
	}
	return total.Div(units)
}
