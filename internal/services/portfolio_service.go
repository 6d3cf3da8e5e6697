package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/repositories"
)

type portfolioService struct {
	txRepo    repositories.TransactionRepository
	divRepo   repositories.DividendRepository
	snapRepo  repositories.SnapshotRepository
	history   repositories.PriceHistoryRepository
	positions PositionService
	pricing   PricingService
	valuation ValuationService
	snapshots SnapshotService
	indexes   IndexProvider
	refresh   *RefreshCoordinator
	logger    *zap.Logger
}

// NewPortfolioService wires the full recomputation pipeline behind one
// entry point.
func NewPortfolioService(
	txRepo repositories.TransactionRepository,
	divRepo repositories.DividendRepository,
	snapRepo repositories.SnapshotRepository,
	history repositories.PriceHistoryRepository,
	positions PositionService,
	pricing PricingService,
	valuation ValuationService,
	snapshots SnapshotService,
	indexes IndexProvider,
	logger *zap.Logger,
) PortfolioService {
	return &portfolioService{
		txRepo:    txRepo,
		divRepo:   divRepo,
		snapRepo:  snapRepo,
		history:   history,
		positions: positions,
		pricing:   pricing,
		valuation: valuation,
		snapshots: snapshots,
		indexes:   indexes,
		refresh:   &RefreshCoordinator{},
		logger:    logger,
	}
}

// Summary recomputes the full portfolio view from scratch. Each call is
// an independent, idempotent pass over fresh local maps; only the newest
// generation gets to persist its daily snapshot.
func (s *portfolioService) Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	token := s.refresh.Begin()

	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	divs, err := s.divRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividends: %w", err)
	}

	now := time.Now().UTC()
	indexes := s.fetchIndexSeries(ctx, txs, now)

	positions := s.positions.Aggregate(txs, divs)
	prices := s.pricing.ResolveCurrentPrices(ctx, txs, positions, indexes)
	summary := s.valuation.Value(positions, prices, now)

	if s.refresh.Commit(token) {
		s.persistDailySnapshot(ctx, userID, summary, now)
	} else {
		s.logger.Debug("discarding stale valuation pass", zap.Uint64("generation", token))
	}
	return summary, nil
}

// Evolution replays the user's history into a chart-ready series.
func (s *portfolioService) Evolution(ctx context.Context, userID, interval string, start, end time.Time) ([]models.SnapshotPoint, error) {
	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return []models.SnapshotPoint{}, nil
	}
	if start.IsZero() {
		start = txs[0].Date
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	indexes := s.fetchIndexSeries(ctx, txs, end)
	return s.snapshots.BuildSeries(ctx, txs, indexes, interval, start, end)
}

// DayOverDay values current holdings against yesterday's closes, backing
// out today's transactions from the overnight quantity.
func (s *portfolioService) DayOverDay(ctx context.Context, userID string) (*models.DayChange, error) {
	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	divs, err := s.divRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividends: %w", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	indexes := s.fetchIndexSeries(ctx, txs, now)
	positions := s.positions.Aggregate(txs, divs)
	pricesNow := s.pricing.ResolveCurrentPrices(ctx, txs, positions, indexes)

	// Tickers fully sold today are pruned from positions but still need a
	// close for yesterday's side of the delta.
	tickers := make(map[string]struct{}, len(positions))
	for ticker := range positions {
		tickers[ticker] = struct{}{}
	}
	var todays []*models.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(today) {
			todays = append(todays, tx)
			tickers[tx.Ticker] = struct{}{}
		}
	}

	pricesYesterday := make(map[string]decimal.Decimal, len(tickers))
	for ticker := range tickers {
		if p, err := s.history.GetPriceOnOrBefore(ctx, ticker, yesterday); err == nil && p != nil {
			pricesYesterday[ticker] = p.Price
		}
	}

	return s.valuation.DayChange(positions, todays, pricesNow, pricesYesterday), nil
}

// fetchIndexSeries fans out one request per macro index some contract
// actually accrues against, each from the earliest contract date needing
// it. A failed series degrades to empty (contracts against it accrue
// nothing) rather than failing the whole pass.
func (s *portfolioService) fetchIndexSeries(ctx context.Context, txs []*models.Transaction, until time.Time) map[string]models.IndexSeries {
	needed := requiredIndexes(txs)
	out := make(map[string]models.IndexSeries, len(needed))
	if len(needed) == 0 {
		return out
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, start := range needed {
		wg.Add(1)
		go func(name string, start time.Time) {
			defer wg.Done()
			series, err := s.indexes.GetSeries(ctx, name, start, until)
			if err != nil {
				s.logger.Warn("index series fetch failed, accrual degraded",
					zap.String("index", name), zap.Error(err))
				return
			}
			mu.Lock()
			out[name] = series
			mu.Unlock()
		}(name, start)
	}
	wg.Wait()
	return out
}

// requiredIndexes maps each reference index the contracts accrue against
// to the earliest contract date needing it. Pre-fixed contracts need no
// index at all.
func requiredIndexes(txs []*models.Transaction) map[string]time.Time {
	needed := make(map[string]time.Time)
	for _, tx := range txs {
		if !tx.FixedIncome() || tx.RateKind == nil {
			continue
		}
		var name string
		switch models.RateKind(*tx.RateKind) {
		case models.RatePostFixed:
			name = indexName(tx, models.IndexCDI)
		case models.RateHybrid:
			name = indexName(tx, models.IndexIPCA)
		default:
			continue
		}
		if first, ok := needed[name]; !ok || tx.Date.Before(first) {
			needed[name] = tx.Date
		}
	}
	return needed
}

func (s *portfolioService) persistDailySnapshot(ctx context.Context, userID string, summary *models.PortfolioSummary, now time.Time) {
	byClass := make(map[string]*models.DailySnapshot)
	for _, av := range summary.ByAsset {
		snap, ok := byClass[av.AssetClass]
		if !ok {
			snap = &models.DailySnapshot{UserID: userID, Date: now, AssetClass: av.AssetClass}
			byClass[av.AssetClass] = snap
		}
		snap.Invested = snap.Invested.Add(av.CostBasis)
		snap.CurrentValue = snap.CurrentValue.Add(av.CurrentValue)
	}
	byClass[models.SnapshotClassTotal] = &models.DailySnapshot{
		UserID:       userID,
		Date:         now,
		AssetClass:   models.SnapshotClassTotal,
		Invested:     summary.Invested,
		CurrentValue: summary.CurrentValue,
	}

	for _, snap := range byClass {
		if err := s.snapRepo.Upsert(ctx, snap); err != nil {
			s.logger.Warn("failed to persist daily snapshot",
				zap.String("class", snap.AssetClass), zap.Error(err))
		}
	}
}
