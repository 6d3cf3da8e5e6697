package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/repositories"
)

type snapshotService struct {
	history repositories.PriceHistoryRepository
	accrual AccrualService
	logger  *zap.Logger
}

// NewSnapshotService creates a new time-series snapshot builder
func NewSnapshotService(history repositories.PriceHistoryRepository, accrual AccrualService, logger *zap.Logger) SnapshotService {
	return &snapshotService{history: history, accrual: accrual, logger: logger}
}

// BuildSeries replays the transaction history chronologically across
// calendar checkpoints and values the resulting holdings at each one.
// Replay, not point-sampling: cost basis at a checkpoint depends on every
// trade before it, so each point folds in all transactions up to its
// date.
//
// A checkpoint with no price for a ticker carries that ticker's previous
// value forward; there is no interpolation and no zero-fill.
func (s *snapshotService) BuildSeries(ctx context.Context, txs []*models.Transaction, indexes map[string]models.IndexSeries, interval string, start, end time.Time) ([]models.SnapshotPoint, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	ordered := make([]*models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	checkpoints := buildCheckpoints(interval, start, end)
	points := make([]models.SnapshotPoint, 0, len(checkpoints))

	positions := make(map[string]*models.Position)
	lastValue := make(map[string]decimal.Decimal)
	next := 0

	for _, checkpoint := range checkpoints {
		for next < len(ordered) && !ordered[next].Date.After(checkpoint) {
			tx := ordered[next]
			next++
			if err := tx.Validate(); err != nil {
				s.logger.Warn("skipping malformed transaction in replay",
					zap.String("id", tx.ID), zap.Error(err))
				continue
			}
			pos, ok := positions[tx.Ticker]
			if !ok {
				pos = &models.Position{Ticker: tx.Ticker, AssetClass: tx.AssetClass}
				positions[tx.Ticker] = pos
			}
			pos.Apply(tx)
		}

		invested := decimal.Zero
		value := decimal.Zero
		for ticker, pos := range positions {
			if pos.Closed() {
				continue
			}
			invested = invested.Add(pos.CostBasisClamped())
			tickerValue := s.valueAt(ctx, ticker, pos, ordered[:next], indexes, checkpoint, lastValue)
			lastValue[ticker] = tickerValue
			value = value.Add(tickerValue)
		}

		points = append(points, models.SnapshotPoint{
			Date:     checkpoint,
			Invested: invested,
			Value:    value,
		})
	}

	return points, nil
}

// valueAt prices one open position at a checkpoint: accrual for fixed
// income, nearest-prior historical close for market assets, carrying the
// previous checkpoint's value when no close exists.
func (s *snapshotService) valueAt(ctx context.Context, ticker string, pos *models.Position, applied []*models.Transaction, indexes map[string]models.IndexSeries, checkpoint time.Time, lastValue map[string]decimal.Decimal) decimal.Decimal {
	if models.IsFixedIncome(pos.AssetClass) {
		total := decimal.Zero
		units := decimal.Zero
		for _, tx := range applied {
			if tx.Ticker != ticker || tx.Operation != models.OperationBuy {
				continue
			}
			res := s.accrual.Accrue(tx, indexes, checkpoint)
			total = total.Add(res.NetValue)
			units = units.Add(tx.Quantity)
		}
		if !units.IsPositive() {
			return decimal.Zero
		}
		return pos.Quantity.Mul(total.Div(units))
	}

	price, err := s.history.GetPriceOnOrBefore(ctx, ticker, checkpoint)
	if err != nil {
		s.logger.Warn("price lookup failed at checkpoint, carrying value forward",
			zap.String("ticker", ticker),
			zap.Time("checkpoint", checkpoint),
			zap.Error(err))
	}
	if price == nil || err != nil {
		if prev, ok := lastValue[ticker]; ok {
			return prev
		}
		// Never priced at all: render flat at cost.
		return pos.CostBasisClamped()
	}
	return pos.Quantity.Mul(price.Price)
}

// buildCheckpoints walks day or month boundaries across the range. The
// sequence is finite and forward-only; the final point always lands on
// the range end.
func buildCheckpoints(interval string, start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var checkpoints []time.Time
	if interval == models.IntervalMonthly {
		// End of each month in range, closing with the range end itself.
		cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
		for cur.Before(end) {
			if !cur.Before(start) {
				checkpoints = append(checkpoints, cur)
			}
			cur = time.Date(cur.Year(), cur.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 2, -1)
		}
		checkpoints = append(checkpoints, end)
		return checkpoints
	}

	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		checkpoints = append(checkpoints, cur)
	}
	return checkpoints
}
