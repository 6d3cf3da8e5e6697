package services

import (
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
)

type positionService struct {
	logger *zap.Logger
}

// NewPositionService creates a new position aggregator
func NewPositionService(logger *zap.Logger) PositionService {
	return &positionService{logger: logger}
}

// Aggregate folds the transaction list into per-ticker positions and then
// attributes dividends by ticker match. The fold is order-independent for
// final state; chronological replay is the snapshot builder's concern.
//
// Malformed records are skipped with a warning so one bad row can never
// corrupt the rest of the portfolio.
func (s *positionService) Aggregate(txs []*models.Transaction, divs []*models.Dividend) map[string]*models.Position {
	positions := make(map[string]*models.Position)

	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			s.logger.Warn("skipping malformed transaction",
				zap.String("id", tx.ID),
				zap.String("ticker", tx.Ticker),
				zap.Error(err))
			continue
		}
		pos, ok := positions[tx.Ticker]
		if !ok {
			pos = &models.Position{Ticker: tx.Ticker, AssetClass: tx.AssetClass}
			positions[tx.Ticker] = pos
		}
		pos.Apply(tx)
	}

	// Fully sold positions are dropped before dividend attribution so the
	// float residue of a closed position never resurfaces in totals.
	for ticker, pos := range positions {
		if pos.Closed() {
			delete(positions, ticker)
		}
	}

	for _, d := range divs {
		if err := d.Validate(); err != nil {
			s.logger.Warn("skipping malformed dividend",
				zap.String("id", d.ID),
				zap.String("ticker", d.Ticker),
				zap.Error(err))
			continue
		}
		if pos, ok := positions[d.Ticker]; ok {
			pos.DividendsReceived = pos.DividendsReceived.Add(d.Amount)
		}
	}

	return positions
}
