package services

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
)

type valuationService struct {
	logger *zap.Logger
}

// NewValuationService creates a new valuation and return calculator
func NewValuationService(logger *zap.Logger) ValuationService {
	return &valuationService{logger: logger}
}

// Value combines positions and resolved prices into per-asset and
// aggregate returns. Totals are accumulated in the same pass that builds
// the per-asset rows, so the aggregate always equals the sum of its
// parts.
func (s *valuationService) Value(positions map[string]*models.Position, prices map[string]decimal.Decimal, asOf time.Time) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{
		ByAsset: make(map[string]*models.AssetValuation, len(positions)),
		AsOf:    asOf,
	}

	for ticker, pos := range positions {
		costBasis := pos.CostBasisClamped()

		price, havePrice := prices[ticker]
		currentValue := pos.Quantity.Mul(price)
		if !havePrice {
			// No pricing source at all: render the asset flat at cost so
			// the aggregate stays stable instead of showing a phantom loss.
			currentValue = costBasis
		}

		capitalGain := currentValue.Sub(costBasis)
		totalReturn := capitalGain.Add(pos.DividendsReceived)
		returnPercent := decimal.Zero
		if costBasis.IsPositive() {
			returnPercent = totalReturn.Div(costBasis).Mul(decimal.NewFromInt(100))
		}

		summary.ByAsset[ticker] = &models.AssetValuation{
			Ticker:           ticker,
			AssetClass:       pos.AssetClass,
			Quantity:         pos.Quantity,
			CostBasis:        costBasis,
			WeightedAvgPrice: pos.WeightedAvgPrice(),
			Price:            price,
			CurrentValue:     currentValue,
			CapitalGain:      capitalGain,
			Dividends:        pos.DividendsReceived,
			TotalReturn:      totalReturn,
			ReturnPercent:    returnPercent,
		}

		summary.Invested = summary.Invested.Add(costBasis)
		summary.CurrentValue = summary.CurrentValue.Add(currentValue)
		summary.CapitalGain = summary.CapitalGain.Add(capitalGain)
		summary.Dividends = summary.Dividends.Add(pos.DividendsReceived)
		summary.TotalReturn = summary.TotalReturn.Add(totalReturn)
	}

	if summary.Invested.IsPositive() {
		summary.ReturnPercent = summary.TotalReturn.Div(summary.Invested).Mul(decimal.NewFromInt(100))
	}
	return summary
}

// DayChange computes the overnight variation. Today's transactions are
// backed out of the quantity before valuing at yesterday's close: a buy
// executed this morning is not an overnight gain on shares that did not
// exist yesterday.
//
// The walk covers the union of surviving positions and tickers traded
// today: a position fully sold this morning is already pruned from the
// aggregate, but its shares still stood at yesterday's close.
func (s *valuationService) DayChange(positions map[string]*models.Position, todays []*models.Transaction, pricesNow, pricesYesterday map[string]decimal.Decimal) *models.DayChange {
	boughtToday := make(map[string]decimal.Decimal)
	soldToday := make(map[string]decimal.Decimal)
	tickers := make(map[string]struct{}, len(positions))
	for _, tx := range todays {
		switch tx.Operation {
		case models.OperationBuy:
			boughtToday[tx.Ticker] = boughtToday[tx.Ticker].Add(tx.Quantity)
		case models.OperationSell:
			soldToday[tx.Ticker] = soldToday[tx.Ticker].Add(tx.Quantity)
		}
		tickers[tx.Ticker] = struct{}{}
	}
	for ticker := range positions {
		tickers[ticker] = struct{}{}
	}

	change := &models.DayChange{}
	for ticker := range tickers {
		qtyNow := decimal.Zero
		if pos, ok := positions[ticker]; ok {
			qtyNow = pos.Quantity
		}

		priceNow, havePriceNow := pricesNow[ticker]
		if havePriceNow && qtyNow.IsPositive() {
			change.ValueNow = change.ValueNow.Add(qtyNow.Mul(priceNow))
		}

		qtyYesterday := qtyNow.Sub(boughtToday[ticker]).Add(soldToday[ticker])
		if !qtyYesterday.IsPositive() {
			continue
		}
		priceYesterday, ok := pricesYesterday[ticker]
		if !ok {
			if !havePriceNow {
				continue
			}
			priceYesterday = priceNow
		}
		change.ValueYesterday = change.ValueYesterday.Add(qtyYesterday.Mul(priceYesterday))
	}

	change.Change = change.ValueNow.Sub(change.ValueYesterday)
	if change.ValueYesterday.IsPositive() {
		change.ChangePercent = change.Change.Div(change.ValueYesterday).Mul(decimal.NewFromInt(100))
	}
	return change
}
