package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
)

func newSnapshotFixture(history *mockPriceHistory) SnapshotService {
	if history == nil {
		history = &mockPriceHistory{}
	}
	accrual := NewAccrualService(zap.NewNop())
	return NewSnapshotService(history, accrual, zap.NewNop())
}

func TestBuildSeriesRejectsInvertedRange(t *testing.T) {
	svc := newSnapshotFixture(nil)
	_, err := svc.BuildSeries(context.Background(), nil, nil, models.IntervalDaily,
		testDate(2024, 2, 1), testDate(2024, 1, 1))
	assert.Error(t, err)
}

func TestBuildSeriesDailyReplay(t *testing.T) {
	history := &mockPriceHistory{prices: map[string][]*models.AssetPrice{
		"PETR4": {
			{Ticker: "PETR4", Date: testDate(2024, 1, 10), Price: decimal.NewFromInt(10)},
			{Ticker: "PETR4", Date: testDate(2024, 1, 11), Price: decimal.NewFromInt(11)},
			{Ticker: "PETR4", Date: testDate(2024, 1, 12), Price: decimal.NewFromInt(12)},
		},
	}}
	svc := newSnapshotFixture(history)

	txs := []*models.Transaction{
		newMarketTx(t, models.OperationBuy, "PETR4", 100, 10, testDate(2024, 1, 10)),
		newMarketTx(t, models.OperationSell, "PETR4", 40, 12, testDate(2024, 1, 12)),
	}

	points, err := svc.BuildSeries(context.Background(), txs, nil, models.IntervalDaily,
		testDate(2024, 1, 10), testDate(2024, 1, 12))
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.True(t, points[0].Invested.Equal(decimal.NewFromInt(1000)))
	assert.True(t, points[0].Value.Equal(decimal.NewFromInt(1000)))

	assert.True(t, points[1].Invested.Equal(decimal.NewFromInt(1000)))
	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(1100)))

	// After the sell: 60 shares at cost 600, valued at 12.
	assert.True(t, points[2].Invested.Equal(decimal.NewFromInt(600)))
	assert.True(t, points[2].Value.Equal(decimal.NewFromInt(720)))
}

func TestBuildSeriesFinalPointMatchesAggregator(t *testing.T) {
	history := &mockPriceHistory{prices: map[string][]*models.AssetPrice{
		"PETR4": {{Ticker: "PETR4", Date: testDate(2024, 3, 1), Price: decimal.NewFromInt(12)}},
		"VALE3": {{Ticker: "VALE3", Date: testDate(2024, 3, 1), Price: decimal.NewFromInt(58)}},
	}}
	svc := newSnapshotFixture(history)

	txs := []*models.Transaction{
		newMarketTx(t, models.OperationBuy, "PETR4", 100, 10, testDate(2024, 1, 10)),
		newMarketTx(t, models.OperationSell, "PETR4", 40, 12, testDate(2024, 2, 10)),
		newMarketTx(t, models.OperationBuy, "VALE3", 50, 60, testDate(2024, 1, 20)),
	}

	points, err := svc.BuildSeries(context.Background(), txs, nil, models.IntervalMonthly,
		testDate(2024, 1, 1), testDate(2024, 3, 15))
	require.NoError(t, err)
	require.NotEmpty(t, points)

	final := points[len(points)-1]
	assert.Equal(t, testDate(2024, 3, 15), final.Date)

	// Replaying everything must land on the same invested total the
	// from-scratch aggregator produces.
	positions := NewPositionService(zap.NewNop()).Aggregate(txs, nil)
	invested := decimal.Zero
	for _, pos := range positions {
		invested = invested.Add(pos.CostBasisClamped())
	}
	assert.True(t, final.Invested.Equal(invested))
}

func TestBuildSeriesCarriesValueForwardWithoutPrices(t *testing.T) {
	history := &mockPriceHistory{prices: map[string][]*models.AssetPrice{
		"PETR4": {{Ticker: "PETR4", Date: testDate(2024, 1, 10), Price: decimal.NewFromInt(11)}},
	}}
	svc := newSnapshotFixture(history)

	txs := []*models.Transaction{
		newMarketTx(t, models.OperationBuy, "PETR4", 100, 10, testDate(2024, 1, 10)),
	}

	points, err := svc.BuildSeries(context.Background(), txs, nil, models.IntervalDaily,
		testDate(2024, 1, 10), testDate(2024, 1, 12))
	require.NoError(t, err)
	require.Len(t, points, 3)

	// GetPriceOnOrBefore keeps answering with the Jan 10 close, so later
	// checkpoints hold the same value instead of zero-filling.
	for _, p := range points {
		assert.True(t, p.Value.Equal(decimal.NewFromInt(1100)), p.Date.String())
	}
}

func TestBuildSeriesNeverPricedRendersAtCost(t *testing.T) {
	svc := newSnapshotFixture(nil)

	txs := []*models.Transaction{
		newMarketTx(t, models.OperationBuy, "XXXX11", 10, 100, testDate(2024, 1, 10)),
	}

	points, err := svc.BuildSeries(context.Background(), txs, nil, models.IntervalDaily,
		testDate(2024, 1, 10), testDate(2024, 1, 11))
	require.NoError(t, err)
	for _, p := range points {
		assert.True(t, p.Value.Equal(decimal.NewFromInt(1000)))
	}
}

func TestBuildSeriesFixedIncomeAccruesOverCheckpoints(t *testing.T) {
	svc := newSnapshotFixture(nil)

	txs := []*models.Transaction{
		newFixedIncomeTx(t, "CDB Banco X", models.ClassCDB, "100% do CDI", 1000, testDate(2024, 1, 1)),
	}
	indexes := cdiSeries(
		models.IndexPoint{Date: testDate(2024, 1, 10), Rate: decimal.NewFromInt(1)},
		models.IndexPoint{Date: testDate(2024, 1, 20), Rate: decimal.NewFromInt(1)},
	)

	points, err := svc.BuildSeries(context.Background(), txs, indexes, models.IntervalDaily,
		testDate(2024, 1, 5), testDate(2024, 1, 25))
	require.NoError(t, err)
	require.Len(t, points, 21)

	first := points[0]
	last := points[len(points)-1]
	assert.True(t, first.Value.Equal(decimal.NewFromInt(1000)))
	assert.True(t, last.Value.GreaterThan(first.Value))
}

func TestBuildSeriesMonthlyCheckpoints(t *testing.T) {
	checkpoints := buildCheckpoints(models.IntervalMonthly, testDate(2024, 1, 15), testDate(2024, 3, 20))
	require.Len(t, checkpoints, 3)
	assert.Equal(t, testDate(2024, 1, 31), checkpoints[0])
	assert.Equal(t, testDate(2024, 2, 29), checkpoints[1])
	assert.Equal(t, testDate(2024, 3, 20), checkpoints[2])
}
