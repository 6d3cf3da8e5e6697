package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketTx(op string, qty, price, fees float64) *Transaction {
	return &Transaction{
		UserID:     "u1",
		Ticker:     "PETR4",
		AssetClass: ClassStock,
		Operation:  op,
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Quantity:   decimal.NewFromFloat(qty),
		UnitPrice:  decimal.NewFromFloat(price),
		Fees:       decimal.NewFromFloat(fees),
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := marketTx(OperationBuy, 10, 5, 0)
	require.NoError(t, valid.Validate())

	missing := marketTx(OperationBuy, 10, 5, 0)
	missing.UserID = ""
	assert.Error(t, missing.Validate())

	badOp := marketTx("transfer", 10, 5, 0)
	assert.Error(t, badOp.Validate())

	zeroQty := marketTx(OperationBuy, 0, 5, 0)
	assert.Error(t, zeroQty.Validate())

	negFees := marketTx(OperationBuy, 10, 5, -1)
	assert.Error(t, negFees.Validate())
}

func TestTransactionValidateFixedIncome(t *testing.T) {
	rate := "110% do CDI"
	tx := &Transaction{
		UserID:         "u1",
		Ticker:         "CDB Banco X 2027",
		AssetClass:     ClassCDB,
		Operation:      OperationBuy,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Principal:      decimal.NewFromInt(1000),
		ContractedRate: &rate,
	}
	require.NoError(t, tx.Validate())

	noPrincipal := *tx
	noPrincipal.Principal = decimal.Zero
	assert.Error(t, noPrincipal.Validate())

	noRate := *tx
	noRate.ContractedRate = nil
	assert.Error(t, noRate.Validate())
}

func TestCalculateDerivedFieldsMarket(t *testing.T) {
	tx := marketTx(OperationBuy, 10, 5, 1)
	require.NoError(t, tx.CalculateDerivedFields())
	assert.True(t, tx.TotalValue.Equal(decimal.NewFromInt(51)))
}

func TestCalculateDerivedFieldsFixedIncome(t *testing.T) {
	rate := "IPCA + 6,5%"
	tx := &Transaction{
		UserID:         "u1",
		Ticker:         "Tesouro IPCA+ 2029",
		AssetClass:     ClassTesouro,
		Operation:      OperationBuy,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Principal:      decimal.NewFromInt(5000),
		ContractedRate: &rate,
	}
	require.NoError(t, tx.CalculateDerivedFields())

	// A contract is one unit whose cost is the invested principal.
	assert.True(t, tx.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, tx.UnitPrice.Equal(decimal.NewFromInt(5000)))
	assert.True(t, tx.TotalValue.Equal(decimal.NewFromInt(5000)))

	require.NotNil(t, tx.RateKind)
	assert.Equal(t, string(RateHybrid), *tx.RateKind)
	require.NotNil(t, tx.RateIndex)
	assert.Equal(t, IndexIPCA, *tx.RateIndex)
	assert.True(t, tx.FixedSpread.Equal(decimal.NewFromFloat(0.065)))
}

func TestCalculateDerivedFieldsRejectsBadRate(t *testing.T) {
	rate := "whatever"
	tx := &Transaction{
		UserID:         "u1",
		Ticker:         "CDB Banco X 2027",
		AssetClass:     ClassCDB,
		Operation:      OperationBuy,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Principal:      decimal.NewFromInt(1000),
		ContractedRate: &rate,
	}
	assert.Error(t, tx.CalculateDerivedFields())
}
