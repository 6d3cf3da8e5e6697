package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualResult is the outcome of accruing a fixed-income contract up to
// a target date.
type AccrualResult struct {
	GrossValue  decimal.Decimal `json:"gross_value"`
	NetValue    decimal.Decimal `json:"net_value"`
	TaxWithheld decimal.Decimal `json:"tax_withheld"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	DaysHeld    int             `json:"days_held"`
}

// AssetValuation is the per-asset view of the portfolio.
type AssetValuation struct {
	Ticker           string          `json:"ticker"`
	AssetClass       string          `json:"asset_class"`
	Quantity         decimal.Decimal `json:"quantity"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	WeightedAvgPrice decimal.Decimal `json:"weighted_avg_price"`
	Price            decimal.Decimal `json:"price"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	CapitalGain      decimal.Decimal `json:"capital_gain"`
	Dividends        decimal.Decimal `json:"dividends"`
	TotalReturn      decimal.Decimal `json:"total_return"`
	ReturnPercent    decimal.Decimal `json:"return_percent"`
}

// PortfolioSummary aggregates the per-asset valuations. The totals are
// plain sums over ByAsset, computed in one pass so they cannot drift from
// the per-asset figures.
type PortfolioSummary struct {
	Invested      decimal.Decimal            `json:"invested"`
	CurrentValue  decimal.Decimal            `json:"current_value"`
	CapitalGain   decimal.Decimal            `json:"capital_gain"`
	Dividends     decimal.Decimal            `json:"dividends"`
	TotalReturn   decimal.Decimal            `json:"total_return"`
	ReturnPercent decimal.Decimal            `json:"return_percent"`
	ByAsset       map[string]*AssetValuation `json:"by_asset"`
	AsOf          time.Time                  `json:"as_of"`
}

// DayChange is the overnight variation of the portfolio, computed against
// yesterday's closes and yesterday's quantities.
type DayChange struct {
	ValueNow       decimal.Decimal `json:"value_now"`
	ValueYesterday decimal.Decimal `json:"value_yesterday"`
	Change         decimal.Decimal `json:"change"`
	ChangePercent  decimal.Decimal `json:"change_percent"`
}
