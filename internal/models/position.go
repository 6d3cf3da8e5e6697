package models

import "github.com/shopspring/decimal"

// ResidualQuantity is the threshold below which a position is treated as
// closed. Fully sold positions can be left with float-drift residue by
// fractional quantities, so anything at or under this is pruned.
var ResidualQuantity = decimal.NewFromFloat(1e-8)

// Position is the derived state of one asset after folding its
// transactions. Never persisted, always recomputed.
type Position struct {
	Ticker     string          `json:"ticker"`
	AssetClass string          `json:"asset_class"`
	Quantity   decimal.Decimal `json:"quantity"`

	// CostBasis tracks the raw accumulator, which can drift negative under
	// heavy sell/rebuy cycles because sells are costed at the cumulative
	// purchased average. Display paths must clamp through CostBasisClamped.
	CostBasis decimal.Decimal `json:"cost_basis"`

	// Cumulative buys, kept so the average cost at sale is stable across
	// prior sells.
	PurchasedQty   decimal.Decimal `json:"purchased_qty"`
	PurchasedValue decimal.Decimal `json:"purchased_value"`

	DividendsReceived decimal.Decimal `json:"dividends_received"`
}

// ApplyBuy folds a buy of qty units costing total into the position.
func (p *Position) ApplyBuy(qty, total decimal.Decimal) {
	p.Quantity = p.Quantity.Add(qty)
	p.CostBasis = p.CostBasis.Add(total)
	p.PurchasedQty = p.PurchasedQty.Add(qty)
	p.PurchasedValue = p.PurchasedValue.Add(total)
}

// ApplySell folds a sell of qty units into the position. The cost removed
// is qty times the average price over all purchases to date, not the
// average of the remaining lot.
func (p *Position) ApplySell(qty decimal.Decimal) {
	avgCost := decimal.Zero
	if p.PurchasedQty.IsPositive() {
		avgCost = p.PurchasedValue.Div(p.PurchasedQty)
	}
	p.CostBasis = p.CostBasis.Sub(qty.Mul(avgCost))
	p.Quantity = p.Quantity.Sub(qty)
}

// Apply folds a single transaction into the position.
func (p *Position) Apply(t *Transaction) {
	switch t.Operation {
	case OperationBuy:
		p.ApplyBuy(t.Quantity, t.TotalValue)
	case OperationSell:
		p.ApplySell(t.Quantity)
	}
}

// Closed reports whether the position has been fully sold, within the
// residual-quantity tolerance.
func (p *Position) Closed() bool {
	return p.Quantity.Cmp(ResidualQuantity) <= 0
}

// WeightedAvgPrice returns cost basis per remaining unit, zero for a
// closed position.
func (p *Position) WeightedAvgPrice() decimal.Decimal {
	if !p.Quantity.IsPositive() {
		return decimal.Zero
	}
	return p.CostBasisClamped().Div(p.Quantity)
}

// CostBasisClamped returns the cost basis floored at zero for display
// and valuation.
func (p *Position) CostBasisClamped() decimal.Decimal {
	if p.CostBasis.IsNegative() {
		return decimal.Zero
	}
	return p.CostBasis
}
