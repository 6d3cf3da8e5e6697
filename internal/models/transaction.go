package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Asset classes tracked by the portfolio.
const (
	ClassStock  = "stock"
	ClassFII    = "fii"
	ClassETF    = "etf"
	ClassCrypto = "crypto"

	// Fixed-income subtypes
	ClassCDB     = "cdb"
	ClassLCI     = "lci"
	ClassLCA     = "lca"
	ClassTesouro = "tesouro"
)

// Transaction operations.
const (
	OperationBuy  = "buy"
	OperationSell = "sell"
)

// Transaction represents a single buy or sell recorded by the user.
// Records are immutable log entries: edits overwrite the whole row and
// derived positions are always recomputed from scratch.
type Transaction struct {
	ID         string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	UserID     string    `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	Ticker     string    `json:"ticker" gorm:"column:ticker;type:varchar(50);not null;index"`
	AssetClass string    `json:"asset_class" gorm:"column:asset_class;type:varchar(20);not null;index"`
	Operation  string    `json:"operation" gorm:"column:operation;type:varchar(10);not null"`
	Date       time.Time `json:"date" gorm:"column:date;type:timestamptz;not null;index"`

	Quantity   decimal.Decimal `json:"quantity" gorm:"column:quantity;type:decimal(30,18);not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"column:unit_price;type:decimal(30,18);not null"`
	Fees       decimal.Decimal `json:"fees" gorm:"column:fees;type:decimal(30,18);not null;default:0"`
	TotalValue decimal.Decimal `json:"total_value" gorm:"column:total_value;type:decimal(30,18);not null"`

	// Fixed-income contract fields (empty for market assets)
	Principal      decimal.Decimal `json:"principal" gorm:"column:principal;type:decimal(30,18);not null;default:0"`
	MaturityDate   *time.Time      `json:"maturity_date,omitempty" gorm:"column:maturity_date;type:timestamptz"`
	ContractedRate *string         `json:"contracted_rate,omitempty" gorm:"column:contracted_rate;type:varchar(100)"`

	// Structured form of ContractedRate, parsed once at ingestion
	RateKind       *string         `json:"rate_kind,omitempty" gorm:"column:rate_kind;type:varchar(20);index"`
	RateIndex      *string         `json:"rate_index,omitempty" gorm:"column:rate_index;type:varchar(20)"`
	PercentOfIndex decimal.Decimal `json:"percent_of_index" gorm:"column:percent_of_index;type:decimal(10,6);default:0"`
	FixedSpread    decimal.Decimal `json:"fixed_spread" gorm:"column:fixed_spread;type:decimal(10,6);default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFilter represents filters for querying transactions
type TransactionFilter struct {
	UserID     string
	StartDate  *time.Time
	EndDate    *time.Time
	Tickers    []string
	Classes    []string
	Operations []string
	Limit      int
	Offset     int
}

// IsFixedIncome reports whether the asset class is a fixed-income subtype.
func IsFixedIncome(class string) bool {
	switch class {
	case ClassCDB, ClassLCI, ClassLCA, ClassTesouro:
		return true
	}
	return false
}

// IsTaxExempt reports whether gains on the asset class are exempt from
// withholding (LCI and LCA under current rules).
func IsTaxExempt(class string) bool {
	return class == ClassLCI || class == ClassLCA
}

// FixedIncome reports whether this transaction is a fixed-income contract.
func (t *Transaction) FixedIncome() bool {
	return IsFixedIncome(t.AssetClass)
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.UserID == "" {
		return errors.New("user_id is required")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	if t.Ticker == "" {
		return errors.New("ticker is required")
	}
	if t.Operation != OperationBuy && t.Operation != OperationSell {
		return errors.New("operation must be 'buy' or 'sell'")
	}
	if t.FixedIncome() {
		if !t.Principal.IsPositive() {
			return errors.New("principal must be positive for fixed income")
		}
		if t.ContractedRate == nil || *t.ContractedRate == "" {
			return errors.New("contracted_rate is required for fixed income")
		}
		return nil
	}
	if !t.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	if t.UnitPrice.IsNegative() {
		return errors.New("unit_price must be non-negative")
	}
	if t.Fees.IsNegative() {
		return errors.New("fees must be non-negative")
	}
	return nil
}

// CalculateDerivedFields fills the fields that follow from the raw inputs:
// total value for market assets, principal-backed totals and the structured
// rate for fixed income. The rate string is parsed here, once, so the
// accrual path never re-parses it.
func (t *Transaction) CalculateDerivedFields() error {
	if t.FixedIncome() {
		// A fixed-income contract is held as a single unit whose cost is
		// the invested principal.
		t.Quantity = decimal.NewFromInt(1)
		t.UnitPrice = t.Principal
		t.TotalValue = t.Principal
		if t.ContractedRate != nil && *t.ContractedRate != "" {
			rate, err := ParseContractedRate(*t.ContractedRate)
			if err != nil {
				return err
			}
			kind := string(rate.Kind)
			t.RateKind = &kind
			t.PercentOfIndex = rate.PercentOfIndex
			t.FixedSpread = rate.FixedSpread
			if rate.Index != "" {
				idx := rate.Index
				t.RateIndex = &idx
			}
		}
		return nil
	}
	t.TotalValue = t.Quantity.Mul(t.UnitPrice).Add(t.Fees)
	return nil
}

// PreSave prepares the transaction for saving by validating and calculating derived fields
func (t *Transaction) PreSave() error {
	if err := t.Validate(); err != nil {
		return err
	}
	return t.CalculateDerivedFields()
}
