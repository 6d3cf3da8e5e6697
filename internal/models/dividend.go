package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Income event types.
const (
	IncomeDividend = "dividend"
	IncomeJCP      = "jcp"
	IncomeYield    = "yield"
)

// Dividend represents a consolidated income event paid by an asset.
// It is attributed to a position purely by ticker match.
type Dividend struct {
	ID          string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	UserID      string          `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	Ticker      string          `json:"ticker" gorm:"column:ticker;type:varchar(50);not null;index"`
	AssetClass  string          `json:"asset_class" gorm:"column:asset_class;type:varchar(20);not null"`
	PaymentDate time.Time       `json:"payment_date" gorm:"column:payment_date;type:timestamptz;not null;index"`
	IncomeType  string          `json:"income_type" gorm:"column:income_type;type:varchar(20);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(30,18);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

// TableName returns the table name for the Dividend model
func (Dividend) TableName() string {
	return "dividends"
}

// Validate validates the dividend data
func (d *Dividend) Validate() error {
	if d.UserID == "" {
		return errors.New("user_id is required")
	}
	if d.Ticker == "" {
		return errors.New("ticker is required")
	}
	if d.PaymentDate.IsZero() {
		return errors.New("payment_date is required")
	}
	if !d.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}
