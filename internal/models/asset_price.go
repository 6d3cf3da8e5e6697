package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetPrice is one cached daily close for a ticker, the persistent
// fallback tier behind the live quote cache.
type AssetPrice struct {
	ID        string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Ticker    string          `json:"ticker" gorm:"column:ticker;type:varchar(50);not null;uniqueIndex:uidx_ticker_date"`
	Date      time.Time       `json:"date" gorm:"column:date;type:timestamptz;not null;uniqueIndex:uidx_ticker_date;index"`
	Price     decimal.Decimal `json:"price" gorm:"column:price;type:decimal(30,18);not null"`
	Source    string          `json:"source" gorm:"column:source;type:varchar(50);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

// TableName returns the table name for the AssetPrice model
func (AssetPrice) TableName() string {
	return "asset_prices"
}

// Quote is a live market price, ephemeral and never persisted directly.
type Quote struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	LogoURL   string          `json:"logo_url,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
