package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot intervals.
const (
	IntervalDaily   = "daily"
	IntervalMonthly = "monthly"
)

// SnapshotClassTotal is the asset-class key for the whole-portfolio row.
const SnapshotClassTotal = "total"

// SnapshotPoint is one point of a replayed valuation series.
type SnapshotPoint struct {
	Date     time.Time       `json:"date"`
	Invested decimal.Decimal `json:"invested"`
	Value    decimal.Decimal `json:"value"`
}

// DailySnapshot is a persisted end-of-day valuation checkpoint, one row
// per user, day and asset class. Cached so day-over-day deltas do not
// replay full history.
type DailySnapshot struct {
	ID           string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	UserID       string          `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:uidx_user_date_class"`
	Date         time.Time       `json:"date" gorm:"column:date;type:timestamptz;not null;uniqueIndex:uidx_user_date_class;index"`
	AssetClass   string          `json:"asset_class" gorm:"column:asset_class;type:varchar(20);not null;uniqueIndex:uidx_user_date_class"`
	Invested     decimal.Decimal `json:"invested" gorm:"column:invested;type:decimal(30,18);not null"`
	CurrentValue decimal.Decimal `json:"current_value" gorm:"column:current_value;type:decimal(30,18);not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

// TableName returns the table name for the DailySnapshot model
func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}
