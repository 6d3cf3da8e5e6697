package services

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
)

// Brazilian fixed income accrues on a 252 trading-day year. Calendar days
// are converted with a fixed approximation rather than an exchange
// calendar, which is the precision retail tooling works at.
const (
	businessDaysPerYear   = 252.0
	calendarDaysPerYear   = 365.25
	calendarToBusinessDay = businessDaysPerYear / calendarDaysPerYear
)

// Regressive IR withholding brackets by days held.
var (
	taxRate180 = decimal.NewFromFloat(0.225)
	taxRate360 = decimal.NewFromFloat(0.20)
	taxRate720 = decimal.NewFromFloat(0.175)
	taxRateMax = decimal.NewFromFloat(0.15)
)

type accrualService struct {
	logger *zap.Logger
}

// NewAccrualService creates a new fixed-income accrual calculator
func NewAccrualService(logger *zap.Logger) AccrualService {
	return &accrualService{logger: logger}
}

// Accrue computes the gross and net curve value of a fixed-income
// contract as of a target date. A contract with an unusable rate accrues
// nothing (factor 1) instead of failing, so aggregate totals stay stable.
func (s *accrualService) Accrue(tx *models.Transaction, indexes map[string]models.IndexSeries, asOf time.Time) *models.AccrualResult {
	principal := tx.Principal
	daysHeld := daysBetween(tx.Date, asOf)
	gross := principal

	switch kind := rateKind(tx); kind {
	case models.RatePostFixed:
		series := indexes[indexName(tx, models.IndexCDI)]
		factor := series.Between(tx.Date, asOf).AccumulatedFactor(tx.PercentOfIndex)
		gross = principal.Mul(factor)

	case models.RatePreFixed:
		gross = compound(principal, tx.FixedSpread, daysHeld)

	case models.RateHybrid:
		series := indexes[indexName(tx, models.IndexIPCA)]
		inflation := series.BetweenMonths(tx.Date, asOf).AccumulatedFactor(decimal.NewFromInt(1))
		gross = compound(principal.Mul(inflation), tx.FixedSpread, daysHeld)

	default:
		s.logger.Warn("fixed-income contract without usable rate, accruing nothing",
			zap.String("id", tx.ID),
			zap.String("ticker", tx.Ticker))
	}

	result := &models.AccrualResult{
		GrossValue: gross,
		NetValue:   gross,
		DaysHeld:   daysHeld,
	}

	profit := gross.Sub(principal)
	if profit.IsPositive() && !models.IsTaxExempt(tx.AssetClass) {
		rate := withholdingRate(daysHeld)
		result.TaxRate = rate
		result.TaxWithheld = profit.Mul(rate)
		result.NetValue = gross.Sub(result.TaxWithheld)
	}
	return result
}

// compound applies an annual rate over daysHeld calendar days on the
// 252-business-day convention. The exponentiation goes through float64;
// daily-granularity accrual does not need more precision than that.
func compound(base decimal.Decimal, annualRate decimal.Decimal, daysHeld int) decimal.Decimal {
	if daysHeld <= 0 || annualRate.IsZero() {
		return base
	}
	businessDays := float64(daysHeld) * calendarToBusinessDay
	growth := math.Pow(1+annualRate.InexactFloat64(), businessDays/businessDaysPerYear)
	return base.Mul(decimal.NewFromFloat(growth))
}

func withholdingRate(daysHeld int) decimal.Decimal {
	switch {
	case daysHeld <= 180:
		return taxRate180
	case daysHeld <= 360:
		return taxRate360
	case daysHeld <= 720:
		return taxRate720
	default:
		return taxRateMax
	}
}

func rateKind(tx *models.Transaction) models.RateKind {
	if tx.RateKind == nil {
		return ""
	}
	return models.RateKind(*tx.RateKind)
}

func indexName(tx *models.Transaction, fallback string) string {
	if tx.RateIndex != nil && *tx.RateIndex != "" {
		return *tx.RateIndex
	}
	return fallback
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
