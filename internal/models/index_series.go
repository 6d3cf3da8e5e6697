package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// IndexPoint is one published value of a macro reference index. Rate is
// the percent value for the point's period (daily for CDI, monthly for
// IPCA), e.g. 0.045 for 0.045% on the day.
type IndexPoint struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// IndexSeries is a chronological series of index points.
type IndexSeries []IndexPoint

// Sort orders the series chronologically in place.
func (s IndexSeries) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
}

// Between returns the points with start <= date <= end.
func (s IndexSeries) Between(start, end time.Time) IndexSeries {
	out := make(IndexSeries, 0, len(s))
	for _, p := range s {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// BetweenMonths returns the points whose calendar month falls between the
// months of start and end inclusive. Monthly indexes like IPCA are
// published per month, so the filter works at month granularity rather
// than day granularity.
func (s IndexSeries) BetweenMonths(start, end time.Time) IndexSeries {
	from := monthOrdinal(start)
	to := monthOrdinal(end)
	out := make(IndexSeries, 0, len(s))
	for _, p := range s {
		m := monthOrdinal(p.Date)
		if m < from || m > to {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AccumulatedFactor compounds the series into a growth factor,
// multiplying each period's rate by mult first:
// factor = prod(1 + rate/100 * mult).
func (s IndexSeries) AccumulatedFactor(mult decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for _, p := range s {
		factor = factor.Mul(decimal.NewFromInt(1).Add(p.Rate.Div(oneHundred).Mul(mult)))
	}
	return factor
}

func monthOrdinal(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
