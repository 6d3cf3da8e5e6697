package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RateKind identifies the accrual regime of a fixed-income contract.
type RateKind string

const (
	RatePostFixed RateKind = "post_fixed"
	RatePreFixed  RateKind = "pre_fixed"
	RateHybrid    RateKind = "hybrid"
)

// Reference index names used by fixed-income contracts.
const (
	IndexCDI  = "CDI"
	IndexIPCA = "IPCA"
)

// ContractedRate is the structured form of a retail rate quote such as
// "110% do CDI", "IPCA + 6,5%" or "12% a.a.".
type ContractedRate struct {
	Kind RateKind

	// Index the contract accrues against (post-fixed and hybrid).
	Index string

	// PercentOfIndex is the index multiplier as a factor: "110% do CDI" -> 1.10.
	PercentOfIndex decimal.Decimal

	// FixedSpread is the annual fixed component as a factor: "6,5%" -> 0.065.
	// For pre-fixed contracts it is the whole rate.
	FixedSpread decimal.Decimal
}

var (
	postFixedRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%\s*(?:DO\s+|OF\s+)?(CDI)$`)
	hybridRe    = regexp.MustCompile(`^(IPCA)\s*\+\s*(\d+(?:\.\d+)?)\s*%$`)
	preFixedRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%$`)
)

var oneHundred = decimal.NewFromInt(100)

// ParseContractedRate converts a user-entered rate string into its
// structured form. Comma decimal separators and "a.a." suffixes are
// accepted since that is how retail brokers print these rates.
func ParseContractedRate(s string) (ContractedRate, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, ",", ".")
	norm = strings.TrimSuffix(norm, "A.A.")
	norm = strings.TrimSpace(norm)

	if m := postFixedRe.FindStringSubmatch(norm); m != nil {
		pct, err := decimal.NewFromString(m[1])
		if err != nil {
			return ContractedRate{}, fmt.Errorf("invalid rate %q: %w", s, err)
		}
		return ContractedRate{
			Kind:           RatePostFixed,
			Index:          m[2],
			PercentOfIndex: pct.Div(oneHundred),
		}, nil
	}

	if m := hybridRe.FindStringSubmatch(norm); m != nil {
		spread, err := decimal.NewFromString(m[2])
		if err != nil {
			return ContractedRate{}, fmt.Errorf("invalid rate %q: %w", s, err)
		}
		return ContractedRate{
			Kind:        RateHybrid,
			Index:       m[1],
			FixedSpread: spread.Div(oneHundred),
		}, nil
	}

	if m := preFixedRe.FindStringSubmatch(norm); m != nil {
		rate, err := decimal.NewFromString(m[1])
		if err != nil {
			return ContractedRate{}, fmt.Errorf("invalid rate %q: %w", s, err)
		}
		return ContractedRate{
			Kind:        RatePreFixed,
			FixedSpread: rate.Div(oneHundred),
		}, nil
	}

	return ContractedRate{}, fmt.Errorf("unrecognized contracted rate %q", s)
}
