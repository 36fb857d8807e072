package analytics

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// unknownID stands in for updates submitted without an investment id.
const unknownID = "unknown"

// Column shapes of the stored decimals: prices are numeric(15,2) and
// quantities numeric(20,8).
const (
	PricePrecision    = 15
	PriceScale        = 2
	QuantityPrecision = 20
	QuantityScale     = 8
)

var (
	// ErrPriceNotNumeric is returned when a price cannot be parsed.
	ErrPriceNotNumeric = errors.New("current_price must be a number")
	// ErrPriceNotPositive is returned for zero or negative prices.
	ErrPriceNotPositive = errors.New("current_price must be greater than 0")
	// ErrPriceTooPrecise is returned for prices with more than two decimals.
	ErrPriceTooPrecise = errors.New("current_price must have at most 2 decimal places")
	// ErrPriceTooLarge is returned for prices the price column cannot hold.
	ErrPriceTooLarge = errors.New("current_price is too large")
	errMissingID     = errors.New("investment id is required")
)

// PriceUpdate is one entry of a bulk price update request. CurrentPrice is
// kept as raw text so malformed entries fail individually.
type PriceUpdate struct {
	ID           string `json:"id"`
	CurrentPrice string `json:"current_price"`
}

// PriceUpdateFailure records why one entry of a bulk update was rejected.
type PriceUpdateFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkPriceUpdateResult reports the outcome of a bulk price update.
type BulkPriceUpdateResult struct {
	UpdatedCount  int                  `json:"updated_count"`
	FailedCount   int                  `json:"failed_count"`
	FailedUpdates []PriceUpdateFailure `json:"failed_updates"`
}

// HasScale reports whether d has at most scale fractional digits.
func HasScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Round(scale))
}

// FitsNumeric reports whether d is stored by a numeric(precision, scale)
// column without rounding or overflow.
func FitsNumeric(d decimal.Decimal, precision, scale int32) bool {
	return HasScale(d, scale) && d.Abs().LessThan(decimal.New(1, precision-scale))
}

// ValidatePrice checks that price is positive and fits the price column.
func ValidatePrice(price decimal.Decimal) error {
	switch {
	case !price.IsPositive():
		return ErrPriceNotPositive
	case !HasScale(price, PriceScale):
		return ErrPriceTooPrecise
	case !FitsNumeric(price, PricePrecision, PriceScale):
		return ErrPriceTooLarge
	}
	return nil
}

// ParsePrice parses a strictly positive decimal price that the price column
// stores exactly.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrPriceNotNumeric
	}
	if err := ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// ApplyPriceUpdates runs apply for every entry independently. A failing entry
// never prevents the others from being applied, and
// UpdatedCount+FailedCount always equals len(updates).
func ApplyPriceUpdates(updates []PriceUpdate, apply func(id string, price decimal.Decimal) error) BulkPriceUpdateResult {
	result := BulkPriceUpdateResult{FailedUpdates: []PriceUpdateFailure{}}

	fail := func(id string, err error) {
		if id == "" {
			id = unknownID
		}
		result.FailedCount++
		result.FailedUpdates = append(result.FailedUpdates, PriceUpdateFailure{ID: id, Error: err.Error()})
	}

	for _, u := range updates {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			fail(id, errMissingID)
			continue
		}
		price, err := ParsePrice(u.CurrentPrice)
		if err != nil {
			fail(id, err)
			continue
		}
		if err := apply(id, price); err != nil {
			fail(id, err)
			continue
		}
		result.UpdatedCount++
	}
	return result
}
