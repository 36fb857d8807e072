package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

var hundred = decimal.NewFromInt(100)

// percentage returns 100*part/whole, or 0 when whole is zero.
func percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Mul(hundred).Div(whole).Float64()
	return f
}

// Metrics are the per-investment figures derived on every read.
type Metrics struct {
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	AbsoluteGain   decimal.Decimal `json:"absolute_gain"`
	PercentageGain float64         `json:"percentage_gain"`
	DaysHeld       int             `json:"days_held"`
	IsMatured      bool            `json:"is_matured"`
}

// Holding is an investment record with its derived metrics attached.
type Holding struct {
	models.Investment
	Metrics
}

// InvestedAmount is quantity × purchase price, the cost basis.
func InvestedAmount(inv models.Investment) decimal.Decimal {
	return inv.Quantity.Mul(inv.PurchasePrice)
}

// CurrentValue is quantity × current price, the mark-to-market value.
func CurrentValue(inv models.Investment) decimal.Decimal {
	return inv.Quantity.Mul(inv.CurrentPrice)
}

// Evaluate computes the derived metrics of inv as of today.
func Evaluate(inv models.Investment, today time.Time) Metrics {
	invested := InvestedAmount(inv)
	value := CurrentValue(inv)
	gain := value.Sub(invested)

	m := Metrics{
		InvestedAmount: invested,
		CurrentValue:   value,
		AbsoluteGain:   gain,
		PercentageGain: percentage(gain, invested),
		DaysHeld:       daysBetween(inv.PurchaseDate, today),
	}
	if inv.MaturityDate != nil {
		m.IsMatured = !Day(today).Before(Day(*inv.MaturityDate))
	}
	return m
}

// NewHolding pairs inv with its metrics as of today.
func NewHolding(inv models.Investment, today time.Time) Holding {
	return Holding{Investment: inv, Metrics: Evaluate(inv, today)}
}

// Holdings evaluates every investment, preserving order.
func Holdings(invs []models.Investment, today time.Time) []Holding {
	out := make([]Holding, len(invs))
	for i := range invs {
		out[i] = NewHolding(invs[i], today)
	}
	return out
}
