package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

var testToday = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func investment(id string, assetType models.AssetType, qty, purchase, current string) models.Investment {
	return models.Investment{
		Base:          models.Base{ID: id},
		UserID:        "user-1",
		AssetType:     assetType,
		AssetName:     "Asset " + id,
		Quantity:      dec(qty),
		PurchasePrice: dec(purchase),
		CurrentPrice:  dec(current),
		PurchaseDate:  date("2025-01-01"),
	}
}

func expense(id, category, amount, day string) models.Expense {
	return models.Expense{
		Base:     models.Base{ID: id},
		UserID:   "user-1",
		Title:    "Expense " + id,
		Amount:   dec(amount),
		Category: category,
		Date:     date(day),
	}
}

func assertDecimal(t *testing.T, name string, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("expected %s %s, got %s", name, want, got)
	}
}

func ids(hs []Holding) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}
