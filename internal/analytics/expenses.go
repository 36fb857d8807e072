package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// ExpenseFilter narrows a set of expenses. Zero fields match everything;
// both date bounds are inclusive.
type ExpenseFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Between returns a filter covering [from, to].
func Between(from, to time.Time) ExpenseFilter {
	return ExpenseFilter{StartDate: &from, EndDate: &to}
}

// Matches reports whether e satisfies every set predicate of f.
func (f ExpenseFilter) Matches(e models.Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	day := Day(e.Date)
	if f.StartDate != nil && day.Before(Day(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && day.After(Day(*f.EndDate)) {
		return false
	}
	return true
}

// FilterExpenses returns the expenses matching f, preserving order.
func FilterExpenses(expenses []models.Expense, f ExpenseFilter) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// TotalAmount sums the amounts of expenses.
func TotalAmount(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategorySummary is the spending in one category.
type CategorySummary struct {
	Category     string          `json:"category"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExpenseCount int             `json:"expense_count"`
}

// SummarizeByCategory totals expenses per category, highest total first and
// ties broken by category name.
func SummarizeByCategory(expenses []models.Expense) []CategorySummary {
	index := make(map[string]int)
	out := []CategorySummary{}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategorySummary{Category: e.Category})
		}
		out[i].TotalAmount = out[i].TotalAmount.Add(e.Amount)
		out[i].ExpenseCount++
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalAmount.Cmp(out[j].TotalAmount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlySummary is the spending in one calendar month.
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExpenseCount int             `json:"expense_count"`
}

// SummarizeByMonth totals expenses per calendar month in chronological
// order. A non-zero year keeps only that year.
func SummarizeByMonth(expenses []models.Expense, year int) []MonthlySummary {
	type key struct{ year, month int }
	index := make(map[key]int)
	out := []MonthlySummary{}
	for _, e := range expenses {
		k := key{e.Date.Year(), int(e.Date.Month())}
		if year != 0 && k.year != year {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, MonthlySummary{Year: k.year, Month: k.month})
		}
		out[i].TotalAmount = out[i].TotalAmount.Add(e.Amount)
		out[i].ExpenseCount++
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
