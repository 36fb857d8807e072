package analytics

import (
	"slices"
	"testing"

	"wealthtracker/internal/models"
)

func sampleExpenses() []models.Expense {
	return []models.Expense{
		expense("1", "Food", "120.50", "2025-03-02"),
		expense("2", "Travel", "300.00", "2025-03-10"),
		expense("3", "Food", "79.50", "2025-02-27"),
		expense("4", "Rent", "200.00", "2025-02-01"),
		expense("5", "Bills", "200.00", "2024-12-31"),
	}
}

func TestExpenseFilter(t *testing.T) {
	from, to := date("2025-02-01"), date("2025-02-28")
	tests := []struct {
		name   string
		filter ExpenseFilter
		want   []string
	}{
		{"no_predicates", ExpenseFilter{}, []string{"1", "2", "3", "4", "5"}},
		{"category", ExpenseFilter{Category: "Food"}, []string{"1", "3"}},
		{"inclusive_range", Between(from, to), []string{"3", "4"}},
		{"start_only", ExpenseFilter{StartDate: ptr(date("2025-03-02"))}, []string{"1", "2"}},
		{"end_only", ExpenseFilter{EndDate: ptr(date("2024-12-31"))}, []string{"5"}},
		{"category_and_range", ExpenseFilter{Category: "Food", StartDate: &from, EndDate: &to}, []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range FilterExpenses(sampleExpenses(), tt.filter) {
				got = append(got, e.ID)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTotalAmount(t *testing.T) {
	assertDecimal(t, "total", "900.00", TotalAmount(sampleExpenses()))
	assertDecimal(t, "empty total", "0", TotalAmount(nil))
}

func TestSummarizeByCategory(t *testing.T) {
	got := SummarizeByCategory(sampleExpenses())
	want := []struct {
		category string
		total    string
		count    int
	}{
		{"Travel", "300", 1},
		{"Bills", "200", 1},
		{"Food", "200", 2},
		{"Rent", "200", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Category != w.category || got[i].ExpenseCount != w.count {
			t.Errorf("expected %s(%d) at %d, got %s(%d)", w.category, w.count, i, got[i].Category, got[i].ExpenseCount)
		}
		assertDecimal(t, w.category+" total", w.total, got[i].TotalAmount)
	}
}

func TestSummarizeByMonth(t *testing.T) {
	t.Run("all_years", func(t *testing.T) {
		got := SummarizeByMonth(sampleExpenses(), 0)
		if len(got) != 3 {
			t.Fatalf("expected 3 months, got %d", len(got))
		}
		if got[0].Year != 2024 || got[0].Month != 12 {
			t.Errorf("expected 2024-12 first, got %d-%d", got[0].Year, got[0].Month)
		}
		if got[1].Month != 2 || got[1].ExpenseCount != 2 {
			t.Errorf("unexpected February summary %+v", got[1])
		}
		assertDecimal(t, "February total", "279.50", got[1].TotalAmount)
		assertDecimal(t, "March total", "420.50", got[2].TotalAmount)
	})

	t.Run("single_year", func(t *testing.T) {
		got := SummarizeByMonth(sampleExpenses(), 2024)
		if len(got) != 1 || got[0].Month != 12 {
			t.Errorf("expected only December 2024, got %+v", got)
		}
	})
}
