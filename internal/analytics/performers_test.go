package analytics

import (
	"slices"
	"testing"

	"wealthtracker/internal/models"
)

func rankedPortfolio() []models.Investment {
	return []models.Investment{
		investment("c", models.AssetTypeStock, "1", "100", "150"), // +50%
		investment("a", models.AssetTypeStock, "1", "100", "110"), // +10%
		investment("e", models.AssetTypeCrypto, "1", "100", "40"), // -60%
		investment("b", models.AssetTypeGold, "1", "100", "110"),  // +10%
		investment("d", models.AssetTypeBond, "1", "100", "100"),  // 0%
	}
}

func TestTopPerformers(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"limit_three", 3, []string{"c", "a", "b"}},
		{"default_limit", 0, []string{"c", "a", "b", "d", "e"}},
		{"more_than_available", 50, []string{"c", "a", "b", "d", "e"}},
		{"one", 1, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(TopPerformers(rankedPortfolio(), testToday, tt.n))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWorstPerformers(t *testing.T) {
	t.Run("limit_two", func(t *testing.T) {
		got := ids(WorstPerformers(rankedPortfolio(), testToday, 2))
		if !slices.Equal(got, []string{"e", "d"}) {
			t.Errorf("expected [e d], got %v", got)
		}
	})

	t.Run("reverse_of_top", func(t *testing.T) {
		top := ids(TopPerformers(rankedPortfolio(), testToday, 10))
		worst := ids(WorstPerformers(rankedPortfolio(), testToday, 10))
		slices.Reverse(worst)
		if !slices.Equal(top, worst) {
			t.Errorf("expected worst to reverse top: top=%v reversed worst=%v", top, worst)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := WorstPerformers(nil, testToday, 5); len(got) != 0 {
			t.Errorf("expected no performers, got %d", len(got))
		}
	})
}

func TestMaturingSoon(t *testing.T) {
	mature := func(id, day string) models.Investment {
		inv := investment(id, models.AssetTypeFD, "1", "1000", "1000")
		inv.MaturityDate = ptr(date(day))
		return inv
	}
	invs := []models.Investment{
		mature("boundary", "2025-04-14"), // today + 30
		mature("beyond", "2025-04-15"),   // today + 31
		mature("today", "2025-03-15"),
		mature("past", "2025-03-14"),
		mature("soon", "2025-03-20"),
		investment("none", models.AssetTypeStock, "1", "10", "10"),
	}

	got := ids(MaturingSoon(invs, testToday, 30))
	want := []string{"today", "soon", "boundary"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := MaturingSoon(invs, testToday, 31); len(got) != 4 {
		t.Errorf("expected 4 within 31 days, got %d", len(got))
	}
}
