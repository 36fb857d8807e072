package analytics

import (
	"testing"

	"wealthtracker/internal/models"
)

func TestContributionTrend(t *testing.T) {
	t.Run("cumulative_by_purchase_date", func(t *testing.T) {
		bought := func(inv models.Investment, day string) models.Investment {
			inv.PurchaseDate = date(day)
			return inv
		}
		invs := []models.Investment{
			bought(investment("a", models.AssetTypeStock, "10", "100", "500"), "2025-02-01"),
			bought(investment("b", models.AssetTypeGold, "1", "250", "100"), "2025-01-10"),
			bought(investment("c", models.AssetTypeFD, "1", "750", "750"), "2025-02-01"),
		}

		trend := ContributionTrend(invs)
		if trend.TotalDataPoints != 2 || len(trend.Timeline) != 2 {
			t.Fatalf("expected 2 data points, got %d", trend.TotalDataPoints)
		}

		first, second := trend.Timeline[0], trend.Timeline[1]
		if first.Date != "2025-01-10" || first.InvestmentsCount != 1 {
			t.Errorf("unexpected first point %+v", first)
		}
		assertDecimal(t, "first invested", "250", first.InvestedAmount)

		// current prices never move the timeline
		if second.Date != "2025-02-01" || second.InvestmentsCount != 3 {
			t.Errorf("unexpected second point %+v", second)
		}
		assertDecimal(t, "second invested", "2000", second.InvestedAmount)
	})

	t.Run("empty", func(t *testing.T) {
		trend := ContributionTrend(nil)
		if trend.TotalDataPoints != 0 || trend.Timeline == nil {
			t.Errorf("expected empty timeline, got %+v", trend)
		}
	})
}
