package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// TrendPoint is the cumulative capital committed up to one purchase date.
type TrendPoint struct {
	Date             string          `json:"date"`
	InvestedAmount   decimal.Decimal `json:"invested_amount"`
	InvestmentsCount int             `json:"investments_count"`
}

// PerformanceTrend is a contribution timeline for a portfolio.
type PerformanceTrend struct {
	Timeline        []TrendPoint `json:"timeline"`
	TotalDataPoints int          `json:"total_data_points"`
}

// ContributionTrend builds one point per distinct purchase date, in
// ascending date order, each carrying running totals of invested capital
// and investment count. Price history is not recorded, so the timeline
// reflects contributions only and never market movement.
func ContributionTrend(invs []models.Investment) PerformanceTrend {
	type bucket struct {
		invested decimal.Decimal
		count    int
	}
	byDate := make(map[string]*bucket)
	for _, inv := range invs {
		key := Day(inv.PurchaseDate).Format(DateLayout)
		b, ok := byDate[key]
		if !ok {
			b = &bucket{}
			byDate[key] = b
		}
		b.invested = b.invested.Add(InvestedAmount(inv))
		b.count++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trend := PerformanceTrend{Timeline: make([]TrendPoint, 0, len(dates))}
	running := decimal.Zero
	count := 0
	for _, d := range dates {
		running = running.Add(byDate[d].invested)
		count += byDate[d].count
		trend.Timeline = append(trend.Timeline, TrendPoint{
			Date:             d,
			InvestedAmount:   running,
			InvestmentsCount: count,
		})
	}
	trend.TotalDataPoints = len(trend.Timeline)
	return trend
}
