package analytics

import (
	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
)

// minAssetTypes is the number of distinct asset types below which a
// portfolio counts as poorly diversified.
const minAssetTypes = 3

// HealthScore is a heuristic 0-100 rating of a user's finances.
type HealthScore struct {
	Score           int      `json:"score"`
	Rating          string   `json:"rating"`
	Color           string   `json:"color"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

func (h *HealthScore) flag(delta int, issue, recommendation string) {
	h.Score += delta
	h.Issues = append(h.Issues, issue)
	h.Recommendations = append(h.Recommendations, recommendation)
}

// ScoreHealth rates a portfolio together with the current month's spending.
// Each check adjusts the score independently; the result is clamped to
// [0, 100] and banded into a rating.
func ScoreHealth(portfolio PortfolioSummary, monthlyExpenses decimal.Decimal) HealthScore {
	h := HealthScore{Score: 100, Issues: []string{}, Recommendations: []string{}}

	switch {
	case portfolio.TotalInvestments == 0:
		h.flag(-30, "No investments", "Start investing to build wealth")
	case len(portfolio.AssetTypeBreakdown) < minAssetTypes:
		h.flag(-20, "Low investment diversity", "Consider diversifying across more asset types")
	}

	switch pct := portfolio.TotalGainLossPercentage; {
	case pct < 0:
		h.flag(-15, "Portfolio in loss", "Review and rebalance your portfolio")
	case pct > 15:
		h.Score += 10
	}

	if monthlyExpenses.IsZero() {
		h.flag(-10, "No expenses tracked this month", "Track your expenses regularly")
	}

	if !portfolio.HasAssetType(models.AssetTypeFD) {
		h.flag(-15, "No emergency fund (FD)", "Maintain 6 months of expenses in FD")
	}

	h.Score = max(0, min(100, h.Score))
	h.Rating, h.Color = band(h.Score)
	return h
}

func band(score int) (rating, color string) {
	switch {
	case score >= 80:
		return RatingExcellent, "green"
	case score >= 60:
		return RatingGood, "blue"
	case score >= 40:
		return RatingFair, "yellow"
	default:
		return RatingNeedsImprovement, "red"
	}
}
