package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// tally accumulates cost basis, value and gain over a group of investments.
type tally struct {
	count    int
	invested decimal.Decimal
	value    decimal.Decimal
	gain     decimal.Decimal
}

func (t *tally) add(inv models.Investment) {
	invested := InvestedAmount(inv)
	value := CurrentValue(inv)
	t.count++
	t.invested = t.invested.Add(invested)
	t.value = t.value.Add(value)
	t.gain = t.gain.Add(value.Sub(invested))
}

// tallyBy groups invs by key in a single pass.
func tallyBy[K comparable](invs []models.Investment, key func(models.Investment) K) map[K]*tally {
	groups := make(map[K]*tally)
	for _, inv := range invs {
		k := key(inv)
		g, ok := groups[k]
		if !ok {
			g = &tally{}
			groups[k] = g
		}
		g.add(inv)
	}
	return groups
}

func byAssetType(inv models.Investment) models.AssetType { return inv.AssetType }

// AssetBreakdown is one asset type's share of a portfolio.
type AssetBreakdown struct {
	AssetType             models.AssetType `json:"asset_type"`
	Count                 int              `json:"count"`
	Invested              decimal.Decimal  `json:"invested"`
	CurrentValue          decimal.Decimal  `json:"current_value"`
	GainLoss              decimal.Decimal  `json:"gain_loss"`
	PercentageOfPortfolio float64          `json:"percentage_of_portfolio"`
}

// PortfolioSummary aggregates every investment of one owner.
type PortfolioSummary struct {
	TotalInvested           decimal.Decimal  `json:"total_invested"`
	TotalCurrentValue       decimal.Decimal  `json:"total_current_value"`
	TotalGainLoss           decimal.Decimal  `json:"total_gain_loss"`
	TotalGainLossPercentage float64          `json:"total_gain_loss_percentage"`
	TotalInvestments        int              `json:"total_investments"`
	AssetTypeBreakdown      []AssetBreakdown `json:"asset_type_breakdown"`
}

// HasAssetType reports whether the breakdown contains the given asset type.
func (p PortfolioSummary) HasAssetType(t models.AssetType) bool {
	for _, b := range p.AssetTypeBreakdown {
		if b.AssetType == t {
			return true
		}
	}
	return false
}

// SummarizePortfolio totals invs and breaks them down by asset type, largest
// current value first. The breakdown values always add up to the totals.
func SummarizePortfolio(invs []models.Investment) PortfolioSummary {
	var total tally
	for _, inv := range invs {
		total.add(inv)
	}

	summary := PortfolioSummary{
		TotalInvested:           total.invested,
		TotalCurrentValue:       total.value,
		TotalGainLoss:           total.gain,
		TotalGainLossPercentage: percentage(total.gain, total.invested),
		TotalInvestments:        total.count,
		AssetTypeBreakdown:      []AssetBreakdown{},
	}

	for assetType, g := range tallyBy(invs, byAssetType) {
		summary.AssetTypeBreakdown = append(summary.AssetTypeBreakdown, AssetBreakdown{
			AssetType:             assetType,
			Count:                 g.count,
			Invested:              g.invested,
			CurrentValue:          g.value,
			GainLoss:              g.gain,
			PercentageOfPortfolio: percentage(g.value, total.value),
		})
	}

	sort.Slice(summary.AssetTypeBreakdown, func(i, j int) bool {
		a, b := summary.AssetTypeBreakdown[i], summary.AssetTypeBreakdown[j]
		if c := a.CurrentValue.Cmp(b.CurrentValue); c != 0 {
			return c > 0
		}
		return a.AssetType < b.AssetType
	})

	return summary
}

// Allocation is the share of portfolio value held in one asset type.
type Allocation struct {
	AssetType  models.AssetType `json:"asset_type"`
	Value      decimal.Decimal  `json:"value"`
	Percentage float64          `json:"percentage"`
}

// AssetAllocation splits current value by asset type, largest first.
// It returns an empty list when there are no investments.
func AssetAllocation(invs []models.Investment) []Allocation {
	summary := SummarizePortfolio(invs)
	out := make([]Allocation, 0, len(summary.AssetTypeBreakdown))
	for _, b := range summary.AssetTypeBreakdown {
		out = append(out, Allocation{
			AssetType:  b.AssetType,
			Value:      b.CurrentValue,
			Percentage: b.PercentageOfPortfolio,
		})
	}
	return out
}
