package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// UnknownPlatform labels investments recorded without a platform.
const UnknownPlatform = "Unknown"

// PlatformSummary aggregates the investments held on one platform.
type PlatformSummary struct {
	Platform           string          `json:"platform"`
	Count              int             `json:"count"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
	TotalCurrentValue  decimal.Decimal `json:"total_current_value"`
	TotalGainLoss      decimal.Decimal `json:"total_gain_loss"`
	GainLossPercentage float64         `json:"gain_loss_percentage"`
}

func byPlatform(inv models.Investment) string {
	if inv.Platform == nil || strings.TrimSpace(*inv.Platform) == "" {
		return UnknownPlatform
	}
	return *inv.Platform
}

// SummarizePlatforms groups invs by platform, largest current value first.
func SummarizePlatforms(invs []models.Investment) []PlatformSummary {
	out := []PlatformSummary{}
	for platform, g := range tallyBy(invs, byPlatform) {
		out = append(out, PlatformSummary{
			Platform:           platform,
			Count:              g.count,
			TotalInvested:      g.invested,
			TotalCurrentValue:  g.value,
			TotalGainLoss:      g.gain,
			GainLossPercentage: percentage(g.gain, g.invested),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalCurrentValue.Cmp(out[j].TotalCurrentValue); c != 0 {
			return c > 0
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}
