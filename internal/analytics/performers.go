package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// DefaultPerformerLimit is the number of performers returned when the caller
// does not ask for a specific count.
const DefaultPerformerLimit = 5

// rankByPerformance orders holdings best first. Equal percentage gains fall
// back to ascending id so the ranking is reproducible.
func rankByPerformance(hs []Holding) {
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].PercentageGain != hs[j].PercentageGain {
			return hs[i].PercentageGain > hs[j].PercentageGain
		}
		return hs[i].ID < hs[j].ID
	})
}

func limit(hs []Holding, n int) []Holding {
	if n <= 0 {
		n = DefaultPerformerLimit
	}
	if n > len(hs) {
		n = len(hs)
	}
	return hs[:n]
}

// TopPerformers returns the n holdings with the highest percentage gain.
func TopPerformers(invs []models.Investment, today time.Time, n int) []Holding {
	hs := Holdings(invs, today)
	rankByPerformance(hs)
	return limit(hs, n)
}

// WorstPerformers returns the n holdings with the lowest percentage gain, in
// exactly the reverse of the TopPerformers ranking.
func WorstPerformers(invs []models.Investment, today time.Time, n int) []Holding {
	hs := Holdings(invs, today)
	rankByPerformance(hs)
	for i, j := 0, len(hs)-1; i < j; i, j = i+1, j-1 {
		hs[i], hs[j] = hs[j], hs[i]
	}
	return limit(hs, n)
}

// PerformerSnapshot is the compact view of a holding used in rankings.
type PerformerSnapshot struct {
	ID             string           `json:"id"`
	AssetName      string           `json:"asset_name"`
	AssetType      models.AssetType `json:"asset_type"`
	PercentageGain float64          `json:"percentage_gain"`
	AbsoluteGain   decimal.Decimal  `json:"absolute_gain"`
	CurrentValue   decimal.Decimal  `json:"current_value"`
}

// Snapshot condenses h into a PerformerSnapshot.
func (h Holding) Snapshot() PerformerSnapshot {
	return PerformerSnapshot{
		ID:             h.ID,
		AssetName:      h.AssetName,
		AssetType:      h.AssetType,
		PercentageGain: h.PercentageGain,
		AbsoluteGain:   h.AbsoluteGain,
		CurrentValue:   h.CurrentValue,
	}
}

// MaturingSoon returns holdings whose maturity date falls within
// [today, today+days], both ends inclusive, earliest maturity first.
func MaturingSoon(invs []models.Investment, today time.Time, days int) []Holding {
	from := Day(today)
	until := from.AddDate(0, 0, days)

	out := []Holding{}
	for _, inv := range invs {
		if inv.MaturityDate == nil {
			continue
		}
		m := Day(*inv.MaturityDate)
		if m.Before(from) || m.After(until) {
			continue
		}
		out = append(out, NewHolding(inv, today))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := Day(*out[i].MaturityDate), Day(*out[j].MaturityDate)
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
