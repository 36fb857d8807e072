package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// ErrNoInvestments is returned when statistics are requested for an empty
// portfolio.
var ErrNoInvestments = errors.New("no investments found")

// StatisticsOverview summarizes portfolio size and holding period.
type StatisticsOverview struct {
	TotalInvestments  int             `json:"total_investments"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalValue        decimal.Decimal `json:"total_value"`
	TotalGains        decimal.Decimal `json:"total_gains"`
	OverallPercentage float64         `json:"overall_percentage"`
	AverageDaysHeld   float64         `json:"average_days_held"`
}

// StatisticsPerformance counts profitable, loss-making and flat holdings.
type StatisticsPerformance struct {
	ProfitableCount int     `json:"profitable_count"`
	LossMakingCount int     `json:"loss_making_count"`
	BreakEvenCount  int     `json:"break_even_count"`
	WinRate         float64 `json:"win_rate"`
}

// StatisticsExtremes holds the best and worst holdings by percentage gain.
type StatisticsExtremes struct {
	BestPerformer  PerformerSnapshot `json:"best_performer"`
	WorstPerformer PerformerSnapshot `json:"worst_performer"`
}

// AssetTypePerformance is the gain of one asset type.
type AssetTypePerformance struct {
	Count          int             `json:"count"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalValue     decimal.Decimal `json:"total_value"`
	TotalGains     decimal.Decimal `json:"total_gains"`
	PercentageGain float64         `json:"percentage_gain"`
}

// Statistics is the full statistical report of a portfolio.
type Statistics struct {
	Overview             StatisticsOverview                        `json:"overview"`
	Performance          StatisticsPerformance                     `json:"performance"`
	Extremes             StatisticsExtremes                        `json:"extremes"`
	AssetTypePerformance map[models.AssetType]AssetTypePerformance `json:"asset_type_performance"`
}

// ComputeStatistics builds the statistical report of invs as of today.
func ComputeStatistics(invs []models.Investment, today time.Time) (*Statistics, error) {
	if len(invs) == 0 {
		return nil, ErrNoInvestments
	}

	hs := Holdings(invs, today)
	summary := SummarizePortfolio(invs)

	var perf StatisticsPerformance
	daysHeld := 0
	for _, h := range hs {
		daysHeld += h.DaysHeld
		switch h.AbsoluteGain.Sign() {
		case 1:
			perf.ProfitableCount++
		case -1:
			perf.LossMakingCount++
		default:
			perf.BreakEvenCount++
		}
	}
	perf.WinRate = float64(perf.ProfitableCount) * 100 / float64(len(hs))

	rankByPerformance(hs)

	byType := make(map[models.AssetType]AssetTypePerformance, len(summary.AssetTypeBreakdown))
	for _, b := range summary.AssetTypeBreakdown {
		byType[b.AssetType] = AssetTypePerformance{
			Count:          b.Count,
			TotalInvested:  b.Invested,
			TotalValue:     b.CurrentValue,
			TotalGains:     b.GainLoss,
			PercentageGain: percentage(b.GainLoss, b.Invested),
		}
	}

	return &Statistics{
		Overview: StatisticsOverview{
			TotalInvestments:  summary.TotalInvestments,
			TotalInvested:     summary.TotalInvested,
			TotalValue:        summary.TotalCurrentValue,
			TotalGains:        summary.TotalGainLoss,
			OverallPercentage: summary.TotalGainLossPercentage,
			AverageDaysHeld:   float64(daysHeld) / float64(len(hs)),
		},
		Performance: perf,
		Extremes: StatisticsExtremes{
			BestPerformer:  hs[0].Snapshot(),
			WorstPerformer: hs[len(hs)-1].Snapshot(),
		},
		AssetTypePerformance: byType,
	}, nil
}
