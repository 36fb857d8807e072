package analytics

import (
	"github.com/shopspring/decimal"

	"wealthtracker/internal/models"
)

// dashboardTopN bounds the category and performer lists on the dashboard.
const dashboardTopN = 5

// DashboardSummary is the headline block of the dashboard.
type DashboardSummary struct {
	NetWorth                  decimal.Decimal `json:"net_worth"`
	TotalInvested             decimal.Decimal `json:"total_invested"`
	InvestmentGains           decimal.Decimal `json:"investment_gains"`
	InvestmentGainsPercentage float64         `json:"investment_gains_percentage"`
	CurrentMonthExpenses      decimal.Decimal `json:"current_month_expenses"`
	LastMonthExpenses         decimal.Decimal `json:"last_month_expenses"`
	ExpenseChangePercentage   float64         `json:"expense_change_percentage"`
	TotalInvestments          int             `json:"total_investments"`
	TotalExpensesCount        int             `json:"total_expenses_count"`
}

// DashboardExpenses is the spending block of the dashboard.
type DashboardExpenses struct {
	CurrentMonthTotal decimal.Decimal   `json:"current_month_total"`
	CurrentMonthCount int               `json:"current_month_count"`
	AllTimeTotal      decimal.Decimal   `json:"all_time_total"`
	AllTimeCount      int               `json:"all_time_count"`
	TopCategories     []CategorySummary `json:"top_categories"`
}

// DashboardInvestments is the portfolio block of the dashboard.
type DashboardInvestments struct {
	PortfolioValue  decimal.Decimal     `json:"portfolio_value"`
	TotalInvested   decimal.Decimal     `json:"total_invested"`
	TotalGains      decimal.Decimal     `json:"total_gains"`
	GainsPercentage float64             `json:"gains_percentage"`
	AssetAllocation []Allocation        `json:"asset_allocation"`
	TopPerformers   []PerformerSnapshot `json:"top_performers"`
}

// MonthOverview describes progress through the current month.
type MonthOverview struct {
	CurrentMonth        string          `json:"current_month"`
	DaysInMonth         int             `json:"days_in_month"`
	AverageDailyExpense decimal.Decimal `json:"average_daily_expense"`
}

// Dashboard is the combined financial overview of one user.
type Dashboard struct {
	Summary       DashboardSummary     `json:"summary"`
	Expenses      DashboardExpenses    `json:"expenses"`
	Investments   DashboardInvestments `json:"investments"`
	MonthOverview MonthOverview        `json:"month_overview"`
}

// currentMonth is the window the dashboard treats as "this month".
func (c Calendar) currentMonth() ExpenseFilter {
	return Between(c.MonthStart, c.Today)
}

func (c Calendar) lastMonth() ExpenseFilter {
	return Between(c.PrevMonthStart, c.PrevMonthEnd)
}

// CurrentMonthTotal sums the expenses dated from the first of the month
// through today.
func CurrentMonthTotal(cal Calendar, expenses []models.Expense) decimal.Decimal {
	return TotalAmount(FilterExpenses(expenses, cal.currentMonth()))
}

// ComposeDashboard builds the dashboard from every investment and every
// expense of a user.
func ComposeDashboard(cal Calendar, investments []models.Investment, expenses []models.Expense) Dashboard {
	portfolio := SummarizePortfolio(investments)

	thisMonth := FilterExpenses(expenses, cal.currentMonth())
	currentTotal := TotalAmount(thisMonth)
	lastTotal := TotalAmount(FilterExpenses(expenses, cal.lastMonth()))
	allTimeTotal := TotalAmount(expenses)

	categories := SummarizeByCategory(thisMonth)
	if len(categories) > dashboardTopN {
		categories = categories[:dashboardTopN]
	}

	performers := TopPerformers(investments, cal.Today, dashboardTopN)
	snapshots := make([]PerformerSnapshot, len(performers))
	for i, h := range performers {
		snapshots[i] = h.Snapshot()
	}

	averageDaily := decimal.Zero
	if day := cal.DayOfMonth(); day > 0 {
		averageDaily = currentTotal.DivRound(decimal.NewFromInt(int64(day)), 2)
	}

	return Dashboard{
		Summary: DashboardSummary{
			NetWorth:                  portfolio.TotalCurrentValue,
			TotalInvested:             portfolio.TotalInvested,
			InvestmentGains:           portfolio.TotalGainLoss,
			InvestmentGainsPercentage: portfolio.TotalGainLossPercentage,
			CurrentMonthExpenses:      currentTotal,
			LastMonthExpenses:         lastTotal,
			ExpenseChangePercentage:   percentage(currentTotal.Sub(lastTotal), lastTotal),
			TotalInvestments:          portfolio.TotalInvestments,
			TotalExpensesCount:        len(expenses),
		},
		Expenses: DashboardExpenses{
			CurrentMonthTotal: currentTotal,
			CurrentMonthCount: len(thisMonth),
			AllTimeTotal:      allTimeTotal,
			AllTimeCount:      len(expenses),
			TopCategories:     categories,
		},
		Investments: DashboardInvestments{
			PortfolioValue:  portfolio.TotalCurrentValue,
			TotalInvested:   portfolio.TotalInvested,
			TotalGains:      portfolio.TotalGainLoss,
			GainsPercentage: portfolio.TotalGainLossPercentage,
			AssetAllocation: AssetAllocation(investments),
			TopPerformers:   snapshots,
		},
		MonthOverview: MonthOverview{
			CurrentMonth:        cal.MonthLabel(),
			DaysInMonth:         cal.DayOfMonth(),
			AverageDailyExpense: averageDaily,
		},
	}
}
