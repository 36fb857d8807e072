package services

import (
	"time"

	"wealthtracker/internal/analytics"
)

// dashboardService composes the financial overview from the expense and
// investment services.
type dashboardService struct {
	expenses    ExpenseServicer
	investments InvestmentServicer
	now         func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(expenses ExpenseServicer, investments InvestmentServicer) DashboardServicer {
	return &dashboardService{expenses: expenses, investments: investments, now: time.Now}
}

// GetDashboard builds the complete dashboard from a single read of the
// owner's investments and expenses.
func (s *dashboardService) GetDashboard(userID string) (*analytics.Dashboard, error) {
	investments, err := s.investments.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.GetAllExpenses(userID, analytics.ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	dashboard := analytics.ComposeDashboard(analytics.NewCalendar(s.now()), investments, expenses)
	return &dashboard, nil
}

// GetHealthScore rates the owner's portfolio and this month's expense tracking.
func (s *dashboardService) GetHealthScore(userID string) (*analytics.HealthScore, error) {
	portfolio, err := s.investments.GetPortfolioSummary(userID)
	if err != nil {
		return nil, err
	}

	cal := analytics.NewCalendar(s.now())
	monthly, err := s.expenses.GetTotalAmount(userID, analytics.Between(cal.MonthStart, cal.Today))
	if err != nil {
		return nil, err
	}

	score := analytics.ScoreHealth(*portfolio, monthly)
	return &score, nil
}
