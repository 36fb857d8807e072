package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/analytics"
	apperrors "wealthtracker/internal/errors"
	"wealthtracker/internal/models"
)

var (
	expenseCSVHeader = []string{"Date", "Title", "Amount", "Category", "Payment Method", "Notes"}

	investmentCSVHeader = []string{
		"Asset Type", "Asset Name", "Symbol", "Quantity", "Purchase Price",
		"Current Price", "Purchase Date", "Invested Amount", "Current Value",
		"Absolute Gain", "Percentage Gain", "Days Held", "Platform", "Notes",
	}
)

// ExpenseSummary summarizes every expense of a user in an export.
type ExpenseSummary struct {
	TotalAmount decimal.Decimal             `json:"total_amount"`
	TotalCount  int                         `json:"total_count"`
	ByCategory  []analytics.CategorySummary `json:"by_category"`
}

// ExpenseExport is the expenses section of a complete export.
type ExpenseExport struct {
	Summary ExpenseSummary   `json:"summary"`
	Data    []models.Expense `json:"data"`
}

// InvestmentExport is the investments section of a complete export.
type InvestmentExport struct {
	Summary analytics.PortfolioSummary `json:"summary"`
	Data    []analytics.Holding        `json:"data"`
}

// CompleteExport is a full JSON snapshot of a user's financial data.
type CompleteExport struct {
	ExportDate  string              `json:"export_date"`
	UserID      string              `json:"user_id"`
	Expenses    ExpenseExport       `json:"expenses"`
	Investments InvestmentExport    `json:"investments"`
	Dashboard   analytics.Dashboard `json:"dashboard"`
}

// exportService renders a user's records as CSV or a JSON document.
type exportService struct {
	expenses    ExpenseServicer
	investments InvestmentServicer
	now         func() time.Time
}

// NewExportService creates a new ExportServicer.
func NewExportService(expenses ExpenseServicer, investments InvestmentServicer) ExportServicer {
	return &exportService{expenses: expenses, investments: investments, now: time.Now}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// ExportExpensesCSV renders every expense of userID, newest first.
func (s *exportService) ExportExpensesCSV(userID string) ([]byte, error) {
	expenses, err := s.expenses.GetAllExpenses(userID, analytics.ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Date.Format(analytics.DateLayout),
			e.Title,
			e.Amount.StringFixed(2),
			e.Category,
			optional(e.PaymentMethod),
			optional(e.Notes),
		})
	}
	return writeCSV(expenseCSVHeader, rows)
}

// ExportInvestmentsCSV renders every holding of userID with its derived
// metrics, most recent purchase first.
func (s *exportService) ExportInvestmentsCSV(userID string) ([]byte, error) {
	investments, err := s.investments.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(investments))
	for _, h := range analytics.Holdings(investments, analytics.Day(s.now())) {
		rows = append(rows, []string{
			string(h.AssetType),
			h.AssetName,
			optional(h.Symbol),
			h.Quantity.String(),
			h.PurchasePrice.StringFixed(2),
			h.CurrentPrice.StringFixed(2),
			h.PurchaseDate.Format(analytics.DateLayout),
			h.InvestedAmount.StringFixed(2),
			h.CurrentValue.StringFixed(2),
			h.AbsoluteGain.StringFixed(2),
			strconv.FormatFloat(h.PercentageGain, 'f', 2, 64),
			strconv.Itoa(h.DaysHeld),
			optional(h.Platform),
			optional(h.Notes),
		})
	}
	return writeCSV(investmentCSVHeader, rows)
}

// ExportAll gathers every record, summary and the dashboard of userID into
// one document.
func (s *exportService) ExportAll(userID string) (*CompleteExport, error) {
	expenses, err := s.expenses.GetAllExpenses(userID, analytics.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	investments, err := s.investments.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := analytics.Day(now)
	if expenses == nil {
		expenses = []models.Expense{}
	}

	return &CompleteExport{
		ExportDate: today.Format(analytics.DateLayout),
		UserID:     userID,
		Expenses: ExpenseExport{
			Summary: ExpenseSummary{
				TotalAmount: analytics.TotalAmount(expenses),
				TotalCount:  len(expenses),
				ByCategory:  analytics.SummarizeByCategory(expenses),
			},
			Data: expenses,
		},
		Investments: InvestmentExport{
			Summary: analytics.SummarizePortfolio(investments),
			Data:    analytics.Holdings(investments, today),
		},
		Dashboard: analytics.ComposeDashboard(analytics.NewCalendar(now), investments, expenses),
	}, nil
}
