package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealthtracker/internal/analytics"
	apperrors "wealthtracker/internal/errors"
	"wealthtracker/internal/models"
	"wealthtracker/internal/pagination"
)

const (
	amountPrecision        = 10
	maxTitleLength         = 200
	maxCategoryLength      = 50
	maxPaymentMethodLength = 50
	maxNotesLength         = 500
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// expenseScope restricts a query to one owner and the filter's predicates.
func expenseScope(userID string, filter analytics.ExpenseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.StartDate != nil {
			db = db.Where("date >= ?", analytics.Day(*filter.StartDate))
		}
		if filter.EndDate != nil {
			db = db.Where("date <= ?", analytics.Day(*filter.EndDate))
		}
		return db
	}
}

func validateExpense(e *models.Expense) error {
	switch {
	case strings.TrimSpace(e.Title) == "" || utf8.RuneCountInString(e.Title) > maxTitleLength:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("title must be between 1 and %d characters", maxTitleLength))
	case !e.Amount.IsPositive():
		return apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than 0")
	case !e.Amount.Equal(e.Amount.Round(2)):
		return apperrors.WithMessage(apperrors.ErrValidation, "amount must have at most 2 decimal places")
	case !analytics.FitsNumeric(e.Amount, amountPrecision, 2):
		return apperrors.WithMessage(apperrors.ErrValidation, "amount is too large")
	case strings.TrimSpace(e.Category) == "" || utf8.RuneCountInString(e.Category) > maxCategoryLength:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("category must be between 1 and %d characters", maxCategoryLength))
	case e.PaymentMethod != nil && utf8.RuneCountInString(*e.PaymentMethod) > maxPaymentMethodLength:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("payment_method must be at most %d characters", maxPaymentMethodLength))
	case e.Notes != nil && utf8.RuneCountInString(*e.Notes) > maxNotesLength:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("notes must be at most %d characters", maxNotesLength))
	case e.Date.IsZero():
		return apperrors.WithMessage(apperrors.ErrValidation, "date is required")
	}
	return nil
}

// CreateExpense records a new expense for userID.
func (s *expenseService) CreateExpense(userID string, in ExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Amount:        in.Amount,
		Category:      strings.TrimSpace(in.Category),
		Date:          analytics.Day(in.Date),
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenses returns one page of matching expenses, newest first, along with
// the count and total of every matching expense.
func (s *expenseService) GetExpenses(userID string, filter analytics.ExpenseFilter, page pagination.PageRequest) (*ExpenseList, error) {
	page.Defaults()

	total, err := s.countExpenses(userID, filter)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Scopes(expenseScope(userID, filter), pagination.Paginate(page)).
		Order("date DESC").Order("created_at DESC").Order("id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalAmount, err := s.GetTotalAmount(userID, filter)
	if err != nil {
		return nil, err
	}

	return &ExpenseList{
		PageResponse: pagination.NewPageResponse(expenses, page.Page, page.PageSize, total),
		TotalAmount:  totalAmount,
	}, nil
}

// GetAllExpenses returns every matching expense, newest first.
func (s *expenseService) GetAllExpenses(userID string, filter analytics.ExpenseFilter) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Scopes(expenseScope(userID, filter)).
		Order("date DESC").Order("created_at DESC").Order("id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpenseByID returns the expense if it exists and belongs to userID.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies the set fields of in and revalidates the result.
func (s *expenseService) UpdateExpense(userID, expenseID string, in ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		expense.Title = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Category != nil {
		expense.Category = strings.TrimSpace(*in.Category)
	}
	if in.Date != nil {
		expense.Date = analytics.Day(*in.Date)
	}
	if in.PaymentMethod != nil {
		expense.PaymentMethod = in.PaymentMethod
	}
	if in.Notes != nil {
		expense.Notes = in.Notes
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes the expense if it belongs to userID.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	result := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetTotalAmount sums every matching expense. Amounts are added as decimals
// so the result is exact regardless of the database's numeric handling.
func (s *expenseService) GetTotalAmount(userID string, filter analytics.ExpenseFilter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := s.db.Model(&models.Expense{}).Scopes(expenseScope(userID, filter)).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// countExpenses counts every matching expense, ignoring pagination.
func (s *expenseService) countExpenses(userID string, filter analytics.ExpenseFilter) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Expense{}).Scopes(expenseScope(userID, filter)).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// GetCategorySummary totals matching expenses per category.
func (s *expenseService) GetCategorySummary(userID string, filter analytics.ExpenseFilter) ([]analytics.CategorySummary, error) {
	expenses, err := s.GetAllExpenses(userID, filter)
	if err != nil {
		return nil, err
	}
	return analytics.SummarizeByCategory(expenses), nil
}

// GetMonthlySummary totals expenses per month, optionally for a single year.
func (s *expenseService) GetMonthlySummary(userID string, year int) ([]analytics.MonthlySummary, error) {
	expenses, err := s.GetAllExpenses(userID, analytics.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	return analytics.SummarizeByMonth(expenses, year), nil
}
