package services

import (
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/analytics"
	"wealthtracker/internal/models"
	"wealthtracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, fullName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	Authenticate(email, password string) (*models.User, error)
	DeleteUser(id string) error
}

// ExpenseInput holds the fields of a new expense.
type ExpenseInput struct {
	Title         string
	Amount        decimal.Decimal
	Category      string
	Date          time.Time
	PaymentMethod *string
	Notes         *string
}

// ExpenseUpdate holds the fields of an expense to change. Nil fields are
// left untouched.
type ExpenseUpdate struct {
	Title         *string
	Amount        *decimal.Decimal
	Category      *string
	Date          *time.Time
	PaymentMethod *string
	Notes         *string
}

// ExpenseList is a page of expenses with the total of every matching expense.
type ExpenseList struct {
	pagination.PageResponse[models.Expense]
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, in ExpenseInput) (*models.Expense, error)
	GetExpenses(userID string, filter analytics.ExpenseFilter, page pagination.PageRequest) (*ExpenseList, error)
	GetAllExpenses(userID string, filter analytics.ExpenseFilter) ([]models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, in ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetTotalAmount(userID string, filter analytics.ExpenseFilter) (decimal.Decimal, error)
	GetCategorySummary(userID string, filter analytics.ExpenseFilter) ([]analytics.CategorySummary, error)
	GetMonthlySummary(userID string, year int) ([]analytics.MonthlySummary, error)
}

// InvestmentInput holds the fields of a new investment.
type InvestmentInput struct {
	AssetType     models.AssetType
	AssetName     string
	Symbol        *string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	PurchaseDate  time.Time
	MaturityDate  *time.Time
	Platform      *string
	InterestRate  *decimal.Decimal
	Notes         *string
}

// InvestmentUpdate holds the fields of an investment to change. Nil fields
// are left untouched.
type InvestmentUpdate struct {
	AssetType     *models.AssetType
	AssetName     *string
	Symbol        *string
	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal
	CurrentPrice  *decimal.Decimal
	PurchaseDate  *time.Time
	MaturityDate  *time.Time
	Platform      *string
	InterestRate  *decimal.Decimal
	Notes         *string
}

// InvestmentFilter holds optional filter parameters for listing investments.
type InvestmentFilter struct {
	AssetType *models.AssetType
	Platform  *string
}

// InvestmentList is a page of holdings plus the summary of the whole portfolio.
type InvestmentList struct {
	pagination.PageResponse[analytics.Holding]
	PortfolioSummary analytics.PortfolioSummary `json:"portfolio_summary"`
}

// InvestmentServicer defines the contract for investment-related business logic.
type InvestmentServicer interface {
	CreateInvestment(userID string, in InvestmentInput) (*analytics.Holding, error)
	GetInvestments(userID string, filter InvestmentFilter, page pagination.PageRequest) (*InvestmentList, error)
	GetAllInvestments(userID string) ([]models.Investment, error)
	GetInvestmentByID(userID, investmentID string) (*analytics.Holding, error)
	UpdateInvestment(userID, investmentID string, in InvestmentUpdate) (*analytics.Holding, error)
	UpdatePrice(userID, investmentID string, price decimal.Decimal) (*analytics.Holding, error)
	DeleteInvestment(userID, investmentID string) error

	GetPortfolioSummary(userID string) (*analytics.PortfolioSummary, error)
	GetAssetAllocation(userID string) ([]analytics.Allocation, error)
	GetTopPerformers(userID string, limit int) ([]analytics.Holding, error)
	GetWorstPerformers(userID string, limit int) ([]analytics.Holding, error)
	GetMaturingSoon(userID string, days int) ([]analytics.Holding, error)
	GetPlatformSummary(userID string) ([]analytics.PlatformSummary, error)
	BulkUpdatePrices(userID string, updates []analytics.PriceUpdate) (*analytics.BulkPriceUpdateResult, error)
	GetPerformanceTrends(userID string) (*analytics.PerformanceTrend, error)
	GetStatistics(userID string) (*analytics.Statistics, error)
}

// DashboardServicer defines the contract for the combined financial overview.
type DashboardServicer interface {
	GetDashboard(userID string) (*analytics.Dashboard, error)
	GetHealthScore(userID string) (*analytics.HealthScore, error)
}

// ExportServicer defines the contract for exporting a user's data.
type ExportServicer interface {
	ExportExpensesCSV(userID string) ([]byte, error)
	ExportInvestmentsCSV(userID string) ([]byte, error)
	ExportAll(userID string) (*CompleteExport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
