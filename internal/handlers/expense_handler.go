package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wealthtracker/internal/analytics"
	"wealthtracker/internal/pagination"
	"wealthtracker/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Title         string           `json:"title" binding:"required,notblank,max=200"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Category      string           `json:"category" binding:"required,notblank,max=50"`
	Date          string           `json:"date" binding:"required"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,max=50"`
	Notes         *string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// Omitted fields are left unchanged.
type UpdateExpenseRequest struct {
	Title         *string          `json:"title" binding:"omitempty,notblank,max=200"`
	Amount        *decimal.Decimal `json:"amount"`
	Category      *string          `json:"category" binding:"omitempty,notblank,max=50"`
	Date          *string          `json:"date"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,max=50"`
	Notes         *string          `json:"notes" binding:"omitempty,max=500"`
}

// ExpenseQuery holds the optional filters of expense listings.
type ExpenseQuery struct {
	Category  string     `form:"category"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
}

func (q ExpenseQuery) filter() analytics.ExpenseFilter {
	return analytics.ExpenseFilter{Category: q.Category, StartDate: q.StartDate, EndDate: q.EndDate}
}

// MonthlySummaryQuery holds the optional year of the monthly summary.
type MonthlySummaryQuery struct {
	Year int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

// CreateExpense handles recording a new expense.
// @Summary     Create expense
// @Description Record a new expense for the authenticated user
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, services.ExpenseInput{
		Title:         req.Title,
		Amount:        *req.Amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionCreateExpense, services.ResourceExpense, expense.ID, c.ClientIP(),
		map[string]any{"title": expense.Title, "amount": expense.Amount.String(), "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses.
// @Summary     List expenses
// @Description Get a paginated list of expenses, newest first, with the total of every matching expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category   query string false "Category"
// @Param       start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       end_date   query string false "Latest date (YYYY-MM-DD)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 100, max 500)"
// @Success     200 {object} services.ExpenseList "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := bindQuery(c, &page); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetExpenses(userID, query.filter(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update expense
// @Description Update the given fields of an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, services.ExpenseUpdate{
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdateExpense, services.ResourceExpense, expense.ID, c.ClientIP(), expenseChanges(req))

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

func expenseChanges(req UpdateExpenseRequest) map[string]any {
	changes := map[string]any{}
	if req.Title != nil {
		changes["title"] = *req.Title
	}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.Date != nil {
		changes["date"] = *req.Date
	}
	if req.PaymentMethod != nil {
		changes["payment_method"] = *req.PaymentMethod
	}
	if req.Notes != nil {
		changes["notes"] = *req.Notes
	}
	return changes
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Description Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionDeleteExpense, services.ResourceExpense, expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// GetCategorySummary handles the per-category expense summary.
// @Summary     Expenses by category
// @Description Total and count of expenses per category, largest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       end_date   query string false "Latest date (YYYY-MM-DD)"
// @Success     200 {array}  analytics.CategorySummary "Category summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary/by-category [get]
func (h *ExpenseHandler) GetCategorySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}
	filter := analytics.ExpenseFilter{StartDate: query.StartDate, EndDate: query.EndDate}

	summary, err := h.expenseService.GetCategorySummary(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": summary})
}

// GetMonthlySummary handles the per-month expense summary.
// @Summary     Expenses by month
// @Description Total and count of expenses per calendar month, oldest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Only this year"
// @Success     200 {array}  analytics.MonthlySummary "Monthly summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary/by-month [get]
func (h *ExpenseHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query MonthlySummaryQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.GetMonthlySummary(userID, query.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": summary})
}
