package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wealthtracker/internal/analytics"
	apperrors "wealthtracker/internal/errors"
	"wealthtracker/internal/models"
	"wealthtracker/internal/pagination"
	"wealthtracker/internal/services"
)

const defaultMaturityWindowDays = 30

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// CreateInvestmentRequest represents the request payload for adding an investment.
type CreateInvestmentRequest struct {
	AssetType     models.AssetType `json:"asset_type" binding:"required,asset_type"`
	AssetName     string           `json:"asset_name" binding:"required,notblank,max=200"`
	Symbol        *string          `json:"symbol" binding:"omitempty,max=20"`
	Quantity      *decimal.Decimal `json:"quantity" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" binding:"required"`
	CurrentPrice  *decimal.Decimal `json:"current_price" binding:"required"`
	PurchaseDate  string           `json:"purchase_date" binding:"required"`
	MaturityDate  *string          `json:"maturity_date"`
	Platform      *string          `json:"platform" binding:"omitempty,max=100"`
	InterestRate  *decimal.Decimal `json:"interest_rate"`
	Notes         *string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateInvestmentRequest represents the request payload for updating an
// investment. Omitted fields are left unchanged.
type UpdateInvestmentRequest struct {
	AssetType     *models.AssetType `json:"asset_type" binding:"omitempty,asset_type"`
	AssetName     *string           `json:"asset_name" binding:"omitempty,notblank,max=200"`
	Symbol        *string           `json:"symbol" binding:"omitempty,max=20"`
	Quantity      *decimal.Decimal  `json:"quantity"`
	PurchasePrice *decimal.Decimal  `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal  `json:"current_price"`
	PurchaseDate  *string           `json:"purchase_date"`
	MaturityDate  *string           `json:"maturity_date"`
	Platform      *string           `json:"platform" binding:"omitempty,max=100"`
	InterestRate  *decimal.Decimal  `json:"interest_rate"`
	Notes         *string           `json:"notes" binding:"omitempty,max=500"`
}

// UpdatePriceRequest represents the request payload for updating an
// investment price. The price may be sent as a number or a numeric string.
type UpdatePriceRequest struct {
	CurrentPrice json.RawMessage `json:"current_price" binding:"required" swaggertype:"number"`
}

// PriceUpdateItem is one entry of a bulk price update.
type PriceUpdateItem struct {
	ID           string          `json:"id"`
	CurrentPrice json.RawMessage `json:"current_price" swaggertype:"number"`
}

// BulkPriceUpdateRequest represents the request payload for updating many
// prices at once.
type BulkPriceUpdateRequest struct {
	Updates []PriceUpdateItem `json:"updates" binding:"required"`
}

// InvestmentQuery holds the optional filters of investment listings.
type InvestmentQuery struct {
	AssetType *models.AssetType `form:"asset_type" binding:"omitempty,asset_type"`
	Platform  *string           `form:"platform"`
}

// LimitQuery bounds the number of performers returned.
type LimitQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=20"`
}

// DaysQuery sets the look-ahead window for maturities.
type DaysQuery struct {
	Days *int `form:"days" binding:"omitempty,min=1,max=365"`
}

func valueOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// CreateInvestment handles adding a new investment holding.
// @Summary     Add investment
// @Description Add a new investment holding
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} analytics.Holding "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	purchaseDate, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	maturityDate, err := parseOptionalDate("maturity_date", req.MaturityDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.investmentService.CreateInvestment(userID, services.InvestmentInput{
		AssetType:     req.AssetType,
		AssetName:     req.AssetName,
		Symbol:        req.Symbol,
		Quantity:      *req.Quantity,
		PurchasePrice: *req.PurchasePrice,
		CurrentPrice:  *req.CurrentPrice,
		PurchaseDate:  purchaseDate,
		MaturityDate:  maturityDate,
		Platform:      req.Platform,
		InterestRate:  req.InterestRate,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionCreateInvestment, services.ResourceInvestment, holding.ID, c.ClientIP(),
		map[string]any{"asset_name": holding.AssetName, "asset_type": string(holding.AssetType), "quantity": holding.Quantity.String()})

	c.JSON(http.StatusCreated, gin.H{"investment": holding})
}

// GetInvestments handles listing investments.
// @Summary     List investments
// @Description Get a paginated list of investments, most recent purchase first, with the whole portfolio summary
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       asset_type query string false "Asset type"
// @Param       platform   query string false "Platform"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 100, max 500)"
// @Success     200 {object} services.InvestmentList "Paginated investments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query InvestmentQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := bindQuery(c, &page); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.investmentService.GetInvestments(userID, services.InvestmentFilter{
		AssetType: query.AssetType,
		Platform:  query.Platform,
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestment handles retrieving a specific investment.
// @Summary     Get investment by ID
// @Description Get a specific investment with its derived metrics
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} analytics.Holding "Investment details"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.investmentService.GetInvestmentByID(userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": holding})
}

// UpdateInvestment handles updating an investment.
// @Summary     Update investment
// @Description Update the given fields of an investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Investment ID"
// @Param       request body UpdateInvestmentRequest true "Fields to update"
// @Success     200 {object} analytics.Holding "Investment updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	purchaseDate, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	maturityDate, err := parseOptionalDate("maturity_date", req.MaturityDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.investmentService.UpdateInvestment(userID, investmentID, services.InvestmentUpdate{
		AssetType:     req.AssetType,
		AssetName:     req.AssetName,
		Symbol:        req.Symbol,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		CurrentPrice:  req.CurrentPrice,
		PurchaseDate:  purchaseDate,
		MaturityDate:  maturityDate,
		Platform:      req.Platform,
		InterestRate:  req.InterestRate,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdateInvestment, services.ResourceInvestment, holding.ID, c.ClientIP(), investmentChanges(req))

	c.JSON(http.StatusOK, gin.H{"investment": holding})
}

func investmentChanges(req UpdateInvestmentRequest) map[string]any {
	changes := map[string]any{}
	if req.AssetType != nil {
		changes["asset_type"] = string(*req.AssetType)
	}
	if req.AssetName != nil {
		changes["asset_name"] = *req.AssetName
	}
	if req.Quantity != nil {
		changes["quantity"] = req.Quantity.String()
	}
	if req.PurchasePrice != nil {
		changes["purchase_price"] = req.PurchasePrice.String()
	}
	if req.CurrentPrice != nil {
		changes["current_price"] = req.CurrentPrice.String()
	}
	if req.PurchaseDate != nil {
		changes["purchase_date"] = *req.PurchaseDate
	}
	if req.MaturityDate != nil {
		changes["maturity_date"] = *req.MaturityDate
	}
	if req.Platform != nil {
		changes["platform"] = *req.Platform
	}
	return changes
}

// UpdatePrice handles updating the current price of an investment.
// @Summary     Update investment price
// @Description Set the current market price of an investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Investment ID"
// @Param       request body UpdatePriceRequest true "New price"
// @Success     200 {object} analytics.Holding "Price updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     422 {object} ErrorResponse "Invalid price"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id}/price [patch]
func (h *InvestmentHandler) UpdatePrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	price, err := analytics.ParsePrice(rawText(req.CurrentPrice))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPrice, err.Error()))
		return
	}

	holding, err := h.investmentService.UpdatePrice(userID, investmentID, price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdatePrice, services.ResourceInvestment, holding.ID, c.ClientIP(),
		map[string]any{"current_price": price.String()})

	c.JSON(http.StatusOK, gin.H{"investment": holding})
}

// DeleteInvestment handles deleting an investment.
// @Summary     Delete investment
// @Description Delete an investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} MessageResponse "Investment deleted"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(userID, investmentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionDeleteInvestment, services.ResourceInvestment, investmentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Investment deleted successfully"})
}

// BulkUpdatePrices handles updating many prices in one request.
// @Summary     Bulk update prices
// @Description Update the price of several investments; each entry succeeds or fails on its own
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkPriceUpdateRequest true "Price updates"
// @Success     200 {object} analytics.BulkPriceUpdateResult "Update outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/bulk-update-prices [post]
func (h *InvestmentHandler) BulkUpdatePrices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkPriceUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	updates := make([]analytics.PriceUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = analytics.PriceUpdate{ID: u.ID, CurrentPrice: rawText(u.CurrentPrice)}
	}

	result, err := h.investmentService.BulkUpdatePrices(userID, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.UpdatedCount > 0 {
		h.auditService.Log(userID, services.ActionBulkUpdatePrices, services.ResourceUser, userID, c.ClientIP(),
			map[string]any{"updated_count": result.UpdatedCount, "failed_count": result.FailedCount})
	}

	c.JSON(http.StatusOK, result)
}

// GetPortfolioSummary handles the whole portfolio summary.
// @Summary     Portfolio summary
// @Description Totals and per asset type breakdown of every investment
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/summary [get]
func (h *InvestmentHandler) GetPortfolioSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.investmentService.GetPortfolioSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetAssetAllocation handles the asset allocation breakdown.
// @Summary     Asset allocation
// @Description Share of portfolio value held in each asset type
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.Allocation "Asset allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/asset-allocation [get]
func (h *InvestmentHandler) GetAssetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, err := h.investmentService.GetAssetAllocation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allocation": allocation})
}

// GetTopPerformers handles the best performing investments.
// @Summary     Top performers
// @Description Investments with the highest percentage gain
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of investments (1-20, default 5)"
// @Success     200 {array}  analytics.Holding "Top performers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/top-performers [get]
func (h *InvestmentHandler) GetTopPerformers(c *gin.Context) {
	h.performers(c, h.investmentService.GetTopPerformers)
}

// GetWorstPerformers handles the worst performing investments.
// @Summary     Worst performers
// @Description Investments with the lowest percentage gain
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of investments (1-20, default 5)"
// @Success     200 {array}  analytics.Holding "Worst performers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/worst-performers [get]
func (h *InvestmentHandler) GetWorstPerformers(c *gin.Context) {
	h.performers(c, h.investmentService.GetWorstPerformers)
}

func (h *InvestmentHandler) performers(c *gin.Context, rank func(userID string, limit int) ([]analytics.Holding, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query LimitQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := rank(userID, valueOr(query.Limit, analytics.DefaultPerformerLimit))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": holdings})
}

// GetMaturingSoon handles investments reaching maturity.
// @Summary     Maturing soon
// @Description Investments whose maturity date falls within the next days
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Look-ahead window in days (1-365, default 30)"
// @Success     200 {array}  analytics.Holding "Maturing investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/maturing-soon [get]
func (h *InvestmentHandler) GetMaturingSoon(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query DaysQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.investmentService.GetMaturingSoon(userID, valueOr(query.Days, defaultMaturityWindowDays))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": holdings})
}

// GetPlatformSummary handles the per-platform breakdown.
// @Summary     Platform summary
// @Description Investments grouped by the platform holding them
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.PlatformSummary "Platform summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/platform-summary [get]
func (h *InvestmentHandler) GetPlatformSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	platforms, err := h.investmentService.GetPlatformSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"platforms": platforms})
}

// GetPerformanceTrends handles the contribution timeline.
// @Summary     Performance trends
// @Description Cumulative invested amount by purchase date
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.PerformanceTrend "Contribution timeline"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/trends [get]
func (h *InvestmentHandler) GetPerformanceTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.investmentService.GetPerformanceTrends(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trend)
}

// GetStatistics handles the statistical report of the portfolio.
// @Summary     Investment statistics
// @Description Overview, win rate, extremes and per asset type performance
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Statistics "Statistics, or a message when there are no investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/analytics/statistics [get]
func (h *InvestmentHandler) GetStatistics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.investmentService.GetStatistics(userID)
	if errors.Is(err, analytics.ErrNoInvestments) {
		c.JSON(http.StatusOK, MessageResponse{Message: "No investments found"})
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
