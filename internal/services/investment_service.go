package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealthtracker/internal/analytics"
	apperrors "wealthtracker/internal/errors"
	"wealthtracker/internal/logger"
	"wealthtracker/internal/models"
	"wealthtracker/internal/pagination"
	"wealthtracker/internal/uuid"
)

const (
	maxAssetNameLength = 200
	maxSymbolLength    = 20
	maxPlatformLength  = 100
)

var (
	maxInterestRate        = decimal.NewFromInt(100)
	errInvalidInvestmentID = errors.New("invalid investment id")
)

// investmentService handles investment-related business logic. Every
// analytics read loads the owner's investments once and hands them to the
// analytics package.
type investmentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db, now: time.Now}
}

func (s *investmentService) today() time.Time {
	return analytics.Day(s.now())
}

func investmentScope(userID string, filter InvestmentFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.AssetType != nil {
			db = db.Where("asset_type = ?", *filter.AssetType)
		}
		if filter.Platform != nil {
			db = db.Where("platform = ?", *filter.Platform)
		}
		return db
	}
}

func invalid(format string, args ...any) error {
	return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func validateInvestment(inv *models.Investment) error {
	switch {
	case !inv.AssetType.Valid():
		return invalid("asset_type must be one of: %s", joinAssetTypes())
	case strings.TrimSpace(inv.AssetName) == "" || utf8.RuneCountInString(inv.AssetName) > maxAssetNameLength:
		return invalid("asset_name must be between 1 and %d characters", maxAssetNameLength)
	case inv.Symbol != nil && utf8.RuneCountInString(*inv.Symbol) > maxSymbolLength:
		return invalid("symbol must be at most %d characters", maxSymbolLength)
	case !inv.Quantity.IsPositive():
		return invalid("quantity must be greater than 0")
	case !analytics.HasScale(inv.Quantity, analytics.QuantityScale):
		return invalid("quantity must have at most %d decimal places", analytics.QuantityScale)
	case !analytics.FitsNumeric(inv.Quantity, analytics.QuantityPrecision, analytics.QuantityScale):
		return invalid("quantity is too large")
	case !inv.PurchasePrice.IsPositive():
		return invalid("purchase_price must be greater than 0")
	case !analytics.HasScale(inv.PurchasePrice, analytics.PriceScale):
		return invalid("purchase_price must have at most %d decimal places", analytics.PriceScale)
	case !analytics.FitsNumeric(inv.PurchasePrice, analytics.PricePrecision, analytics.PriceScale):
		return invalid("purchase_price is too large")
	case inv.CurrentPrice.IsNegative():
		return invalid("current_price must not be negative")
	case !analytics.HasScale(inv.CurrentPrice, analytics.PriceScale):
		return invalid("current_price must have at most %d decimal places", analytics.PriceScale)
	case !analytics.FitsNumeric(inv.CurrentPrice, analytics.PricePrecision, analytics.PriceScale):
		return invalid("current_price is too large")
	case inv.PurchaseDate.IsZero():
		return invalid("purchase_date is required")
	case inv.MaturityDate != nil && !inv.MaturityDate.After(inv.PurchaseDate):
		return invalid("maturity_date must be after purchase_date")
	case inv.Platform != nil && utf8.RuneCountInString(*inv.Platform) > maxPlatformLength:
		return invalid("platform must be at most %d characters", maxPlatformLength)
	case inv.InterestRate != nil && (inv.InterestRate.IsNegative() || inv.InterestRate.GreaterThan(maxInterestRate)):
		return invalid("interest_rate must be between 0 and 100")
	case inv.InterestRate != nil && !analytics.HasScale(*inv.InterestRate, 2):
		return invalid("interest_rate must have at most 2 decimal places")
	case inv.Notes != nil && utf8.RuneCountInString(*inv.Notes) > maxNotesLength:
		return invalid("notes must be at most %d characters", maxNotesLength)
	}
	return nil
}

func joinAssetTypes() string {
	names := make([]string, len(models.AssetTypes))
	for i, t := range models.AssetTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := analytics.Day(*t)
	return &d
}

func (s *investmentService) holding(inv *models.Investment) *analytics.Holding {
	h := analytics.NewHolding(*inv, s.today())
	return &h
}

// CreateInvestment records a new holding for userID.
func (s *investmentService) CreateInvestment(userID string, in InvestmentInput) (*analytics.Holding, error) {
	inv := &models.Investment{
		UserID:        userID,
		AssetType:     in.AssetType,
		AssetName:     strings.TrimSpace(in.AssetName),
		Symbol:        in.Symbol,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		CurrentPrice:  in.CurrentPrice,
		PurchaseDate:  analytics.Day(in.PurchaseDate),
		MaturityDate:  dayPtr(in.MaturityDate),
		Platform:      in.Platform,
		InterestRate:  in.InterestRate,
		Notes:         in.Notes,
	}
	if err := validateInvestment(inv); err != nil {
		return nil, err
	}

	if err := s.db.Create(inv).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.holding(inv), nil
}

// GetInvestments returns one page of matching holdings, most recent purchase
// first, with the summary of the owner's whole portfolio.
func (s *investmentService) GetInvestments(userID string, filter InvestmentFilter, page pagination.PageRequest) (*InvestmentList, error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Investment{}).Scopes(investmentScope(userID, filter)).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := s.db.Scopes(investmentScope(userID, filter), pagination.Paginate(page)).
		Order("purchase_date DESC").Order("id ASC").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary, err := s.GetPortfolioSummary(userID)
	if err != nil {
		return nil, err
	}

	return &InvestmentList{
		PageResponse:     pagination.NewPageResponse(analytics.Holdings(investments, s.today()), page.Page, page.PageSize, total),
		PortfolioSummary: *summary,
	}, nil
}

// GetAllInvestments returns every investment of userID.
func (s *investmentService) GetAllInvestments(userID string) ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.db.Scopes(investmentScope(userID, InvestmentFilter{})).
		Order("purchase_date DESC").Order("id ASC").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investments, nil
}

func (s *investmentService) find(userID, investmentID string) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &inv, nil
}

// GetInvestmentByID returns the holding if it exists and belongs to userID.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*analytics.Holding, error) {
	inv, err := s.find(userID, investmentID)
	if err != nil {
		return nil, err
	}
	return s.holding(inv), nil
}

// UpdateInvestment applies the set fields of in and revalidates the merged
// record, so a new maturity date is checked against the stored purchase date
// and vice versa.
func (s *investmentService) UpdateInvestment(userID, investmentID string, in InvestmentUpdate) (*analytics.Holding, error) {
	inv, err := s.find(userID, investmentID)
	if err != nil {
		return nil, err
	}

	if in.AssetType != nil {
		inv.AssetType = *in.AssetType
	}
	if in.AssetName != nil {
		inv.AssetName = strings.TrimSpace(*in.AssetName)
	}
	if in.Symbol != nil {
		inv.Symbol = in.Symbol
	}
	if in.Quantity != nil {
		inv.Quantity = *in.Quantity
	}
	if in.PurchasePrice != nil {
		inv.PurchasePrice = *in.PurchasePrice
	}
	if in.CurrentPrice != nil {
		inv.CurrentPrice = *in.CurrentPrice
	}
	if in.PurchaseDate != nil {
		inv.PurchaseDate = analytics.Day(*in.PurchaseDate)
	}
	if in.MaturityDate != nil {
		inv.MaturityDate = dayPtr(in.MaturityDate)
	}
	if in.Platform != nil {
		inv.Platform = in.Platform
	}
	if in.InterestRate != nil {
		inv.InterestRate = in.InterestRate
	}
	if in.Notes != nil {
		inv.Notes = in.Notes
	}
	if err := validateInvestment(inv); err != nil {
		return nil, err
	}

	if err := s.db.Save(inv).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.holding(inv), nil
}

// UpdatePrice sets the current price of one holding.
func (s *investmentService) UpdatePrice(userID, investmentID string, price decimal.Decimal) (*analytics.Holding, error) {
	if err := analytics.ValidatePrice(price); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPrice, err.Error())
	}

	inv, err := s.find(userID, investmentID)
	if err != nil {
		return nil, err
	}

	inv.CurrentPrice = price
	if err := s.db.Model(inv).Update("current_price", price).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.holding(inv), nil
}

// DeleteInvestment removes the holding if it belongs to userID.
func (s *investmentService) DeleteInvestment(userID, investmentID string) error {
	result := s.db.Where("id = ? AND user_id = ?", investmentID, userID).Delete(&models.Investment{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvestmentNotFound
	}
	return nil
}

// GetPortfolioSummary totals every holding of userID.
func (s *investmentService) GetPortfolioSummary(userID string) (*analytics.PortfolioSummary, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	summary := analytics.SummarizePortfolio(investments)
	return &summary, nil
}

// GetAssetAllocation splits portfolio value by asset type.
func (s *investmentService) GetAssetAllocation(userID string) ([]analytics.Allocation, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	return analytics.AssetAllocation(investments), nil
}

// GetTopPerformers returns the holdings with the highest percentage gain.
func (s *investmentService) GetTopPerformers(userID string, limit int) ([]analytics.Holding, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	return analytics.TopPerformers(investments, s.today(), limit), nil
}

// GetWorstPerformers returns the holdings with the lowest percentage gain.
func (s *investmentService) GetWorstPerformers(userID string, limit int) ([]analytics.Holding, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	return analytics.WorstPerformers(investments, s.today(), limit), nil
}

// GetMaturingSoon returns holdings maturing within the next days days.
func (s *investmentService) GetMaturingSoon(userID string, days int) ([]analytics.Holding, error) {
	var investments []models.Investment
	if err := s.db.Scopes(investmentScope(userID, InvestmentFilter{})).
		Where("maturity_date IS NOT NULL").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return analytics.MaturingSoon(investments, s.today(), days), nil
}

// GetPlatformSummary groups holdings by platform.
func (s *investmentService) GetPlatformSummary(userID string) ([]analytics.PlatformSummary, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	return analytics.SummarizePlatforms(investments), nil
}

// BulkUpdatePrices applies each price update independently. Unknown ids,
// ids owned by someone else, and bad prices fail only their own entry.
func (s *investmentService) BulkUpdatePrices(userID string, updates []analytics.PriceUpdate) (*analytics.BulkPriceUpdateResult, error) {
	result := analytics.ApplyPriceUpdates(updates, func(id string, price decimal.Decimal) error {
		if !uuid.IsValid(id) {
			return errInvalidInvestmentID
		}
		res := s.db.Model(&models.Investment{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("current_price", price)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInvestmentNotFound
		}
		return nil
	})

	for _, f := range result.FailedUpdates {
		logger.Get().Warnw("price update rejected", "user_id", userID, "investment_id", f.ID, "reason", f.Error)
	}
	return &result, nil
}

// GetPerformanceTrends returns the cumulative contribution timeline.
func (s *investmentService) GetPerformanceTrends(userID string) (*analytics.PerformanceTrend, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	trend := analytics.ContributionTrend(investments)
	return &trend, nil
}

// GetStatistics returns the statistical report of the portfolio. It returns
// analytics.ErrNoInvestments when the owner holds nothing.
func (s *investmentService) GetStatistics(userID string) (*analytics.Statistics, error) {
	investments, err := s.GetAllInvestments(userID)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeStatistics(investments, s.today())
}
