// Package server assembles the HTTP API: services, handlers, middleware and
// routes on a single gin engine.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"wealthtracker/internal/config"
	_ "wealthtracker/internal/docs" // swagger docs
	apperrors "wealthtracker/internal/errors"
	"wealthtracker/internal/handlers"
	"wealthtracker/internal/middleware"
	"wealthtracker/internal/services"
)

// NewRouter wires every service and handler against db and returns the
// configured engine.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db)
	investmentService := services.NewInvestmentService(db)
	dashboardService := services.NewDashboardService(expenseService, investmentService)
	exportService := services.NewExportService(expenseService, investmentService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, userService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	exportHandler := handlers.NewExportHandler(exportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": cfg.AppName})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg))

	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteAccount)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary/by-category", expenseHandler.GetCategorySummary)
	expenses.GET("/summary/by-month", expenseHandler.GetMonthlySummary)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.POST("/bulk-update-prices", investmentHandler.BulkUpdatePrices)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.PATCH("/:id/price", investmentHandler.UpdatePrice)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	investmentAnalytics := investments.Group("/analytics")
	investmentAnalytics.GET("/summary", investmentHandler.GetPortfolioSummary)
	investmentAnalytics.GET("/asset-allocation", investmentHandler.GetAssetAllocation)
	investmentAnalytics.GET("/top-performers", investmentHandler.GetTopPerformers)
	investmentAnalytics.GET("/worst-performers", investmentHandler.GetWorstPerformers)
	investmentAnalytics.GET("/maturing-soon", investmentHandler.GetMaturingSoon)
	investmentAnalytics.GET("/platform-summary", investmentHandler.GetPlatformSummary)
	investmentAnalytics.GET("/trends", investmentHandler.GetPerformanceTrends)
	investmentAnalytics.GET("/statistics", investmentHandler.GetStatistics)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/health-score", dashboardHandler.GetHealthScore)

	export := protected.Group("/export")
	export.GET("/expenses/csv", exportHandler.ExportExpensesCSV)
	export.GET("/investments/csv", exportHandler.ExportInvestmentsCSV)
	export.GET("/complete", exportHandler.ExportComplete)

	return router
}
