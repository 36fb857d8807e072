package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealthtracker/internal/services"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportHandler handles data export requests.
type ExportHandler struct {
	exportService services.ExportServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, csvContentType, data)
}

// ExportExpensesCSV handles downloading every expense as CSV.
// @Summary     Export expenses
// @Description Download every expense as a CSV file
// @Tags        export
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {file}   file "expenses.csv"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/expenses/csv [get]
func (h *ExportHandler) ExportExpensesCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.exportService.ExportExpensesCSV(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendCSV(c, "expenses.csv", data)
}

// ExportInvestmentsCSV handles downloading every investment as CSV.
// @Summary     Export investments
// @Description Download every investment with its derived metrics as a CSV file
// @Tags        export
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {file}   file "investments.csv"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/investments/csv [get]
func (h *ExportHandler) ExportInvestmentsCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.exportService.ExportInvestmentsCSV(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendCSV(c, "investments.csv", data)
}

// ExportComplete handles the complete JSON export.
// @Summary     Export everything
// @Description Every expense and investment with summaries and the dashboard as one JSON document
// @Tags        export
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CompleteExport "Complete export"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/complete [get]
func (h *ExportHandler) ExportComplete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	export, err := h.exportService.ExportAll(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, export)
}
