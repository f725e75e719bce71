package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

// reportingHandler handles HTTP requests related to profitability reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// RegisterReportingRoutes registers routes related to reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.getDailyStats)
		reports.GET("/period", h.getPeriodReport)
	}
}

// getDailyStats godoc
// @Summary Daily summary
// @Description Revenue, costs, prorated contract cost, net profit and goal status of one civil day.
// @Tags reports
// @Produce json
// @Param date query string false "Civil day (YYYY-MM-DD)" default(today)
// @Param contractID query string false "Contract ID" default(active contract)
// @Success 200 {object} dto.DailyStatsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/daily [get]
func (h *reportingHandler) getDailyStats(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var params dto.DailyStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for DailyStats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.reportingService.DailyStats(c.Request.Context(), ownerID, params.Date, params.ContractID)
	if err != nil {
		respondWithError(c, logger, err, "generate daily stats")
		return
	}

	logger.Debug("Daily stats generated", slog.String("day", stats.Day))
	c.JSON(http.StatusOK, dto.ToDailyStatsResponse(stats))
}

// getPeriodReport godoc
// @Summary Period report
// @Description Aggregated KPIs over the last N days, a custom civil range or a whole contract.
// @Tags reports
// @Produce json
// @Param preset query string false "last_days, custom or contract" default(last_days)
// @Param days query int false "Number of days for last_days" default(7)
// @Param from query string false "First civil day for custom (YYYY-MM-DD)"
// @Param to query string false "Last civil day for custom (YYYY-MM-DD)"
// @Param contractID query string false "Contract ID" default(active contract)
// @Param platform query string false "Restrict revenue and app tax to a platform"
// @Success 200 {object} dto.PeriodReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/period [get]
func (h *reportingHandler) getPeriodReport(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var params dto.PeriodReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for PeriodReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.PeriodReport(c.Request.Context(), ownerID, params.ToQuery())
	if err != nil {
		respondWithError(c, logger, err, "generate period report")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodReportResponse(report))
}
