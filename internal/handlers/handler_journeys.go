package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

// journeyHandler handles HTTP requests related to work shifts
type journeyHandler struct {
	journeyService portssvc.JourneySvcFacade
}

// RegisterJourneyRoutes registers routes related to journeys
func RegisterJourneyRoutes(rg *gin.RouterGroup, journeyService portssvc.JourneySvcFacade) {
	h := &journeyHandler{journeyService: journeyService}

	journeys := rg.Group("/journeys")
	{
		journeys.POST("", h.startJourney)
		journeys.GET("", h.listJourneys)
		journeys.GET("/:journey_id", h.getJourney)
		journeys.POST("/:journey_id/close", h.closeJourney)
		journeys.PATCH("/:journey_id", h.updateJourney)
		journeys.POST("/:journey_id/reconcile", h.reconcileJourney)
		journeys.DELETE("/:journey_id", h.deleteJourney)
	}
}

// startJourney godoc
// @Summary Start a journey
// @Description Opens a shift on the contract. Odometer and wallet balance default to the contract snapshot.
// @Tags journeys
// @Accept json
// @Produce json
// @Param journey body dto.StartJourneyRequest true "Journey details"
// @Success 201 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Failure 409 {object} map[string]string "A journey is already open"
// @Security BearerAuth
// @Router /journeys [post]
func (h *journeyHandler) startJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.StartJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartJourney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	journey, err := h.journeyService.StartJourney(c.Request.Context(), ownerID, req)
	if err != nil {
		respondWithError(c, logger, err, "start journey")
		return
	}

	logger.Info("Journey started", slog.String("journey_id", journey.JourneyID))
	c.JSON(http.StatusCreated, dto.ToJourneyResponse(journey))
}

// listJourneys godoc
// @Summary List journeys
// @Description Keyset paginated, most recent start first.
// @Tags journeys
// @Produce json
// @Param contractID query string false "Contract ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJourneysResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /journeys [get]
func (h *journeyHandler) listJourneys(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var params dto.ListJourneysParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListJourneys", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journeyService.ListJourneys(c.Request.Context(), ownerID, params)
	if err != nil {
		respondWithError(c, logger, err, "list journeys")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getJourney godoc
// @Summary Get a journey by ID
// @Tags journeys
// @Produce json
// @Param journey_id path string true "Journey ID"
// @Success 200 {object} dto.JourneyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Security BearerAuth
// @Router /journeys/{journey_id} [get]
func (h *journeyHandler) getJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	journey, err := h.journeyService.GetJourneyByID(c.Request.Context(), ownerID, c.Param("journey_id"))
	if err != nil {
		respondWithError(c, logger, err, "get journey")
		return
	}
	c.JSON(http.StatusOK, dto.ToJourneyResponse(journey))
}

// closeJourney godoc
// @Summary Close a journey
// @Description Closes an open shift, derives the consumed wallet balance and updates the contract snapshot atomically.
// @Tags journeys
// @Accept json
// @Produce json
// @Param journey_id path string true "Journey ID"
// @Param body body dto.CloseJourneyRequest true "Closing odometer and balance"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey already closed"
// @Security BearerAuth
// @Router /journeys/{journey_id}/close [post]
func (h *journeyHandler) closeJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.CloseJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseJourney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	rec, err := h.journeyService.CloseJourney(c.Request.Context(), ownerID, c.Param("journey_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "close journey")
		return
	}

	logger.Info("Journey closed", slog.String("journey_id", rec.Journey.JourneyID), slog.String("outcome", string(rec.Outcome)))
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// updateJourney godoc
// @Summary Edit a closed journey
// @Description Edits dates, odometer or balances and reconciles the journey again.
// @Tags journeys
// @Accept json
// @Produce json
// @Param journey_id path string true "Journey ID"
// @Param body body dto.UpdateJourneyRequest true "Fields to update"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey is still open"
// @Security BearerAuth
// @Router /journeys/{journey_id} [patch]
func (h *journeyHandler) updateJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJourney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	rec, err := h.journeyService.UpdateJourney(c.Request.Context(), ownerID, c.Param("journey_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "update journey")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// reconcileJourney godoc
// @Summary Reconcile a closed journey
// @Tags journeys
// @Produce json
// @Param journey_id path string true "Journey ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey is still open"
// @Security BearerAuth
// @Router /journeys/{journey_id}/reconcile [post]
func (h *journeyHandler) reconcileJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	rec, err := h.journeyService.ReconcileJourney(c.Request.Context(), ownerID, c.Param("journey_id"))
	if err != nil {
		respondWithError(c, logger, err, "reconcile journey")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// deleteJourney godoc
// @Summary Delete a closed journey
// @Description Removes the journey together with its automatic and linked entries.
// @Tags journeys
// @Param journey_id path string true "Journey ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey is still open"
// @Security BearerAuth
// @Router /journeys/{journey_id} [delete]
func (h *journeyHandler) deleteJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	if err := h.journeyService.DeleteJourney(c.Request.Context(), ownerID, c.Param("journey_id")); err != nil {
		respondWithError(c, logger, err, "delete journey")
		return
	}
	c.Status(http.StatusNoContent)
}
