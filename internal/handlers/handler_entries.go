package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

// entryHandler handles HTTP requests for manual bookkeeping entries
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

// RegisterEntryRoutes registers routes related to entries
func RegisterEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := &entryHandler{entryService: entryService}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PATCH("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)
	}
}

// createEntry godoc
// @Summary Record a manual entry
// @Description Creates a revenue, fuel, tax, expense or recharge entry. Attaches to the active contract when contractID is omitted.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract or journey not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), ownerID, req)
	if err != nil {
		respondWithError(c, logger, err, "create entry")
		return
	}

	logger.Info("Entry created", slog.String("entry_id", entry.EntryID), slog.String("kind", string(entry.Kind)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List entries
// @Description Keyset paginated, newest first.
// @Tags entries
// @Produce json
// @Param contractID query string false "Contract ID"
// @Param journeyID query string false "Journey ID"
// @Param from query string false "First civil day (YYYY-MM-DD)"
// @Param to query string false "Last civil day (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), ownerID, params)
	if err != nil {
		respondWithError(c, logger, err, "list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get an entry by ID
// @Tags entries
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entry_id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), ownerID, c.Param("entry_id"))
	if err != nil {
		respondWithError(c, logger, err, "get entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a manual entry
// @Description Automatic entries cannot be edited. Editing a recharge of a closed journey reconciles it again.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Automatic entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entry_id} [patch]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), ownerID, c.Param("entry_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "update entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a manual entry
// @Tags entries
// @Param entry_id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Automatic entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entry_id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), ownerID, c.Param("entry_id")); err != nil {
		respondWithError(c, logger, err, "delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}
