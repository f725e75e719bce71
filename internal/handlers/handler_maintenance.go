package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

// RegisterMaintenanceRoutes registers one-time data migration routes
func RegisterMaintenanceRoutes(rg *gin.RouterGroup, maintenanceService portssvc.MaintenanceService) {
	rg.POST("/maintenance/relink-legacy", relinkLegacyRecords(maintenanceService))
}

// relinkLegacyRecords godoc
// @Summary Relink legacy records
// @Description Backfills missing contract ids, links unlinked wallet credits to the single closed journey containing them and reconciles the affected journeys. Ambiguous credits are reported and left unlinked.
// @Tags maintenance
// @Produce json
// @Success 200 {object} dto.LegacyRelinkResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Migration failed"
// @Security BearerAuth
// @Router /maintenance/relink-legacy [post]
func relinkLegacyRecords(svc portssvc.MaintenanceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromContext(c)
		ownerID, ok := requireOwner(c, logger)
		if !ok {
			return
		}

		report, err := svc.RelinkLegacyRecords(c.Request.Context(), ownerID)
		if err != nil {
			if report != nil {
				logger.Error("Legacy relink finished with errors",
					slog.Int("linked", len(report.Linked)),
					slog.Int("reconciled", len(report.ReconciledJourneys)),
				)
			}
			respondWithError(c, logger, err, "relink legacy records")
			return
		}

		logger.Info("Legacy relink finished",
			slog.Int("linked", len(report.Linked)),
			slog.Int("ambiguous", len(report.AmbiguousEntryIDs)),
		)
		c.JSON(http.StatusOK, dto.ToLegacyRelinkResponse(report))
	}
}
