package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

// contractHandler handles HTTP requests related to vehicle contracts
type contractHandler struct {
	contractService portssvc.ContractSvcFacade
	now             func() time.Time
}

func newContractHandler(cs portssvc.ContractSvcFacade) *contractHandler {
	return &contractHandler{contractService: cs, now: time.Now}
}

// RegisterContractRoutes registers routes related to contracts
func RegisterContractRoutes(rg *gin.RouterGroup, contractService portssvc.ContractSvcFacade) {
	h := newContractHandler(contractService)

	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.createContract)
		contracts.GET("", h.listContracts)
		contracts.GET("/active", h.getActiveContract)
		contracts.GET("/:contract_id", h.getContract)
		contracts.PATCH("/:contract_id", h.updateContract)
		contracts.POST("/:contract_id/close", h.closeContract)
		contracts.DELETE("/:contract_id", h.deleteContract)
	}
}

// createContract godoc
// @Summary Register a vehicle contract
// @Description Creates a RENTED or OWNED contract. Only one unfinished contract may exist per owner.
// @Tags contracts
// @Accept json
// @Produce json
// @Param contract body dto.CreateContractRequest true "Contract details"
// @Success 201 {object} dto.ContractResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Another contract is still active"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /contracts [post]
func (h *contractHandler) createContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContract", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), ownerID, req)
	if err != nil {
		respondWithError(c, logger, err, "create contract")
		return
	}

	logger.Info("Contract created", slog.String("contract_id", contract.ContractID))
	c.JSON(http.StatusCreated, dto.ToContractResponse(contract, h.now()))
}

// listContracts godoc
// @Summary List contracts
// @Tags contracts
// @Produce json
// @Success 200 {array} dto.ContractResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /contracts [get]
func (h *contractHandler) listContracts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	contracts, err := h.contractService.ListContracts(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger, err, "list contracts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListContractResponse(contracts, h.now()))
}

// getActiveContract godoc
// @Summary Get the active contract
// @Description Returns the owner's contract that is ACTIVE or FUTURE.
// @Tags contracts
// @Produce json
// @Success 200 {object} dto.ContractResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active contract"
// @Security BearerAuth
// @Router /contracts/active [get]
func (h *contractHandler) getActiveContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	contract, err := h.contractService.GetActiveContract(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger, err, "get active contract")
		return
	}
	c.JSON(http.StatusOK, dto.ToContractResponse(contract, h.now()))
}

// getContract godoc
// @Summary Get a contract by ID
// @Tags contracts
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Security BearerAuth
// @Router /contracts/{contract_id} [get]
func (h *contractHandler) getContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	contract, err := h.contractService.GetContractByID(c.Request.Context(), ownerID, c.Param("contract_id"))
	if err != nil {
		respondWithError(c, logger, err, "get contract")
		return
	}
	c.JSON(http.StatusOK, dto.ToContractResponse(contract, h.now()))
}

// updateContract godoc
// @Summary Update a contract
// @Description Edits name, plate, goal, value, installment, odometer or app balance.
// @Tags contracts
// @Accept json
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Param contract body dto.UpdateContractRequest true "Fields to update"
// @Success 200 {object} dto.ContractResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Security BearerAuth
// @Router /contracts/{contract_id} [patch]
func (h *contractHandler) updateContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateContract", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), ownerID, c.Param("contract_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, dto.ToContractResponse(contract, h.now()))
}

// closeContract godoc
// @Summary Finish a contract
// @Description Sets status FINISHED and the end instant to the closure time. Refused while a journey is open.
// @Tags contracts
// @Accept json
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Param body body dto.CloseContractRequest false "Optional closure instant"
// @Success 200 {object} dto.ContractResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Failure 409 {object} map[string]string "Contract has an open journey or is already finished"
// @Security BearerAuth
// @Router /contracts/{contract_id}/close [post]
func (h *contractHandler) closeContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	var req dto.CloseContractRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CloseContract", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	contract, err := h.contractService.CloseContract(c.Request.Context(), ownerID, c.Param("contract_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "close contract")
		return
	}

	logger.Info("Contract closed", slog.String("contract_id", contract.ContractID))
	c.JSON(http.StatusOK, dto.ToContractResponse(contract, h.now()))
}

// deleteContract godoc
// @Summary Delete a contract
// @Description Only contracts without entries or journeys can be deleted.
// @Tags contracts
// @Param contract_id path string true "Contract ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contract not found"
// @Failure 409 {object} map[string]string "Contract is still referenced"
// @Security BearerAuth
// @Router /contracts/{contract_id} [delete]
func (h *contractHandler) deleteContract(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	if err := h.contractService.DeleteContract(c.Request.Context(), ownerID, c.Param("contract_id")); err != nil {
		respondWithError(c, logger, err, "delete contract")
		return
	}
	c.Status(http.StatusNoContent)
}
