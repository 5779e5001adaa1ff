package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/good4it/good4it_backend/internal/apperrors"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// disputeHandler handles HTTP requests related to disputes.
type disputeHandler struct {
	disputeService portssvc.DisputeSvcFacade
}

// newDisputeHandler creates a new disputeHandler.
func newDisputeHandler(ds portssvc.DisputeSvcFacade) *disputeHandler {
	return &disputeHandler{
		disputeService: ds,
	}
}

// registerDisputeRoutes registers routes related to disputes.
func registerDisputeRoutes(rg *gin.RouterGroup, disputeService portssvc.DisputeSvcFacade) {
	h := newDisputeHandler(disputeService)

	disputes := rg.Group("/disputes")
	{
		disputes.POST("", h.raiseDispute)
		disputes.POST("/:id/resolve", h.resolveDispute)
	}

	// Listing hangs off the transaction the disputes were raised against.
	rg.GET("/transactions/:id/disputes", h.listDisputes)
}

// raiseDispute godoc
// @Summary Raise a dispute on a transaction
// @Description Opens a dispute on a transaction by one of its parties, typically after a repayment rejection
// @Tags disputes
// @Accept  json
// @Produce  json
// @Param   dispute body dto.RaiseDisputeRequest true "Dispute details"
// @Success 201 {object} dto.DisputeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the transaction)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to raise dispute"
// @Security BearerAuth
// @Router /disputes [post]
func (h *disputeHandler) raiseDispute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RaiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RaiseDispute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID))
	logger.Info("Received request to raise dispute")

	dispute, err := h.disputeService.RaiseDispute(c.Request.Context(), req, userID)
	if err != nil {
		h.respondDisputeError(c, logger, err, "Failed to raise dispute")
		return
	}

	logger.Info("Dispute raised", slog.String("dispute_id", dispute.DisputeID))
	c.JSON(http.StatusCreated, dto.ToDisputeResponse(dispute))
}

// resolveDispute godoc
// @Summary Resolve an open dispute
// @Description Records the outcome and applies the reputation deltas; the transaction state machine is never touched
// @Tags disputes
// @Accept  json
// @Produce  json
// @Param   id path string true "Dispute ID"
// @Param   resolution body dto.ResolveDisputeRequest true "Resolution outcome"
// @Success 200 {object} dto.DisputeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Dispute not found"
// @Failure 409 {object} map[string]string "Dispute is not open"
// @Failure 500 {object} map[string]string "Failed to resolve dispute"
// @Security BearerAuth
// @Router /disputes/{id}/resolve [post]
func (h *disputeHandler) resolveDispute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	disputeID := c.Param("id")

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveDispute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("dispute_id", disputeID), slog.String("outcome", req.Outcome))
	logger.Info("Received request to resolve dispute")

	dispute, err := h.disputeService.ResolveDispute(c.Request.Context(), disputeID, req)
	if err != nil {
		h.respondDisputeError(c, logger, err, "Failed to resolve dispute")
		return
	}

	logger.Info("Dispute resolved")
	c.JSON(http.StatusOK, dto.ToDisputeResponse(dispute))
}

// listDisputes godoc
// @Summary List disputes for a transaction
// @Description Retrieves the disputes raised against a transaction, newest first; parties only
// @Tags disputes
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {array} dto.DisputeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the transaction)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to list disputes"
// @Security BearerAuth
// @Router /transactions/{id}/disputes [get]
func (h *disputeHandler) listDisputes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))

	disputes, err := h.disputeService.ListDisputesByTransaction(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondDisputeError(c, logger, err, "Failed to list disputes")
		return
	}

	c.JSON(http.StatusOK, dto.ToDisputeResponses(disputes))
}

// respondDisputeError maps service errors from dispute operations onto HTTP
// responses.
func (h *disputeHandler) respondDisputeError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Dispute or transaction not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User is not a party to the transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Dispute state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
