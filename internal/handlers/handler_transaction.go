package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/good4it/good4it_backend/internal/apperrors"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to money transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to money transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.GET("/:id/payment-due", h.paymentDue)
		transactions.GET("/:id/proofs", h.listProofs)
		transactions.POST("/:id/confirm-receipt", h.confirmReceipt)
		transactions.POST("/:id/repayments", h.submitRepayment)
		transactions.POST("/:id/repayments/confirm", h.confirmRepayment)
		transactions.POST("/:id/repayments/reject", h.rejectRepayment)
		transactions.POST("/:id/forgive", h.forgive)
	}
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves a transaction visible to the logged-in user
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the transaction)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions for the logged-in user
// @Description Retrieves a paginated list of transactions where the user is requestor or lender
// @Tags transactions
// @Produce  json
// @Param   role query string false "Filter by role" Enums(LENDER, REQUESTOR)
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// paymentDue godoc
// @Summary Check whether a payment is due
// @Description Answers whether a payment is required from the borrower for the period containing the given instant
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   at query string false "Instant to evaluate (RFC3339), defaults to now"
// @Success 200 {object} dto.PaymentDueResponse
// @Failure 400 {object} map[string]string "Invalid instant"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the transaction)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to evaluate payment due"
// @Security BearerAuth
// @Router /transactions/{id}/payment-due [get]
func (h *transactionHandler) paymentDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	at := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("Invalid 'at' query parameter", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' parameter, expected RFC3339"})
			return
		}
		at = parsed.UTC()
	}

	logger = logger.With(slog.String("transaction_id", transactionID))

	resp, err := h.transactionService.PaymentDue(c.Request.Context(), transactionID, userID, at)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to evaluate payment due")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listProofs godoc
// @Summary List proofs attached to a transaction
// @Description Retrieves the proof-of-payment records for a transaction, oldest first
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.ListProofsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the transaction)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to list proofs"
// @Security BearerAuth
// @Router /transactions/{id}/proofs [get]
func (h *transactionHandler) listProofs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))

	proofs, err := h.transactionService.ListProofs(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to list proofs")
		return
	}

	c.JSON(http.StatusOK, dto.ListProofsResponse{Proofs: dto.ToProofResponses(proofs)})
}

// confirmReceipt godoc
// @Summary Confirm receipt of the money
// @Description Moves MONEY_SENT to MONEY_RECEIVED; requestor only
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the requestor)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not awaiting receipt"
// @Failure 500 {object} map[string]string "Failed to confirm receipt"
// @Security BearerAuth
// @Router /transactions/{id}/confirm-receipt [post]
func (h *transactionHandler) confirmReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received confirm-receipt request")

	txn, err := h.transactionService.ConfirmReceipt(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to confirm receipt")
		return
	}

	logger.Info("Receipt confirmed", slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// submitRepayment godoc
// @Summary Submit a repayment
// @Description Moves MONEY_RECEIVED (or an unconfirmed REPAYMENT_SENT, overwriting its pending amount) to REPAYMENT_SENT; requestor only, proof required
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   repayment body dto.SubmitRepaymentRequest true "Repayment amount and proof"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the requestor)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction cannot accept a repayment"
// @Failure 500 {object} map[string]string "Failed to submit repayment"
// @Security BearerAuth
// @Router /transactions/{id}/repayments [post]
func (h *transactionHandler) submitRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.SubmitRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received repayment submission", slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.SubmitRepayment(c.Request.Context(), transactionID, userID, req)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to submit repayment")
		return
	}

	logger.Info("Repayment submitted", slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// confirmRepayment godoc
// @Summary Confirm a submitted repayment
// @Description Folds the pending amount into the confirmed accumulator; REPAID when it covers the principal, back to MONEY_RECEIVED otherwise; lender only
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "No repayment awaiting confirmation"
// @Failure 500 {object} map[string]string "Failed to confirm repayment"
// @Security BearerAuth
// @Router /transactions/{id}/repayments/confirm [post]
func (h *transactionHandler) confirmRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received repayment confirmation")

	txn, err := h.transactionService.ConfirmRepayment(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to confirm repayment")
		return
	}

	logger.Info("Repayment confirmed", slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// rejectRepayment godoc
// @Summary Reject a submitted repayment
// @Description Moves REPAYMENT_SENT to REPAYMENT_REJECTED with a reason; lender only
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   rejection body dto.RejectRepaymentRequest true "Rejection reason"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "No repayment awaiting confirmation"
// @Failure 500 {object} map[string]string "Failed to reject repayment"
// @Security BearerAuth
// @Router /transactions/{id}/repayments/reject [post]
func (h *transactionHandler) rejectRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.RejectRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received repayment rejection")

	txn, err := h.transactionService.RejectRepayment(c.Request.Context(), transactionID, userID, req)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to reject repayment")
		return
	}

	logger.Info("Repayment rejected", slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// forgive godoc
// @Summary Forgive the remaining debt
// @Description Writes off the remaining balance, moving MONEY_RECEIVED to FORGIVEN; lender only
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.MoneyTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction cannot be forgiven in its current state"
// @Failure 500 {object} map[string]string "Failed to forgive debt"
// @Security BearerAuth
// @Router /transactions/{id}/forgive [post]
func (h *transactionHandler) forgive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received forgive request")

	txn, err := h.transactionService.Forgive(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondTransactionError(c, logger, err, "Failed to forgive debt")
		return
	}

	logger.Info("Debt forgiven", slog.String("forgiven_amount", txn.ForgivenAmount.String()))
	c.JSON(http.StatusOK, dto.ToMoneyTransactionResponse(txn))
}

// respondTransactionError maps service errors from transaction operations onto
// HTTP responses.
func (h *transactionHandler) respondTransactionError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Transaction not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User is not the required party", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Transaction state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
