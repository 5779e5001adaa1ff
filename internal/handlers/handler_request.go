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

// requestHandler handles HTTP requests related to money requests.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

// newRequestHandler creates a new requestHandler.
func newRequestHandler(rs portssvc.RequestSvcFacade) *requestHandler {
	return &requestHandler{
		requestService: rs,
	}
}

// registerRequestRoutes registers routes related to money requests.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := newRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)
		requests.POST("/:id/decide", h.decideRequest)
		requests.POST("/:id/approve-and-pay", h.approveAndPay)
		requests.POST("/:id/send-money", h.sendMoney)
	}
}

// createRequest godoc
// @Summary Create a money request
// @Description Asks a friend for money; the request starts PENDING
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateMoneyRequestRequest true "Request details"
// @Success 201 {object} dto.MoneyRequestResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Lender is not a friend"
// @Failure 500 {object} map[string]string "Failed to create request"
// @Security BearerAuth
// @Router /requests [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMoneyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requestor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("requestor_id", requestorID), slog.String("lender_id", req.LenderID))
	logger.Info("Received request to create money request", slog.String("amount", req.Amount.String()))

	newRequest, err := h.requestService.CreateRequest(c.Request.Context(), req, requestorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating money request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Requestor and lender are not friends", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create money request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		}
		return
	}

	logger.Info("Money request created successfully", slog.String("request_id", newRequest.RequestID))
	c.JSON(http.StatusCreated, dto.ToMoneyRequestResponse(newRequest))
}

// getRequest godoc
// @Summary Get a money request by ID
// @Description Retrieves a money request visible to the logged-in user
// @Tags requests
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the request)"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 500 {object} map[string]string "Failed to retrieve request"
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID))

	request, err := h.requestService.GetRequestByID(c.Request.Context(), requestID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Money request not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User is not a party to the request")
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to get money request from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// listRequests godoc
// @Summary List money requests for the logged-in user
// @Description Retrieves a paginated list of requests where the user is requestor or lender
// @Tags requests
// @Produce  json
// @Param   role query string false "Filter by role" Enums(LENDER, REQUESTOR)
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListMoneyRequestsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list requests"
// @Security BearerAuth
// @Router /requests [get]
func (h *requestHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListMoneyRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.requestService.ListRequests(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing money requests", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list money requests", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// decideRequest godoc
// @Summary Approve or reject a money request
// @Description Applies the lender's decision on a PENDING request
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   decision body dto.DecideMoneyRequestRequest true "Decision details"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is no longer pending"
// @Failure 500 {object} map[string]string "Failed to decide request"
// @Security BearerAuth
// @Router /requests/{id}/decide [post]
func (h *requestHandler) decideRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.DecideMoneyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("decision", req.Decision))
	logger.Info("Received request decision")

	request, err := h.requestService.DecideRequest(c.Request.Context(), requestID, userID, req)
	if err != nil {
		h.respondRequestMutationError(c, logger, err, "Failed to decide request")
		return
	}

	logger.Info("Money request decision applied", slog.String("status", string(request.Status)))
	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// approveAndPay godoc
// @Summary Approve a request and send the money in one step
// @Description Atomically approves a PENDING request, records the money-sent proof and creates the funded transaction
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   payment body dto.ApproveAndPayRequest true "Money-sent proof"
// @Success 201 {object} dto.MoneyTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is no longer pending"
// @Failure 500 {object} map[string]string "Failed to approve and pay"
// @Security BearerAuth
// @Router /requests/{id}/approve-and-pay [post]
func (h *requestHandler) approveAndPay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.ApproveAndPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApproveAndPay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID))
	logger.Info("Received approve-and-pay request")

	txn, err := h.requestService.ApproveAndPay(c.Request.Context(), requestID, userID, req)
	if err != nil {
		h.respondRequestMutationError(c, logger, err, "Failed to approve and pay")
		return
	}

	logger.Info("Request approved and funded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToMoneyTransactionResponse(txn))
}

// sendMoney godoc
// @Summary Fund an already-approved request
// @Description Records the money-sent proof and creates the transaction for an APPROVED request (two-step path)
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   payment body dto.SendMoneyRequest true "Money-sent proof"
// @Success 201 {object} dto.MoneyTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is not approved or already funded"
// @Failure 500 {object} map[string]string "Failed to send money"
// @Security BearerAuth
// @Router /requests/{id}/send-money [post]
func (h *requestHandler) sendMoney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.SendMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SendMoney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID))
	logger.Info("Received send-money request")

	txn, err := h.requestService.SendMoney(c.Request.Context(), requestID, userID, req)
	if err != nil {
		h.respondRequestMutationError(c, logger, err, "Failed to send money")
		return
	}

	logger.Info("Request funded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToMoneyTransactionResponse(txn))
}

// respondRequestMutationError maps service errors from request lifecycle
// mutations onto HTTP responses.
func (h *requestHandler) respondRequestMutationError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Money request not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User is not the lender for this request", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Request state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
