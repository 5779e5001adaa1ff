package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
)

// RequestReaderSvc defines read operations for money requests.
type RequestReaderSvc interface {
	// GetRequestByID retrieves a request visible to the given user.
	GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error)

	// ListRequests retrieves a paginated list of the user's requests.
	ListRequests(ctx context.Context, userID string, params dto.ListMoneyRequestsParams) (*dto.ListMoneyRequestsResponse, error)
}

// RequestWriterSvc defines lifecycle operations for money requests.
type RequestWriterSvc interface {
	// CreateRequest records a pending request from requestor to lender.
	CreateRequest(ctx context.Context, req dto.CreateMoneyRequestRequest, requestorID string) (*domain.MoneyRequest, error)

	// DecideRequest applies the lender's approve/reject decision.
	DecideRequest(ctx context.Context, requestID string, actingUserID string, req dto.DecideMoneyRequestRequest) (*domain.MoneyRequest, error)

	// ApproveAndPay atomically approves a pending request, records the
	// money-sent proof and creates the funded transaction. Primary path.
	ApproveAndPay(ctx context.Context, requestID string, actingUserID string, req dto.ApproveAndPayRequest) (*domain.MoneyTransaction, error)

	// SendMoney funds a previously approved request (the two-step path).
	SendMoney(ctx context.Context, requestID string, actingUserID string, req dto.SendMoneyRequest) (*domain.MoneyTransaction, error)
}

// RequestSvcFacade combines all money-request service interfaces.
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
}
