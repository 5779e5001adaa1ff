package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EMIDetailsRequest carries the instalment schedule for an EMI request.
type EMIDetailsRequest struct {
	NumberOfInstallments int             `json:"numberOfInstallments" binding:"required,min=1,max=24"`
	InstallmentAmount    decimal.Decimal `json:"installmentAmount" binding:"required"`
	Frequency            string          `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY QUARTERLY"`
}

// CreateMoneyRequestRequest defines the data needed to ask a friend for money.
type CreateMoneyRequestRequest struct {
	LenderID    string             `json:"lenderID" binding:"required"`
	Amount      decimal.Decimal    `json:"amount" binding:"required"`
	Description string             `json:"description"`
	PaymentType string             `json:"paymentType" binding:"required,oneof=FULL_PAYMENT EMI INSTALLMENTS FLEXIBLE"`
	EMIDetails  *EMIDetailsRequest `json:"emiDetails,omitempty"` // required iff paymentType is EMI
}

// DecideMoneyRequestRequest carries the lender's approve/reject decision.
type DecideMoneyRequestRequest struct {
	Decision        string  `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	RejectionReason *string `json:"rejectionReason,omitempty"` // required iff decision is REJECT
}

// ProofMetadata is the reference to an already-uploaded proof artifact.
// The upload itself is handled by the external file-storage service.
type ProofMetadata struct {
	StorageKey string `json:"storageKey" binding:"required"`
	MimeType   string `json:"mimeType" binding:"required"`
	SizeBytes  int64  `json:"sizeBytes" binding:"required,min=1"`
}

// ApproveAndPayRequest approves a pending request and attaches the money-sent
// proof in one operation. This is the primary funding path.
type ApproveAndPayRequest struct {
	Proof ProofMetadata `json:"proof" binding:"required"`
}

// SendMoneyRequest funds an already-approved request (the two-step path).
type SendMoneyRequest struct {
	Proof ProofMetadata `json:"proof" binding:"required"`
}

// ListMoneyRequestsParams holds query parameters for request listing.
type ListMoneyRequestsParams struct {
	Role      string  `form:"role" binding:"omitempty,oneof=LENDER REQUESTOR"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// EMIDetailsResponse mirrors domain.EMIDetails.
type EMIDetailsResponse struct {
	NumberOfInstallments int             `json:"numberOfInstallments"`
	InstallmentAmount    decimal.Decimal `json:"installmentAmount"`
	Frequency            string          `json:"frequency"`
}

// MoneyRequestResponse defines the data returned for a money request.
type MoneyRequestResponse struct {
	RequestID       string              `json:"requestID"`
	RequestorID     string              `json:"requestorID"`
	LenderID        string              `json:"lenderID"`
	Amount          decimal.Decimal     `json:"amount"`
	Description     string              `json:"description"`
	PaymentType     string              `json:"paymentType"`
	EMIDetails      *EMIDetailsResponse `json:"emiDetails,omitempty"`
	Status          string              `json:"status"`
	RejectionReason *string             `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time          `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ListMoneyRequestsResponse wraps a page of requests with the next token.
type ListMoneyRequestsResponse struct {
	Requests  []MoneyRequestResponse `json:"requests"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToMoneyRequestResponse converts a domain.MoneyRequest to its response DTO.
func ToMoneyRequestResponse(r *domain.MoneyRequest) MoneyRequestResponse {
	resp := MoneyRequestResponse{
		RequestID:       r.RequestID,
		RequestorID:     r.RequestorID,
		LenderID:        r.LenderID,
		Amount:          r.Amount,
		Description:     r.Description,
		PaymentType:     string(r.PaymentType),
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		RejectedAt:      r.RejectedAt,
		CreatedAt:       r.CreatedAt,
	}
	if r.EMIDetails != nil {
		resp.EMIDetails = &EMIDetailsResponse{
			NumberOfInstallments: r.EMIDetails.NumberOfInstallments,
			InstallmentAmount:    r.EMIDetails.InstallmentAmount,
			Frequency:            string(r.EMIDetails.Frequency),
		}
	}
	return resp
}

// ToMoneyRequestResponses converts a slice of domain requests.
func ToMoneyRequestResponses(requests []domain.MoneyRequest) []MoneyRequestResponse {
	responses := make([]MoneyRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToMoneyRequestResponse(&requests[i])
	}
	return responses
}
