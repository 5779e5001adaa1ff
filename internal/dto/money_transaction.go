package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitRepaymentRequest carries a repayment submission with its proof.
type SubmitRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Proof  ProofMetadata   `json:"proof" binding:"required"`
}

// RejectRepaymentRequest carries the lender's rejection of a repayment.
type RejectRepaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListTransactionsParams holds query parameters for transaction listing.
type ListTransactionsParams struct {
	Role      string  `form:"role" binding:"omitempty,oneof=LENDER REQUESTOR"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// EMIForgivenessEntryResponse mirrors domain.EMIForgivenessEntry.
type EMIForgivenessEntryResponse struct {
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	ForgivenAt time.Time       `json:"forgivenAt"`
	TaskID     string          `json:"taskID"`
}

// MoneyTransactionResponse defines the data returned for a transaction.
type MoneyTransactionResponse struct {
	TransactionID          string                        `json:"transactionID"`
	RequestID              string                        `json:"requestID"`
	RequestorID            string                        `json:"requestorID"`
	LenderID               string                        `json:"lenderID"`
	Amount                 decimal.Decimal               `json:"amount"`
	Status                 string                        `json:"status"`
	RepaymentAmount        decimal.Decimal               `json:"repaymentAmount"`
	PendingRepaymentAmount decimal.Decimal               `json:"pendingRepaymentAmount"`
	RemainingBalance       decimal.Decimal               `json:"remainingBalance"`
	MoneySentAt            *time.Time                    `json:"moneySentAt,omitempty"`
	MoneyReceivedAt        *time.Time                    `json:"moneyReceivedAt,omitempty"`
	RepaymentSentAt        *time.Time                    `json:"repaymentSentAt,omitempty"`
	RepaymentReceivedAt    *time.Time                    `json:"repaymentReceivedAt,omitempty"`
	ForgivenAt             *time.Time                    `json:"forgivenAt,omitempty"`
	ForgivenAmount         *decimal.Decimal              `json:"forgivenAmount,omitempty"`
	RejectionReason        *string                       `json:"rejectionReason,omitempty"`
	EMIForgiveness         []EMIForgivenessEntryResponse `json:"emiForgiveness,omitempty"`
	TotalForgivenEMIs      int                           `json:"totalForgivenEMIs"`
	PaymentType            string                        `json:"paymentType"`
	EMIDetails             *EMIDetailsResponse           `json:"emiDetails,omitempty"`
	CreatedAt              time.Time                     `json:"createdAt"`
}

// ListTransactionsResponse wraps a page of transactions with the next token.
type ListTransactionsResponse struct {
	Transactions []MoneyTransactionResponse `json:"transactions"`
	NextToken    *string                    `json:"nextToken,omitempty"`
}

// PaymentDueResponse answers "is a payment required from the borrower for the
// period containing the queried instant".
type PaymentDueResponse struct {
	TransactionID string     `json:"transactionID"`
	PeriodKey     string     `json:"periodKey"`
	Required      bool       `json:"required"`
	Reason        string     `json:"reason"` // FORGIVEN_PERIOD, ALREADY_PAID_PERIOD, ALREADY_REPAID or PAYMENT_DUE
	NextDueAt     *time.Time `json:"nextDueAt,omitempty"`
}

// ToMoneyTransactionResponse converts a domain.MoneyTransaction to its
// response DTO.
func ToMoneyTransactionResponse(t *domain.MoneyTransaction) MoneyTransactionResponse {
	resp := MoneyTransactionResponse{
		TransactionID:          t.TransactionID,
		RequestID:              t.RequestID,
		RequestorID:            t.RequestorID,
		LenderID:               t.LenderID,
		Amount:                 t.Amount,
		Status:                 string(t.Status),
		RepaymentAmount:        t.RepaymentAmount,
		PendingRepaymentAmount: t.PendingRepaymentAmount,
		RemainingBalance:       t.RemainingBalance(),
		MoneySentAt:            t.MoneySentAt,
		MoneyReceivedAt:        t.MoneyReceivedAt,
		RepaymentSentAt:        t.RepaymentSentAt,
		RepaymentReceivedAt:    t.RepaymentReceivedAt,
		ForgivenAt:             t.ForgivenAt,
		ForgivenAmount:         t.ForgivenAmount,
		RejectionReason:        t.RejectionReason,
		TotalForgivenEMIs:      t.TotalForgivenEMIs,
		PaymentType:            string(t.PaymentType),
		CreatedAt:              t.CreatedAt,
	}
	if len(t.EMIForgiveness) > 0 {
		resp.EMIForgiveness = make([]EMIForgivenessEntryResponse, len(t.EMIForgiveness))
		for i, entry := range t.EMIForgiveness {
			resp.EMIForgiveness[i] = EMIForgivenessEntryResponse{
				Month:      entry.Month,
				Amount:     entry.Amount,
				ForgivenAt: entry.ForgivenAt,
				TaskID:     entry.TaskID,
			}
		}
	}
	if t.EMIDetails != nil {
		resp.EMIDetails = &EMIDetailsResponse{
			NumberOfInstallments: t.EMIDetails.NumberOfInstallments,
			InstallmentAmount:    t.EMIDetails.InstallmentAmount,
			Frequency:            string(t.EMIDetails.Frequency),
		}
	}
	return resp
}

// ToMoneyTransactionResponses converts a slice of domain transactions.
func ToMoneyTransactionResponses(txns []domain.MoneyTransaction) []MoneyTransactionResponse {
	responses := make([]MoneyTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToMoneyTransactionResponse(&txns[i])
	}
	return responses
}
