package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType describes how the borrower intends to repay.
type PaymentType string

const (
	PaymentFull         PaymentType = "FULL_PAYMENT"
	PaymentEMI          PaymentType = "EMI"
	PaymentInstallments PaymentType = "INSTALLMENTS"
	PaymentFlexible     PaymentType = "FLEXIBLE"
)

// EMIFrequency is the cadence of an EMI schedule.
type EMIFrequency string

const (
	FrequencyWeekly    EMIFrequency = "WEEKLY"
	FrequencyMonthly   EMIFrequency = "MONTHLY"
	FrequencyQuarterly EMIFrequency = "QUARTERLY"
)

// RequestStatus indicates the state of a money request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// EMIDetails describes the instalment schedule attached to an EMI request.
// Present iff PaymentType is EMI.
type EMIDetails struct {
	NumberOfInstallments int             `json:"numberOfInstallments"` // 1..24
	InstallmentAmount    decimal.Decimal `json:"installmentAmount"`    // > 0
	Frequency            EMIFrequency    `json:"frequency"`
}

// MoneyRequest is a borrower's ask for money from a friend. It transitions
// exactly once, pending -> approved|rejected, and is immutable afterwards
// except that an approved request spawns exactly one MoneyTransaction.
type MoneyRequest struct {
	RequestID       string          `json:"requestID"` // Primary Key (UUID)
	RequestorID     string          `json:"requestorID"`
	LenderID        string          `json:"lenderID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	PaymentType     PaymentType     `json:"paymentType"`
	EMIDetails      *EMIDetails     `json:"emiDetails,omitempty"`
	Status          RequestStatus   `json:"status"`
	RejectionReason *string         `json:"rejectionReason,omitempty"` // set iff rejected
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	AuditFields
}

// IsDecided reports whether the request already left its pending state.
func (r *MoneyRequest) IsDecided() bool {
	return r.Status != RequestPending
}

// RoleOf resolves the party role the given user holds on this request.
// Returns the empty role if the user is neither party.
func (r *MoneyRequest) RoleOf(userID string) PartyRole {
	switch userID {
	case r.LenderID:
		return RoleLender
	case r.RequestorID:
		return RoleRequestor
	default:
		return ""
	}
}
