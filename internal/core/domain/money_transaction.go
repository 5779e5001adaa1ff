package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a money transaction.
type TransactionStatus string

const (
	TxnMoneySent         TransactionStatus = "MONEY_SENT"
	TxnMoneyReceived     TransactionStatus = "MONEY_RECEIVED"
	TxnRepaymentSent     TransactionStatus = "REPAYMENT_SENT"
	TxnRepaid            TransactionStatus = "REPAID"
	TxnForgiven          TransactionStatus = "FORGIVEN"
	TxnRepaymentRejected TransactionStatus = "REPAYMENT_REJECTED"
)

// IsTerminal reports whether a status permits no further transitions.
// REPAYMENT_REJECTED is a dead end pending external dispute resolution, so it
// counts as terminal here.
func (s TransactionStatus) IsTerminal() bool {
	return s == TxnRepaid || s == TxnForgiven || s == TxnRepaymentRejected
}

// EMIForgivenessEntry records a single instalment month written off by a
// confirmed task. Month keys are "YYYY-MM", zero padded.
type EMIForgivenessEntry struct {
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	ForgivenAt time.Time       `json:"forgivenAt"`
	TaskID     string          `json:"taskID"`
}

// MoneyTransaction is the funded debt spawned by an approved MoneyRequest.
// It lives for the life of the debt and is never deleted; the timestamp fields
// are each set exactly once when the corresponding transition occurs.
type MoneyTransaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	RequestID     string          `json:"requestID"`
	RequestorID   string          `json:"requestorID"`
	LenderID      string          `json:"lenderID"`
	Amount        decimal.Decimal `json:"amount"` // fixed at creation

	Status TransactionStatus `json:"status"`

	// RepaymentAmount is the confirmed, monotonically non-decreasing
	// accumulator. PendingRepaymentAmount is the unconfirmed amount submitted
	// with the current REPAYMENT_SENT; a resubmission overwrites it rather
	// than doubling it, and a lender confirm folds it into RepaymentAmount.
	RepaymentAmount        decimal.Decimal `json:"repaymentAmount"`
	PendingRepaymentAmount decimal.Decimal `json:"pendingRepaymentAmount"`

	MoneySentAt         *time.Time `json:"moneySentAt,omitempty"`
	MoneyReceivedAt     *time.Time `json:"moneyReceivedAt,omitempty"`
	RepaymentSentAt     *time.Time `json:"repaymentSentAt,omitempty"`
	RepaymentReceivedAt *time.Time `json:"repaymentReceivedAt,omitempty"`
	ForgivenAt          *time.Time `json:"forgivenAt,omitempty"`

	ForgivenAmount  *decimal.Decimal `json:"forgivenAmount,omitempty"` // amount - repaymentAmount at forgiveness
	RejectionReason *string          `json:"rejectionReason,omitempty"`

	EMIForgiveness    []EMIForgivenessEntry `json:"emiForgiveness,omitempty"`
	TotalForgivenEMIs int                   `json:"totalForgivenEMIs"`

	// Payment terms denormalised from the owning request; needed by the
	// reconciler and the payment-due computation.
	PaymentType PaymentType `json:"paymentType"`
	EMIDetails  *EMIDetails `json:"emiDetails,omitempty"`

	// Version is the optimistic concurrency token; every committed transition
	// increments it.
	Version int64 `json:"version"`

	AuditFields
}

// RemainingBalance returns amount - confirmed repayment, floored at zero.
func (t *MoneyTransaction) RemainingBalance() decimal.Decimal {
	remaining := t.Amount.Sub(t.RepaymentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsSettled reports whether the debt reached a settled terminal state.
func (t *MoneyTransaction) IsSettled() bool {
	return t.Status == TxnRepaid || t.Status == TxnForgiven
}

// RoleOf resolves the party role the given user holds on this transaction.
func (t *MoneyTransaction) RoleOf(userID string) PartyRole {
	switch userID {
	case t.LenderID:
		return RoleLender
	case t.RequestorID:
		return RoleRequestor
	default:
		return ""
	}
}
