package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransaction is the database row for a funded debt. The forgiveness
// ledger lives in a jsonb column, scanned as raw bytes.
type MoneyTransaction struct {
	TransactionID string          `db:"transaction_id"`
	RequestID     string          `db:"request_id"`
	RequestorID   string          `db:"requestor_id"`
	LenderID      string          `db:"lender_id"`
	Amount        decimal.Decimal `db:"amount"`

	Status                 string          `db:"status"`
	RepaymentAmount        decimal.Decimal `db:"repayment_amount"`
	PendingRepaymentAmount decimal.Decimal `db:"pending_repayment_amount"`

	MoneySentAt         *time.Time `db:"money_sent_at"`
	MoneyReceivedAt     *time.Time `db:"money_received_at"`
	RepaymentSentAt     *time.Time `db:"repayment_sent_at"`
	RepaymentReceivedAt *time.Time `db:"repayment_received_at"`
	ForgivenAt          *time.Time `db:"forgiven_at"`

	ForgivenAmount  *decimal.Decimal `db:"forgiven_amount"`
	RejectionReason *string          `db:"rejection_reason"`

	EMIForgiveness    []byte `db:"emi_forgiveness"` // jsonb array of forgiveness entries
	TotalForgivenEMIs int    `db:"total_forgiven_emis"`

	PaymentType          string           `db:"payment_type"`
	EMIInstallments      *int             `db:"emi_installments"`
	EMIInstallmentAmount *decimal.Decimal `db:"emi_installment_amount"`
	EMIFrequency         *string          `db:"emi_frequency"`

	Version int64 `db:"version"`

	AuditFields
}
