package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyRequest is the database row for a money request. EMI schedule columns
// are null unless payment_type is EMI.
type MoneyRequest struct {
	RequestID   string          `db:"request_id"`
	RequestorID string          `db:"requestor_id"`
	LenderID    string          `db:"lender_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	PaymentType string          `db:"payment_type"`

	EMIInstallments      *int             `db:"emi_installments"`
	EMIInstallmentAmount *decimal.Decimal `db:"emi_installment_amount"`
	EMIFrequency         *string          `db:"emi_frequency"`

	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	RejectedAt      *time.Time `db:"rejected_at"`

	AuditFields
}
