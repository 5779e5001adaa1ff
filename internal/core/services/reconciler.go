package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/utils/period"
	"github.com/shopspring/decimal"
)

// ErrNotEmiTransaction is returned when an EMI-forgiveness task targets a
// transaction whose request was not an EMI request.
var ErrNotEmiTransaction = errors.New("transaction is not an EMI transaction")

// maxForgivableCeiling caps forgivable EMIs regardless of loan size.
const maxForgivableCeiling = 24

// smallLoanThreshold and smallLoanCap bound forgiveness on small loans.
var smallLoanThreshold = decimal.NewFromInt(500)

const smallLoanCap = 5

// MaxForgivableEMIs bounds how many instalments one task may write off, as a
// function of loan size: floor(amount/100) clamped to [1, 24], and at most 5
// when the loan is 500 or less. This exact formula is a business rule.
func MaxForgivableEMIs(loanAmount decimal.Decimal) int {
	limit := int(loanAmount.Div(decimal.NewFromInt(100)).IntPart())
	if limit < 1 {
		limit = 1
	}
	if limit > maxForgivableCeiling {
		limit = maxForgivableCeiling
	}
	if loanAmount.LessThanOrEqual(smallLoanThreshold) && limit > smallLoanCap {
		limit = smallLoanCap
	}
	return limit
}

// ApplyTaskConfirmation merges a confirmed task's monetary effects into the
// transaction aggregate. For EMI tasks it appends one forgiveness entry per
// covered month, advances repaymentReceivedAt to the end of the last forgiven
// month and credits installmentAmount per EMI; for plain tasks it credits the
// task's monetary value. Either way the transaction moves to REPAID when the
// accumulated repayment covers the principal.
//
// The caller persists the mutated transaction; this function never touches
// storage.
func ApplyTaskConfirmation(txn *domain.MoneyTransaction, task *domain.Task, now time.Time) error {
	if txn.IsSettled() {
		return fmt.Errorf("%w: transaction %s is already settled", apperrors.ErrConflict, txn.TransactionID)
	}

	if task.IsEMITask {
		if txn.PaymentType != domain.PaymentEMI || txn.EMIDetails == nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNotEmiTransaction)
		}
		forgiveness := task.EMIForgiveness
		if forgiveness == nil {
			return fmt.Errorf("%w: EMI task %s has no forgiveness window", apperrors.ErrValidation, task.TaskID)
		}

		installment := txn.EMIDetails.InstallmentAmount
		forgivenTotal := installment.Mul(decimal.NewFromInt(int64(forgiveness.ForgivenEMIs)))

		for i := 0; i < forgiveness.ForgivenEMIs; i++ {
			month, err := period.AddMonths(forgiveness.StartMonth, i)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
			txn.EMIForgiveness = append(txn.EMIForgiveness, domain.EMIForgivenessEntry{
				Month:      month,
				Amount:     installment,
				ForgivenAt: now,
				TaskID:     task.TaskID,
			})
		}
		txn.TotalForgivenEMIs += forgiveness.ForgivenEMIs

		// Downstream payment-due checks treat the forgiveness as a payment.
		lastMonthEnd, err := period.MonthEnd(forgiveness.EndMonth)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if txn.RepaymentReceivedAt == nil || txn.RepaymentReceivedAt.Before(lastMonthEnd) {
			txn.RepaymentReceivedAt = &lastMonthEnd
		}

		txn.RepaymentAmount = txn.RepaymentAmount.Add(forgivenTotal)
	} else {
		txn.RepaymentAmount = txn.RepaymentAmount.Add(task.MonetaryValue)
		txn.RepaymentReceivedAt = &now
	}

	if txn.RepaymentAmount.GreaterThanOrEqual(txn.Amount) {
		txn.Status = domain.TxnRepaid
	}
	return nil
}

// PaymentDueReason explains a payment-due verdict.
const (
	DueReasonForgivenPeriod    = "FORGIVEN_PERIOD"
	DueReasonAlreadyPaidPeriod = "ALREADY_PAID_PERIOD"
	DueReasonAlreadyRepaid     = "ALREADY_REPAID"
	DueReasonPaymentDue        = "PAYMENT_DUE"
)

// PaymentDueStatus reports whether a payment is required for the period
// containing at. Checks run in a fixed order, first match wins: a confirmed
// forgiveness window covering the period, then a completed repayment inside
// the period, then the repaid terminal state.
func PaymentDueStatus(txn *domain.MoneyTransaction, at time.Time) (required bool, reason string, periodKey string, err error) {
	freq := domain.FrequencyMonthly
	if txn.EMIDetails != nil {
		freq = txn.EMIDetails.Frequency
	}

	periodKey, err = period.Key(freq, at)
	if err != nil {
		return false, "", "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// (a) the period falls inside a confirmed task's forgiveness window
	monthKey := period.MonthKey(at)
	for _, entry := range txn.EMIForgiveness {
		if entry.Month == monthKey {
			return false, DueReasonForgivenPeriod, periodKey, nil
		}
	}

	// (b) a completed repayment already covers the period
	if txn.RepaymentReceivedAt != nil {
		same, err := period.SamePeriod(freq, *txn.RepaymentReceivedAt, at)
		if err != nil {
			return false, "", "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if same || txn.RepaymentReceivedAt.After(at) {
			return false, DueReasonAlreadyPaidPeriod, periodKey, nil
		}
	}

	// (c) the transaction is already settled
	if txn.Status == domain.TxnRepaid || txn.Status == domain.TxnForgiven {
		return false, DueReasonAlreadyRepaid, periodKey, nil
	}

	return true, DueReasonPaymentDue, periodKey, nil
}
