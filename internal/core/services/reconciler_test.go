package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/core/services"
)

func emiTxn(amount int64, installment int64) *domain.MoneyTransaction {
	return &domain.MoneyTransaction{
		TransactionID:          uuid.NewString(),
		RequestorID:            uuid.NewString(),
		LenderID:               uuid.NewString(),
		Amount:                 decimal.NewFromInt(amount),
		Status:                 domain.TxnMoneyReceived,
		RepaymentAmount:        decimal.Zero,
		PendingRepaymentAmount: decimal.Zero,
		PaymentType:            domain.PaymentEMI,
		EMIDetails: &domain.EMIDetails{
			NumberOfInstallments: 12,
			InstallmentAmount:    decimal.NewFromInt(installment),
			Frequency:            domain.FrequencyMonthly,
		},
		Version: 1,
	}
}

func TestMaxForgivableEMIs(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int
	}{
		{"tiny loan floors at one", 50, 1},
		{"exactly one hundred", 100, 1},
		{"small loan capped at five", 500, 5},
		{"just above small-loan threshold", 600, 6},
		{"mid-size loan", 1200, 12},
		{"large loan hits the ceiling", 10000, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.MaxForgivableEMIs(decimal.NewFromInt(tt.amount)))
		})
	}
}

func TestApplyTaskConfirmation_EMITaskForgivesWindow(t *testing.T) {
	txn := emiTxn(600, 50)
	task := &domain.Task{
		TaskID:        uuid.NewString(),
		TransactionID: txn.TransactionID,
		IsEMITask:     true,
		EMIForgiveness: &domain.TaskEMIForgiveness{
			ForgivenEMIs: 2,
			StartMonth:   "2026-03",
			EndMonth:     "2026-04",
		},
	}
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	err := services.ApplyTaskConfirmation(txn, task, now)

	require.NoError(t, err)
	require.Len(t, txn.EMIForgiveness, 2)
	assert.Equal(t, "2026-03", txn.EMIForgiveness[0].Month)
	assert.Equal(t, "2026-04", txn.EMIForgiveness[1].Month)
	assert.Equal(t, task.TaskID, txn.EMIForgiveness[0].TaskID)
	assert.Equal(t, 2, txn.TotalForgivenEMIs)
	assert.True(t, txn.RepaymentAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.TxnMoneyReceived, txn.Status, "600 loan stays open after 100 forgiven")

	require.NotNil(t, txn.RepaymentReceivedAt)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *txn.RepaymentReceivedAt,
		"advanced to the exclusive end of the last forgiven month")
}

func TestApplyTaskConfirmation_RepaymentReceivedAtNeverMovesBack(t *testing.T) {
	later := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	txn := emiTxn(600, 50)
	txn.RepaymentReceivedAt = &later
	task := &domain.Task{
		TaskID:        uuid.NewString(),
		TransactionID: txn.TransactionID,
		IsEMITask:     true,
		EMIForgiveness: &domain.TaskEMIForgiveness{
			ForgivenEMIs: 1,
			StartMonth:   "2026-03",
			EndMonth:     "2026-03",
		},
	}

	err := services.ApplyTaskConfirmation(txn, task, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, later, *txn.RepaymentReceivedAt)
}

func TestApplyTaskConfirmation_PlainTaskCreditsValue(t *testing.T) {
	txn := emiTxn(100, 50)
	txn.PaymentType = domain.PaymentFull
	txn.EMIDetails = nil
	txn.RepaymentAmount = decimal.NewFromInt(70)
	task := &domain.Task{
		TaskID:        uuid.NewString(),
		TransactionID: txn.TransactionID,
		MonetaryValue: decimal.NewFromInt(30),
	}
	now := time.Now().UTC()

	err := services.ApplyTaskConfirmation(txn, task, now)

	require.NoError(t, err)
	assert.True(t, txn.RepaymentAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.TxnRepaid, txn.Status)
	require.NotNil(t, txn.RepaymentReceivedAt)
	assert.Equal(t, now, *txn.RepaymentReceivedAt)
}

func TestApplyTaskConfirmation_EMITaskOnNonEMITransaction(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.PaymentType = domain.PaymentFull
	txn.EMIDetails = nil
	task := &domain.Task{
		TaskID:         uuid.NewString(),
		TransactionID:  txn.TransactionID,
		IsEMITask:      true,
		EMIForgiveness: &domain.TaskEMIForgiveness{ForgivenEMIs: 1, StartMonth: "2026-03", EndMonth: "2026-03"},
	}

	err := services.ApplyTaskConfirmation(txn, task, time.Now().UTC())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApplyTaskConfirmation_SettledTransactionConflicts(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.Status = domain.TxnRepaid
	task := &domain.Task{TaskID: uuid.NewString(), MonetaryValue: decimal.NewFromInt(10)}

	err := services.ApplyTaskConfirmation(txn, task, time.Now().UTC())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPaymentDueStatus_ForgivenPeriodWinsFirst(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.EMIForgiveness = []domain.EMIForgivenessEntry{
		{Month: "2026-05", Amount: decimal.NewFromInt(50), TaskID: uuid.NewString()},
	}
	// A repayment inside the same period would also match; forgiveness is
	// checked first.
	txn.RepaymentReceivedAt = ptrTime(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
	at := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)

	required, reason, periodKey, err := services.PaymentDueStatus(txn, at)

	require.NoError(t, err)
	assert.False(t, required)
	assert.Equal(t, services.DueReasonForgivenPeriod, reason)
	assert.Equal(t, "2026-05", periodKey)
}

func TestPaymentDueStatus_RepaymentInPeriodCoversIt(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.RepaymentReceivedAt = ptrTime(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	required, reason, _, err := services.PaymentDueStatus(txn, at)

	require.NoError(t, err)
	assert.False(t, required)
	assert.Equal(t, services.DueReasonAlreadyPaidPeriod, reason)
}

func TestPaymentDueStatus_SettledTransaction(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.Status = domain.TxnRepaid
	txn.RepaymentReceivedAt = ptrTime(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	required, reason, _, err := services.PaymentDueStatus(txn, at)

	require.NoError(t, err)
	assert.False(t, required)
	assert.Equal(t, services.DueReasonAlreadyRepaid, reason)
}

func TestPaymentDueStatus_OpenPeriodIsDue(t *testing.T) {
	txn := emiTxn(600, 50)
	txn.RepaymentReceivedAt = ptrTime(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	required, reason, periodKey, err := services.PaymentDueStatus(txn, at)

	require.NoError(t, err)
	assert.True(t, required)
	assert.Equal(t, services.DueReasonPaymentDue, reason)
	assert.Equal(t, "2026-05", periodKey)
}
