package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelMoneyTransaction converts a domain MoneyTransaction to a model
// MoneyTransaction, marshalling the forgiveness ledger to jsonb bytes.
func ToModelMoneyTransaction(d domain.MoneyTransaction) (models.MoneyTransaction, error) {
	m := models.MoneyTransaction{
		TransactionID:          d.TransactionID,
		RequestID:              d.RequestID,
		RequestorID:            d.RequestorID,
		LenderID:               d.LenderID,
		Amount:                 d.Amount,
		Status:                 string(d.Status),
		RepaymentAmount:        d.RepaymentAmount,
		PendingRepaymentAmount: d.PendingRepaymentAmount,
		MoneySentAt:            d.MoneySentAt,
		MoneyReceivedAt:        d.MoneyReceivedAt,
		RepaymentSentAt:        d.RepaymentSentAt,
		RepaymentReceivedAt:    d.RepaymentReceivedAt,
		ForgivenAt:             d.ForgivenAt,
		ForgivenAmount:         d.ForgivenAmount,
		RejectionReason:        d.RejectionReason,
		TotalForgivenEMIs:      d.TotalForgivenEMIs,
		PaymentType:            string(d.PaymentType),
		Version:                d.Version,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}

	forgiveness := d.EMIForgiveness
	if forgiveness == nil {
		forgiveness = []domain.EMIForgivenessEntry{}
	}
	raw, err := json.Marshal(forgiveness)
	if err != nil {
		return models.MoneyTransaction{}, fmt.Errorf("failed to marshal EMI forgiveness entries: %w", err)
	}
	m.EMIForgiveness = raw

	if d.EMIDetails != nil {
		installments := d.EMIDetails.NumberOfInstallments
		amount := d.EMIDetails.InstallmentAmount
		frequency := string(d.EMIDetails.Frequency)
		m.EMIInstallments = &installments
		m.EMIInstallmentAmount = &amount
		m.EMIFrequency = &frequency
	}
	return m, nil
}

// ToDomainMoneyTransaction converts a model MoneyTransaction to a domain
// MoneyTransaction.
func ToDomainMoneyTransaction(m models.MoneyTransaction) (domain.MoneyTransaction, error) {
	d := domain.MoneyTransaction{
		TransactionID:          m.TransactionID,
		RequestID:              m.RequestID,
		RequestorID:            m.RequestorID,
		LenderID:               m.LenderID,
		Amount:                 m.Amount,
		Status:                 domain.TransactionStatus(m.Status),
		RepaymentAmount:        m.RepaymentAmount,
		PendingRepaymentAmount: m.PendingRepaymentAmount,
		MoneySentAt:            m.MoneySentAt,
		MoneyReceivedAt:        m.MoneyReceivedAt,
		RepaymentSentAt:        m.RepaymentSentAt,
		RepaymentReceivedAt:    m.RepaymentReceivedAt,
		ForgivenAt:             m.ForgivenAt,
		ForgivenAmount:         m.ForgivenAmount,
		RejectionReason:        m.RejectionReason,
		TotalForgivenEMIs:      m.TotalForgivenEMIs,
		PaymentType:            domain.PaymentType(m.PaymentType),
		Version:                m.Version,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}

	if len(m.EMIForgiveness) > 0 {
		if err := json.Unmarshal(m.EMIForgiveness, &d.EMIForgiveness); err != nil {
			return domain.MoneyTransaction{}, fmt.Errorf("failed to unmarshal EMI forgiveness entries: %w", err)
		}
	}

	if m.EMIInstallments != nil && m.EMIInstallmentAmount != nil && m.EMIFrequency != nil {
		d.EMIDetails = &domain.EMIDetails{
			NumberOfInstallments: *m.EMIInstallments,
			InstallmentAmount:    *m.EMIInstallmentAmount,
			Frequency:            domain.EMIFrequency(*m.EMIFrequency),
		}
	}
	return d, nil
}

// ToDomainMoneyTransactionSlice converts a slice of model MoneyTransactions
func ToDomainMoneyTransactionSlice(ms []models.MoneyTransaction) ([]domain.MoneyTransaction, error) {
	ds := make([]domain.MoneyTransaction, len(ms))
	for i, m := range ms {
		d, err := ToDomainMoneyTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
