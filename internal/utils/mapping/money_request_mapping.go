package mapping

import (
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelMoneyRequest converts a domain MoneyRequest to a model MoneyRequest
func ToModelMoneyRequest(d domain.MoneyRequest) models.MoneyRequest {
	m := models.MoneyRequest{
		RequestID:       d.RequestID,
		RequestorID:     d.RequestorID,
		LenderID:        d.LenderID,
		Amount:          d.Amount,
		Description:     d.Description,
		PaymentType:     string(d.PaymentType),
		Status:          string(d.Status),
		RejectionReason: d.RejectionReason,
		RejectedAt:      d.RejectedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.EMIDetails != nil {
		installments := d.EMIDetails.NumberOfInstallments
		amount := d.EMIDetails.InstallmentAmount
		frequency := string(d.EMIDetails.Frequency)
		m.EMIInstallments = &installments
		m.EMIInstallmentAmount = &amount
		m.EMIFrequency = &frequency
	}
	return m
}

// ToDomainMoneyRequest converts a model MoneyRequest to a domain MoneyRequest
func ToDomainMoneyRequest(m models.MoneyRequest) domain.MoneyRequest {
	d := domain.MoneyRequest{
		RequestID:       m.RequestID,
		RequestorID:     m.RequestorID,
		LenderID:        m.LenderID,
		Amount:          m.Amount,
		Description:     m.Description,
		PaymentType:     domain.PaymentType(m.PaymentType),
		Status:          domain.RequestStatus(m.Status),
		RejectionReason: m.RejectionReason,
		RejectedAt:      m.RejectedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.EMIInstallments != nil && m.EMIInstallmentAmount != nil && m.EMIFrequency != nil {
		d.EMIDetails = &domain.EMIDetails{
			NumberOfInstallments: *m.EMIInstallments,
			InstallmentAmount:    *m.EMIInstallmentAmount,
			Frequency:            domain.EMIFrequency(*m.EMIFrequency),
		}
	}
	return d
}

// ToDomainMoneyRequestSlice converts a slice of model MoneyRequests
func ToDomainMoneyRequestSlice(ms []models.MoneyRequest) []domain.MoneyRequest {
	ds := make([]domain.MoneyRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMoneyRequest(m)
	}
	return ds
}
