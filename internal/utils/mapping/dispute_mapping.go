package mapping

import (
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelDispute converts a domain Dispute to its model
func ToModelDispute(d domain.Dispute) models.Dispute {
	m := models.Dispute{
		DisputeID:     d.DisputeID,
		TransactionID: d.TransactionID,
		RaisedByID:    d.RaisedByID,
		Reason:        d.Reason,
		Status:        string(d.Status),
		ResolvedAt:    d.ResolvedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Outcome != nil {
		outcome := string(*d.Outcome)
		m.Outcome = &outcome
	}
	return m
}

// ToDomainDispute converts a model Dispute to its domain
func ToDomainDispute(m models.Dispute) domain.Dispute {
	d := domain.Dispute{
		DisputeID:     m.DisputeID,
		TransactionID: m.TransactionID,
		RaisedByID:    m.RaisedByID,
		Reason:        m.Reason,
		Status:        domain.DisputeStatus(m.Status),
		ResolvedAt:    m.ResolvedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.Outcome != nil {
		outcome := domain.DisputeOutcome(*m.Outcome)
		d.Outcome = &outcome
	}
	return d
}

// ToDomainDisputeSlice converts a slice of model Disputes
func ToDomainDisputeSlice(ms []models.Dispute) []domain.Dispute {
	ds := make([]domain.Dispute, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDispute(m)
	}
	return ds
}
