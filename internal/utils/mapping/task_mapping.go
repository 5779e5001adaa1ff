package mapping

import (
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	m := models.Task{
		TaskID:        d.TaskID,
		AssignedByID:  d.AssignedByID,
		AssignedToID:  d.AssignedToID,
		TransactionID: d.TransactionID,
		Title:         d.Title,
		Description:   d.Description,
		MonetaryValue: d.MonetaryValue,
		Status:        string(d.Status),
		IsEMITask:     d.IsEMITask,
		DeclineReason: d.DeclineReason,
		AcceptedAt:    d.AcceptedAt,
		StartedAt:     d.StartedAt,
		CompletedAt:   d.CompletedAt,
		ConfirmedAt:   d.ConfirmedAt,
		CancelledAt:   d.CancelledAt,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.EMIForgiveness != nil {
		forgivenEMIs := d.EMIForgiveness.ForgivenEMIs
		startMonth := d.EMIForgiveness.StartMonth
		endMonth := d.EMIForgiveness.EndMonth
		m.ForgivenEMIs = &forgivenEMIs
		m.StartMonth = &startMonth
		m.EndMonth = &endMonth
	}
	return m
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	d := domain.Task{
		TaskID:        m.TaskID,
		AssignedByID:  m.AssignedByID,
		AssignedToID:  m.AssignedToID,
		TransactionID: m.TransactionID,
		Title:         m.Title,
		Description:   m.Description,
		MonetaryValue: m.MonetaryValue,
		Status:        domain.TaskStatus(m.Status),
		IsEMITask:     m.IsEMITask,
		DeclineReason: m.DeclineReason,
		AcceptedAt:    m.AcceptedAt,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		ConfirmedAt:   m.ConfirmedAt,
		CancelledAt:   m.CancelledAt,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.ForgivenEMIs != nil && m.StartMonth != nil && m.EndMonth != nil {
		d.EMIForgiveness = &domain.TaskEMIForgiveness{
			ForgivenEMIs: *m.ForgivenEMIs,
			StartMonth:   *m.StartMonth,
			EndMonth:     *m.EndMonth,
		}
	}
	return d
}

// ToDomainTaskSlice converts a slice of model Tasks
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
