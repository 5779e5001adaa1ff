package mapping

import (
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelTransactionProof converts a domain TransactionProof to its model
func ToModelTransactionProof(d domain.TransactionProof) models.TransactionProof {
	return models.TransactionProof{
		ProofID:       d.ProofID,
		TransactionID: d.TransactionID,
		UploadedByID:  d.UploadedByID,
		ProofType:     string(d.ProofType),
		StorageKey:    d.StorageKey,
		MimeType:      d.MimeType,
		SizeBytes:     d.SizeBytes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionProof converts a model TransactionProof to its domain
func ToDomainTransactionProof(m models.TransactionProof) domain.TransactionProof {
	return domain.TransactionProof{
		ProofID:       m.ProofID,
		TransactionID: m.TransactionID,
		UploadedByID:  m.UploadedByID,
		ProofType:     domain.ProofType(m.ProofType),
		StorageKey:    m.StorageKey,
		MimeType:      m.MimeType,
		SizeBytes:     m.SizeBytes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionProofSlice converts a slice of model TransactionProofs
func ToDomainTransactionProofSlice(ms []models.TransactionProof) []domain.TransactionProof {
	ds := make([]domain.TransactionProof, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionProof(m)
	}
	return ds
}
