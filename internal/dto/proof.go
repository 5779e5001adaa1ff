package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// ProofResponse defines the data returned for a proof record.
type ProofResponse struct {
	ProofID       string    `json:"proofID"`
	TransactionID string    `json:"transactionID"`
	UploadedByID  string    `json:"uploadedByID"`
	ProofType     string    `json:"proofType"`
	StorageKey    string    `json:"storageKey"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListProofsResponse wraps the proofs attached to one transaction.
type ListProofsResponse struct {
	Proofs []ProofResponse `json:"proofs"`
}

// ToProofResponse converts a domain.TransactionProof to its response DTO.
func ToProofResponse(p *domain.TransactionProof) ProofResponse {
	return ProofResponse{
		ProofID:       p.ProofID,
		TransactionID: p.TransactionID,
		UploadedByID:  p.UploadedByID,
		ProofType:     string(p.ProofType),
		StorageKey:    p.StorageKey,
		MimeType:      p.MimeType,
		SizeBytes:     p.SizeBytes,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProofResponses converts a slice of domain proofs.
func ToProofResponses(proofs []domain.TransactionProof) []ProofResponse {
	responses := make([]ProofResponse, len(proofs))
	for i := range proofs {
		responses[i] = ToProofResponse(&proofs[i])
	}
	return responses
}
