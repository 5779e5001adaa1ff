package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
)

// MaxProofSizeBytes caps an uploaded proof image at 10 MiB.
const MaxProofSizeBytes = 10 << 20

// allowedProofMimeTypes is the whitelist for proof uploads. Anything else is
// rejected before the lifecycle transition runs.
var allowedProofMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/heic": {},
}

// proofService validates proof metadata and records the references. File
// bytes live in external storage keyed by StorageKey.
type proofService struct {
	proofRepo portsrepo.ProofRepositoryFacade
}

// NewProofService creates a new proof service.
func NewProofService(proofRepo portsrepo.ProofRepositoryFacade) portssvc.ProofSvcFacade {
	return &proofService{proofRepo: proofRepo}
}

var _ portssvc.ProofSvcFacade = (*proofService)(nil)

// RecordProofInTx validates the metadata and persists the proof record inside
// the caller's transaction, so the lifecycle transition and its proof commit
// or roll back together.
func (s *proofService) RecordProofInTx(ctx context.Context, tx pgx.Tx, transactionID string, uploaderID string, proofType domain.ProofType, meta dto.ProofMetadata) (*domain.TransactionProof, error) {
	if meta.StorageKey == "" {
		return nil, fmt.Errorf("%w: proof storage key is required", apperrors.ErrValidation)
	}
	if _, ok := allowedProofMimeTypes[meta.MimeType]; !ok {
		return nil, fmt.Errorf("%w: unsupported proof mime type %q", apperrors.ErrValidation, meta.MimeType)
	}
	if meta.SizeBytes <= 0 || meta.SizeBytes > MaxProofSizeBytes {
		return nil, fmt.Errorf("%w: proof size must be between 1 byte and %d bytes", apperrors.ErrValidation, MaxProofSizeBytes)
	}

	now := time.Now().UTC()
	proof := domain.TransactionProof{
		ProofID:       uuid.NewString(),
		TransactionID: transactionID,
		UploadedByID:  uploaderID,
		ProofType:     proofType,
		StorageKey:    meta.StorageKey,
		MimeType:      meta.MimeType,
		SizeBytes:     meta.SizeBytes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     uploaderID,
			LastUpdatedAt: now,
			LastUpdatedBy: uploaderID,
		},
	}

	if err := s.proofRepo.SaveProofInTx(ctx, tx, proof); err != nil {
		return nil, fmt.Errorf("failed to save proof: %w", err)
	}
	return &proof, nil
}

// ListProofsByTransactionID retrieves the proofs attached to a transaction.
func (s *proofService) ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error) {
	proofs, err := s.proofRepo.ListProofsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return proofs, nil
}
