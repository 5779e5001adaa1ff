package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/core/services"
	"github.com/good4it/good4it_backend/internal/dto"
)

func TestRecordProofInTx_Success(t *testing.T) {
	mockRepo := new(MockProofRepository)
	svc := services.NewProofService(mockRepo)
	transactionID := uuid.NewString()
	uploaderID := uuid.NewString()

	mockRepo.On("SaveProofInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(proof domain.TransactionProof) bool {
		return proof.TransactionID == transactionID &&
			proof.UploadedByID == uploaderID &&
			proof.ProofType == domain.ProofMoneySent &&
			proof.StorageKey == "proofs/p.jpg"
	})).Return(nil).Once()

	proof, err := svc.RecordProofInTx(context.Background(), nil, transactionID, uploaderID, domain.ProofMoneySent,
		dto.ProofMetadata{StorageKey: "proofs/p.jpg", MimeType: "image/jpeg", SizeBytes: 4096})

	require.NoError(t, err)
	assert.NotEmpty(t, proof.ProofID)
	mockRepo.AssertExpectations(t)
}

func TestRecordProofInTx_RejectsBadMetadata(t *testing.T) {
	tests := []struct {
		name string
		meta dto.ProofMetadata
	}{
		{"missing storage key", dto.ProofMetadata{MimeType: "image/png", SizeBytes: 1}},
		{"unsupported mime type", dto.ProofMetadata{StorageKey: "k", MimeType: "application/pdf", SizeBytes: 1}},
		{"zero size", dto.ProofMetadata{StorageKey: "k", MimeType: "image/png", SizeBytes: 0}},
		{"oversized", dto.ProofMetadata{StorageKey: "k", MimeType: "image/png", SizeBytes: services.MaxProofSizeBytes + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProofRepository)
			svc := services.NewProofService(mockRepo)

			_, err := svc.RecordProofInTx(context.Background(), nil, uuid.NewString(), uuid.NewString(), domain.ProofRepaymentSent, tt.meta)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			mockRepo.AssertNotCalled(t, "SaveProofInTx", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListProofsByTransactionID(t *testing.T) {
	mockRepo := new(MockProofRepository)
	svc := services.NewProofService(mockRepo)
	transactionID := uuid.NewString()

	mockRepo.On("ListProofsByTransactionID", mock.Anything, transactionID).
		Return([]domain.TransactionProof{{ProofID: uuid.NewString(), TransactionID: transactionID}}, nil).Once()

	proofs, err := svc.ListProofsByTransactionID(context.Background(), transactionID)

	require.NoError(t, err)
	assert.Len(t, proofs, 1)
}
