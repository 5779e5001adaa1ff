package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/core/services"
	"github.com/good4it/good4it_backend/internal/dto"
)

type DisputeServiceTestSuite struct {
	suite.Suite
	mockDisputeRepo *MockDisputeRepository
	mockTxnRepo     *MockMoneyTransactionRepository
	mockLedger      *MockReputationLedger
	mockNotifier    *MockNotifier
	service         portssvc.DisputeSvcFacade

	lenderID    string
	requestorID string
	txn         *domain.MoneyTransaction
}

func (suite *DisputeServiceTestSuite) SetupTest() {
	suite.mockDisputeRepo = new(MockDisputeRepository)
	suite.mockTxnRepo = new(MockMoneyTransactionRepository)
	suite.mockLedger = new(MockReputationLedger)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewDisputeService(suite.mockDisputeRepo, suite.mockTxnRepo, suite.mockLedger, suite.mockNotifier)

	suite.lenderID = uuid.NewString()
	suite.requestorID = uuid.NewString()
	suite.txn = &domain.MoneyTransaction{
		TransactionID: uuid.NewString(),
		RequestorID:   suite.requestorID,
		LenderID:      suite.lenderID,
		Amount:        decimal.NewFromInt(100),
		Status:        domain.TxnRepaymentRejected,
		Version:       3,
	}
}

func (suite *DisputeServiceTestSuite) openDispute(raisedBy string) *domain.Dispute {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.Dispute{
		DisputeID:     uuid.NewString(),
		TransactionID: suite.txn.TransactionID,
		RaisedByID:    raisedBy,
		Reason:        "repayment was rejected unfairly",
		Status:        domain.DisputeOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     raisedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: raisedBy,
		},
	}
}

func (suite *DisputeServiceTestSuite) TestRaiseDispute_Success() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockDisputeRepo.On("SaveDispute", mock.Anything, mock.MatchedBy(func(dispute domain.Dispute) bool {
		return dispute.Status == domain.DisputeOpen && dispute.RaisedByID == suite.requestorID
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.lenderID, domain.NotifyDisputeRaised, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	dispute, err := suite.service.RaiseDispute(context.Background(), dto.RaiseDisputeRequest{
		TransactionID: suite.txn.TransactionID,
		Reason:        "repayment was rejected unfairly",
	}, suite.requestorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DisputeOpen, dispute.Status)
	suite.mockDisputeRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *DisputeServiceTestSuite) TestRaiseDispute_StrangerForbidden() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()

	_, err := suite.service.RaiseDispute(context.Background(), dto.RaiseDisputeRequest{
		TransactionID: suite.txn.TransactionID,
		Reason:        "not my debt",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDisputeRepo.AssertNotCalled(suite.T(), "SaveDispute", mock.Anything, mock.Anything)
}

func (suite *DisputeServiceTestSuite) TestResolveDispute_InFavorOfDisputer() {
	dispute := suite.openDispute(suite.requestorID)
	suite.mockDisputeRepo.On("FindDisputeByID", mock.Anything, dispute.DisputeID).Return(dispute, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockDisputeRepo.On("ResolveDispute", mock.Anything, mock.MatchedBy(func(resolved domain.Dispute) bool {
		return resolved.Status == domain.DisputeResolved &&
			resolved.Outcome != nil && *resolved.Outcome == domain.OutcomeInFavorOfDisputer &&
			resolved.ResolvedAt != nil
	})).Return(nil).Once()
	suite.mockLedger.On("RecordLifecycleEvent", mock.Anything, suite.requestorID, domain.ScoreEventDisputeWon, mock.Anything).Return(nil).Once()
	suite.mockLedger.On("RecordLifecycleEvent", mock.Anything, suite.lenderID, domain.ScoreEventDisputeLost, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, mock.Anything, domain.NotifyDisputeResolved, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	resolved, err := suite.service.ResolveDispute(context.Background(), dispute.DisputeID,
		dto.ResolveDisputeRequest{Outcome: "IN_FAVOR_OF_DISPUTER"})

	suite.Require().NoError(err)
	suite.Equal(domain.DisputeResolved, resolved.Status)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *DisputeServiceTestSuite) TestResolveDispute_NoFaultMovesNoScores() {
	dispute := suite.openDispute(suite.lenderID)
	suite.mockDisputeRepo.On("FindDisputeByID", mock.Anything, dispute.DisputeID).Return(dispute, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockDisputeRepo.On("ResolveDispute", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, mock.Anything, domain.NotifyDisputeResolved, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := suite.service.ResolveDispute(context.Background(), dispute.DisputeID,
		dto.ResolveDisputeRequest{Outcome: "NO_FAULT"})

	suite.Require().NoError(err)
	suite.mockLedger.AssertNotCalled(suite.T(), "RecordLifecycleEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DisputeServiceTestSuite) TestResolveDispute_AlreadyResolvedConflicts() {
	dispute := suite.openDispute(suite.requestorID)
	dispute.Status = domain.DisputeResolved
	suite.mockDisputeRepo.On("FindDisputeByID", mock.Anything, dispute.DisputeID).Return(dispute, nil).Once()

	_, err := suite.service.ResolveDispute(context.Background(), dispute.DisputeID,
		dto.ResolveDisputeRequest{Outcome: "NO_FAULT"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDisputeRepo.AssertNotCalled(suite.T(), "ResolveDispute", mock.Anything, mock.Anything)
}

func (suite *DisputeServiceTestSuite) TestListDisputesByTransaction_PartyOnly() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Twice()
	suite.mockDisputeRepo.On("ListDisputesByTransactionID", mock.Anything, suite.txn.TransactionID).
		Return([]domain.Dispute{*suite.openDispute(suite.requestorID)}, nil).Once()

	disputes, err := suite.service.ListDisputesByTransaction(context.Background(), suite.txn.TransactionID, suite.lenderID)
	suite.Require().NoError(err)
	suite.Len(disputes, 1)

	_, err = suite.service.ListDisputesByTransaction(context.Background(), suite.txn.TransactionID, uuid.NewString())
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestDisputeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DisputeServiceTestSuite))
}
