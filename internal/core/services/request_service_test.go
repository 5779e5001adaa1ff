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

type RequestServiceTestSuite struct {
	suite.Suite
	mockRequestRepo   *MockMoneyRequestRepository
	mockTxnRepo       *MockMoneyTransactionRepository
	mockProofSvc      *MockProofService
	mockFriendshipSvc *MockFriendshipService
	mockNotifier      *MockNotifier
	service           portssvc.RequestSvcFacade

	lenderID    string
	requestorID string
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.mockRequestRepo = new(MockMoneyRequestRepository)
	suite.mockTxnRepo = new(MockMoneyTransactionRepository)
	suite.mockProofSvc = new(MockProofService)
	suite.mockFriendshipSvc = new(MockFriendshipService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewRequestService(
		suite.mockRequestRepo, suite.mockTxnRepo, suite.mockProofSvc, suite.mockFriendshipSvc, suite.mockNotifier,
		decimal.NewFromInt(10000))

	suite.lenderID = uuid.NewString()
	suite.requestorID = uuid.NewString()
}

// newRequest builds a request fixture in the given status.
func (suite *RequestServiceTestSuite) newRequest(status domain.RequestStatus) *domain.MoneyRequest {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.MoneyRequest{
		RequestID:   uuid.NewString(),
		RequestorID: suite.requestorID,
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(250),
		PaymentType: domain.PaymentFull,
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.requestorID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.requestorID,
		},
	}
}

func (suite *RequestServiceTestSuite) expectRequestTx() {
	suite.mockRequestRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRequestRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *RequestServiceTestSuite) TestCreateRequest_Success() {
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.requestorID, suite.lenderID).Return(true, nil).Once()
	suite.mockRequestRepo.On("SaveRequest", mock.Anything, mock.MatchedBy(func(request domain.MoneyRequest) bool {
		return request.Status == domain.RequestPending && request.RequestorID == suite.requestorID
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.lenderID, domain.NotifyRequestCreated, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	request, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(250),
		PaymentType: "FULL_PAYMENT",
	}, suite.requestorID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestPending, request.Status)
	suite.NotEmpty(request.RequestID)
	suite.mockRequestRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestCreateRequest_SelfRequestRejected() {
	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.requestorID,
		Amount:      decimal.NewFromInt(100),
		PaymentType: "FULL_PAYMENT",
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFriendshipSvc.AssertNotCalled(suite.T(), "AreFriends", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_NonPositiveAmount() {
	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.Zero,
		PaymentType: "FULL_PAYMENT",
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_AmountAboveMaximum() {
	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(10001),
		PaymentType: "FULL_PAYMENT",
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_EMIRequiresDetails() {
	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(600),
		PaymentType: "EMI",
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_DetailsOnlyForEMI() {
	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(600),
		PaymentType: "FULL_PAYMENT",
		EMIDetails: &dto.EMIDetailsRequest{
			NumberOfInstallments: 6,
			InstallmentAmount:    decimal.NewFromInt(100),
			Frequency:            "MONTHLY",
		},
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_StrangersForbidden() {
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.requestorID, suite.lenderID).Return(false, nil).Once()

	_, err := suite.service.CreateRequest(context.Background(), dto.CreateMoneyRequestRequest{
		LenderID:    suite.lenderID,
		Amount:      decimal.NewFromInt(250),
		PaymentType: "FULL_PAYMENT",
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestDecideRequest_Approve() {
	request := suite.newRequest(domain.RequestPending)
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("UpdateRequestInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.MoneyRequest) bool {
		return updated.Status == domain.RequestApproved
	}), domain.RequestPending).Return(nil).Once()
	suite.mockRequestRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyRequestApproved, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.DecideRequest(context.Background(), request.RequestID, suite.lenderID,
		dto.DecideMoneyRequestRequest{Decision: "APPROVE"})

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, got.Status)
}

func (suite *RequestServiceTestSuite) TestDecideRequest_RejectNeedsReason() {
	_, err := suite.service.DecideRequest(context.Background(), uuid.NewString(), suite.lenderID,
		dto.DecideMoneyRequestRequest{Decision: "REJECT"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *RequestServiceTestSuite) TestDecideRequest_RejectRecordsReason() {
	request := suite.newRequest(domain.RequestPending)
	reason := "cannot lend right now"
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("UpdateRequestInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.MoneyRequest) bool {
		return updated.Status == domain.RequestRejected && updated.RejectionReason != nil && updated.RejectedAt != nil
	}), domain.RequestPending).Return(nil).Once()
	suite.mockRequestRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyRequestRejected, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.DecideRequest(context.Background(), request.RequestID, suite.lenderID,
		dto.DecideMoneyRequestRequest{Decision: "REJECT", RejectionReason: &reason})

	suite.Require().NoError(err)
	suite.Equal(domain.RequestRejected, got.Status)
	suite.Equal(reason, *got.RejectionReason)
}

func (suite *RequestServiceTestSuite) TestDecideRequest_RequestorForbidden() {
	request := suite.newRequest(domain.RequestPending)
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.DecideRequest(context.Background(), request.RequestID, suite.requestorID,
		dto.DecideMoneyRequestRequest{Decision: "APPROVE"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *RequestServiceTestSuite) TestDecideRequest_AlreadyDecidedConflicts() {
	request := suite.newRequest(domain.RequestApproved)
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.DecideRequest(context.Background(), request.RequestID, suite.lenderID,
		dto.DecideMoneyRequestRequest{Decision: "APPROVE"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *RequestServiceTestSuite) TestApproveAndPay_CreatesFundedTransaction() {
	request := suite.newRequest(domain.RequestPending)
	proof := dto.ProofMetadata{StorageKey: "proofs/sent.jpg", MimeType: "image/jpeg", SizeBytes: 4096}

	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("UpdateRequestInTx", mock.Anything, mock.Anything, mock.Anything, domain.RequestPending).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.MoneyTransaction) bool {
		return txn.Status == domain.TxnMoneySent &&
			txn.RequestID == request.RequestID &&
			txn.Amount.Equal(request.Amount) &&
			txn.MoneySentAt != nil &&
			txn.Version == 1
	})).Return(nil).Once()
	suite.mockProofSvc.On("RecordProofInTx", mock.Anything, mock.Anything, mock.Anything, suite.lenderID, domain.ProofMoneySent, proof).
		Return(&domain.TransactionProof{ProofID: uuid.NewString()}, nil).Once()
	suite.mockRequestRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyMoneySent, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.ApproveAndPay(context.Background(), request.RequestID, suite.lenderID,
		dto.ApproveAndPayRequest{Proof: proof})

	suite.Require().NoError(err)
	suite.Equal(domain.TxnMoneySent, txn.Status)
	suite.Equal(request.RequestID, txn.RequestID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockProofSvc.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestSendMoney_FundsApprovedRequest() {
	request := suite.newRequest(domain.RequestApproved)
	proof := dto.ProofMetadata{StorageKey: "proofs/sent.jpg", MimeType: "image/jpeg", SizeBytes: 4096}

	suite.mockTxnRepo.On("FindTransactionByRequestID", mock.Anything, request.RequestID).Return(nil, apperrors.ErrNotFound).Once()
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()
	suite.mockTxnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockProofSvc.On("RecordProofInTx", mock.Anything, mock.Anything, mock.Anything, suite.lenderID, domain.ProofMoneySent, proof).
		Return(&domain.TransactionProof{ProofID: uuid.NewString()}, nil).Once()
	suite.mockRequestRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyMoneySent, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.SendMoney(context.Background(), request.RequestID, suite.lenderID,
		dto.SendMoneyRequest{Proof: proof})

	suite.Require().NoError(err)
	suite.Equal(domain.TxnMoneySent, txn.Status)
}

func (suite *RequestServiceTestSuite) TestSendMoney_AlreadyFundedDuplicate() {
	request := suite.newRequest(domain.RequestApproved)
	suite.mockTxnRepo.On("FindTransactionByRequestID", mock.Anything, request.RequestID).
		Return(&domain.MoneyTransaction{TransactionID: uuid.NewString()}, nil).Once()

	_, err := suite.service.SendMoney(context.Background(), request.RequestID, suite.lenderID,
		dto.SendMoneyRequest{Proof: dto.ProofMetadata{StorageKey: "k", MimeType: "image/png", SizeBytes: 1}})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *RequestServiceTestSuite) TestSendMoney_PendingRequestConflicts() {
	request := suite.newRequest(domain.RequestPending)
	suite.mockTxnRepo.On("FindTransactionByRequestID", mock.Anything, request.RequestID).Return(nil, apperrors.ErrNotFound).Once()
	suite.expectRequestTx()
	suite.mockRequestRepo.On("FindRequestByIDForUpdate", mock.Anything, mock.Anything, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.SendMoney(context.Background(), request.RequestID, suite.lenderID,
		dto.SendMoneyRequest{Proof: dto.ProofMetadata{StorageKey: "k", MimeType: "image/png", SizeBytes: 1}})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *RequestServiceTestSuite) TestGetRequestByID_StrangerForbidden() {
	request := suite.newRequest(domain.RequestPending)
	suite.mockRequestRepo.On("FindRequestByID", mock.Anything, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.GetRequestByID(context.Background(), request.RequestID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}
