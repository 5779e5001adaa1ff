package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock MoneyRequestRepository ---

type MockMoneyRequestRepository struct {
	mock.Mock
}

var _ portsrepo.MoneyRequestRepositoryFacade = (*MockMoneyRequestRepository)(nil)

func (m *MockMoneyRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestRepository) ListRequestsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyRequest, *string, error) {
	args := m.Called(ctx, userID, role, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.MoneyRequest), returnedNextToken, args.Error(2)
}

func (m *MockMoneyRequestRepository) SaveRequest(ctx context.Context, request domain.MoneyRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMoneyRequestRepository) FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, request domain.MoneyRequest, expectedStatus domain.RequestStatus) error {
	args := m.Called(ctx, tx, request, expectedStatus)
	return args.Error(0)
}

func (m *MockMoneyRequestRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockMoneyRequestRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMoneyRequestRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock MoneyTransactionRepository ---

type MockMoneyTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.MoneyTransactionRepositoryFacade = (*MockMoneyTransactionRepository)(nil)

func (m *MockMoneyTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.MoneyTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyTransaction), args.Error(1)
}

func (m *MockMoneyTransactionRepository) FindTransactionByRequestID(ctx context.Context, requestID string) (*domain.MoneyTransaction, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyTransaction), args.Error(1)
}

func (m *MockMoneyTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyTransaction, *string, error) {
	args := m.Called(ctx, userID, role, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.MoneyTransaction), returnedNextToken, args.Error(2)
}

func (m *MockMoneyTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockMoneyTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.MoneyTransaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyTransaction), args.Error(1)
}

func (m *MockMoneyTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction, expectedVersion int64) error {
	args := m.Called(ctx, tx, txn, expectedVersion)
	return args.Error(0)
}

func (m *MockMoneyTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockMoneyTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMoneyTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TaskRepository ---

type MockTaskRepository struct {
	mock.Mock
}

var _ portsrepo.TaskRepositoryFacade = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) FindActiveTaskByTransactionID(ctx context.Context, transactionID string) (*domain.Task, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasksByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.Task, *string, error) {
	args := m.Called(ctx, userID, role, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Task), returnedNextToken, args.Error(2)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindTaskByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, tx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTaskInTx(ctx context.Context, tx pgx.Tx, task domain.Task, expectedVersion int64) error {
	args := m.Called(ctx, tx, task, expectedVersion)
	return args.Error(0)
}

func (m *MockTaskRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTaskRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTaskRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ScoreRepository ---

type MockScoreRepository struct {
	mock.Mock
}

var _ portsrepo.ScoreRepositoryFacade = (*MockScoreRepository)(nil)

func (m *MockScoreRepository) GetUserScore(ctx context.Context, userID string) (*domain.UserScore, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserScore), args.Error(1)
}

func (m *MockScoreRepository) ListScoreHistory(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ScoreHistory, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.ScoreHistory), returnedNextToken, args.Error(2)
}

func (m *MockScoreRepository) ApplyDelta(ctx context.Context, entry domain.ScoreHistory) (int, int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Int(1), args.Error(2)
}

// --- Mock ProofRepository ---

type MockProofRepository struct {
	mock.Mock
}

var _ portsrepo.ProofRepositoryFacade = (*MockProofRepository)(nil)

func (m *MockProofRepository) ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionProof), args.Error(1)
}

func (m *MockProofRepository) SaveProofInTx(ctx context.Context, tx pgx.Tx, proof domain.TransactionProof) error {
	args := m.Called(ctx, tx, proof)
	return args.Error(0)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepositoryFacade = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipientID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	args := m.Called(ctx, recipientID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Notification), returnedNextToken, args.Error(2)
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, recipientID string) error {
	args := m.Called(ctx, notificationID, recipientID)
	return args.Error(0)
}

// --- Mock FriendshipRepository ---

type MockFriendshipRepository struct {
	mock.Mock
}

var _ portsrepo.FriendshipRepositoryFacade = (*MockFriendshipRepository)(nil)

func (m *MockFriendshipRepository) AreFriends(ctx context.Context, userAID, userBID string) (bool, error) {
	args := m.Called(ctx, userAID, userBID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendshipRepository) SaveFriendship(ctx context.Context, friendship domain.Friendship) error {
	args := m.Called(ctx, friendship)
	return args.Error(0)
}

// --- Mock DisputeRepository ---

type MockDisputeRepository struct {
	mock.Mock
}

var _ portsrepo.DisputeRepositoryFacade = (*MockDisputeRepository)(nil)

func (m *MockDisputeRepository) FindDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	args := m.Called(ctx, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) ListDisputesByTransactionID(ctx context.Context, transactionID string) ([]domain.Dispute, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) SaveDispute(ctx context.Context, dispute domain.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) ResolveDispute(ctx context.Context, dispute domain.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

// --- Mock ProofService ---

type MockProofService struct {
	mock.Mock
}

var _ portssvc.ProofSvcFacade = (*MockProofService)(nil)

func (m *MockProofService) RecordProofInTx(ctx context.Context, tx pgx.Tx, transactionID string, uploaderID string, proofType domain.ProofType, meta dto.ProofMetadata) (*domain.TransactionProof, error) {
	args := m.Called(ctx, tx, transactionID, uploaderID, proofType, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionProof), args.Error(1)
}

func (m *MockProofService) ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionProof), args.Error(1)
}

// --- Mock FriendshipService ---

type MockFriendshipService struct {
	mock.Mock
}

var _ portssvc.FriendshipSvcFacade = (*MockFriendshipService)(nil)

func (m *MockFriendshipService) AreFriends(ctx context.Context, userAID, userBID string) (bool, error) {
	args := m.Called(ctx, userAID, userBID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendshipService) AddFriend(ctx context.Context, userAID, userBID string) error {
	args := m.Called(ctx, userAID, userBID)
	return args.Error(0)
}

// --- Mock ReputationLedger ---

type MockReputationLedger struct {
	mock.Mock
}

var _ portssvc.ReputationLedgerSvc = (*MockReputationLedger)(nil)

func (m *MockReputationLedger) ApplyScoreDelta(ctx context.Context, userID string, event domain.ScoreEvent, delta int, description string, metadata map[string]string, relatedTransactionID *string) (int, int, error) {
	args := m.Called(ctx, userID, event, delta, description, metadata, relatedTransactionID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockReputationLedger) RecordLifecycleEvent(ctx context.Context, userID string, event domain.ScoreEvent, relatedTransactionID *string) error {
	args := m.Called(ctx, userID, event, relatedTransactionID)
	return args.Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.NotifierSvc = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, recipientID string, event domain.NotificationEvent, title string, body string, amount *decimal.Decimal, transactionID *string, requestID *string) error {
	args := m.Called(ctx, recipientID, event, title, body, amount, transactionID, requestID)
	return args.Error(0)
}

// ptrTime is a helper for building fixture timestamps.
func ptrTime(t time.Time) *time.Time {
	return &t
}

// errDelivery stands in for infrastructure failures in best-effort paths.
var errDelivery = errors.New("delivery failed")
