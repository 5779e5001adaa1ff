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

type TaskServiceTestSuite struct {
	suite.Suite
	mockTaskRepo      *MockTaskRepository
	mockTxnRepo       *MockMoneyTransactionRepository
	mockFriendshipSvc *MockFriendshipService
	mockLedger        *MockReputationLedger
	mockNotifier      *MockNotifier
	service           portssvc.TaskSvcFacade

	lenderID    string
	requestorID string
	txn         *domain.MoneyTransaction
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.mockTxnRepo = new(MockMoneyTransactionRepository)
	suite.mockFriendshipSvc = new(MockFriendshipService)
	suite.mockLedger = new(MockReputationLedger)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewTaskService(suite.mockTaskRepo, suite.mockTxnRepo, suite.mockFriendshipSvc, suite.mockLedger, suite.mockNotifier)

	suite.lenderID = uuid.NewString()
	suite.requestorID = uuid.NewString()

	now := time.Now().UTC().Add(-72 * time.Hour)
	suite.txn = &domain.MoneyTransaction{
		TransactionID:          uuid.NewString(),
		RequestID:              uuid.NewString(),
		RequestorID:            suite.requestorID,
		LenderID:               suite.lenderID,
		Amount:                 decimal.NewFromInt(600),
		Status:                 domain.TxnMoneyReceived,
		RepaymentAmount:        decimal.Zero,
		PendingRepaymentAmount: decimal.Zero,
		PaymentType:            domain.PaymentEMI,
		EMIDetails: &domain.EMIDetails{
			NumberOfInstallments: 12,
			InstallmentAmount:    decimal.NewFromInt(50),
			Frequency:            domain.FrequencyMonthly,
		},
		Version: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.lenderID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.lenderID,
		},
	}
}

// newTask builds a task fixture against the suite's transaction.
func (suite *TaskServiceTestSuite) newTask(status domain.TaskStatus) *domain.Task {
	now := time.Now().UTC().Add(-24 * time.Hour)
	return &domain.Task{
		TaskID:        uuid.NewString(),
		AssignedByID:  suite.lenderID,
		AssignedToID:  suite.requestorID,
		TransactionID: suite.txn.TransactionID,
		Title:         "Mow the lawn",
		MonetaryValue: decimal.NewFromInt(40),
		Status:        status,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.lenderID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.lenderID,
		},
	}
}

func (suite *TaskServiceTestSuite) expectTransition(task *domain.Task) {
	suite.mockTaskRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTaskRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockTaskRepo.On("FindTaskByIDForUpdate", mock.Anything, mock.Anything, task.TaskID).Return(task, nil).Once()
}

func (suite *TaskServiceTestSuite) TestCreateTask_Success() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.lenderID, suite.requestorID).Return(true, nil).Once()
	suite.mockTaskRepo.On("FindActiveTaskByTransactionID", mock.Anything, suite.txn.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.MatchedBy(func(task domain.Task) bool {
		return task.Status == domain.TaskPending &&
			task.AssignedByID == suite.lenderID &&
			task.AssignedToID == suite.requestorID &&
			task.Version == 1
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyTaskAssigned, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	task, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID: suite.txn.TransactionID,
		Title:         "Mow the lawn",
		MonetaryValue: decimal.NewFromInt(40),
	}, suite.lenderID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskPending, task.Status)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCreateTask_EMITaskDerivesEndMonth() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.lenderID, suite.requestorID).Return(true, nil).Once()
	suite.mockTaskRepo.On("FindActiveTaskByTransactionID", mock.Anything, suite.txn.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.MatchedBy(func(task domain.Task) bool {
		return task.IsEMITask && task.EMIForgiveness != nil && task.EMIForgiveness.EndMonth == "2026-11"
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyTaskAssigned, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	task, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID:  suite.txn.TransactionID,
		Title:          "Paint the fence",
		IsEMITask:      true,
		EMIForgiveness: &dto.TaskEMIForgivenessRequest{ForgivenEMIs: 3, StartMonth: "2026-09"},
	}, suite.lenderID)

	suite.Require().NoError(err)
	suite.Equal("2026-11", task.EMIForgiveness.EndMonth)
}

func (suite *TaskServiceTestSuite) TestCreateTask_RequestorForbidden() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()

	_, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID: suite.txn.TransactionID,
		Title:         "Mow the lawn",
		MonetaryValue: decimal.NewFromInt(40),
	}, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DuplicateActiveTask() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.lenderID, suite.requestorID).Return(true, nil).Once()
	suite.mockTaskRepo.On("FindActiveTaskByTransactionID", mock.Anything, suite.txn.TransactionID).Return(suite.newTask(domain.TaskPending), nil).Once()

	_, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID: suite.txn.TransactionID,
		Title:         "Mow the lawn",
		MonetaryValue: decimal.NewFromInt(40),
	}, suite.lenderID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCreateTask_TerminalTransactionConflicts() {
	suite.txn.Status = domain.TxnRepaid
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()

	_, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID: suite.txn.TransactionID,
		Title:         "Mow the lawn",
		MonetaryValue: decimal.NewFromInt(40),
	}, suite.lenderID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ForgivenessBeyondLimit() {
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockFriendshipSvc.On("AreFriends", mock.Anything, suite.lenderID, suite.requestorID).Return(true, nil).Once()
	suite.mockTaskRepo.On("FindActiveTaskByTransactionID", mock.Anything, suite.txn.TransactionID).Return(nil, apperrors.ErrNotFound).Once()

	// A 600 loan allows at most 6 forgiven EMIs.
	_, err := suite.service.CreateTask(context.Background(), dto.CreateTaskRequest{
		TransactionID:  suite.txn.TransactionID,
		Title:          "Paint the fence",
		IsEMITask:      true,
		EMIForgiveness: &dto.TaskEMIForgivenessRequest{ForgivenEMIs: 7, StartMonth: "2026-09"},
	}, suite.lenderID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestAcceptTask_Success() {
	task := suite.newTask(domain.TaskPending)
	suite.expectTransition(task)
	suite.mockTaskRepo.On("UpdateTaskInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.Task) bool {
		return updated.Status == domain.TaskAccepted && updated.AcceptedAt != nil && updated.Version == 2
	}), int64(1)).Return(nil).Once()
	suite.mockTaskRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.lenderID, domain.NotifyTaskAccepted, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.AcceptTask(context.Background(), task.TaskID, suite.requestorID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskAccepted, got.Status)
}

func (suite *TaskServiceTestSuite) TestDeclineTask_ReasonRequired() {
	_, err := suite.service.DeclineTask(context.Background(), uuid.NewString(), suite.requestorID, dto.DeclineTaskRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TaskServiceTestSuite) TestStartTask_SkipsAcceptance() {
	task := suite.newTask(domain.TaskPending)
	suite.expectTransition(task)
	suite.mockTaskRepo.On("UpdateTaskInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.Task) bool {
		return updated.Status == domain.TaskInProgress && updated.StartedAt != nil
	}), int64(1)).Return(nil).Once()
	suite.mockTaskRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.lenderID, domain.NotifyTaskStarted, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.StartTask(context.Background(), task.TaskID, suite.requestorID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskInProgress, got.Status)
}

func (suite *TaskServiceTestSuite) TestCompleteTask_OnlyFromInProgress() {
	task := suite.newTask(domain.TaskAccepted)
	suite.expectTransition(task)

	_, err := suite.service.CompleteTask(context.Background(), task.TaskID, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TaskServiceTestSuite) TestConfirmTask_PlainTaskCreditsTransaction() {
	task := suite.newTask(domain.TaskCompleted)
	suite.txn.RepaymentAmount = decimal.NewFromInt(560)

	suite.mockTaskRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTaskRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockTaskRepo.On("FindTaskByIDForUpdate", mock.Anything, mock.Anything, task.TaskID).Return(task, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockTaskRepo.On("UpdateTaskInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.Task) bool {
		return updated.Status == domain.TaskConfirmed && updated.ConfirmedAt != nil && updated.Version == 2
	}), int64(1)).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.MoneyTransaction) bool {
		return updated.Status == domain.TxnRepaid && updated.RepaymentAmount.Equal(decimal.NewFromInt(600)) && updated.Version == 2
	}), int64(1)).Return(nil).Once()
	suite.mockTaskRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockLedger.On("RecordLifecycleEvent", mock.Anything, suite.requestorID, domain.ScoreEventTaskConfirmed, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyTaskConfirmed, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.ConfirmTask(context.Background(), task.TaskID, suite.lenderID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskConfirmed, got.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestConfirmTask_EMITaskForgivesInstallments() {
	task := suite.newTask(domain.TaskCompleted)
	task.MonetaryValue = decimal.Zero
	task.IsEMITask = true
	task.EMIForgiveness = &domain.TaskEMIForgiveness{ForgivenEMIs: 2, StartMonth: "2026-09", EndMonth: "2026-10"}

	suite.mockTaskRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTaskRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockTaskRepo.On("FindTaskByIDForUpdate", mock.Anything, mock.Anything, task.TaskID).Return(task, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, suite.txn.TransactionID).Return(suite.txn, nil).Once()
	suite.mockTaskRepo.On("UpdateTaskInTx", mock.Anything, mock.Anything, mock.Anything, int64(1)).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.MoneyTransaction) bool {
		return len(updated.EMIForgiveness) == 2 &&
			updated.TotalForgivenEMIs == 2 &&
			updated.RepaymentAmount.Equal(decimal.NewFromInt(100)) &&
			updated.Status == domain.TxnMoneyReceived
	}), int64(1)).Return(nil).Once()
	suite.mockTaskRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockLedger.On("RecordLifecycleEvent", mock.Anything, suite.requestorID, domain.ScoreEventTaskConfirmed, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyTaskConfirmed, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.ConfirmTask(context.Background(), task.TaskID, suite.lenderID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskConfirmed, got.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestConfirmTask_AssigneeForbidden() {
	task := suite.newTask(domain.TaskCompleted)
	suite.mockTaskRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTaskRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockTaskRepo.On("FindTaskByIDForUpdate", mock.Anything, mock.Anything, task.TaskID).Return(task, nil).Once()

	_, err := suite.service.ConfirmTask(context.Background(), task.TaskID, suite.requestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCancelTask_FromInProgress() {
	task := suite.newTask(domain.TaskInProgress)
	suite.expectTransition(task)
	suite.mockTaskRepo.On("UpdateTaskInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.Task) bool {
		return updated.Status == domain.TaskCancelled && updated.CancelledAt != nil
	}), int64(1)).Return(nil).Once()
	suite.mockTaskRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, suite.requestorID, domain.NotifyTaskCancelled, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := suite.service.CancelTask(context.Background(), task.TaskID, suite.lenderID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskCancelled, got.Status)
}

func (suite *TaskServiceTestSuite) TestCancelTask_CompletedCannotBeCancelled() {
	task := suite.newTask(domain.TaskCompleted)
	suite.expectTransition(task)

	_, err := suite.service.CancelTask(context.Background(), task.TaskID, suite.lenderID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
