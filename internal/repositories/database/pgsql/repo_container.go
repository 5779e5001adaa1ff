package pgsql

import (
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	requestRepo := newPgxMoneyRequestRepository(dbPool)
	transactionRepo := newPgxMoneyTransactionRepository(dbPool)
	taskRepo := newPgxTaskRepository(dbPool)
	proofRepo := newPgxProofRepository(dbPool)
	scoreRepo := newPgxScoreRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	friendshipRepo := newPgxFriendshipRepository(dbPool)
	disputeRepo := newPgxDisputeRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RequestRepo:      requestRepo,
		TransactionRepo:  transactionRepo,
		TaskRepo:         taskRepo,
		ProofRepo:        proofRepo,
		ScoreRepo:        scoreRepo,
		NotificationRepo: notificationRepo,
		FriendshipRepo:   friendshipRepo,
		DisputeRepo:      disputeRepo,
	}
}
