package services

import (
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/platform/config"
	"github.com/good4it/good4it_backend/internal/utils"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, posthogClient *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger, notifier and friendship predicate come first; the lifecycle
	// services depend on them.
	container.Score = NewScoreService(repos.ScoreRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo, posthogClient)
	container.Friendship = NewFriendshipService(repos.FriendshipRepo)
	container.Proof = NewProofService(repos.ProofRepo)

	container.Request = NewRequestService(
		repos.RequestRepo,
		repos.TransactionRepo,
		container.Proof,
		container.Friendship,
		container.Notification,
		cfg.MaxRequestAmount,
	)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		container.Proof,
		container.Score,
		container.Notification,
	)
	container.Task = NewTaskService(
		repos.TaskRepo,
		repos.TransactionRepo,
		container.Friendship,
		container.Score,
		container.Notification,
	)
	container.Dispute = NewDisputeService(
		repos.DisputeRepo,
		repos.TransactionRepo,
		container.Score,
		container.Notification,
	)

	return container
}
