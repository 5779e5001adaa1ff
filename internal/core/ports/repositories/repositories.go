package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	RequestRepo      MoneyRequestRepositoryFacade
	TransactionRepo  MoneyTransactionRepositoryFacade
	TaskRepo         TaskRepositoryFacade
	ProofRepo        ProofRepositoryFacade
	ScoreRepo        ScoreRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	FriendshipRepo   FriendshipRepositoryFacade
	DisputeRepo      DisputeRepositoryFacade
}
