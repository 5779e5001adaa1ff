package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MoneyRequestReader defines read operations for money request data.
type MoneyRequestReader interface {
	// FindRequestByID retrieves a specific money request by its identifier.
	FindRequestByID(ctx context.Context, requestID string) (*domain.MoneyRequest, error)

	// ListRequestsByUser retrieves a paginated list of requests where the user
	// holds the given role (requestor or lender), newest first.
	ListRequestsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyRequest, *string, error)
}

// MoneyRequestWriter defines write operations for money request data.
type MoneyRequestWriter interface {
	// SaveRequest persists a new money request.
	SaveRequest(ctx context.Context, request domain.MoneyRequest) error

	// FindRequestByIDForUpdate retrieves a request inside tx with a row lock,
	// serializing concurrent decisions on the same request.
	FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.MoneyRequest, error)

	// UpdateRequestInTx persists the decided request inside tx. Returns
	// apperrors.ErrConflict if the stored status no longer matches expectedStatus.
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, request domain.MoneyRequest, expectedStatus domain.RequestStatus) error
}

// MoneyRequestRepositoryFacade combines all money-request repository interfaces.
type MoneyRequestRepositoryFacade interface {
	MoneyRequestReader
	MoneyRequestWriter
	TransactionManager
}
