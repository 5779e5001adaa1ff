package pgsql

import (
	"context"
	"fmt"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFriendshipRepository struct {
	BaseRepository
}

func newPgxFriendshipRepository(db *pgxpool.Pool) portsrepo.FriendshipRepositoryFacade {
	return &PgxFriendshipRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.FriendshipRepositoryFacade = (*PgxFriendshipRepository)(nil)

func (r *PgxFriendshipRepository) AreFriends(ctx context.Context, userAID, userBID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_a_id = $1 AND user_b_id = $2);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, userAID, userBID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

func (r *PgxFriendshipRepository) SaveFriendship(ctx context.Context, friendship domain.Friendship) error {
	query := `INSERT INTO friendships (user_a_id, user_b_id, created_at) VALUES ($1, $2, $3);`
	_, err := r.Pool.Exec(ctx, query, friendship.UserAID, friendship.UserBID, friendship.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("friendship: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}
