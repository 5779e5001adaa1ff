package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// FriendshipRepositoryFacade defines the narrow surface the core needs from
// the social graph: the membership predicate plus a minimal writer so the
// predicate can be exercised.
type FriendshipRepositoryFacade interface {
	// AreFriends reports whether the two users share a friendship row.
	AreFriends(ctx context.Context, userAID, userBID string) (bool, error)

	// SaveFriendship persists a friendship. Returns apperrors.ErrDuplicate if
	// the pair is already linked.
	SaveFriendship(ctx context.Context, friendship domain.Friendship) error
}
