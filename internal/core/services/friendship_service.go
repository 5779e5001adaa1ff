package services

import (
	"context"
	"fmt"
	"time"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
)

// friendshipService answers the friendship predicate the lending flows gate
// on. The pair is normalised before it touches storage.
type friendshipService struct {
	friendshipRepo portsrepo.FriendshipRepositoryFacade
}

// NewFriendshipService creates a new friendship service.
func NewFriendshipService(friendshipRepo portsrepo.FriendshipRepositoryFacade) portssvc.FriendshipSvcFacade {
	return &friendshipService{friendshipRepo: friendshipRepo}
}

var _ portssvc.FriendshipSvcFacade = (*friendshipService)(nil)

// AreFriends reports whether the two users are linked.
func (s *friendshipService) AreFriends(ctx context.Context, userAID, userBID string) (bool, error) {
	if userAID == userBID {
		return false, fmt.Errorf("%w: users cannot befriend themselves", apperrors.ErrValidation)
	}
	a, b := normalizePair(userAID, userBID)
	linked, err := s.friendshipRepo.AreFriends(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return linked, nil
}

// AddFriend links the two users.
func (s *friendshipService) AddFriend(ctx context.Context, userAID, userBID string) error {
	if userAID == userBID {
		return fmt.Errorf("%w: users cannot befriend themselves", apperrors.ErrValidation)
	}

	a, b := normalizePair(userAID, userBID)
	friendship := domain.Friendship{
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.friendshipRepo.SaveFriendship(ctx, friendship); err != nil {
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}

// normalizePair orders a user pair so each friendship maps to one row.
func normalizePair(userAID, userBID string) (string, string) {
	if userAID > userBID {
		return userBID, userAID
	}
	return userAID, userBID
}
