package services

import "context"

// FriendshipSvcFacade is the social-graph port: the membership predicate the
// core checks before money moves between two users, plus a minimal writer so
// the predicate is reachable. The graph's own CRUD is out of scope.
type FriendshipSvcFacade interface {
	// AreFriends reports whether the two users are linked.
	AreFriends(ctx context.Context, userAID, userBID string) (bool, error)

	// AddFriend links the two users.
	AddFriend(ctx context.Context, userAID, userBID string) error
}
