package domain

import "time"

// Friendship links two users. The pair is stored normalised (UserAID < UserBID)
// so each friendship is a single row.
type Friendship struct {
	UserAID   string    `json:"userAID"`
	UserBID   string    `json:"userBID"`
	CreatedAt time.Time `json:"createdAt"`
}
