package models

import "time"

// Dispute is the database row for a dispute.
type Dispute struct {
	DisputeID     string     `db:"dispute_id"`
	TransactionID string     `db:"transaction_id"`
	RaisedByID    string     `db:"raised_by_id"`
	Reason        string     `db:"reason"`
	Status        string     `db:"status"`
	Outcome       *string    `db:"outcome"`
	ResolvedAt    *time.Time `db:"resolved_at"`

	AuditFields
}

// Friendship is the database row linking two users; user_a_id sorts before
// user_b_id.
type Friendship struct {
	UserAID   string    `db:"user_a_id"`
	UserBID   string    `db:"user_b_id"`
	CreatedAt time.Time `db:"created_at"`
}
