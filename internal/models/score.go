package models

import "time"

// UserScore is the database row holding a user's current reputation score.
type UserScore struct {
	UserID        string    `db:"user_id"`
	Score         int       `db:"score"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// ScoreHistory is the database row for one append-only ledger entry.
type ScoreHistory struct {
	EntryID       string    `db:"entry_id"`
	UserID        string    `db:"user_id"`
	Event         string    `db:"event"`
	Delta         int       `db:"delta"`
	PreviousScore int       `db:"previous_score"`
	NewScore      int       `db:"new_score"`
	Description   string    `db:"description"`
	Metadata      []byte    `db:"metadata"` // jsonb, null when empty
	TransactionID *string   `db:"transaction_id"`
	CreatedAt     time.Time `db:"created_at"`
}
