package domain

import "time"

// ScoreEvent identifies the lifecycle event that produced a score delta.
type ScoreEvent string

const (
	ScoreEventRepaidOnTime      ScoreEvent = "REPAID_ON_TIME"
	ScoreEventRepaidEarly       ScoreEvent = "REPAID_EARLY"
	ScoreEventRepaidLate        ScoreEvent = "REPAID_LATE"
	ScoreEventPartialRepayment  ScoreEvent = "PARTIAL_REPAYMENT"
	ScoreEventForgivenessGiven  ScoreEvent = "FORGIVENESS_GIVEN"
	ScoreEventDebtForgiven      ScoreEvent = "DEBT_FORGIVEN"
	ScoreEventRepaymentRejected ScoreEvent = "REPAYMENT_REJECTED"
	ScoreEventTaskConfirmed     ScoreEvent = "TASK_CONFIRMED"
	ScoreEventDisputeWon        ScoreEvent = "DISPUTE_WON"
	ScoreEventDisputeLost       ScoreEvent = "DISPUTE_LOST"
)

// Score bounds for the Good4It reputation score. The score is clamped to
// [MinScore, MaxScore] on every delta and new users start at DefaultScore.
const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 50
)

// ClampScore bounds a raw score into the canonical range.
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ScoreHistory is one immutable entry in the append-only reputation ledger.
type ScoreHistory struct {
	EntryID       string            `json:"entryID"` // Primary Key (UUID)
	UserID        string            `json:"userID"`
	Event         ScoreEvent        `json:"event"`
	Delta         int               `json:"delta"`
	PreviousScore int               `json:"previousScore"`
	NewScore      int               `json:"newScore"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	TransactionID *string           `json:"transactionID,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// UserScore is the current reputation score of a user.
type UserScore struct {
	UserID        string    `json:"userID"`
	Score         int       `json:"score"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
