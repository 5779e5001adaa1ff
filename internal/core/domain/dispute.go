package domain

import "time"

// DisputeStatus indicates whether a dispute is still open.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
)

// DisputeOutcome is the resolution of a dispute. It drives reputation-ledger
// deltas but never mutates the transaction state machine.
type DisputeOutcome string

const (
	OutcomeInFavorOfDisputer   DisputeOutcome = "IN_FAVOR_OF_DISPUTER"
	OutcomeInFavorOfOtherParty DisputeOutcome = "IN_FAVOR_OF_OTHER_PARTY"
	OutcomeNoFault             DisputeOutcome = "NO_FAULT"
)

// Dispute is raised by either party of a transaction when the normal flow is
// stuck (typically after REPAYMENT_REJECTED).
type Dispute struct {
	DisputeID     string          `json:"disputeID"` // Primary Key (UUID)
	TransactionID string          `json:"transactionID"`
	RaisedByID    string          `json:"raisedByID"`
	Reason        string          `json:"reason"`
	Status        DisputeStatus   `json:"status"`
	Outcome       *DisputeOutcome `json:"outcome,omitempty"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	AuditFields
}
