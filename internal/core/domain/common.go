package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// PartyRole identifies which side of a debt (or task) the acting user is on.
// Resolved once per entity load and checked before every state transition.
type PartyRole string

const (
	RoleLender     PartyRole = "LENDER"
	RoleRequestor  PartyRole = "REQUESTOR"
	RoleAssignedBy PartyRole = "ASSIGNED_BY"
	RoleAssignedTo PartyRole = "ASSIGNED_TO"
)
