package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// RaiseDisputeRequest defines the data needed to open a dispute.
type RaiseDisputeRequest struct {
	TransactionID string `json:"transactionID" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

// ResolveDisputeRequest carries the resolution outcome.
type ResolveDisputeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=IN_FAVOR_OF_DISPUTER IN_FAVOR_OF_OTHER_PARTY NO_FAULT"`
}

// DisputeResponse defines the data returned for a dispute.
type DisputeResponse struct {
	DisputeID     string     `json:"disputeID"`
	TransactionID string     `json:"transactionID"`
	RaisedByID    string     `json:"raisedByID"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	Outcome       *string    `json:"outcome,omitempty"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToDisputeResponse converts a domain.Dispute to its response DTO.
func ToDisputeResponse(d *domain.Dispute) DisputeResponse {
	resp := DisputeResponse{
		DisputeID:     d.DisputeID,
		TransactionID: d.TransactionID,
		RaisedByID:    d.RaisedByID,
		Reason:        d.Reason,
		Status:        string(d.Status),
		ResolvedAt:    d.ResolvedAt,
		CreatedAt:     d.CreatedAt,
	}
	if d.Outcome != nil {
		outcome := string(*d.Outcome)
		resp.Outcome = &outcome
	}
	return resp
}

// ToDisputeResponses converts a slice of domain disputes.
func ToDisputeResponses(disputes []domain.Dispute) []DisputeResponse {
	responses := make([]DisputeResponse, len(disputes))
	for i := range disputes {
		responses[i] = ToDisputeResponse(&disputes[i])
	}
	return responses
}
