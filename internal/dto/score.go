package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// ScoreResponse defines the data returned for a user's current score.
type ScoreResponse struct {
	UserID        string    `json:"userID"`
	Score         int       `json:"score"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ScoreHistoryResponse defines one entry of the append-only score ledger.
type ScoreHistoryResponse struct {
	EntryID       string            `json:"entryID"`
	Event         string            `json:"event"`
	Delta         int               `json:"delta"`
	PreviousScore int               `json:"previousScore"`
	NewScore      int               `json:"newScore"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	TransactionID *string           `json:"transactionID,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// ListScoreHistoryParams holds query parameters for history listing.
type ListScoreHistoryParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListScoreHistoryResponse wraps a page of ledger entries.
type ListScoreHistoryResponse struct {
	Entries   []ScoreHistoryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToScoreResponse converts a domain.UserScore to its response DTO.
func ToScoreResponse(s *domain.UserScore) ScoreResponse {
	return ScoreResponse{
		UserID:        s.UserID,
		Score:         s.Score,
		LastUpdatedAt: s.LastUpdatedAt,
	}
}

// ToScoreHistoryResponses converts a slice of ledger entries.
func ToScoreHistoryResponses(entries []domain.ScoreHistory) []ScoreHistoryResponse {
	responses := make([]ScoreHistoryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ScoreHistoryResponse{
			EntryID:       entry.EntryID,
			Event:         string(entry.Event),
			Delta:         entry.Delta,
			PreviousScore: entry.PreviousScore,
			NewScore:      entry.NewScore,
			Description:   entry.Description,
			Metadata:      entry.Metadata,
			TransactionID: entry.TransactionID,
			CreatedAt:     entry.CreatedAt,
		}
	}
	return responses
}
