package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelScoreHistory converts a domain ScoreHistory to its model,
// marshalling the metadata map to jsonb bytes.
func ToModelScoreHistory(d domain.ScoreHistory) (models.ScoreHistory, error) {
	m := models.ScoreHistory{
		EntryID:       d.EntryID,
		UserID:        d.UserID,
		Event:         string(d.Event),
		Delta:         d.Delta,
		PreviousScore: d.PreviousScore,
		NewScore:      d.NewScore,
		Description:   d.Description,
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
	}
	if len(d.Metadata) > 0 {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.ScoreHistory{}, fmt.Errorf("failed to marshal score metadata: %w", err)
		}
		m.Metadata = raw
	}
	return m, nil
}

// ToDomainScoreHistory converts a model ScoreHistory to its domain
func ToDomainScoreHistory(m models.ScoreHistory) (domain.ScoreHistory, error) {
	d := domain.ScoreHistory{
		EntryID:       m.EntryID,
		UserID:        m.UserID,
		Event:         domain.ScoreEvent(m.Event),
		Delta:         m.Delta,
		PreviousScore: m.PreviousScore,
		NewScore:      m.NewScore,
		Description:   m.Description,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &d.Metadata); err != nil {
			return domain.ScoreHistory{}, fmt.Errorf("failed to unmarshal score metadata: %w", err)
		}
	}
	return d, nil
}

// ToDomainUserScore converts a model UserScore to its domain
func ToDomainUserScore(m models.UserScore) domain.UserScore {
	return domain.UserScore{
		UserID:        m.UserID,
		Score:         m.Score,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}
