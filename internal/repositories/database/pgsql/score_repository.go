package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/good4it/good4it_backend/internal/models"
	"github.com/good4it/good4it_backend/internal/utils/mapping"
	"github.com/good4it/good4it_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scoreHistoryColumns = `entry_id, user_id, event, delta, previous_score, new_score, description, metadata, transaction_id, created_at`

type PgxScoreRepository struct {
	BaseRepository
}

func newPgxScoreRepository(db *pgxpool.Pool) portsrepo.ScoreRepositoryFacade {
	return &PgxScoreRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ScoreRepositoryFacade = (*PgxScoreRepository)(nil)

func (r *PgxScoreRepository) GetUserScore(ctx context.Context, userID string) (*domain.UserScore, error) {
	query := `SELECT user_id, score, last_updated_at FROM user_scores WHERE user_id = $1;`
	var m models.UserScore
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&m.UserID, &m.Score, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("score for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find score for user %s: %w", userID, err)
	}
	d := mapping.ToDomainUserScore(m)
	return &d, nil
}

// ApplyDelta locks (or initialises) the score row, clamps the new value and
// appends the history entry, all in one database transaction.
func (r *PgxScoreRepository) ApplyDelta(ctx context.Context, entry domain.ScoreHistory) (int, int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer r.Rollback(ctx, tx)

	previous := domain.DefaultScore
	var existing bool
	err = tx.QueryRow(ctx, `SELECT score FROM user_scores WHERE user_id = $1 FOR UPDATE;`, entry.UserID).Scan(&previous)
	switch {
	case err == nil:
		existing = true
	case errors.Is(err, pgx.ErrNoRows):
		existing = false
	default:
		return 0, 0, fmt.Errorf("failed to lock score for user %s: %w", entry.UserID, err)
	}

	updated := domain.ClampScore(previous + entry.Delta)

	if existing {
		_, err = tx.Exec(ctx, `UPDATE user_scores SET score = $1, last_updated_at = $2 WHERE user_id = $3;`,
			updated, entry.CreatedAt, entry.UserID)
	} else {
		_, err = tx.Exec(ctx, `INSERT INTO user_scores (user_id, score, last_updated_at) VALUES ($1, $2, $3);`,
			entry.UserID, updated, entry.CreatedAt)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to persist score for user %s: %w", entry.UserID, err)
	}

	entry.PreviousScore = previous
	entry.NewScore = updated
	m, err := mapping.ToModelScoreHistory(entry)
	if err != nil {
		return 0, 0, err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO score_history (`+scoreHistoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.EntryID, m.UserID, m.Event, m.Delta, m.PreviousScore, m.NewScore, m.Description, m.Metadata, m.TransactionID, m.CreatedAt,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to append score history: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, 0, err
	}
	return previous, updated, nil
}

func (r *PgxScoreRepository) ListScoreHistory(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ScoreHistory, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{userID}
	query := `SELECT ` + scoreHistoryColumns + ` FROM score_history WHERE user_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	ms := []models.ScoreHistory{}
	for rows.Next() {
		var m models.ScoreHistory
		err := rows.Scan(&m.EntryID, &m.UserID, &m.Event, &m.Delta, &m.PreviousScore, &m.NewScore, &m.Description, &m.Metadata, &m.TransactionID, &m.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan score history row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating score history rows: %w", rows.Err())
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}

	ds := make([]domain.ScoreHistory, len(ms))
	for i, m := range ms {
		d, err := mapping.ToDomainScoreHistory(m)
		if err != nil {
			return nil, nil, err
		}
		ds[i] = d
	}
	return ds, token, nil
}
