package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/innerdreams/admin-backend/internal/models"
)

// dreamRepository implements dream persistence. Dreams are only reached
// through their owning user.
type dreamRepository struct {
	db *sql.DB
}

// NewDreamRepository creates a new dream repository
func NewDreamRepository(db *sql.DB) *dreamRepository {
	return &dreamRepository{
		db: db,
	}
}

// ListByUserID retrieves a page of a user's dreams, most recent first,
// plus the user's total dream count
func (r *dreamRepository) ListByUserID(ctx context.Context, userID int, params models.ListParams) ([]models.Dream, int, error) {
	total, err := r.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, title, content, dream_date, sleep_quality, mood, emotions, tags,
		       is_lucid, privacy, is_analyzed, analyzed_at, created_at, updated_at
		FROM dreams
		WHERE user_id = ?
		ORDER BY dream_date DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query dreams: %w", err)
	}
	defer rows.Close()

	var dreams []models.Dream
	for rows.Next() {
		var dream models.Dream
		var title sql.NullString
		var analyzedAt sql.NullTime
		err := rows.Scan(
			&dream.ID,
			&dream.UserID,
			&title,
			&dream.Content,
			&dream.DreamDate,
			&dream.SleepQuality,
			&dream.Mood,
			&dream.Emotions,
			&dream.Tags,
			&dream.IsLucid,
			&dream.Privacy,
			&dream.IsAnalyzed,
			&analyzedAt,
			&dream.CreatedAt,
			&dream.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan dream: %w", err)
		}
		if title.Valid {
			dream.Title = title.String
		}
		if analyzedAt.Valid {
			dream.AnalyzedAt = &analyzedAt.Time
		}
		dreams = append(dreams, dream)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return dreams, total, nil
}

// CountByUserID counts the dreams of a user
func (r *dreamRepository) CountByUserID(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*) FROM dreams WHERE user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dreams: %w", err)
	}

	return count, nil
}

// DeleteByUserID removes every dream of a user and returns how many were
// deleted. Used by the user delete cascade.
func (r *dreamRepository) DeleteByUserID(ctx context.Context, userID int) (int, error) {
	query := `DELETE FROM dreams WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete dreams: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
