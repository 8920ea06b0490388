package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateVideoSuggestion stores a suggestion, assigning its ID and timestamp
func (db *DB) CreateVideoSuggestion(ctx context.Context, s *VideoSuggestion) error {
	s.ID = uuid.New()
	err := db.pool.QueryRow(ctx,
		`INSERT INTO video_suggestions (id, user_id, domain, step_id, url, title)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING submitted_at`,
		s.ID, s.UserID, s.Domain, s.StepID, s.URL, s.Title,
	).Scan(&s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create video suggestion: %w", err)
	}
	return nil
}

// ListVideoSuggestions returns suggestions for a roadmap step, oldest first
func (db *DB) ListVideoSuggestions(ctx context.Context, domain, stepID string) ([]VideoSuggestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, domain, step_id, url, title, submitted_at
		 FROM video_suggestions
		 WHERE domain = $1 AND step_id = $2
		 ORDER BY submitted_at, id`,
		domain, stepID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list video suggestions: %w", err)
	}
	defer rows.Close()

	out := []VideoSuggestion{}
	for rows.Next() {
		var s VideoSuggestion
		if err := rows.Scan(&s.ID, &s.UserID, &s.Domain, &s.StepID, &s.URL, &s.Title, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video suggestion: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list video suggestions: %w", err)
	}
	return out, nil
}
