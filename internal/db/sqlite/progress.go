package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/progress"
)

var _ progress.Store = (*Store)(nil)

// ErrVersionConflict is returned when a record kept changing underneath an update.
var ErrVersionConflict = errors.New("progress record modified concurrently")

const maxUpdateAttempts = 3

const progressColumns = `id, user_id, domain, current_step_index, step_ids, step_states, results, final, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*progress.RoadmapProgress, error) {
	var p progress.RoadmapProgress
	var stepIDs, stepStates, results, createdAt, updatedAt string
	var final sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Domain, &p.CurrentStepIndex,
		&stepIDs, &stepStates, &results, &final, &p.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stepIDs), &p.StepIDs); err != nil {
		return nil, fmt.Errorf("failed to decode step_ids: %w", err)
	}
	if err := json.Unmarshal([]byte(stepStates), &p.StepStates); err != nil {
		return nil, fmt.Errorf("failed to decode step_states: %w", err)
	}
	p.Results = []progress.AssessmentResult{}
	if err := json.Unmarshal([]byte(results), &p.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if final.Valid {
		p.Final = &progress.FinalAssessment{}
		if err := json.Unmarshal([]byte(final.String), p.Final); err != nil {
			return nil, fmt.Errorf("failed to decode final: %w", err)
		}
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func nullableJSON(raw []byte) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

// FindProgress returns the progress record for (userID, domain), or nil when absent.
func (s *Store) FindProgress(ctx context.Context, userID, domain string) (*progress.RoadmapProgress, error) {
	p, err := scanProgress(s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = ? AND domain = ?`,
		userID, domain,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

// InsertProgress stores a new record. Reports false if (user, domain) already exists.
func (s *Store) InsertProgress(ctx context.Context, p *progress.RoadmapProgress) (bool, error) {
	stepIDs, stepStates, results, final, err := db.EncodeProgress(p)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO roadmap_progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, domain) DO NOTHING`,
		p.ID, p.UserID, p.Domain, p.CurrentStepIndex,
		string(stepIDs), string(stepStates), string(results), nullableJSON(final),
		p.Version, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert progress: %w", err)
	}
	return n == 1, nil
}

// UpdateProgress applies fn inside a transaction and writes the result only if
// the row version is unchanged, retrying a bounded number of times.
func (s *Store) UpdateProgress(ctx context.Context, userID, domain string, fn progress.UpdateFunc) (*progress.RoadmapProgress, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		p, err := s.updateOnce(ctx, userID, domain, fn)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		return p, err
	}
	return nil, fmt.Errorf("progress %s: %w", domain, ErrVersionConflict)
}

func (s *Store) updateOnce(ctx context.Context, userID, domain string, fn progress.UpdateFunc) (*progress.RoadmapProgress, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p, err := scanProgress(tx.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = ? AND domain = ?`,
		userID, domain,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	expected := p.Version
	p.Version = expected + 1

	stepIDs, stepStates, results, final, err := db.EncodeProgress(p)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE roadmap_progress
		 SET current_step_index = ?, step_ids = ?, step_states = ?, results = ?, final = ?,
		     version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`,
		p.CurrentStepIndex, string(stepIDs), string(stepStates), string(results), nullableJSON(final),
		p.Version, formatTime(p.UpdatedAt), p.ID, expected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	if n == 0 {
		return nil, ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit progress: %w", err)
	}
	return p, nil
}

// ListProgress returns every record of a user ordered by creation time, then domain.
func (s *Store) ListProgress(ctx context.Context, userID string) ([]progress.RoadmapProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = ? ORDER BY created_at, domain`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	out := []progress.RoadmapProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return out, nil
}
