package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/progress"
)

var _ progress.Store = (*DB)(nil)

const progressColumns = `id, user_id, domain, current_step_index, step_ids, step_states, results, final, version, created_at, updated_at`

// progressRow carries the JSONB columns of a roadmap_progress row as raw bytes.
type progressRow struct {
	stepIDs    []byte
	stepStates []byte
	results    []byte
	final      []byte
}

func (r *progressRow) decode(p *progress.RoadmapProgress) error {
	if err := json.Unmarshal(r.stepIDs, &p.StepIDs); err != nil {
		return fmt.Errorf("failed to decode step_ids: %w", err)
	}
	if err := json.Unmarshal(r.stepStates, &p.StepStates); err != nil {
		return fmt.Errorf("failed to decode step_states: %w", err)
	}
	p.Results = []progress.AssessmentResult{}
	if len(r.results) > 0 {
		if err := json.Unmarshal(r.results, &p.Results); err != nil {
			return fmt.Errorf("failed to decode results: %w", err)
		}
	}
	if len(r.final) > 0 && string(r.final) != "null" {
		p.Final = &progress.FinalAssessment{}
		if err := json.Unmarshal(r.final, p.Final); err != nil {
			return fmt.Errorf("failed to decode final: %w", err)
		}
	}
	return nil
}

// EncodeProgress marshals the JSON columns of a record.
func EncodeProgress(p *progress.RoadmapProgress) (stepIDs, stepStates, results, final []byte, err error) {
	if stepIDs, err = json.Marshal(p.StepIDs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode step_ids: %w", err)
	}
	if stepStates, err = json.Marshal(p.StepStates); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode step_states: %w", err)
	}
	res := p.Results
	if res == nil {
		res = []progress.AssessmentResult{}
	}
	if results, err = json.Marshal(res); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode results: %w", err)
	}
	if p.Final != nil {
		if final, err = json.Marshal(p.Final); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to encode final: %w", err)
		}
	}
	return stepIDs, stepStates, results, final, nil
}

func scanProgress(row rowScanner) (*progress.RoadmapProgress, error) {
	var p progress.RoadmapProgress
	var id, userID uuid.UUID
	var raw progressRow
	err := row.Scan(&id, &userID, &p.Domain, &p.CurrentStepIndex,
		&raw.stepIDs, &raw.stepStates, &raw.results, &raw.final,
		&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	p.UserID = userID.String()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if err := raw.decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProgress returns the progress record for (userID, domain), or nil when absent.
func (db *DB) FindProgress(ctx context.Context, userID, domain string) (*progress.RoadmapProgress, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	p, err := scanProgress(db.pool.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = $1 AND domain = $2`,
		uid, domain,
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
func (db *DB) InsertProgress(ctx context.Context, p *progress.RoadmapProgress) (bool, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return false, fmt.Errorf("invalid progress id %q: %w", p.ID, err)
	}
	uid, err := uuid.Parse(p.UserID)
	if err != nil {
		return false, fmt.Errorf("invalid user id %q: %w", p.UserID, err)
	}
	stepIDs, stepStates, results, final, err := EncodeProgress(p)
	if err != nil {
		return false, err
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO roadmap_progress (`+progressColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, domain) DO NOTHING`,
		id, uid, p.Domain, p.CurrentStepIndex, stepIDs, stepStates, results, final,
		p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert progress: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateProgress locks the row, applies fn and writes the result back in one transaction.
func (db *DB) UpdateProgress(ctx context.Context, userID, domain string, fn progress.UpdateFunc) (*progress.RoadmapProgress, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanProgress(tx.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = $1 AND domain = $2 FOR UPDATE`,
		uid, domain,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock progress: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.Version++

	stepIDs, stepStates, results, final, err := EncodeProgress(p)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE roadmap_progress
		 SET current_step_index = $1, step_ids = $2, step_states = $3, results = $4, final = $5,
		     version = $6, updated_at = $7
		 WHERE user_id = $8 AND domain = $9`,
		p.CurrentStepIndex, stepIDs, stepStates, results, final, p.Version, p.UpdatedAt, uid, domain,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress: %w", err)
	}
	return p, nil
}

// ListProgress returns every record of a user ordered by creation time, then domain.
func (db *DB) ListProgress(ctx context.Context, userID string) ([]progress.RoadmapProgress, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return []progress.RoadmapProgress{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+progressColumns+` FROM roadmap_progress WHERE user_id = $1 ORDER BY created_at, domain`,
		uid,
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
