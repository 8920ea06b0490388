package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/db"
)

// UpsertResume creates or replaces the user's resume.
func (s *Store) UpsertResume(ctx context.Context, r *db.Resume) error {
	skills, education, experience, projects, err := db.EncodeResumeSections(r)
	if err != nil {
		return fmt.Errorf("failed to encode resume: %w", err)
	}
	r.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resumes (user_id, summary, skills, education, experience, projects, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   summary = excluded.summary,
		   skills = excluded.skills,
		   education = excluded.education,
		   experience = excluded.experience,
		   projects = excluded.projects,
		   updated_at = excluded.updated_at`,
		r.UserID, r.Summary, string(skills), string(education), string(experience), string(projects), formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume: %w", err)
	}
	return nil
}

// GetResume retrieves a user's resume, or nil when none is stored.
func (s *Store) GetResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error) {
	r := db.Resume{UserID: userID}
	var skills, education, experience, projects, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary, skills, education, experience, projects, updated_at FROM resumes WHERE user_id = ?`,
		userID,
	).Scan(&r.Summary, &skills, &education, &experience, &projects, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if err := db.DecodeResumeSections(&r, []byte(skills), []byte(education), []byte(experience), []byte(projects)); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateVideoSuggestion stores a suggestion, assigning its ID and timestamp.
func (s *Store) CreateVideoSuggestion(ctx context.Context, v *db.VideoSuggestion) error {
	v.ID = uuid.New()
	v.SubmittedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO video_suggestions (id, user_id, domain, step_id, url, title, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.Domain, v.StepID, v.URL, v.Title, formatTime(v.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create video suggestion: %w", err)
	}
	return nil
}

// ListVideoSuggestions returns suggestions for a roadmap step, oldest first.
func (s *Store) ListVideoSuggestions(ctx context.Context, domain, stepID string) ([]db.VideoSuggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, domain, step_id, url, title, submitted_at
		 FROM video_suggestions WHERE domain = ? AND step_id = ?
		 ORDER BY submitted_at, id`,
		domain, stepID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list video suggestions: %w", err)
	}
	defer rows.Close()

	out := []db.VideoSuggestion{}
	for rows.Next() {
		var v db.VideoSuggestion
		var submittedAt string
		if err := rows.Scan(&v.ID, &v.UserID, &v.Domain, &v.StepID, &v.URL, &v.Title, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video suggestion: %w", err)
		}
		if v.SubmittedAt, err = parseTime(submittedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list video suggestions: %w", err)
	}
	return out, nil
}
