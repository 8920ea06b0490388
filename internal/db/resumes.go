package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EncodeResumeSections marshals the JSON columns of a resume, substituting
// empty arrays for nil sections.
func EncodeResumeSections(r *Resume) (skills, education, experience, projects []byte, err error) {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Education == nil {
		r.Education = []EducationItem{}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceItem{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectItem{}
	}
	if skills, err = json.Marshal(r.Skills); err != nil {
		return
	}
	if education, err = json.Marshal(r.Education); err != nil {
		return
	}
	if experience, err = json.Marshal(r.Experience); err != nil {
		return
	}
	projects, err = json.Marshal(r.Projects)
	return
}

// DecodeResumeSections unmarshals the JSON columns of a resume.
func DecodeResumeSections(r *Resume, skills, education, experience, projects []byte) error {
	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"skills", skills, &r.Skills},
		{"education", education, &r.Education},
		{"experience", experience, &r.Experience},
		{"projects", projects, &r.Projects},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return fmt.Errorf("failed to decode %s: %w", col.name, err)
		}
	}
	return nil
}

// UpsertResume creates or replaces the user's resume
func (db *DB) UpsertResume(ctx context.Context, r *Resume) error {
	skills, education, experience, projects, err := EncodeResumeSections(r)
	if err != nil {
		return fmt.Errorf("failed to encode resume: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, summary, skills, education, experience, projects, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET summary = $2, skills = $3, education = $4, experience = $5, projects = $6, updated_at = NOW()
		 RETURNING updated_at`,
		r.UserID, r.Summary, skills, education, experience, projects,
	).Scan(&r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert resume: %w", err)
	}
	return nil
}

// GetResume retrieves a user's resume, or nil when none is stored
func (db *DB) GetResume(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	r := Resume{UserID: userID}
	var skills, education, experience, projects []byte
	err := db.pool.QueryRow(ctx,
		`SELECT summary, skills, education, experience, projects, updated_at
		 FROM resumes WHERE user_id = $1`,
		userID,
	).Scan(&r.Summary, &skills, &education, &experience, &projects, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if err := DecodeResumeSections(&r, skills, education, experience, projects); err != nil {
		return nil, err
	}
	return &r, nil
}
