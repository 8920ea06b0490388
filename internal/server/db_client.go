package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/db"
)

// DBClient is the persistence the HTTP layer needs outside the progress core.
// Both the PostgreSQL and the SQLite backends implement it.
type DBClient interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u db.NewUser) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd db.ProfileUpdate) error
	AddUserDomain(ctx context.Context, id uuid.UUID, domain string) error

	UpsertResume(ctx context.Context, r *db.Resume) error
	GetResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)

	CreateVideoSuggestion(ctx context.Context, s *db.VideoSuggestion) error
	ListVideoSuggestions(ctx context.Context, domain, stepID string) ([]db.VideoSuggestion, error)
}

var _ DBClient = (*db.DB)(nil)
