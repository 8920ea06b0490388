package progress

import "context"

// UpdateFunc mutates a record in place. Returning an error aborts the update and
// nothing is written.
type UpdateFunc func(p *RoadmapProgress) error

// Store persists progress records, one per (user, domain).
//
// Implementations must make UpdateProgress an atomic read-modify-write of a single
// record and bump Version on every committed update.
type Store interface {
	// FindProgress returns the record, or nil and no error when it does not exist.
	FindProgress(ctx context.Context, userID, domain string) (*RoadmapProgress, error)
	// InsertProgress stores a new record. It reports false when a record for the
	// same (user, domain) already exists, leaving that record untouched.
	InsertProgress(ctx context.Context, p *RoadmapProgress) (bool, error)
	// UpdateProgress applies fn to the current record and stores the result. It
	// returns nil and no error when the record does not exist; fn is not called.
	UpdateProgress(ctx context.Context, userID, domain string, fn UpdateFunc) (*RoadmapProgress, error)
	// ListProgress returns every record of a user ordered by creation time, then domain.
	ListProgress(ctx context.Context, userID string) ([]RoadmapProgress, error)
}
