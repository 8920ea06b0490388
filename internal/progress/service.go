package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/logging"
)

// Service applies assessment results to progress records.
type Service struct {
	catalog *catalog.Catalog
	store   Store
	logger  *logging.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service over an immutable catalog and a store.
func NewService(cat *catalog.Catalog, store Store, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		store:   store,
		logger:  logging.Nop(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service was built with.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// InitializeProgress ensures a progress record exists for (userID, domain). An
// existing record is returned unchanged.
func (s *Service) InitializeProgress(ctx context.Context, userID, domain string) (*RoadmapProgress, error) {
	stepIDs, err := s.catalog.StepIDs(domain)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindProgress(ctx, userID, domain)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "find", Err: err}
	}
	if existing != nil {
		return existing, nil
	}

	rec := newRecord(s.newID(), userID, domain, stepIDs, s.now())
	inserted, err := s.store.InsertProgress(ctx, rec)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "insert", Err: err}
	}
	if inserted {
		s.logger.Info("progress initialized", "user_id", userID, "domain", domain, "steps", len(stepIDs))
		return rec.Clone(), nil
	}

	// Lost a race with a concurrent initializer; the winner's record stands.
	existing, err = s.store.FindProgress(ctx, userID, domain)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "find", Err: err}
	}
	if existing == nil {
		return nil, &StoreUnavailableError{Op: "insert", Err: fmt.Errorf("record for domain %s vanished after conflicting insert", domain)}
	}
	return existing, nil
}

// SubmitAssessment records a step score and updates the gating states.
func (s *Service) SubmitAssessment(ctx context.Context, userID, domain, stepID string, score int) (Outcome, error) {
	if _, err := s.catalog.StepIndex(domain, stepID); err != nil {
		return Outcome{}, err
	}
	policy := s.catalog.Policy()
	if !policy.StepScoreInRange(score) {
		return Outcome{}, &ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("must be between 0 and %d", policy.StepMaxScore),
		}
	}

	passed := policy.StepPassed(score)
	now := s.now()

	var ruleErr error
	updated, err := s.store.UpdateProgress(ctx, userID, domain, func(p *RoadmapProgress) error {
		ruleErr = applyStepResult(p, stepID, score, passed, now)
		return ruleErr
	})
	if ruleErr != nil {
		return Outcome{}, ruleErr
	}
	if err != nil {
		return Outcome{}, &StoreUnavailableError{Op: "update", Err: err}
	}
	if updated == nil {
		return Outcome{}, &ProgressNotInitializedError{UserID: userID, Domain: domain}
	}

	s.logger.Debug("assessment recorded",
		"user_id", userID,
		"domain", domain,
		"step", stepID,
		"score", score,
		"passed", passed,
		"current_step_index", updated.CurrentStepIndex,
		"version", updated.Version,
	)
	return Outcome{Passed: passed, Score: score}, nil
}

// SubmitFinalAssessment records the comprehensive assessment once every step has passed.
func (s *Service) SubmitFinalAssessment(ctx context.Context, userID, domain string, score int) (Outcome, error) {
	if !s.catalog.HasDomain(domain) {
		return Outcome{}, &catalog.UnknownDomainError{Domain: domain}
	}
	policy := s.catalog.Policy()
	if !policy.FinalScoreInRange(score) {
		return Outcome{}, &ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("must be between 0 and %d", policy.FinalMaxScore),
		}
	}

	passed := policy.FinalPassed(score)
	now := s.now()

	var ruleErr error
	updated, err := s.store.UpdateProgress(ctx, userID, domain, func(p *RoadmapProgress) error {
		ruleErr = applyFinalResult(p, score, passed, now)
		return ruleErr
	})
	if ruleErr != nil {
		return Outcome{}, ruleErr
	}
	if err != nil {
		return Outcome{}, &StoreUnavailableError{Op: "update", Err: err}
	}
	if updated == nil {
		return Outcome{}, &NoProgressError{UserID: userID, Domain: domain}
	}

	s.logger.Info("final assessment recorded", "user_id", userID, "domain", domain, "score", score, "passed", passed)
	return Outcome{Passed: passed, Score: score}, nil
}

// GetProgress returns the record for (userID, domain).
func (s *Service) GetProgress(ctx context.Context, userID, domain string) (*RoadmapProgress, error) {
	rec, err := s.store.FindProgress(ctx, userID, domain)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "find", Err: err}
	}
	if rec == nil {
		return nil, &NotFoundError{UserID: userID, Domain: domain}
	}
	return rec, nil
}

// Dashboard summarizes every record of a user.
func (s *Service) Dashboard(ctx context.Context, userID string) ([]Summary, error) {
	records, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list", Err: err}
	}
	SortRecords(records)

	out := make([]Summary, 0, len(records))
	for i := range records {
		out = append(out, Summarize(&records[i]))
	}
	return out, nil
}
