// Package progresstest holds a behavioral test suite shared by every
// progress.Store implementation.
package progresstest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Record builds a fresh record with the first step unlocked.
func Record(userID, domain string, createdAt time.Time, stepIDs ...string) *progress.RoadmapProgress {
	states := make([]progress.StepState, len(stepIDs))
	for i := range states {
		states[i] = progress.StateLocked
	}
	states[0] = progress.StateUnlocked
	return &progress.RoadmapProgress{
		ID:         uuid.NewString(),
		UserID:     userID,
		Domain:     domain,
		StepIDs:    stepIDs,
		StepStates: states,
		Results:    []progress.AssessmentResult{},
		Version:    1,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// RunStoreContract exercises the Store contract. newStore must return an empty
// store; userIDs passed to it are unique per subtest so stores may be shared.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) progress.Store, newUserID func(t *testing.T) string) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("find missing returns nil", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.FindProgress(context.Background(), newUserID(t), "Go")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("insert then find", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		in := Record(user, "Go", base, "a", "b", "c")

		inserted, err := s.InsertProgress(ctx, in)
		require.NoError(t, err)
		assert.True(t, inserted)

		got, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, in.ID, got.ID)
		assert.Equal(t, in.StepIDs, got.StepIDs)
		assert.Equal(t, in.StepStates, got.StepStates)
		assert.Empty(t, got.Results)
		assert.Nil(t, got.Final)
		assert.Equal(t, int64(1), got.Version)
		assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate insert keeps first record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		first := Record(user, "Go", base, "a", "b")
		second := Record(user, "Go", base.Add(time.Hour), "a", "b")

		inserted, err := s.InsertProgress(ctx, first)
		require.NoError(t, err)
		require.True(t, inserted)

		inserted, err = s.InsertProgress(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)

		got, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("update missing does not call fn", func(t *testing.T) {
		s := newStore(t)
		called := false
		got, err := s.UpdateProgress(context.Background(), newUserID(t), "Go", func(*progress.RoadmapProgress) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, called)
	})

	t.Run("update persists and bumps version", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		_, err := s.InsertProgress(ctx, Record(user, "Go", base, "a", "b"))
		require.NoError(t, err)

		submitted := base.Add(time.Minute)
		got, err := s.UpdateProgress(ctx, user, "Go", func(p *progress.RoadmapProgress) error {
			p.StepStates[0] = progress.StatePassed
			p.StepStates[1] = progress.StateUnlocked
			p.CurrentStepIndex = 1
			p.Results = append(p.Results, progress.AssessmentResult{
				Domain: "Go", StepID: "a", Score: 15, Passed: true, SubmittedAt: submitted,
			})
			p.Final = &progress.FinalAssessment{Score: 70, Passed: true, SubmittedAt: submitted}
			p.UpdatedAt = submitted
			return nil
		})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.Version)

		reread, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		assert.Equal(t, int64(2), reread.Version)
		assert.Equal(t, 1, reread.CurrentStepIndex)
		assert.Equal(t, []progress.StepState{progress.StatePassed, progress.StateUnlocked}, reread.StepStates)
		require.Len(t, reread.Results, 1)
		assert.Equal(t, 15, reread.Results[0].Score)
		assert.True(t, submitted.Equal(reread.Results[0].SubmittedAt))
		require.NotNil(t, reread.Final)
		assert.Equal(t, 70, reread.Final.Score)
	})

	t.Run("update fn error aborts without writing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		_, err := s.InsertProgress(ctx, Record(user, "Go", base, "a", "b"))
		require.NoError(t, err)

		boom := errors.New("rule violated")
		_, err = s.UpdateProgress(ctx, user, "Go", func(p *progress.RoadmapProgress) error {
			p.StepStates[1] = progress.StatePassed
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		assert.Equal(t, progress.StateLocked, got.StepStates[1])
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("concurrent updates lose nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		_, err := s.InsertProgress(ctx, Record(user, "Go", base, "a", "b"))
		require.NoError(t, err)

		const n = 20
		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				_, err := s.UpdateProgress(ctx, user, "Go", func(p *progress.RoadmapProgress) error {
					p.Results = append(p.Results, progress.AssessmentResult{Domain: "Go", StepID: "a", Score: i, SubmittedAt: base})
					return nil
				})
				return err
			})
		}
		require.NoError(t, g.Wait())

		got, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		assert.Len(t, got.Results, n)
		assert.Equal(t, int64(1+n), got.Version)
	})

	t.Run("list orders by creation then domain", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		other := newUserID(t)

		for _, rec := range []*progress.RoadmapProgress{
			Record(user, "Rust", base.Add(2*time.Hour), "a"),
			Record(user, "Zig", base, "a"),
			Record(user, "C", base, "a"),
			Record(other, "Go", base, "a"),
		} {
			_, err := s.InsertProgress(ctx, rec)
			require.NoError(t, err)
		}

		list, err := s.ListProgress(ctx, user)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "C", list[0].Domain)
		assert.Equal(t, "Zig", list[1].Domain)
		assert.Equal(t, "Rust", list[2].Domain)

		none, err := s.ListProgress(ctx, newUserID(t))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("returned records are detached", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := newUserID(t)
		_, err := s.InsertProgress(ctx, Record(user, "Go", base, "a", "b"))
		require.NoError(t, err)

		got, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		got.StepStates[1] = progress.StatePassed

		again, err := s.FindProgress(ctx, user, "Go")
		require.NoError(t, err)
		assert.Equal(t, progress.StateLocked, again.StepStates[1])
	})
}
