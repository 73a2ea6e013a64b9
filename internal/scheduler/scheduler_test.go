package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/model"
)

type fakeRefresher struct {
	result model.PriceRefreshResult
	err    error
	calls  int
}

func (f *fakeRefresher) RefreshLatestPrices(ctx context.Context) (model.PriceRefreshResult, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return model.PriceRefreshResult{}, errors.New("missing deadline")
	}
	return f.result, f.err
}

type fakeReconciler struct {
	updated int
	err     error
}

func (f *fakeReconciler) ReconcilePositionStatus(context.Context) (int, error) {
	return f.updated, f.err
}

// TestScheduler_AddJob tests schedule registration.
//
// WHY: Schedules come from the environment. A typo must fail at startup
// rather than silently never running the job.
func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	job := NewPositionReconcileJob(&fakeReconciler{}, zerolog.Nop())

	require.NoError(t, s.AddJob("@every 15m", job))
	require.NoError(t, s.AddJob("0 30 22 * * MON-FRI", job))
	assert.Error(t, s.AddJob("not a schedule", job))
	assert.Equal(t, 2, s.Entries())

	s.Start()
	s.Stop()
}

func TestPriceRefreshJob_Run(t *testing.T) {
	t.Run("partial failure is not an error", func(t *testing.T) {
		f := &fakeRefresher{result: model.PriceRefreshResult{Success: true, TotalUpdated: 1, TotalErrors: 1}}
		job := NewPriceRefreshJob(f, zerolog.Nop())

		assert.NoError(t, job.Run())
		assert.Equal(t, 1, f.calls)
		assert.Equal(t, "price_refresh", job.Name())
	})

	t.Run("total failure is an error", func(t *testing.T) {
		f := &fakeRefresher{result: model.PriceRefreshResult{TotalErrors: 3}}
		assert.Error(t, NewPriceRefreshJob(f, zerolog.Nop()).Run())
	})

	t.Run("nothing to refresh is fine", func(t *testing.T) {
		f := &fakeRefresher{}
		assert.NoError(t, NewPriceRefreshJob(f, zerolog.Nop()).Run())
	})

	t.Run("service error is returned", func(t *testing.T) {
		f := &fakeRefresher{err: errors.New("db down")}
		s := New(zerolog.Nop(), nil)
		assert.EqualError(t, s.RunNow(NewPriceRefreshJob(f, zerolog.Nop())), "db down")
	})
}

func TestPositionReconcileJob_Run(t *testing.T) {
	assert.NoError(t, NewPositionReconcileJob(&fakeReconciler{updated: 2}, zerolog.Nop()).Run())
	assert.Error(t, NewPositionReconcileJob(&fakeReconciler{err: errors.New("boom")}, zerolog.Nop()).Run())
}
