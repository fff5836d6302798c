package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"classroom_sync/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

type syncerFunc func(ctx context.Context) (*domain.SyncStats, error)

func (f syncerFunc) Sync(ctx context.Context) (*domain.SyncStats, error) {
	return f(ctx)
}

func TestRunOnce(t *testing.T) {
	want := &domain.SyncStats{SourceID: "classroom", Courses: 3}
	s := NewScheduler(syncerFunc(func(ctx context.Context) (*domain.SyncStats, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return want, nil
	}), 0, time.Minute, logger)

	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, stats)
}

func TestRunOnce_NoTimeout(t *testing.T) {
	s := NewScheduler(syncerFunc(func(ctx context.Context) (*domain.SyncStats, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return nil, errors.New("list courses: unauthorized")
	}), 0, 0, logger)

	_, err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "list courses: unauthorized")
}

func TestStart_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	s := NewScheduler(syncerFunc(func(context.Context) (*domain.SyncStats, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		return nil, errors.New("transient")
	}), 5*time.Millisecond, time.Second, logger)

	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}
