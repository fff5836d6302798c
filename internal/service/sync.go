package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/config"
	"classroom_sync/internal/domain"
)

// SyncService runs one full pass: list courses, aggregate each one, persist
// and publish the results.
type SyncService struct {
	source     Source
	aggregator Aggregator
	sink       Sink
	courses    CourseStore
	syncState  SyncStateStore
	txManager  TransactionManager
	publisher  Publisher
	logger     *slog.Logger
	config     config.SyncConfig
}

// NewSyncService wires the run. courses, syncState and txManager are either
// all set (database enabled) or all nil; publisher may be nil.
func NewSyncService(
	source Source,
	aggregator Aggregator,
	sink Sink,
	courses CourseStore,
	syncState SyncStateStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		source:     source,
		aggregator: aggregator,
		sink:       sink,
		courses:    courses,
		syncState:  syncState,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger.With("source", source.ID()),
		config:     cfg,
	}
}

func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	s.logger.Info("starting sync", "failure_policy", s.config.FailurePolicy)

	raws, err := s.source.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	s.logger.Debug("got courses", "count", len(raws))

	stats := &domain.SyncStats{
		SourceID: s.source.ID(),
		Courses:  len(raws),
	}

	var courses []*domain.Course
	if s.config.FailurePolicy == config.FailurePolicyAbort {
		courses, err = s.aggregateOrAbort(ctx, raws)
		if err != nil {
			stats.Failed++
			return stats, err
		}
	} else {
		courses = s.aggregateBestEffort(ctx, raws, stats)
	}

	for _, course := range courses {
		stats.Aggregated++
		stats.Works += len(course.Work)
		s.persist(ctx, course, stats)
	}

	if s.syncState != nil {
		if err := s.updateSyncState(ctx, stats); err != nil {
			return stats, fmt.Errorf("update sync state: %w", err)
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"courses", stats.Courses,
		"aggregated", stats.Aggregated,
		"failed", stats.Failed,
		"works", stats.Works,
		"persisted", stats.Persisted,
		"new", stats.New,
		"updated", stats.Updated,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// aggregateBestEffort drops failed courses and keeps going.
func (s *SyncService) aggregateBestEffort(ctx context.Context, raws []domain.RawCourse, stats *domain.SyncStats) []*domain.Course {
	opts := concurrency.ParallelOptions{MaxWorkers: s.config.CourseWorkers}
	results := concurrency.ProcessParallel(ctx, raws, opts, func(ctx context.Context, _ int, raw domain.RawCourse) (*domain.Course, error) {
		return s.aggregator.Aggregate(ctx, raw)
	})

	courses := make([]*domain.Course, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
			s.logger.Error("course aggregation failed",
				"course_id", raws[r.Index].ID,
				"error", r.Err,
			)
			continue
		}
		courses = append(courses, r.Value)
	}
	return courses
}

// aggregateOrAbort cancels the remaining courses on the first failure.
func (s *SyncService) aggregateOrAbort(ctx context.Context, raws []domain.RawCourse) ([]*domain.Course, error) {
	courses := make([]*domain.Course, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	if s.config.CourseWorkers > 0 {
		g.SetLimit(s.config.CourseWorkers)
	}
	for i, raw := range raws {
		g.Go(func() error {
			course, err := s.aggregator.Aggregate(gctx, raw)
			if err != nil {
				return fmt.Errorf("aggregate course %s: %w", raw.ID, err)
			}
			courses[i] = course
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *SyncService) persist(ctx context.Context, course *domain.Course, stats *domain.SyncStats) {
	logger := s.logger.With("course_id", course.ID.String())

	if err := s.sink.Save(ctx, course); err != nil {
		stats.Errors++
		logger.Error("failed to save course", "error", err)
		return
	}
	stats.Persisted++

	// Without a course store there is no history, so publications are updates.
	var isNew bool
	if s.courses != nil {
		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			var err error
			isNew, err = s.courses.Upsert(txCtx, course)
			if err != nil {
				return fmt.Errorf("upsert course: %w", err)
			}
			return nil
		})
		if err != nil {
			stats.Errors++
			logger.Error("failed to store course", "error", err)
			return
		}
		if isNew {
			stats.New++
		} else {
			stats.Updated++
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, course, isNew); err != nil {
			stats.Errors++
			logger.Error("failed to publish course", "error", err)
		} else {
			stats.Published++
		}
	}
}

func (s *SyncService) updateSyncState(ctx context.Context, stats *domain.SyncStats) error {
	state, err := s.syncState.Get(ctx, s.source.ID())
	if err != nil {
		return err
	}

	state.SourceID = s.source.ID()
	state.LastSyncedAt = time.Now()
	state.TotalSynced += int64(stats.Persisted)

	return s.syncState.Update(ctx, state)
}
