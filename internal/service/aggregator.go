package service

import (
	"context"
	"fmt"
	"log/slog"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/domain"
	"classroom_sync/internal/normalize"
)

// CourseAggregator builds a Course from its listed course-work and
// announcements.
type CourseAggregator struct {
	source     Source
	normalizer *normalize.Normalizer
	opts       concurrency.ParallelOptions
	logger     *slog.Logger
}

func NewCourseAggregator(
	source Source,
	normalizer *normalize.Normalizer,
	workers int,
	logger *slog.Logger,
) *CourseAggregator {
	return &CourseAggregator{
		source:     source,
		normalizer: normalizer,
		opts:       concurrency.ParallelOptions{MaxWorkers: workers},
		logger:     logger,
	}
}

// item is either a course-work item or an announcement, so both kinds can be
// normalized in one fan-out while keeping course-work first.
type item struct {
	work         *domain.RawCourseWork
	announcement *domain.RawAnnouncement
}

// Aggregate fails when the course record is invalid or either listing fails.
// Items that fail normalization are logged and left out.
func (a *CourseAggregator) Aggregate(ctx context.Context, raw domain.RawCourse) (*domain.Course, error) {
	if err := domain.ValidateRecord("course", raw); err != nil {
		return nil, err
	}
	logger := a.logger.With("course_id", raw.ID, "course", raw.Name)

	logger.Debug("getting course work")
	courseWork, err := a.source.ListCourseWork(ctx, raw.ID)
	if err != nil {
		return nil, fmt.Errorf("list course work: %w", err)
	}

	logger.Debug("getting announcements")
	announcements, err := a.source.ListAnnouncements(ctx, raw.ID)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	items := make([]item, 0, len(courseWork)+len(announcements))
	for i := range courseWork {
		items = append(items, item{work: &courseWork[i]})
	}
	for i := range announcements {
		items = append(items, item{announcement: &announcements[i]})
	}

	results := concurrency.ProcessParallel(ctx, items, a.opts, a.normalize)

	work := make([]domain.Work, 0, len(results))
	var failed, dropped int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			logger.Warn("skipping work item", "index", r.Index, "error", r.Err)
		case r.Value == nil:
			dropped++
		default:
			work = append(work, *r.Value)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("aggregated course",
		"course_work", len(courseWork),
		"announcements", len(announcements),
		"work", len(work),
		"failed", failed,
		"dropped", dropped,
	)

	return domain.NewCourse(raw, work)
}

func (a *CourseAggregator) normalize(ctx context.Context, _ int, it item) (*domain.Work, error) {
	if it.work != nil {
		w, err := a.normalizer.FromCourseWork(ctx, *it.work)
		if err != nil {
			return nil, err
		}
		return &w, nil
	}
	return a.normalizer.FromAnnouncement(ctx, *it.announcement)
}
