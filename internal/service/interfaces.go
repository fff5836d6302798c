package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"classroom_sync/internal/domain"
)

// Source lists raw records from the education platform.
type Source interface {
	ID() string
	ListCourses(ctx context.Context) ([]domain.RawCourse, error)
	ListCourseWork(ctx context.Context, courseID string) ([]domain.RawCourseWork, error)
	ListAnnouncements(ctx context.Context, courseID string) ([]domain.RawAnnouncement, error)
}

type Aggregator interface {
	Aggregate(ctx context.Context, raw domain.RawCourse) (*domain.Course, error)
}

// Sink persists one course snapshot (a JSON file per course).
type Sink interface {
	Save(ctx context.Context, course *domain.Course) error
}

type CourseStore interface {
	// Upsert stores the course and replaces its work; it reports whether the
	// course was new.
	Upsert(ctx context.Context, course *domain.Course) (bool, error)
}

type SyncStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, course *domain.Course, isNew bool) error
	Close() error
}
