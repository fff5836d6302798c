// Package classroom lists courses, course work and announcements through the
// Google Classroom API.
package classroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	classroomapi "google.golang.org/api/classroom/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"classroom_sync/internal/domain"
)

const SourceID = "classroom"

type Config struct {
	// Endpoint overrides the API base URL; empty means the production API.
	Endpoint       string
	PageSize       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Source struct {
	svc            *classroomapi.Service
	pageSize       int64
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New builds a source on an already authorized client.
func New(ctx context.Context, client *http.Client, cfg Config, logger *slog.Logger) (*Source, error) {
	httpClient := *client
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	opts := []option.ClientOption{option.WithHTTPClient(&httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := classroomapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create classroom service: %w", err)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Source{
		svc:            svc,
		pageSize:       int64(cfg.PageSize),
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}, nil
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) ListCourses(ctx context.Context) ([]domain.RawCourse, error) {
	var courses []domain.RawCourse

	err := s.withRetry(ctx, "list courses", func() error {
		courses = courses[:0]
		call := s.svc.Courses.List()
		if s.pageSize > 0 {
			call = call.PageSize(s.pageSize)
		}
		return call.Pages(ctx, func(resp *classroomapi.ListCoursesResponse) error {
			for _, c := range resp.Courses {
				courses = append(courses, courseFromAPI(c))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed courses", "count", len(courses))
	return courses, nil
}

func (s *Source) ListCourseWork(ctx context.Context, courseID string) ([]domain.RawCourseWork, error) {
	var work []domain.RawCourseWork

	err := s.withRetry(ctx, "list course work", func() error {
		work = work[:0]
		call := s.svc.Courses.CourseWork.List(courseID)
		if s.pageSize > 0 {
			call = call.PageSize(s.pageSize)
		}
		return call.Pages(ctx, func(resp *classroomapi.ListCourseWorkResponse) error {
			for _, w := range resp.CourseWork {
				work = append(work, courseWorkFromAPI(w))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed course work", "course_id", courseID, "count", len(work))
	return work, nil
}

func (s *Source) ListAnnouncements(ctx context.Context, courseID string) ([]domain.RawAnnouncement, error) {
	var announcements []domain.RawAnnouncement

	err := s.withRetry(ctx, "list announcements", func() error {
		announcements = announcements[:0]
		call := s.svc.Courses.Announcements.List(courseID)
		if s.pageSize > 0 {
			call = call.PageSize(s.pageSize)
		}
		return call.Pages(ctx, func(resp *classroomapi.ListAnnouncementsResponse) error {
			for _, a := range resp.Announcements {
				announcements = append(announcements, announcementFromAPI(a))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed announcements", "course_id", courseID, "count", len(announcements))
	return announcements, nil
}

// withRetry retries server-side and transport failures with exponential
// backoff. Client errors (4xx other than 429) are returned at once.
func (s *Source) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"op", op,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return true
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}
