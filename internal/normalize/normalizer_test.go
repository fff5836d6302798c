package normalize

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/domain"
	"classroom_sync/internal/duedate"
	"classroom_sync/internal/duedate/mocks"
)

func ptr[T any](v T) *T { return &v }

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

func newNormalizer(inferrer duedate.Inferrer) *Normalizer {
	return New(duedate.NewResolver(inferrer, concurrency.NewBlockingPool(1), logger))
}

func TestFromCourseWork(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	work, err := n.FromCourseWork(context.Background(), domain.RawCourseWork{
		ID:            "11",
		Title:         "Quiz 1",
		Description:   ptr("quiz on chapter 3"),
		AlternateLink: "https://classroom.google.com/c/1/a/11",
		DueDate:       domain.NewStructuredDate(2024, 5, 10),
		UpdateTime:    ptr("2024-03-01T10:00:00Z"),
	})
	require.NoError(t, err)

	want := domain.Work{
		Link:        "https://classroom.google.com/c/1/a/11",
		Title:       "Quiz 1",
		Description: "quiz on chapter 3",
		Due:         &civil.Date{Year: 2024, Month: 5, Day: 10},
		Test:        true,
	}
	if diff := cmp.Diff(want, work); diff != "" {
		t.Errorf("FromCourseWork mismatch (-want +got):\n%s", diff)
	}
}

func TestFromCourseWork_DefaultsAndFallback(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	work, err := n.FromCourseWork(context.Background(), domain.RawCourseWork{
		Title:         "Reading",
		AlternateLink: "https://classroom.google.com/c/1/a/12",
		UpdateTime:    ptr("2024-03-01T10:00:00Z"),
	})
	require.NoError(t, err)

	assert.Equal(t, "", work.Description)
	assert.False(t, work.Test)
	require.NotNil(t, work.Due)
	assert.Equal(t, "2024-03-01", work.Due.String())
}

func TestFromCourseWork_NoDate(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	work, err := n.FromCourseWork(context.Background(), domain.RawCourseWork{
		Title:         "Project",
		Description:   ptr("work in pairs"),
		AlternateLink: "https://classroom.google.com/c/1/a/13",
	})
	require.NoError(t, err)
	assert.Nil(t, work.Due)
}

func TestFromCourseWork_TitleInInferenceContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	inferrer := mocks.NewMockInferrer(ctrl)
	want := civil.Date{Year: 2024, Month: 6, Day: 7}
	inferrer.EXPECT().InferDue(gomock.Any(), ptr("Essay"), "due in two weeks").Return(&want)

	work, err := newNormalizer(inferrer).FromCourseWork(context.Background(), domain.RawCourseWork{
		Title:         "Essay",
		Description:   ptr("due in two weeks"),
		AlternateLink: "https://classroom.google.com/c/1/a/14",
	})
	require.NoError(t, err)
	require.NotNil(t, work.Due)
	assert.Equal(t, want, *work.Due)
}

func TestFromCourseWork_MissingRequired(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	tests := []struct {
		name  string
		raw   domain.RawCourseWork
		field string
	}{
		{name: "title", raw: domain.RawCourseWork{AlternateLink: "https://x"}, field: "title"},
		{name: "link", raw: domain.RawCourseWork{Title: "HW"}, field: "alternateLink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.FromCourseWork(context.Background(), tt.raw)

			var missing *domain.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, "course_work", missing.Record)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestFromAnnouncement_SkipsWithoutText(t *testing.T) {
	ctrl := gomock.NewController(t)
	inferrer := mocks.NewMockInferrer(ctrl) // must not be called
	n := newNormalizer(inferrer)

	for _, text := range []*string{nil, ptr("")} {
		work, err := n.FromAnnouncement(context.Background(), domain.RawAnnouncement{
			Text:          text,
			AlternateLink: "https://classroom.google.com/c/1/p/1",
		})
		assert.NoError(t, err)
		assert.Nil(t, work)
	}
}

func TestFromAnnouncement_DroppedWithoutDate(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	work, err := n.FromAnnouncement(context.Background(), domain.RawAnnouncement{
		Text:          ptr("Test moved to Monday"),
		AlternateLink: "https://classroom.google.com/c/1/p/2",
	})
	assert.NoError(t, err)
	assert.Nil(t, work)
}

func TestFromAnnouncement_WithInferredDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	inferrer := mocks.NewMockInferrer(ctrl)
	due := civil.Date{Year: 2024, Month: 5, Day: 13}
	inferrer.EXPECT().InferDue(gomock.Any(), nil, "Test moved to Monday").Return(&due)

	work, err := newNormalizer(inferrer).FromAnnouncement(context.Background(), domain.RawAnnouncement{
		Text:          ptr("Test moved to Monday"),
		AlternateLink: "https://classroom.google.com/c/1/p/2",
	})
	require.NoError(t, err)
	require.NotNil(t, work)

	want := &domain.Work{
		Link:        "https://classroom.google.com/c/1/p/2",
		Title:       "Announcement",
		Description: "Test moved to Monday",
		Due:         &due,
		Test:        true,
	}
	if diff := cmp.Diff(want, work); diff != "" {
		t.Errorf("FromAnnouncement mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAnnouncement_MissingLink(t *testing.T) {
	n := newNormalizer(duedate.NullInferrer{})

	_, err := n.FromAnnouncement(context.Background(), domain.RawAnnouncement{Text: ptr("hello")})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}
