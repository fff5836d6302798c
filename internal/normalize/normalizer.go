// Package normalize turns raw Classroom records into domain Work.
package normalize

import (
	"context"

	"classroom_sync/internal/classify"
	"classroom_sync/internal/domain"
	"classroom_sync/internal/duedate"
)

// Normalizer is safe for concurrent use.
type Normalizer struct {
	resolver *duedate.Resolver
}

func New(resolver *duedate.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// FromCourseWork maps a course-work item. A missing title or link is a
// *domain.MissingFieldError.
func (n *Normalizer) FromCourseWork(ctx context.Context, w domain.RawCourseWork) (domain.Work, error) {
	if err := domain.ValidateRecord("course_work", w); err != nil {
		return domain.Work{}, err
	}

	var description string
	if w.Description != nil {
		description = *w.Description
	}
	title := w.Title

	due := n.resolver.Resolve(ctx, duedate.Input{
		Title:       &title,
		Description: w.Description,
		DueDate:     w.DueDate,
		UpdateTime:  w.UpdateTime,
	})

	return domain.Work{
		Link:        w.AlternateLink,
		Title:       title,
		Description: description,
		Due:         due,
		Test:        classify.IsTest(description, &title),
	}, nil
}

// FromAnnouncement maps an announcement. Announcements only matter when they
// carry a deadline: one without text or without a resolvable date yields
// (nil, nil).
func (n *Normalizer) FromAnnouncement(ctx context.Context, a domain.RawAnnouncement) (*domain.Work, error) {
	if a.Text == nil || *a.Text == "" {
		return nil, nil
	}
	if err := domain.ValidateRecord("announcement", a); err != nil {
		return nil, err
	}

	due := n.resolver.Resolve(ctx, duedate.Input{Description: a.Text})
	if due == nil {
		return nil, nil
	}

	return &domain.Work{
		Link:        a.AlternateLink,
		Title:       domain.AnnouncementTitle,
		Description: *a.Text,
		Due:         due,
		Test:        classify.IsTest(*a.Text, nil),
	}, nil
}
