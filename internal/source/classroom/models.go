package classroom

import (
	classroomapi "google.golang.org/api/classroom/v1"

	"classroom_sync/internal/domain"
)

// The API omits empty fields, so an empty string here means "absent".

func courseFromAPI(c *classroomapi.Course) domain.RawCourse {
	return domain.RawCourse{
		ID:          c.Id,
		Name:        c.Name,
		Description: optional(c.Description),
		OwnerID:     c.OwnerId,
	}
}

func courseWorkFromAPI(w *classroomapi.CourseWork) domain.RawCourseWork {
	return domain.RawCourseWork{
		ID:            w.Id,
		Title:         w.Title,
		Description:   optional(w.Description),
		AlternateLink: w.AlternateLink,
		DueDate:       dateFromAPI(w.DueDate),
		UpdateTime:    optional(w.UpdateTime),
	}
}

func announcementFromAPI(a *classroomapi.Announcement) domain.RawAnnouncement {
	return domain.RawAnnouncement{
		ID:            a.Id,
		Text:          optional(a.Text),
		AlternateLink: a.AlternateLink,
	}
}

// dateFromAPI keeps the triple as sent. A zero component is reported as
// missing, which makes the date invalid downstream.
func dateFromAPI(d *classroomapi.Date) *domain.StructuredDate {
	if d == nil {
		return nil
	}
	return &domain.StructuredDate{
		Year:  component(d.Year),
		Month: component(d.Month),
		Day:   component(d.Day),
	}
}

func component(v int64) *int {
	if v == 0 {
		return nil
	}
	n := int(v)
	return &n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
