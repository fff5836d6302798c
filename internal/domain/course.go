package domain

import (
	"cloud.google.com/go/civil"
)

// AnnouncementTitle is the title given to work derived from announcements.
const AnnouncementTitle = "Announcement"

type Course struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Teacher     ID     `json:"teacher"`
	Work        []Work `json:"work"`
}

// Work is a snapshot of one course-work item or announcement at fetch time.
// Due is nil when no date could be resolved.
type Work struct {
	Link        string      `json:"link"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Due         *civil.Date `json:"due"`
	Test        bool        `json:"test"`
}

// NewCourse validates the raw course fields and assembles a Course around work.
func NewCourse(raw RawCourse, work []Work) (*Course, error) {
	if err := ValidateRecord("course", raw); err != nil {
		return nil, err
	}

	id, err := ParseID(raw.ID)
	if err != nil {
		return nil, err
	}
	teacher, err := ParseID(raw.OwnerID)
	if err != nil {
		return nil, err
	}

	var description string
	if raw.Description != nil {
		description = *raw.Description
	}
	if work == nil {
		work = []Work{}
	}

	return &Course{
		ID:          id,
		Name:        raw.Name,
		Description: description,
		Teacher:     teacher,
		Work:        work,
	}, nil
}
