package domain

// Raw records mirror the sparse-field contract of the Classroom API: optional
// fields are pointers, required ones are validated before use.

type RawCourse struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	OwnerID     string  `json:"ownerId" validate:"required"`
}

type RawCourseWork struct {
	ID            string          `json:"id"`
	Title         string          `json:"title" validate:"required"`
	Description   *string         `json:"description"`
	AlternateLink string          `json:"alternateLink" validate:"required"`
	DueDate       *StructuredDate `json:"dueDate"`
	UpdateTime    *string         `json:"updateTime"`
}

type RawAnnouncement struct {
	ID            string  `json:"id"`
	Text          *string `json:"text"`
	AlternateLink string  `json:"alternateLink" validate:"required"`
}

// StructuredDate is a due date supplied by the platform. Components the
// platform left out are nil.
type StructuredDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// NewStructuredDate builds a fully populated StructuredDate.
func NewStructuredDate(year, month, day int) *StructuredDate {
	return &StructuredDate{Year: &year, Month: &month, Day: &day}
}
