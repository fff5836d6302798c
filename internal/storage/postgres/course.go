package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"classroom_sync/internal/domain"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseStore struct {
	db    *sqlx.DB
	works *WorkStore
}

func NewCourseStore(db *sqlx.DB) *CourseStore {
	return &CourseStore{db: db, works: NewWorkStore(db)}
}

type courseRow struct {
	ID          domain.ID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	TeacherID   domain.ID `db:"teacher_id"`
}

// Upsert writes the course row and replaces its work. Run it inside
// WithTransaction so both land together. It reports whether the row was new.
func (s *CourseStore) Upsert(ctx context.Context, course *domain.Course) (bool, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO courses (id, name, description, teacher_id, synced_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			teacher_id = EXCLUDED.teacher_id,
			synced_at = EXCLUDED.synced_at
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := exec.QueryRowxContext(ctx, query,
		course.ID,
		course.Name,
		course.Description,
		course.Teacher,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}

	if err := s.works.ReplaceForCourse(ctx, course.ID, course.Work); err != nil {
		return false, err
	}

	return inserted, nil
}

func (s *CourseStore) Get(ctx context.Context, id domain.ID) (*domain.Course, error) {
	var row courseRow
	query := `
		SELECT id, name, description, teacher_id
		FROM courses
		WHERE id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	work, err := s.works.GetByCourseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Course{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Teacher:     row.TeacherID,
		Work:        work,
	}, nil
}
