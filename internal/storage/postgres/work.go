package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"

	"classroom_sync/internal/domain"
)

// WorkStore keeps the work list of each course, in aggregation order.
type WorkStore struct {
	db *sqlx.DB
}

func NewWorkStore(db *sqlx.DB) *WorkStore {
	return &WorkStore{db: db}
}

type workRow struct {
	Link        string       `db:"link"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Due         sql.NullTime `db:"due"`
	IsTest      bool         `db:"is_test"`
}

const workColumns = 7

func (s *WorkStore) ReplaceForCourse(ctx context.Context, courseID domain.ID, work []domain.Work) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, "DELETE FROM works WHERE course_id = $1", courseID)
	if err != nil {
		return err
	}

	if len(work) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO works (course_id, position, link, title, description, due, is_test) VALUES ")
	valueArgs := make([]any, 0, len(work)*workColumns)

	for i, w := range work {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 1; c <= workColumns; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*workColumns + c))
		}
		sb.WriteString(")")
		valueArgs = append(valueArgs, courseID, i, w.Link, w.Title, w.Description, dueValue(w.Due), w.Test)
	}

	_, err = exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

func (s *WorkStore) GetByCourseID(ctx context.Context, courseID domain.ID) ([]domain.Work, error) {
	query := `
		SELECT link, title, description, due, is_test
		FROM works
		WHERE course_id = $1
		ORDER BY position`

	var rows []workRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, courseID); err != nil {
		return nil, err
	}

	work := make([]domain.Work, 0, len(rows))
	for _, r := range rows {
		w := domain.Work{
			Link:        r.Link,
			Title:       r.Title,
			Description: r.Description,
			Test:        r.IsTest,
		}
		if r.Due.Valid {
			d := civil.DateOf(r.Due.Time)
			w.Due = &d
		}
		work = append(work, w)
	}
	return work, nil
}

func dueValue(d *civil.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.In(time.UTC), Valid: true}
}
