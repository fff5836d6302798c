// Package jsonfile writes one pretty-printed JSON document per course.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"classroom_sync/internal/domain"
)

type Sink struct {
	dir    string
	logger *slog.Logger
}

func NewSink(dir string, logger *slog.Logger) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Sink{dir: dir, logger: logger}, nil
}

// FileName is the document name for a course id.
func FileName(id domain.ID) string {
	return "course-" + id.String() + ".json"
}

// Path returns where the course with the given id is written.
func (s *Sink) Path(id domain.ID) string {
	return filepath.Join(s.dir, FileName(id))
}

// Save replaces the course document atomically through a temp file.
func (s *Sink) Save(ctx context.Context, course *domain.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(course.ID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved course", "course_id", course.ID.String(), "path", path, "work", len(course.Work))
	return nil
}
