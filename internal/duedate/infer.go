package duedate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// Question is the only question ever put to the QA engine.
	Question = "When is it due?"

	// ConfidenceThreshold: answers scoring at or below it are discarded.
	ConfidenceThreshold = 0.5

	maxAnswerLength = 32
)

// NullInferrer never finds a date. It is the default when no inference engine
// is configured.
type NullInferrer struct{}

func (NullInferrer) InferDue(context.Context, *string, string) *civil.Date {
	return nil
}

// ModelInferrer asks a QA engine when the item is due and fuzzy-parses a
// confident answer.
type ModelInferrer struct {
	engine QAEngine
	now    func() time.Time
	logger *slog.Logger
}

// NewModelInferrer wraps engine. now anchors relative answers such as
// "next Friday"; nil means time.Now.
func NewModelInferrer(engine QAEngine, now func() time.Time, logger *slog.Logger) *ModelInferrer {
	if now == nil {
		now = time.Now
	}
	return &ModelInferrer{
		engine: engine,
		now:    now,
		logger: logger.With("component", "model_inferrer"),
	}
}

func (m *ModelInferrer) InferDue(ctx context.Context, title *string, description string) *civil.Date {
	answers, err := m.engine.Predict(ctx, Question, Passage(title, description), 1, maxAnswerLength)
	if err != nil {
		m.logger.Warn("inference failed", "error", err)
		return nil
	}
	if len(answers) == 0 {
		return nil
	}

	best := answers[0]
	if best.Score <= ConfidenceThreshold {
		m.logger.Debug("discarding low-confidence answer",
			"answer", best.Text,
			"score", best.Score,
		)
		return nil
	}

	due := ParseFuzzy(best.Text, m.now())
	if due == nil {
		m.logger.Debug("answer is not a date", "answer", best.Text)
	}
	return due
}

// Passage builds the context the QA engine reads.
func Passage(title *string, description string) string {
	if title == nil {
		return fmt.Sprintf("description: %s", description)
	}
	return fmt.Sprintf("title: %s\ndescription: %s", *title, description)
}
