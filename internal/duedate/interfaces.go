package duedate

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"cloud.google.com/go/civil"
)

// Inferrer guesses a due date from an item's free text.
type Inferrer interface {
	InferDue(ctx context.Context, title *string, description string) *civil.Date
}

// Answer is one extracted answer span with the engine's confidence in [0, 1].
type Answer struct {
	Text  string
	Score float64
}

// QAEngine answers a question against a context passage, best answer first.
type QAEngine interface {
	Predict(ctx context.Context, question, passage string, topK, maxAnswerLength int) ([]Answer, error)
}
