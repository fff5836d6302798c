package duedate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/domain"
)

// TimestampLayout is the fixed format of platform update timestamps.
const TimestampLayout = time.RFC3339Nano

// Input carries everything the policy may look at for one item.
type Input struct {
	Title       *string
	Description *string
	DueDate     *domain.StructuredDate
	UpdateTime  *string
}

// Resolver picks one due date per item:
//  1. a structured date, when present, decides on its own (invalid means none);
//  2. otherwise the description goes through the Inferrer on the blocking pool;
//  3. if still nothing, the date of the last update is used.
type Resolver struct {
	inferrer Inferrer
	pool     *concurrency.BlockingPool
	logger   *slog.Logger
}

func NewResolver(inferrer Inferrer, pool *concurrency.BlockingPool, logger *slog.Logger) *Resolver {
	if inferrer == nil {
		inferrer = NullInferrer{}
	}
	if pool == nil {
		pool = concurrency.NewBlockingPool(0)
	}
	return &Resolver{
		inferrer: inferrer,
		pool:     pool,
		logger:   logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, in Input) *civil.Date {
	var due *civil.Date
	var from string

	switch {
	case in.DueDate != nil:
		due, from = ExtractStructured(in.DueDate), "structured"
	case in.Description != nil && strings.TrimSpace(*in.Description) != "":
		due, from = r.infer(ctx, in.Title, *in.Description), "inference"
	}

	if due == nil && in.UpdateTime != nil {
		due, from = dateOfTimestamp(*in.UpdateTime), "update_time"
	}

	if due != nil {
		r.logger.Debug("resolved due date", "due", due.String(), "from", from)
	}
	return due
}

func (r *Resolver) infer(ctx context.Context, title *string, description string) *civil.Date {
	due, err := concurrency.Offload(ctx, r.pool, func() *civil.Date {
		return r.inferrer.InferDue(ctx, title, description)
	})
	if err != nil {
		r.logger.Debug("inference abandoned", "error", err)
		return nil
	}
	return due
}

func dateOfTimestamp(s string) *civil.Date {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return nil
	}
	d := civil.DateOf(t)
	return &d
}
