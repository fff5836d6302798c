// Package inference provides the question-answering engines behind due-date
// inference and picks one from configuration.
package inference

import (
	"context"
	"fmt"
	"log/slog"

	"classroom_sync/internal/config"
	"classroom_sync/internal/duedate"
)

const (
	ProviderNone        = "none"
	ProviderGenAI       = "genai"
	ProviderHuggingFace = "huggingface"
)

// NewInferrer builds the Inferrer selected by cfg.Provider. "none" (or empty)
// disables inference.
func NewInferrer(ctx context.Context, cfg config.InferenceConfig, logger *slog.Logger) (duedate.Inferrer, error) {
	var engine duedate.QAEngine

	switch cfg.Provider {
	case "", ProviderNone:
		return duedate.NullInferrer{}, nil
	case ProviderGenAI:
		g, err := NewGenAI(ctx, GenAIConfig{
			APIKey: cfg.GenAI.APIKey,
			Model:  cfg.GenAI.Model,
		}, logger)
		if err != nil {
			return nil, err
		}
		engine = g
	case ProviderHuggingFace:
		engine = NewHuggingFace(HuggingFaceConfig{
			BaseURL:        cfg.HuggingFace.BaseURL,
			Model:          cfg.HuggingFace.Model,
			Token:          cfg.HuggingFace.Token,
			Timeout:        cfg.HuggingFace.Timeout,
			MaxAttempts:    cfg.HuggingFace.Retry.MaxAttempts,
			InitialBackoff: cfg.HuggingFace.Retry.InitialBackoff,
			MaxBackoff:     cfg.HuggingFace.Retry.MaxBackoff,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}

	logger.Info("due-date inference enabled", "provider", cfg.Provider)
	return duedate.NewModelInferrer(engine, nil, logger), nil
}
