package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"classroom_sync/internal/duedate"
)

// HuggingFaceConfig holds question-answering endpoint configuration.
type HuggingFaceConfig struct {
	BaseURL        string
	Model          string
	Token          string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// HuggingFace calls a hosted extractive question-answering model.
type HuggingFace struct {
	httpClient     *http.Client
	url            string
	token          string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func NewHuggingFace(cfg HuggingFaceConfig, logger *slog.Logger) *HuggingFace {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &HuggingFace{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:            fmt.Sprintf("%s/models/%s", cfg.BaseURL, cfg.Model),
		token:          cfg.Token,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("engine", "huggingface", "model", cfg.Model),
	}
}

type qaRequest struct {
	Inputs     qaInputs     `json:"inputs"`
	Parameters qaParameters `json:"parameters"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaParameters struct {
	TopK         int `json:"top_k"`
	MaxAnswerLen int `json:"max_answer_len"`
}

type qaAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Predict implements duedate.QAEngine.
func (h *HuggingFace) Predict(ctx context.Context, question, passage string, topK, maxAnswerLength int) ([]duedate.Answer, error) {
	body, err := json.Marshal(qaRequest{
		Inputs:     qaInputs{Question: question, Context: passage},
		Parameters: qaParameters{TopK: topK, MaxAnswerLen: maxAnswerLength},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var raw []byte
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		raw, err = h.doRequest(ctx, body)
		if err == nil {
			break
		}
		if !retryable(err) {
			return nil, err
		}
		if attempt == h.maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", h.maxAttempts, err)
		}

		backoff := h.calculateBackoff(attempt)
		h.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return decodeQAAnswers(raw)
}

func (h *HuggingFace) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// StatusError is a non-200 response from the inference endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// retryable reports whether a failed request is worth repeating. Client
// errors other than 429 are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	return true
}

func (h *HuggingFace) calculateBackoff(attempt int) time.Duration {
	backoff := h.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > h.maxBackoff {
		backoff = h.maxBackoff
	}
	return backoff
}

// The endpoint returns a bare object for top_k=1 and a list otherwise.
func decodeQAAnswers(data []byte) ([]duedate.Answer, error) {
	data = bytes.TrimSpace(data)

	var raw []qaAnswer
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	} else {
		var one qaAnswer
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		raw = []qaAnswer{one}
	}

	answers := make([]duedate.Answer, 0, len(raw))
	for _, a := range raw {
		answers = append(answers, duedate.Answer{Text: a.Answer, Score: a.Score})
	}
	return answers, nil
}
