package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"classroom_sync/internal/duedate"
)

const defaultGenAIModel = "gemini-2.0-flash"

// GenAIConfig holds Gemini engine configuration.
type GenAIConfig struct {
	APIKey string
	Model  string
}

// GenAI answers extractive questions with a Gemini model constrained to JSON
// output. It is safe for concurrent use.
type GenAI struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGenAI(ctx context.Context, cfg GenAIConfig, logger *slog.Logger) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGenAIModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAI{
		client: client,
		model:  cfg.Model,
		logger: logger.With("engine", "genai", "model", cfg.Model),
	}, nil
}

var answerSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer": {Type: genai.TypeString},
			"score":  {Type: genai.TypeNumber},
		},
		Required: []string{"answer", "score"},
	},
}

const promptTemplate = `Answer the question using only a span copied from the context.
Return at most %d answers, best first, each at most %d characters long.
Give each answer a confidence score between 0 and 1. If the context does not
answer the question, return an empty list.

Context:
%s

Question: %s`

type genaiAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// Predict implements duedate.QAEngine.
func (g *GenAI) Predict(ctx context.Context, question, passage string, topK, maxAnswerLength int) ([]duedate.Answer, error) {
	prompt := fmt.Sprintf(promptTemplate, topK, maxAnswerLength, passage, question)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   answerSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return parseGenAIAnswers(resp.Text(), topK, maxAnswerLength)
}

func parseGenAIAnswers(text string, topK, maxAnswerLength int) ([]duedate.Answer, error) {
	var raw []genaiAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	answers := make([]duedate.Answer, 0, len(raw))
	for _, a := range raw {
		span := strings.TrimSpace(a.Answer)
		if span == "" {
			continue
		}
		span = truncateRunes(span, maxAnswerLength)
		answers = append(answers, duedate.Answer{Text: span, Score: clamp01(a.Score)})
	}

	sort.SliceStable(answers, func(i, j int) bool { return answers[i].Score > answers[j].Score })
	if topK > 0 && len(answers) > topK {
		answers = answers[:topK]
	}
	return answers, nil
}

// truncateRunes cuts s to at most n characters without splitting one.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
