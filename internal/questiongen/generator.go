// Package questiongen asks an LLM for extra quiz questions about a planet.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/llm"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/quiz"
)

// Purpose labels question-generation requests in the LLM event log.
const Purpose = "question-gen"

// ErrNoQuestions is returned when a response held no usable question.
var ErrNoQuestions = errors.New("no usable questions generated")

// Config tunes generation.
type Config struct {
	MaxTokens         int
	Temperature       float64
	MaxPriorQuestions int // prompts listed as "already asked"
	MaxCount          int // upper bound on questions per request
}

// DefaultConfig returns the settings used by the generate command.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         1024,
		Temperature:       0.7,
		MaxPriorQuestions: 30,
		MaxCount:          10,
	}
}

// Generator produces quiz questions for a planet.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// New creates a Generator. A nil logger discards output.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{provider: provider, config: cfg, log: log}
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Generate asks for count questions about p. Prompts matching one in
// existing (ignoring case and spacing) or repeated within the batch are
// dropped, as are questions that fail quiz validation.
func (g *Generator) Generate(ctx context.Context, p planets.Planet, count int, existing []string) ([]quiz.Question, error) {
	if count < 1 {
		count = 1
	}
	if g.config.MaxCount > 0 && count > g.config.MaxCount {
		count = g.config.MaxCount
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(p, count, existing, g.config.MaxPriorQuestions)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(raw.Questions))
	for _, prompt := range existing {
		seen[promptKey(prompt)] = true
	}

	var out []quiz.Question
	for i, qo := range raw.Questions {
		q := quiz.Question{
			Subject:       p.Name,
			Prompt:        strings.TrimSpace(qo.Prompt),
			Options:       trimAll(qo.Options),
			CorrectOption: qo.CorrectOption,
		}

		key := promptKey(q.Prompt)
		if key == "" || seen[key] {
			g.log.Debug("dropping duplicate question", zap.Int("position", i), zap.String("prompt", q.Prompt))
			continue
		}
		if err := quiz.Validate([]quiz.Question{q}); err != nil {
			g.log.Debug("dropping invalid question", zap.Int("position", i), zap.Error(err))
			continue
		}

		seen[key] = true
		out = append(out, q)
		if len(out) == count {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	g.log.Info("questions generated",
		zap.String("planet", p.Name),
		zap.Int("requested", count),
		zap.Int("kept", len(out)),
		zap.String("model", resp.Model),
	)
	return out, nil
}

// promptKey folds case and whitespace for duplicate detection.
func promptKey(prompt string) string {
	return strings.ToLower(strings.Join(strings.Fields(prompt), " "))
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
