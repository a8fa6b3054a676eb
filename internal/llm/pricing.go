package llm

import "strings"

// ModelCost is list pricing in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	const perM = 1_000_000
	return float64(inputTokens)/perM*c.InputPerMTok + float64(outputTokens)/perM*c.OutputPerMTok
}

// LookupCost finds pricing for a model ID as reported in Response.Model.
// OpenRouter IDs ("vendor/model") fall back to the bare model name, and a
// dated snapshot falls back to its undated alias. It returns nil for
// unknown models.
func LookupCost(modelID string) *ModelCost {
	for _, id := range costKeys(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

func costKeys(id string) []string {
	keys := []string{id}
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
		keys = append(keys, id)
	}
	// claude-haiku-4-5-20251001 -> claude-haiku-4-5
	if i := strings.LastIndexByte(id, '-'); i >= 0 && len(id)-i-1 == 8 && isDigits(id[i+1:]) {
		keys = append(keys, id[:i])
	}
	return keys
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// modelCosts covers the models question generation is likely to run on.
var modelCosts = map[string]ModelCost{
	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-7-sonnet": {3, 15},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-1":   {15, 75},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
