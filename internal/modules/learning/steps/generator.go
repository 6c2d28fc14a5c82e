package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/activities"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/openai"
)

// SectionContext is what the generator sees of one section.
type SectionContext struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Excerpt string `json:"excerpt"`
}

type RawActivity = activities.Raw

// ActivityGenerator asks an external service for perSection activities per
// section of the batch. Output is untrusted.
type ActivityGenerator interface {
	Generate(ctx context.Context, system string, batch []SectionContext, perSection int) ([]RawActivity, error)
}

type llmGenerator struct {
	log        *logger.Logger
	ai         openai.Client
	schemaName string
}

func NewLLMGenerator(log *logger.Logger, ai openai.Client, schemaName string) ActivityGenerator {
	if strings.TrimSpace(schemaName) == "" {
		schemaName = "learning_activities"
	}
	return &llmGenerator{log: log.With("component", "ActivityGenerator"), ai: ai, schemaName: schemaName}
}

func (g *llmGenerator) Generate(ctx context.Context, system string, batch []SectionContext, perSection int) ([]RawActivity, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	user, err := json.Marshal(map[string]any{
		"activities_per_section": perSection,
		"total_activities":       perSection * len(batch),
		"sections":               batch,
	})
	if err != nil {
		return nil, err
	}
	obj, err := g.ai.GenerateJSON(ctx, system, string(user), g.schemaName, ActivitiesSchema())
	if err != nil {
		return nil, err
	}
	raws, err := DecodeActivities(obj)
	if err != nil {
		return nil, err
	}
	g.log.Debug("activities generated", "sections", len(batch), "activities", len(raws))
	return raws, nil
}

// DecodeActivities reads the loose {activities:[...]} payload. Only a missing
// or non-list "activities" is an error; every item becomes one RawActivity.
func DecodeActivities(obj map[string]any) ([]RawActivity, error) {
	if obj == nil {
		return nil, fmt.Errorf("generate: empty payload")
	}
	items, ok := obj["activities"].([]any)
	if !ok {
		return nil, fmt.Errorf("generate: payload has no activities list")
	}
	out := make([]RawActivity, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		raw := RawActivity{
			Title:       scalarString(m["title"]),
			Description: scalarString(m["description"]),
			Type:        scalarString(m["type"]),
		}
		if cfg, ok := m["config"].(map[string]any); ok {
			raw.Config = cfg
		}
		out = append(out, raw)
	}
	return out, nil
}

func scalarString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// ActivitiesSchema is the strict json_schema sent with every generation request.
func ActivitiesSchema() map[string]any {
	str := map[string]any{"type": "string"}
	strList := map[string]any{"type": "array", "items": str}
	obj := func(props map[string]any) map[string]any {
		req := make([]string, 0, len(props))
		for k := range props {
			req = append(req, k)
		}
		sort.Strings(req)
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             req,
			"properties":           props,
		}
	}
	pair := obj(map[string]any{"left": str, "right": str})
	card := obj(map[string]any{"front": str, "back": str})
	blank := obj(map[string]any{"position": map[string]any{"type": "integer"}, "correct_answers": strList})

	config := map[string]any{
		"anyOf": []any{
			obj(map[string]any{"content": str, "narration": str, "media_type": map[string]any{"type": "string", "enum": []any{"image", "video"}}}),
			obj(map[string]any{"question": str, "options": strList, "correct_answer": map[string]any{"type": "integer"}, "explanation": str}),
			obj(map[string]any{"cards": map[string]any{"type": "array", "items": card}}),
			obj(map[string]any{"url": str, "embed_type": map[string]any{"type": "string", "enum": []any{"video", "article"}}}),
			obj(map[string]any{"instruction": str, "text_with_blanks": str, "blanks": map[string]any{"type": "array", "items": blank}}),
			obj(map[string]any{"instruction": str, "pairs": map[string]any{"type": "array", "items": pair}}),
		},
	}
	typeEnum := make([]any, 0, len(activities.Types))
	for _, t := range activities.Types {
		typeEnum = append(typeEnum, string(t))
	}
	activity := obj(map[string]any{
		"title":       str,
		"description": str,
		"type":        map[string]any{"type": "string", "enum": typeEnum},
		"config":      config,
	})
	return obj(map[string]any{
		"activities": map[string]any{"type": "array", "items": activity},
	})
}
