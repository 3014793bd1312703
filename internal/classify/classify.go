// Package classify assigns a category and tags to a bookmark. The primary
// path asks an LLM; any failure there degrades to the deterministic
// keyword classifier, which always produces a valid result.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

const systemPrompt = `You are a bookmark classification assistant. Analyze the content and classify it into ONE of these categories:
- Learning/Tech
- Tools/Resources
- Health/Fitness
- Entertainment/Leisure
- Food/Travel
- Other

Also generate 2-4 relevant tags (in English or the content's language).

Return ONLY a JSON object with this exact format:
{"category": "Learning/Tech", "tags": ["tutorial", "react", "web development"]}`

// Input is what the classifier sees about a bookmark.
type Input struct {
	URL         string
	Title       string
	Description string
}

// Classifier routes between the LLM and the keyword fallback. The client
// is absent when no API key was configured; that capability check happens
// once at construction, not per request.
type Classifier struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// New creates a Classifier. An empty apiKey yields a fallback-only
// classifier.
func New(apiKey, model string, logger *slog.Logger) *Classifier {
	c := &Classifier{model: model, logger: logger}
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		c.client = &client
	}
	return c
}

// AIEnabled reports whether the LLM path is configured.
func (c *Classifier) AIEnabled() bool {
	return c.client != nil
}

// Classify returns a category from the fixed taxonomy and at most
// models.MaxTags tags. It never fails: LLM errors are logged and the
// keyword fallback answers instead. No retry in between; the next request
// re-attempts the LLM path independently.
func (c *Classifier) Classify(ctx context.Context, in Input) models.Classification {
	if c.client == nil {
		return Fallback(in)
	}

	result, err := c.classifyLLM(ctx, in)
	if err != nil {
		c.logger.Warn("llm classification failed, using fallback",
			"url", in.URL,
			"error", err,
		)
		return Fallback(in)
	}
	return result
}

func (c *Classifier) classifyLLM(ctx context.Context, in Input) (models.Classification, error) {
	desc := in.Description
	if desc == "" {
		desc = "N/A"
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("URL: %s\nTitle: %s\nDescription: %s", in.URL, in.Title, desc)),
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(150),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return models.Classification{}, err
	}
	if len(completion.Choices) == 0 {
		return models.Classification{}, fmt.Errorf("empty completion response")
	}

	return parseResponse(completion.Choices[0].Message.Content)
}

// parseResponse validates the model's JSON. An unrecognized category
// becomes "Other"; tags are coerced to strings and truncated.
func parseResponse(content string) (models.Classification, error) {
	if !gjson.Valid(content) {
		return models.Classification{}, fmt.Errorf("malformed classification response")
	}

	category := gjson.Get(content, "category").String()
	if !models.ValidCategory(category) {
		category = models.CategoryOther
	}

	tags := []string{}
	for _, v := range gjson.Get(content, "tags").Array() {
		if v.Type != gjson.String || v.String() == "" {
			continue
		}
		tags = append(tags, v.String())
		if len(tags) == models.MaxTags {
			break
		}
	}

	return models.Classification{Category: category, Tags: tags}, nil
}
