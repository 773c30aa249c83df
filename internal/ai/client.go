// Package ai is an optional fallback for time text the deterministic parser
// rejects. It asks an OpenAI-compatible model to canonicalize the phrase to
// a single local timestamp. Enabled only when an API key is configured.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"remindbot/internal/timeparse"
)

type Client struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		now:    time.Now,
	}
}

const systemPromptTemplate = `You canonicalize human date/time phrases for a reminder application.

Current time: %s

Resolve the user's phrase to one exact local timestamp. Interpret relative
phrases ("in two hours", "next friday evening") against the current time.
If the phrase does not describe a point in time, set datetime to an empty string.`

// JSON Schema for structured output
var timestampSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"datetime": {
			"type": "string",
			"description": "The resolved timestamp as YYYY-MM-DD HH:MM, or empty if unresolvable"
		}
	},
	"required": ["datetime"],
	"additionalProperties": false
}`)

type timestampAnswer struct {
	Datetime string `json:"datetime"`
}

// ParseTime asks the model for a canonical timestamp. Returns
// timeparse.ErrUnrecognized (wrapped) when the model cannot resolve one.
func (c *Client) ParseTime(ctx context.Context, text string) (time.Time, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptTemplate, c.now().Format(timeparse.Layout)),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "timestamp",
				Schema: timestampSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return time.Time{}, fmt.Errorf("no response from AI")
	}

	var answer timestampAnswer
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &answer); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if answer.Datetime == "" {
		return time.Time{}, fmt.Errorf("%w: %q", timeparse.ErrUnrecognized, text)
	}

	t, err := time.ParseInLocation(timeparse.Layout, answer.Datetime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("AI returned malformed timestamp %q: %w", answer.Datetime, err)
	}
	return t, nil
}
