package tubetrends

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// LanguageModel is the chat completion capability used by the pipeline.
// Implementations must return an error on failure instead of panicking;
// callers decide per call site how to fall back.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// schemaCompleter is an optional upgrade of LanguageModel for providers
// that support structured JSON output. completeJSON uses it when available
// and falls back to plain completion otherwise.
type schemaCompleter interface {
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, schemaName string, schema map[string]any) (string, error)
}

// OpenAIChat implements LanguageModel using the OpenAI chat completions API.
type OpenAIChat struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIChat creates a chat client. An empty model selects gpt-4o-mini.
func NewOpenAIChat(apiKey string, model openai.ChatModel) *OpenAIChat {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIChat{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete sends one chat completion request and returns the response text.
func (c *OpenAIChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       c.model,
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(chatCompletion.Choices) == 0 || chatCompletion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in response")
	}

	return chatCompletion.Choices[0].Message.Content, nil
}

// CompleteWithSchema sends one chat completion request with a JSON schema
// response format so the model returns structured output.
func (c *OpenAIChat) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, schemaName string, schema map[string]any) (string, error) {
	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       c.model,
		Temperature: openai.Float(0.1),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(chatCompletion.Choices) == 0 || chatCompletion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in response")
	}

	return chatCompletion.Choices[0].Message.Content, nil
}

// reflectSchema generates a JSON schema for structured output from a Go value.
func reflectSchema(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaObj := reflector.Reflect(v)

	// Ensure the schema has the correct type
	if schemaObj.Type == "" {
		schemaObj.Type = "object"
	}

	// Convert to map[string]any to ensure proper JSON serialization
	schemaBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	return schema, nil
}

// completeJSON issues one completion and parses the response into out.
// It performs no retries; a failed call or unparseable response is
// returned as an error for the caller to apply its own fallback.
func completeJSON(ctx context.Context, llm LanguageModel, systemPrompt, userPrompt, schemaName string, out any) error {
	var raw string
	var err error

	if sc, ok := llm.(schemaCompleter); ok {
		if schema, schemaErr := reflectSchema(out); schemaErr == nil {
			raw, err = sc.CompleteWithSchema(ctx, systemPrompt, userPrompt, schemaName, schema)
		} else {
			raw, err = llm.Complete(ctx, systemPrompt, userPrompt)
		}
	} else {
		raw, err = llm.Complete(ctx, systemPrompt, userPrompt)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), out); err != nil {
		return fmt.Errorf("failed to parse structured response: %w", err)
	}

	return nil
}

// stripCodeFence removes a wrapping markdown code block from a model response.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	if idx := strings.Index(raw[3:], "\n"); idx >= 0 {
		raw = raw[3+idx+1:]
	}
	if strings.HasSuffix(raw, "```") {
		raw = raw[:len(raw)-3]
	}
	return strings.TrimSpace(raw)
}

// truncateString truncates a string to maxLength with ellipsis
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
