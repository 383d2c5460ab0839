package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gemini-2.5-flash"
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// Client defines the interface for the external text-generation API.
type Client interface {
	// Generate sends the system instruction and user content to the model and
	// returns the raw text of the first choice.
	Generate(ctx context.Context, systemInstruction, content string) (string, error)
}

// OpenAIClient implements the llm.Client interface for any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIClient creates a new OpenAI client wrapper.
// It requires a configured go-openai client and the model name to use.
func NewOpenAIClient(client *openai.Client, modelName string) (*OpenAIClient, error) {
	if client == nil {
		return nil, ErrLLMClientNil
	}
	if modelName == "" {
		log.Warn().Msgf("modelName is empty for OpenAIClient, defaulting to %s", DefaultModel)
		modelName = DefaultModel
	}
	return &OpenAIClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// NewOpenAIClientFromKey builds the go-openai SDK client for apiKey and baseURL and wraps it.
// An empty baseURL selects DefaultBaseURL.
func NewOpenAIClientFromKey(apiKey, baseURL, modelName string) (*OpenAIClient, error) {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL
	log.Debug().Str("base_url", baseURL).Str("model", modelName).Msg("Building OpenAI-compatible client")
	return NewOpenAIClient(openai.NewClientWithConfig(cfg), modelName)
}

// Model returns the model identifier requests are sent to.
func (o *OpenAIClient) Model() string {
	return o.modelName
}

// Generate implements the llm.Client interface.
func (o *OpenAIClient) Generate(ctx context.Context, systemInstruction, content string) (string, error) {
	if o.client == nil {
		return "", ErrLLMClientNil
	}
	if content == "" {
		return "", ErrLLMPromptEmpty
	}

	req := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			},
		},
	}

	log.Debug().Str("model", o.modelName).Int("content_len", len(content)).Msg("Sending request to LLM API")
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMCompletion, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	rawResponse := resp.Choices[0].Message.Content
	log.Debug().Int("raw_len", len(rawResponse)).Msg("Received response from LLM API")
	return rawResponse, nil
}
