package llm

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Enhancer turns a composed prompt into cleaned specification text. It holds
// no per-call state; one instance is built at startup and shared.
type Enhancer struct {
	client Client
	tracer trace.Tracer
}

// NewEnhancer wraps client. A nil client means no credential was resolved at
// startup; every Enhance call then fails with ErrMissingCredential.
func NewEnhancer(client Client) *Enhancer {
	return &Enhancer{
		client: client,
		tracer: otel.Tracer("promptarchitect/llm"),
	}
}

// Enhance sends composedPrompt with SystemInstruction and returns the cleaned
// response. Transport, API and empty-response failures come back as
// *EnhanceError; the cause is logged but kept out of the message.
func (e *Enhancer) Enhance(ctx context.Context, composedPrompt string) (string, error) {
	if e == nil || e.client == nil {
		log.Error().Msg("Enhance called without an API credential")
		return "", ErrMissingCredential
	}

	ctx, span := e.tracer.Start(ctx, "llm.Enhance")
	defer span.End()
	span.SetAttributes(attribute.Int("llm.prompt_length", len(composedPrompt)))
	if m, ok := e.client.(interface{ Model() string }); ok {
		span.SetAttributes(attribute.String("llm.model", m.Model()))
	}

	rawResponse, err := e.client.Generate(ctx, SystemInstruction, composedPrompt)
	if err != nil {
		log.Error().Err(err).Msg("LLM API call failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return "", &EnhanceError{Cause: err}
	}

	cleaned := CleanResponse(rawResponse)
	if cleaned == "" {
		log.Error().Int("raw_len", len(rawResponse)).Msg("Received an empty response from the LLM")
		span.SetStatus(codes.Error, "empty response")
		return "", &EnhanceError{Cause: ErrEmptyResponse}
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(cleaned)))
	span.SetStatus(codes.Ok, "")
	log.Info().Int("response_len", len(cleaned)).Msg("Prompt enhanced successfully")
	return cleaned, nil
}
