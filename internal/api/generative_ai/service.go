package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
)

const DefaultModel = "gemini-2.0-flash"

type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
}

// NewAIClient builds a Gemini client. Requests ask for JSON output at a
// moderate temperature.
func NewAIClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*AIClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client:  client,
		model:   model,
		timeout: timeout,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.5),
			ResponseMIMEType: "application/json",
		},
	}, nil
}

func (ai *AIClient) Model() string {
	return ai.model
}

// GenerateContent sends a single prompt and returns the response text, which
// may be empty.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateContent")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", ai.model),
		attribute.Int("prompt.length", len(prompt)),
	)

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), ai.config)
	if err != nil {
		metrics.Get().RecordUpstream(ctx, "gemini", "error", time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "GenerateContent failed")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// A blocked or text-less candidate comes back as "" and is left to the
	// itinerary parser to reject.
	text := result.Text()
	if text == "" {
		metrics.Get().RecordUpstream(ctx, "gemini", "empty", time.Since(start).Seconds())
		span.SetAttributes(attribute.Bool("response.empty", true))
		return "", nil
	}

	metrics.Get().RecordUpstream(ctx, "gemini", "ok", time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "")
	return text, nil
}
