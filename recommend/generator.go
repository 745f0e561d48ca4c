package recommend

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Generator makes a single text generation call.
type Generator interface {
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through google.golang.org/genai.
type GeminiGenerator struct {
	HTTPClient  *http.Client
	Temperature *float32
}

func (g GeminiGenerator) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	httpClient := g.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{}
	if g.Temperature != nil {
		config.Temperature = g.Temperature
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
