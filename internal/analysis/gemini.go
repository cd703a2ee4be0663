package analysis

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const (
	// ProviderGemini is the name of the Gemini generator.
	ProviderGemini = "gemini"

	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-3-flash-preview"
)

// GeminiGenerator calls the Gemini generate-content API with the audio as an
// inline data part. A client is created per call because the API key is a
// per-call argument.
type GeminiGenerator struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a GeminiGenerator.
type GeminiOption func(*GeminiGenerator)

// WithGeminiBaseURL overrides the API base URL (used for proxies and tests).
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(g *GeminiGenerator) {
		g.baseURL = baseURL
	}
}

// WithGeminiHTTPClient sets the HTTP client used for requests.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(g *GeminiGenerator) {
		g.httpClient = client
	}
}

// NewGeminiGenerator creates a Gemini generator for the given model.
func NewGeminiGenerator(model string, opts ...GeminiOption) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	g := &GeminiGenerator{model: model}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the provider name.
func (g *GeminiGenerator) Name() string { return ProviderGemini }

// Model returns the configured model identifier.
func (g *GeminiGenerator) Model() string { return g.model }

// Generate sends one GenerateContent request declaring a JSON response.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	config := &genai.ClientConfig{
		APIKey:     req.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Data, req.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: ResponseMIMEType,
	})
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}
