package analysis

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// ProviderOpenAI is the name of the OpenAI-compatible generator.
	ProviderOpenAI = "openai"

	// DefaultOpenAIModel is the chat model used to structure the transcript.
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultOpenAITranscriptionModel is the speech-to-text model.
	DefaultOpenAITranscriptionModel = openai.Whisper1
)

// OpenAIGenerator targets OpenAI-compatible endpoints, which cannot take audio
// and a structured-output instruction in one call. It transcribes the audio
// with a speech-to-text model and then asks a chat model in JSON mode to
// produce the analysis document from that transcript.
type OpenAIGenerator struct {
	model              string
	transcriptionModel string
	baseURL            string
	httpClient         *http.Client
}

// OpenAIOption configures an OpenAIGenerator.
type OpenAIOption func(*OpenAIGenerator)

// WithOpenAIBaseURL sets the API base URL, e.g. "https://api.openai.com/v1".
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(g *OpenAIGenerator) {
		g.baseURL = baseURL
	}
}

// WithOpenAIHTTPClient sets the HTTP client used for requests.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(g *OpenAIGenerator) {
		g.httpClient = client
	}
}

// WithTranscriptionModel overrides the speech-to-text model.
func WithTranscriptionModel(model string) OpenAIOption {
	return func(g *OpenAIGenerator) {
		if model != "" {
			g.transcriptionModel = model
		}
	}
}

// NewOpenAIGenerator creates an OpenAI-compatible generator.
func NewOpenAIGenerator(model string, opts ...OpenAIOption) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	g := &OpenAIGenerator{
		model:              model,
		transcriptionModel: DefaultOpenAITranscriptionModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the provider name.
func (g *OpenAIGenerator) Name() string { return ProviderOpenAI }

// Model returns the chat model identifier.
func (g *OpenAIGenerator) Model() string { return g.model }

// Generate transcribes the payload and returns the chat model's JSON answer.
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	config := openai.DefaultConfig(req.APIKey)
	if g.baseURL != "" {
		config.BaseURL = g.baseURL
	}
	if g.httpClient != nil {
		config.HTTPClient = g.httpClient
	}
	client := openai.NewClientWithConfig(config)

	transcript, err := client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.transcriptionModel,
		FilePath: audioFileName(req.MIMEType),
		Reader:   bytes.NewReader(req.Data),
	})
	if err != nil {
		return "", err
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: restructurePrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript.Text},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// audioFileName returns a file name whose extension matches mimeType, which
// speech-to-text endpoints use to pick a decoder.
func audioFileName(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return "audio" + m.Extension()
	}
	return "audio"
}
