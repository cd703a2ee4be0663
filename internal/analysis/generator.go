package analysis

import "context"

// GenerateRequest is a single structured-output request to an AI backend.
type GenerateRequest struct {
	Data     []byte // Decoded audio/video bytes
	MIMEType string // MIME type of Data
	Prompt   string // Instruction prompt
	APIKey   string // Credential for this call only
}

// Generator is the interface for generative AI backends.
// Implementations must not keep per-call state so a single Generator can serve
// concurrent analyses.
type Generator interface {
	// Generate sends the request and returns the raw response text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Name returns the provider name ("gemini", "openai").
	Name() string

	// Model returns the model identifier used for requests.
	Model() string
}
