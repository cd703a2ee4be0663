package analysis

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

var (
	// ErrRequestFailed matches every transport, authentication or service failure
	// of an analysis request. Use errors.Is to test for it.
	ErrRequestFailed = errors.New("analysis request failed")

	// ErrInvalidInput is returned before any network call when a required
	// argument is missing or the payload is not valid base64.
	ErrInvalidInput = errors.New("invalid analysis input")
)

// RequestError describes a failed call to the AI service.
type RequestError struct {
	Provider   string // Generator name (gemini, openai)
	StatusCode int    // HTTP status code, 0 when the request never got a response
	Message    string // Diagnostic message from the service or transport
	Err        error  // Underlying error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("analysis request to %s failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis request to %s failed: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// newRequestError extracts the status code and service message from provider errors.
func newRequestError(provider string, err error) *RequestError {
	reqErr := &RequestError{
		Provider: provider,
		Message:  err.Error(),
		Err:      err,
	}

	var geminiErr genai.APIError
	var openaiAPIErr *openai.APIError
	var openaiReqErr *openai.RequestError

	switch {
	case errors.As(err, &geminiErr):
		reqErr.StatusCode = geminiErr.Code
		if geminiErr.Message != "" {
			reqErr.Message = geminiErr.Message
		}
	case errors.As(err, &openaiAPIErr):
		reqErr.StatusCode = openaiAPIErr.HTTPStatusCode
		if openaiAPIErr.Message != "" {
			reqErr.Message = openaiAPIErr.Message
		}
	case errors.As(err, &openaiReqErr):
		reqErr.StatusCode = openaiReqErr.HTTPStatusCode
	}

	if strings.TrimSpace(reqErr.Message) == "" {
		if text := http.StatusText(reqErr.StatusCode); text != "" {
			reqErr.Message = text
		} else {
			reqErr.Message = "unknown error"
		}
	}

	return reqErr
}
