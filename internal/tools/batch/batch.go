package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Status values of a batch item.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultConcurrency is used when a caller passes a non-positive limit.
const DefaultConcurrency = 3

// MaxConcurrency caps parallel requests against the AI service.
const MaxConcurrency = 10

// Result represents the result of a single item in a batch
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult represents the aggregated results of a batch operation
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a parameter that can be a single string, an array
// of strings, or a string holding a JSON array of strings.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var items []any
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				return parseItems(items, paramName)
			}
		}
		return []string{v}, nil
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return parseItems(items, paramName)
	case []any:
		return parseItems(v, paramName)
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

func parseItems(items []any, paramName string) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	result := make([]string, 0, len(items))
	for i, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
		}
		if str == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		result = append(result, str)
	}
	return result, nil
}

// Summarize aggregates per-item results.
func Summarize(results []Result) BatchResult {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	return br
}

// FormatResults creates a formatted JSON string from batch results
func FormatResults(results []Result) string {
	jsonBytes, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(jsonBytes)
}

// ClampConcurrency bounds n to [1, MaxConcurrency], using DefaultConcurrency
// for non-positive values.
func ClampConcurrency(n int) int {
	if n <= 0 {
		return DefaultConcurrency
	}
	return min(n, MaxConcurrency)
}

// ProcessBatch runs fn for every id with at most concurrency calls in flight.
// Results keep the input order. A failing item does not cancel the others;
// only cancelling ctx stops items that have not started yet.
func ProcessBatch(ctx context.Context, ids []string, concurrency int, fn func(ctx context.Context, id string) (any, error)) []Result {
	results := make([]Result, len(ids))

	var g errgroup.Group
	g.SetLimit(ClampConcurrency(concurrency))

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = NewErrorResult(id, err)
				return nil
			}
			res, err := fn(ctx, id)
			if err != nil {
				results[i] = NewErrorResult(id, err)
			} else {
				results[i] = NewSuccessResult(id, res)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(id string, result any) Result {
	return Result{
		ID:     id,
		Status: StatusSuccess,
		Result: result,
	}
}

// NewErrorResult creates an error result
func NewErrorResult(id string, err error) Result {
	return Result{
		ID:     id,
		Status: StatusError,
		Error:  err.Error(),
	}
}
