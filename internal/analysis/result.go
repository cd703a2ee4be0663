package analysis

import (
	"encoding/json"
)

// Fallback values used when the service response lacks a usable field.
const (
	NoTranscription    = "No transcription available."
	NoSummary          = "No summary available."
	TranscriptionError = "Error processing transcription."
	SummaryError       = "Error processing summary."
)

// Result is the normalized outcome of one analysis. It is immutable: fields are
// only set by NewResult and accessors hand out copies.
type Result struct {
	transcription string
	summary       string
	actionItems   []string
}

// NewResult creates a Result. A nil actionItems slice is stored as an empty one.
func NewResult(transcription, summary string, actionItems []string) Result {
	items := make([]string, len(actionItems))
	copy(items, actionItems)
	return Result{
		transcription: transcription,
		summary:       summary,
		actionItems:   items,
	}
}

// Transcription returns the transcription, which may contain Markdown emphasis.
func (r Result) Transcription() string {
	return r.transcription
}

// Summary returns the short prose synopsis.
func (r Result) Summary() string {
	return r.summary
}

// ActionItems returns a copy of the action items in their original order.
func (r Result) ActionItems() []string {
	items := make([]string, len(r.actionItems))
	copy(items, r.actionItems)
	return items
}

// resultJSON is the wire form shared with the AI service prompt and exports.
type resultJSON struct {
	Transcription string   `json:"transcription"`
	Summary       string   `json:"summary"`
	ActionItems   []string `json:"actionItems"`
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	items := r.actionItems
	if items == nil {
		items = []string{}
	}
	return json.Marshal(resultJSON{
		Transcription: r.transcription,
		Summary:       r.summary,
		ActionItems:   items,
	})
}
