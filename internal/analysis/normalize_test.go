package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		want         Result
		wantDegraded bool
	}{
		{
			name:  "all keys present",
			raw:   `{"transcription":"**Speaker 1:** Hello","summary":"A greeting.","actionItems":["Reply","Book room"]}`,
			want:  NewResult("**Speaker 1:** Hello", "A greeting.", []string{"Reply", "Book room"}),
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name: "empty text is read as empty object",
			raw:  "",
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name:         "whitespace only degrades",
			raw:          "  \n\t",
			want:         NewResult("  \n\t", SummaryError, nil),
			wantDegraded: true,
		},
		{
			name: "missing summary",
			raw:  `{"transcription":"Hi","actionItems":["a"]}`,
			want: NewResult("Hi", NoSummary, []string{"a"}),
		},
		{
			name: "missing transcription",
			raw:  `{"summary":"S","actionItems":[]}`,
			want: NewResult(NoTranscription, "S", nil),
		},
		{
			name: "missing action items",
			raw:  `{"transcription":"T","summary":"S"}`,
			want: NewResult("T", "S", nil),
		},
		{
			name: "empty strings fall back",
			raw:  `{"transcription":"","summary":"","actionItems":[]}`,
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name: "wrong field types fall back",
			raw:  `{"transcription":42,"summary":{"text":"x"},"actionItems":"do it"}`,
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name: "non-string action items are dropped",
			raw:  `{"transcription":"T","summary":"S","actionItems":["one",2,null,"three",{"x":1}]}`,
			want: NewResult("T", "S", []string{"one", "three"}),
		},
		{
			name: "escaped characters are decoded",
			raw:  `{"transcription":"line1\nline2 \"quoted\"","summary":"S","actionItems":["café"]}`,
			want: NewResult("line1\nline2 \"quoted\"", "S", []string{"café"}),
		},
		{
			name: "json array is valid but not an object",
			raw:  `["a","b"]`,
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name:         "json null degrades",
			raw:          `null`,
			want:         NewResult("null", SummaryError, nil),
			wantDegraded: true,
		},
		{
			name: "json number",
			raw:  `12`,
			want: NewResult(NoTranscription, NoSummary, nil),
		},
		{
			name:         "plain prose",
			raw:          "Sorry, I cannot process this",
			want:         NewResult("Sorry, I cannot process this", SummaryError, nil),
			wantDegraded: true,
		},
		{
			name:         "truncated json",
			raw:          `{"transcription":"Hello`,
			want:         NewResult(`{"transcription":"Hello`, SummaryError, nil),
			wantDegraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, degraded := ParseResponse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDegraded, degraded)
		})
	}
}

func TestParseResponse_EmptyObjectAndParseFailureTakeDifferentPaths(t *testing.T) {
	fromEmpty, degradedEmpty := ParseResponse("{}")
	fromProse, degradedProse := ParseResponse("not json")

	assert.False(t, degradedEmpty)
	assert.True(t, degradedProse)

	assert.Equal(t, NoTranscription, fromEmpty.Transcription())
	assert.Equal(t, NoSummary, fromEmpty.Summary())
	assert.Equal(t, "not json", fromProse.Transcription())
	assert.Equal(t, SummaryError, fromProse.Summary())
	assert.Empty(t, fromEmpty.ActionItems())
	assert.Empty(t, fromProse.ActionItems())
}

func TestDegradedResult_EmptyRaw(t *testing.T) {
	got := degradedResult("")
	assert.Equal(t, TranscriptionError, got.Transcription())
	assert.Equal(t, SummaryError, got.Summary())
	assert.NotNil(t, got.ActionItems())
	assert.Empty(t, got.ActionItems())
}

func TestGjsonKey(t *testing.T) {
	assert.Equal(t, "actionItems", gjsonKey("actionItems"))
	assert.Equal(t, `a\.b`, gjsonKey("a.b"))
	assert.Equal(t, `a\*\?`, gjsonKey("a*?"))
}
