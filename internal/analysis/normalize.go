package analysis

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseResponse normalizes the raw text returned by the AI service.
//
// Empty text is read as an empty JSON object. Valid JSON is read key by key and
// any missing, empty or mis-shaped field falls back to its placeholder. Text
// that is not JSON, including whitespace-only text and a bare null, yields a
// best-effort result carrying the raw text as the transcription; degraded
// reports whether that happened.
func ParseResponse(raw string) (result Result, degraded bool) {
	text := raw
	if text == "" {
		text = "{}"
	}

	if !gjson.Valid(text) {
		return degradedResult(raw), true
	}

	doc := gjson.Parse(text)
	if doc.Type == gjson.Null {
		return degradedResult(raw), true
	}
	return NewResult(
		stringField(doc, "transcription", NoTranscription),
		stringField(doc, "summary", NoSummary),
		stringsField(doc, "actionItems"),
	), false
}

func degradedResult(raw string) Result {
	transcription := raw
	if transcription == "" {
		transcription = TranscriptionError
	}
	return NewResult(transcription, SummaryError, nil)
}

func stringField(doc gjson.Result, key, fallback string) string {
	if !doc.IsObject() {
		return fallback
	}
	v := doc.Get(gjsonKey(key))
	if v.Type != gjson.String || v.Str == "" {
		return fallback
	}
	return v.Str
}

// stringsField returns the string elements of an array field, skipping
// elements of any other type.
func stringsField(doc gjson.Result, key string) []string {
	items := []string{}
	if !doc.IsObject() {
		return items
	}
	v := doc.Get(gjsonKey(key))
	if !v.IsArray() {
		return items
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			items = append(items, item.Str)
		}
		return true
	})
	return items
}

// gjsonKey escapes path metacharacters so key is matched literally.
func gjsonKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(key)
}
