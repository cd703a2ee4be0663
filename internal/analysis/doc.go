// Package analysis turns an encoded audio or video payload into a structured
// transcription, summary and list of action items using a generative AI service.
//
// The Analyzer issues one request per invocation through a Generator (Gemini by
// default, or an OpenAI-compatible endpoint) and normalizes whatever comes back:
//
//   - well-formed JSON is read key by key, with fixed fallbacks for missing or
//     mis-shaped fields
//   - text that is not JSON at all degrades to a best-effort result whose
//     transcription is the raw response
//   - transport, authentication and service failures are returned as a
//     *RequestError matching ErrRequestFailed
//
// Example usage:
//
//	analyzer := analysis.NewAnalyzer(analysis.NewGeminiGenerator(analysis.DefaultGeminiModel))
//	result, err := analyzer.Analyze(ctx, payloadBase64, "audio/mpeg", apiKey)
//	if errors.Is(err, analysis.ErrRequestFailed) {
//	    // surface err to the user, no retry
//	}
//	fmt.Println(result.Summary())
package analysis
