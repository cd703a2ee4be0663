// Package analysis_tools provides MCP tools that transcribe and summarize
// audio and video recordings.
//
// Available tools:
//   - audio_analyze: Analyze one local file or Drive file
//   - audio_analyze_batch: Analyze several files in parallel
//
// A failed request to the AI service is reported as a tool error. A reply
// that could not be parsed is still returned: its raw text becomes the
// transcription.
//
// Example tool usage:
//
//	audio_analyze({
//	  path: "/recordings/standup.m4a",
//	  format: "markdown"
//	})
//
//	audio_analyze_batch({
//	  paths: ["/recordings/a.mp3", "/recordings/b.mp3"],
//	  concurrency: 2
//	})
package analysis_tools
