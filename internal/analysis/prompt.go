package analysis

// AnalysisPrompt is the fixed instruction sent alongside the audio payload.
const AnalysisPrompt = `Please analyze this audio file.
1. Provide a full transcription. Use Markdown formatting for the transcription (e.g., use bold for speaker names like **Speaker 1:**, use line breaks between speakers, and use italics for emphasis or non-verbal cues).
2. Provide a concise summary of the key points.
3. Extract a list of actionable items or next steps.

Return the response in JSON format with the following structure:
{
  "transcription": "...",
  "summary": "...",
  "actionItems": ["item 1", "item 2", ...]
}`

// restructurePrompt is used by providers that transcribe first and then ask a
// chat model to produce the JSON document from the plain transcript.
const restructurePrompt = `You are given the raw transcript of an audio file instead of the audio itself.
Identify the speakers where possible and treat the transcript as the audio content.

` + AnalysisPrompt

// ResponseMIMEType is the response format declared on every analysis request.
const ResponseMIMEType = "application/json"
