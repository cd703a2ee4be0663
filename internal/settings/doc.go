// Package settings persists the user's credentials and preferences between
// runs: the AI provider API key, the Google OAuth client, the current Drive
// access token and the selected provider.
//
// Store is the narrow interface the rest of the application depends on.
// FileStore keeps values in a YAML file readable only by the current user;
// MemoryStore is used by tests and by callers that must not touch disk.
package settings
