// Package google authorizes audioinsight to read the user's Google Drive.
//
// Authorizer runs the OAuth 2.0 authorization-code flow for an installed
// application: it listens on a loopback port, sends the user to Google's
// consent page with a PKCE challenge, and waits for the redirect. The
// resulting access token is kept in the settings store and handed to the
// Drive client through a TokenProvider.
package google
