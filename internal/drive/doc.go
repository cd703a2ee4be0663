// Package drive lists and downloads audio recordings from Google Drive.
//
// Client is a thin wrapper around the Drive v3 API authenticated with a
// fixed access token. Session ties a Client to the token held in the
// settings store and maps API failures to a small set of errors:
//
//   - ErrNotConnected: no token is stored
//   - ErrAuthExpired: Drive answered 401; the token has been cleared
//   - ErrFileNotFound: the file does not exist or is not shared with the user
//   - ErrListingFailed, ErrDownloadFailed: anything else, token kept
//
// Example usage:
//
//	session := drive.NewSession(google.NewStoreTokenProvider(store), logger)
//	files, next, err := session.ListAudioFiles(ctx, &drive.ListOptions{MaxResults: 20})
//	if errors.Is(err, drive.ErrAuthExpired) {
//	    // ask the user to log in again
//	}
package drive
