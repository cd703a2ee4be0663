package google

import drive "google.golang.org/api/drive/v3"

// DriveScopes are the OAuth scopes requested at login. Files are only listed
// and downloaded, so read-only access is sufficient.
var DriveScopes = []string{
	drive.DriveReadonlyScope,
}
