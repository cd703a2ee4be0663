package drive

import "time"

// AudioQuery selects audio files and MP4 videos that are not in the trash.
const AudioQuery = "(mimeType contains 'audio/' or mimeType contains 'video/mp4') and trashed = false"

// DefaultPageSize is the number of files returned per listing page.
const DefaultPageSize = 20

// MaxPageSize is the largest page size the Drive API accepts.
const MaxPageSize = 1000

// FileInfo is the metadata of a Drive file needed to pick and fetch a recording.
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type reported by Drive
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes, when Drive reports it
	Size int64 `json:"size,omitempty"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime,omitzero"`
}

// ListOptions contains options for listing audio files
type ListOptions struct {
	// MaxResults is the page size (default 20, max 1000)
	MaxResults int

	// PageToken is a token for retrieving the next page of results
	PageToken string

	// NameContains narrows the listing to names containing this text
	NameContains string
}
