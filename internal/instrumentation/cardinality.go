package instrumentation

import "strings"

// Media families used as low-cardinality labels in place of full MIME types.
const (
	MediaAudio = "audio"
	MediaVideo = "video"
	MediaOther = "other"
)

// MediaFamily reduces a MIME type to its top-level family.
//
// Example:
//
//	MediaFamily("audio/mpeg")               // "audio"
//	MediaFamily("video/mp4; codecs=avc1")   // "video"
//	MediaFamily("application/octet-stream") // "other"
func MediaFamily(mimeType string) string {
	major, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), "/")
	switch major {
	case MediaAudio:
		return MediaAudio
	case MediaVideo:
		return MediaVideo
	default:
		return MediaOther
	}
}

// Google API operation types.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationDownload = "download"
)
