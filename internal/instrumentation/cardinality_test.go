package instrumentation

import "testing"

func TestMediaFamily(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"audio/mpeg", MediaAudio},
		{"AUDIO/WAV", MediaAudio},
		{"video/mp4", MediaVideo},
		{"video/mp4; codecs=avc1", MediaVideo},
		{"application/octet-stream", MediaOther},
		{"audio", MediaAudio},
		{"", MediaOther},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := MediaFamily(tt.mimeType); got != tt.want {
				t.Errorf("MediaFamily(%q) = %q, want %q", tt.mimeType, got, tt.want)
			}
		})
	}
}
