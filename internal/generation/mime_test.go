package generation

import (
	"testing"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "mp3", path: "recording.mp3", want: "audio/mpeg"},
		{name: "m4a", path: "voice-memo.m4a", want: "audio/mp4"},
		{name: "wav", path: "session.wav", want: "audio/wav"},
		{name: "aac", path: "clip.aac", want: "audio/aac"},
		{name: "ogg", path: "podcast.ogg", want: "audio/ogg"},
		{name: "flac", path: "master.flac", want: "audio/flac"},
		{name: "uppercase extension", path: "RECORDING.MP3", want: "audio/mpeg"},
		{name: "mixed case extension", path: "talk.FlAc", want: "audio/flac"},
		{name: "full path", path: "/tmp/uploads/temp_abc_meeting.wav", want: "audio/wav"},
		{name: "unknown extension", path: "video.mp4", want: "audio/mpeg"},
		{name: "no extension", path: "recording", want: "audio/mpeg"},
		{name: "trailing dot", path: "recording.", want: "audio/mpeg"},
		{name: "empty path", path: "", want: "audio/mpeg"},
		{name: "dotfile", path: ".flac", want: "audio/flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectContentType(tt.path)
			if got != tt.want {
				t.Errorf("DetectContentType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
