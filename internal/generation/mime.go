package generation

import (
	"path/filepath"
	"strings"
)

// defaultContentType is used when the extension is missing or unknown.
// The generation service accepts mpeg for most compressed audio, so it is
// the safest guess.
const defaultContentType = "audio/mpeg"

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"wav":  "audio/wav",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
}

// DetectContentType maps a file's extension to the content-type tag used
// when submitting media to the generation service. Unrecognized or missing
// extensions yield the default tag; DetectContentType never fails.
func DetectContentType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if tag, ok := contentTypes[ext]; ok {
		return tag
	}
	return defaultContentType
}
