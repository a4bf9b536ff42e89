package media

import (
	"sort"
	"strings"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt returns true if the extension can be decoded into a file signal.
func IsSupportedExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of decodable formats.
func SupportedExtsList() string {
	exts := make([]string, 0, len(audioExts))
	for ext := range audioExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
