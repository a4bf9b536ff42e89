package media

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds track information shown in the header.
type Metadata struct {
	Title  string
	Artist string
}

// ReadMetadata reads ID3v2 tags, falling back to the file name.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
		}
		if m.Title != "" {
			return m
		}
	}

	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Display joins artist and title.
func (m Metadata) Display() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " - " + m.Title
}
