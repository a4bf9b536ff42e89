package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Night Drive.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := ReadMetadata(path)
	if m.Title != "Night Drive" {
		t.Fatalf("expected file name title, got %q", m.Title)
	}
	if m.Display() != "Night Drive" {
		t.Fatalf("unexpected display %q", m.Display())
	}
}

func TestMetadataDisplayIncludesArtist(t *testing.T) {
	m := Metadata{Title: "Song", Artist: "Band"}
	if got := m.Display(); got != "Band - Song" {
		t.Fatalf("unexpected display %q", got)
	}
}
