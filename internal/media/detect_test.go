package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m3u", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %s to be unsupported", ext)
		}
	}
}

func TestSupportedExtsListIsSorted(t *testing.T) {
	if got := SupportedExtsList(); got != ".flac, .mp3, .ogg, .wav" {
		t.Fatalf("unexpected list %q", got)
	}
	if !strings.Contains(SupportedExtsList(), ".wav") {
		t.Fatal("expected .wav in list")
	}
}
