package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestInput(t *testing.T) {
	dir := t.TempDir()

	files := []string{"a.png", "b.bmp", "c.txt", "d.pdf"}
	for i, name := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("test"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(p, modTime, modTime)
	}

	latest, err := FindLatestInput(dir)
	if err != nil {
		t.Fatalf("FindLatestInput failed: %v", err)
	}
	if want := filepath.Join(dir, "d.pdf"); latest != want {
		t.Errorf("Expected %s, got %s", want, latest)
	}

	// A file path searches its directory.
	latest, err = FindLatestInput(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatalf("FindLatestInput on file failed: %v", err)
	}
	if want := filepath.Join(dir, "d.pdf"); latest != want {
		t.Errorf("Expected %s, got %s", want, latest)
	}
}

func TestFindLatestInputEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	if _, err := FindLatestInput(dir); err == nil {
		t.Error("Expected error for directory without images")
	}
}

func TestHasInputExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"page.PNG", true},
		{"scan.tiff", true},
		{"book.pdf", true},
		{"photo.webp", true},
		{"audio.mp3", false},
		{"png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasInputExtension(tt.name); got != tt.want {
				t.Errorf("HasInputExtension(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAvailableMemory(t *testing.T) {
	free, err := AvailableMemory()
	if err != nil {
		t.Skipf("memory probe unavailable: %v", err)
	}
	if free == 0 {
		t.Error("Expected non-zero available memory")
	}
	t.Logf("Available memory: %d bytes", free)
}
