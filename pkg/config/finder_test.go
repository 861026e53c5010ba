package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("app: {}"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := ResolvePath(path)
		if err != nil {
			t.Fatalf("ResolvePath() error = %v", err)
		}
		if got != path {
			t.Errorf("ResolvePath() = %q, want %q", got, path)
		}
	})

	t.Run("explicit flag missing file", func(t *testing.T) {
		if _, err := ResolvePath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("ResolvePath() error = nil, want not found")
		}
	})
}
