package wiring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/testlaunch/pkg/storage"
)

func TestWorkspace_LoadConfig(t *testing.T) {
	t.Run("missing default file is empty", func(t *testing.T) {
		ws := NewWorkspace(t.TempDir())
		cfg, err := ws.LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if len(cfg.Engines) != 0 {
			t.Errorf("expected no engines, got %v", cfg.Engines)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		ws := NewWorkspace(t.TempDir())
		if _, err := ws.LoadConfig("nope.yaml"); err == nil {
			t.Error("expected error for missing explicit file")
		}
	})

	t.Run("default file", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, storage.LauncherDir)
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatal(err)
		}
		data := "engines:\n  fx:\n    binary: bin/fx\n"
		if err := os.WriteFile(filepath.Join(dir, storage.ConfigFile), []byte(data), 0600); err != nil {
			t.Fatal(err)
		}

		cfg, err := NewWorkspace(root).LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if got := cfg.Engines["fx"].Binary; got != filepath.Join(root, "bin/fx") {
			t.Errorf("unexpected binary %q", got)
		}
	})
}
