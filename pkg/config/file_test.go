package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFileOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "storageBackend: filesystem\nbitcoinNetwork: signet\ncontrollerKeyPath: /keys/controller.key\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.StorageBackend != "filesystem" {
		t.Fatalf("expected filesystem, got %s", cfg.StorageBackend)
	}
	if cfg.BitcoinNetwork != "signet" {
		t.Fatalf("expected signet, got %s", cfg.BitcoinNetwork)
	}
	if cfg.ControllerKeyPath != "/keys/controller.key" {
		t.Fatalf("expected controller key path to be overlaid, got %s", cfg.ControllerKeyPath)
	}
}

func TestLoadFromFileMissingFile(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
