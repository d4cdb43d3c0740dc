package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	opts := Default()

	if opts.TabLength != 4 {
		t.Errorf("TabLength = %d, want 4", opts.TabLength)
	}
	if opts.Autobrief {
		t.Error("Autobrief should be disabled by default")
	}
	if opts.Autocode {
		t.Error("Autocode should be disabled by default")
	}
	if opts.CacheDir != "" {
		t.Error("CacheDir should be empty by default")
	}
}

func TestLoadMissingConfig(t *testing.T) {
	opts, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing config", err)
	}
	if opts.TabLength != 4 {
		t.Errorf("TabLength = %d, want default 4", opts.TabLength)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, ".pydoxy")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"autobrief": true, "autocode": true, "topLevelNamespace": "mypkg", "tablength": 8}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !opts.Autobrief {
		t.Error("Autobrief should be read from config")
	}
	if !opts.Autocode {
		t.Error("Autocode should be read from config")
	}
	if opts.TopLevelNamespace != "mypkg" {
		t.Errorf("TopLevelNamespace = %q, want %q", opts.TopLevelNamespace, "mypkg")
	}
	if opts.TabLength != 8 {
		t.Errorf("TabLength = %d, want 8", opts.TabLength)
	}
}

func TestResolveNamespace(t *testing.T) {
	tests := []struct {
		name     string
		ns       string
		filename string
		want     string
	}{
		{"plain file", "", "module.py", "module"},
		{"nested path", "", filepath.Join("src", "pkg", "module.py"), "src.pkg.module"},
		{"trimmed to root", "pkg", filepath.Join("src", "pkg", "module.py"), "pkg.module"},
		{"root not found", "other", filepath.Join("src", "pkg", "module.py"), "src.pkg.module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			opts.TopLevelNamespace = tt.ns
			opts.ResolveNamespace(tt.filename)
			if opts.FullPathNamespace != tt.want {
				t.Errorf("FullPathNamespace = %q, want %q", opts.FullPathNamespace, tt.want)
			}
		})
	}
}
