package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "jvlint.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindJvlintTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := findJvlintToml(nested)
	if err != nil {
		t.Fatalf("findJvlintToml: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("found %q (ok=%v), want %q", got, ok, want)
	}
}

func TestFindJvlintTomlAbsent(t *testing.T) {
	// The walk continues above the temp dir, so tolerate a manifest that
	// happens to exist higher up on the host.
	dir := t.TempDir()
	path, ok, err := findJvlintToml(dir)
	if err != nil {
		t.Fatalf("findJvlintToml: %v", err)
	}
	if ok && filepath.Dir(path) != dir {
		t.Skipf("manifest found higher up at %s", path)
	}
	if ok {
		t.Fatalf("unexpected manifest %q", path)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[lint]
jobs = 4
max_diagnostics = 50
format = "json"

[rules]
disabled = ["lambda-method-ref"]
`)

	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Lint.Jobs != 4 || cfg.Lint.MaxDiagnostics != 50 || cfg.Lint.Format != "json" {
		t.Errorf("lint section = %+v", cfg.Lint)
	}
	if len(cfg.Rules.Disabled) != 1 || cfg.Rules.Disabled[0] != "lambda-method-ref" {
		t.Errorf("rules section = %+v", cfg.Rules)
	}
}

func TestLoadProjectConfigRejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative jobs", "[lint]\njobs = -1\n"},
		{"negative max", "[lint]\nmax_diagnostics = -5\n"},
		{"bad format", "[lint]\nformat = \"xml\"\n"},
		{"bad toml", "[lint\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.content)
			if _, err := loadProjectConfig(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
