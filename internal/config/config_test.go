package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `
[build]
output-dir = "artifacts"
include-paths = ["node_modules", "lib"]
lib = "vendor/stdlib_sol.tvm"
`)
	nested := filepath.Join(root, "contracts", "wallet")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if m.Path != path {
		t.Fatalf("Path = %s, want %s", m.Path, path)
	}
	if m.Root != root {
		t.Fatalf("Root = %s, want %s", m.Root, root)
	}
	if m.Build.OutputDir != "artifacts" {
		t.Fatalf("OutputDir = %q", m.Build.OutputDir)
	}
	if len(m.Build.IncludePaths) != 2 || m.Build.IncludePaths[0] != "node_modules" {
		t.Fatalf("IncludePaths = %v", m.Build.IncludePaths)
	}
	if m.Build.Lib != "vendor/stdlib_sol.tvm" {
		t.Fatalf("Lib = %q", m.Build.Lib)
	}
}

func TestFindPrefersNearestManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[build]\noutput-dir = \"outer\"\n")
	inner := filepath.Join(root, "sub")
	if err := os.MkdirAll(inner, 0o750); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, inner, "[build]\noutput-dir = \"inner\"\n")

	m, ok, err := Find(inner)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if m.Build.OutputDir != "inner" {
		t.Fatalf("OutputDir = %q, want the nearest manifest", m.Build.OutputDir)
	}
}

func TestFindEmptyManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "")

	m, ok, err := Find(root)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if m.Build.OutputDir != "" || m.Build.Lib != "" || len(m.Build.IncludePaths) != 0 {
		t.Fatalf("empty manifest produced defaults: %+v", m.Build)
	}
}

func TestFindParseError(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[build\noutput-dir = ???\n")

	_, ok, err := Find(root)
	if !ok {
		t.Fatal("a malformed manifest should still count as found")
	}
	if err == nil || !strings.Contains(err.Error(), "failed to parse TOML") {
		t.Fatalf("Find error = %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	m := &Manifest{Root: filepath.Join("/", "srv", "proj")}
	if got := m.ResolvePath("artifacts"); got != filepath.Join(m.Root, "artifacts") {
		t.Fatalf("relative path = %s", got)
	}
	abs := filepath.Join("/", "tmp", "out")
	if got := m.ResolvePath(abs); got != abs {
		t.Fatalf("absolute path = %s", got)
	}
	if got := m.ResolvePath(""); got != "" {
		t.Fatalf("empty path = %q", got)
	}
}
