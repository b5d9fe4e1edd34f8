package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "demo"

[run]
main = "src/main.play"

[build]
cache = true
`)
	writeFile(t, filepath.Join(root, "src", "main.play"), `println("hi");`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "demo" || !m.Config.Build.Cache {
		t.Fatalf("config = %+v", m.Config)
	}
	main, err := m.MainPath()
	if err != nil {
		t.Fatalf("MainPath: %v", err)
	}
	if main != filepath.Join(root, "src", "main.play") {
		t.Fatalf("main = %s", main)
	}
	if got := m.OutPath(); got != filepath.Join(root, "demo.pbc") {
		t.Fatalf("out = %s", got)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok {
		t.Fatalf("LoadManifest = %v, %v; want not found", ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"missing [package].name": "[run]\nmain = \"a.play\"\n",
		"missing [run].main":     "[package]\nname = \"x\"\n",
		"unknown key":            "[package]\nname = \"x\"\n[run]\nmain = \"a.play\"\n[build]\nfast = true\n",
		"failed to parse TOML":   "[package\n",
	}
	for want, content := range cases {
		path := filepath.Join(t.TempDir(), ManifestName)
		writeFile(t, path, content)
		if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%q: err = %v, want %q", content, err, want)
		}
	}
}

func TestMainPathMustBePlayFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.txt"), "")
	m := &Manifest{Path: filepath.Join(root, ManifestName), Root: root,
		Config: Config{Package: PackageConfig{Name: "x"}, Run: RunConfig{Main: "main.txt"}, Build: BuildConfig{Out: "bin/x.pbc"}}}
	if _, err := m.MainPath(); err == nil {
		t.Fatal("want an error for a non-.play main")
	}
	if got := m.OutPath(); got != filepath.Join(root, "bin", "x.pbc") {
		t.Fatalf("out = %s", got)
	}
}

func TestCombineDependsOnOrder(t *testing.T) {
	a, b := HashBytes([]byte("a")), HashBytes([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine must be order sensitive")
	}
	if Combine(a) == a {
		t.Fatal("Combine must rehash")
	}
}
