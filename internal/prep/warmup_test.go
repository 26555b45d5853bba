package prep

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"gtr/internal/config"
	"gtr/internal/discovery"
)

func TestBuildWarmer_Run(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go binary not available")
	}

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":           "module example.com/warm\n\ngo 1.21\n",
		"a/a_test.go":      "package a\n\nimport \"testing\"\n\nfunc TestA(t *testing.T) {}\n",
		"b/b_test.go":      "package b\n\nimport \"testing\"\n\nfunc TestB(t *testing.T) {}\n\nfunc TestB2(t *testing.T) {}\n",
		"vendorless/x.txt": "ignore me",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	cfg := config.New()
	cfg.ProjectPath = dir
	warmer := NewBuildWarmer(cfg, discovery.NewScanner(cfg.PathsToIgnore), discovery.NewParser())

	if err := warmer.Run(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildWarmer_RunBuildFailure(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go binary not available")
	}

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":             "module example.com/warm\n\ngo 1.21\n",
		"broken/bad_test.go": "package broken\n\nfunc TestBad(t *testing.T) {\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	cfg := config.New()
	cfg.ProjectPath = dir
	warmer := NewBuildWarmer(cfg, discovery.NewScanner(cfg.PathsToIgnore), discovery.NewParser())

	if err := warmer.Run(1); err == nil {
		t.Error("expected error when a package fails to build")
	}
}

func TestBuildWarmer_RunNoPackages(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.ProjectPath = dir
	warmer := NewBuildWarmer(cfg, discovery.NewScanner(cfg.PathsToIgnore), discovery.NewParser())

	if err := warmer.Run(4); err != nil {
		t.Fatalf("unexpected error for empty project: %v", err)
	}
}

func TestBuildWarmer_CountTests(t *testing.T) {
	dir := t.TempDir()
	content := "package a\n\nimport \"testing\"\n\nfunc TestOne(t *testing.T) {}\n\nfunc TestTwo(t *testing.T) {}\n"
	if err := os.WriteFile(filepath.Join(dir, "a_test.go"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg := config.New()
	warmer := NewBuildWarmer(cfg, discovery.NewScanner(nil), discovery.NewParser())
	if got := warmer.countTests(dir); got != 2 {
		t.Errorf("expected 2 tests, got %d", got)
	}
}
