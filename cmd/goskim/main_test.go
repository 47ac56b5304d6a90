package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"goskim/internal/config"
	"goskim/internal/skim"
)

func TestValidateJobs(t *testing.T) {
	for _, n := range []int{0, 1, 64, 128} {
		if err := validateJobs(n); err != nil {
			t.Fatalf("validateJobs(%d) returned error: %v", n, err)
		}
	}
	for _, n := range []int{-1, 129, 10000} {
		if err := validateJobs(n); err == nil {
			t.Fatalf("validateJobs(%d) should fail", n)
		}
	}
}

func TestResolveInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	if err := os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := resolveInput(path)
	if err != nil {
		t.Fatalf("resolveInput returned error: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Fatalf("expected [%s], got %v", path, paths)
	}
}

func TestResolveInputDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.py", "b.go", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := resolveInput(dir)
	if err != nil {
		t.Fatalf("resolveInput returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 supported files, got %v", paths)
	}
}

func TestResolveInputEmptyDir(t *testing.T) {
	if _, err := resolveInput(t.TempDir()); err == nil {
		t.Fatal("expected error for directory with no supported files")
	}
}

func TestResolveInputGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	paths, err := resolveInput("*.py")
	if err != nil {
		t.Fatalf("resolveInput returned error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 match, got %v", paths)
	}

	if _, err := resolveInput("*.nomatch"); err == nil {
		t.Fatal("expected error for glob with no matches")
	}
}

func TestBuildOptionsDefaults(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.Default()
	cfg.Cache.Enabled = false
	modeFlag, languageFlag, noHeader, jobs, noCache, showStats = "", "", false, 0, false, false

	opts, c, err := buildOptions(rootCmd)
	if err != nil {
		t.Fatalf("buildOptions returned error: %v", err)
	}
	if c != nil {
		t.Fatal("cache should be disabled")
	}
	if opts.Mode != skim.ModeStructure {
		t.Fatalf("expected default mode structure, got %s", opts.Mode)
	}
}

func TestBuildOptionsRejectsBadMode(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.Default()
	cfg.Mode = "bogus"
	cfg.Cache.Enabled = false

	if _, _, err := buildOptions(rootCmd); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestBuildOptionsRejectsBadLanguage(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.Default()
	cfg.Cache.Enabled = false
	languageFlag = "cobol"
	t.Cleanup(func() { languageFlag = "" })

	if _, _, err := buildOptions(rootCmd); err == nil {
		t.Fatal("expected error for unknown language")
	}
}
