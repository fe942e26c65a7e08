package registry

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"stylizerd/internal/bundle"
)

func writeBundleDir(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "name = \"" + name + "\"\nversion = \"1.0.0\"\ncascade = \"facefinder\"\n"
	if err := os.WriteFile(filepath.Join(dir, bundle.ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "facefinder"), []byte("c"), 0o644); err != nil {
		t.Fatalf("write cascade: %v", err)
	}
}

func writeTaskArchive(t *testing.T, root, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(root, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for fn, content := range map[string]string{
		bundle.ManifestName: "cascade = \"facefinder\"\n",
		"facefinder":        "c",
	} {
		w, err := zw.Create(fn)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeBundleDir(t, root, "sketch-128")
	writeTaskArchive(t, root, "cartoon-256.task")
	// Noise that must be skipped.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write noise: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "no-manifest-here"), 0o755); err != nil {
		t.Fatalf("mkdir noise: %v", err)
	}

	models, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 bundles, got %d: %+v", len(models), models)
	}
	byID := map[string]bool{}
	for _, m := range models {
		byID[m.ID] = true
		if m.Path == "" || m.OutputSize == 0 {
			t.Fatalf("incomplete model: %+v", m)
		}
	}
	if !byID["sketch-128"] || !byID["cartoon-256"] {
		t.Fatalf("unexpected ids: %v", byID)
	}
}

func TestLoadDirNameFallsBackToID(t *testing.T) {
	root := t.TempDir()
	writeTaskArchive(t, root, "plain.task") // manifest has no name
	models, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 1 || models[0].Name != "plain" {
		t.Fatalf("name fallback: %+v", models)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestLoadDirSkipsBrokenBundles(t *testing.T) {
	root := t.TempDir()
	writeBundleDir(t, root, "good")
	bad := filepath.Join(root, "bad")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bad, bundle.ManifestName), []byte("engine = \"onnx\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	models, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 1 || models[0].ID != "good" {
		t.Fatalf("broken bundle not skipped: %+v", models)
	}
}
