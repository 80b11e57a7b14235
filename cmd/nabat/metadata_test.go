package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRecordings(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "a.wav"))
	touch(t, filepath.Join(root, "B.WAV"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "c.wav"))

	other := filepath.Join(t.TempDir(), "d.txt")
	touch(t, other)

	files, err := recordings([]string{root, other}, true)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 4 {
		t.Fatalf("expected 4 files, got %v", files)
	}

	// Explicit files are kept regardless of extension.
	if files[3] != other {
		t.Errorf("expected %s last, got %s", other, files[3])
	}

	files, err = recordings([]string{root}, false)
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(files)

	exp := []string{filepath.Join(root, "B.WAV"), filepath.Join(root, "a.wav")}

	if len(files) != 2 || files[0] != exp[0] || files[1] != exp[1] {
		t.Errorf("expected %v, got %v", exp, files)
	}

	if _, err := recordings([]string{filepath.Join(root, "missing")}, true); err == nil {
		t.Error("expected an error")
	}
}
