package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirUsesAPPDATA(t *testing.T) {
	t.Setenv("APPDATA", "/fake/appdata")
	got := DataDir()
	want := filepath.Join("/fake/appdata", AppDirName)
	if got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestDataDirFallsBackWithoutAPPDATA(t *testing.T) {
	t.Setenv("APPDATA", "")
	got := DataDir()

	// Should use ~/.config/appicon or temp dir; either way must end with "appicon".
	if filepath.Base(got) != AppDirName {
		t.Errorf("DataDir() = %q, expected base dir %q", got, AppDirName)
	}
}

func TestAtomicWriteCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := AtomicWrite(path, []byte("{}")); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("content = %q, want %q", data, "{}")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestWritableLeavesNoProbe(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "icons")
	if err := Writable(dir); err != nil {
		t.Fatalf("Writable: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}

func TestWritableRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, FilePerm); err != nil {
		t.Fatal(err)
	}
	if err := Writable(file); err == nil {
		t.Error("expected error when target is a regular file")
	}
}
