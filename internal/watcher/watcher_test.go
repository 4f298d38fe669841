package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := New(filepath.Join(dir, "missing.css"), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatcher_ReportsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	os.WriteFile(path, []byte("body {}"), 0644)

	updates := make(chan string, 4)
	w, err := newWatcher(path, 20*time.Millisecond, func(_ string, content []byte) {
		updates <- string(content)
	})
	if err != nil {
		t.Fatalf("newWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(path, []byte("body { color: red; }"), 0644)

	select {
	case got := <-updates:
		if got != "body { color: red; }" {
			t.Errorf("unexpected content %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestWatcher_IgnoresUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	os.WriteFile(path, []byte("body {}"), 0644)

	updates := make(chan string, 4)
	w, err := newWatcher(path, 20*time.Millisecond, func(_ string, content []byte) {
		updates <- string(content)
	})
	if err != nil {
		t.Fatalf("newWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(path, []byte("body {}"), 0644)

	select {
	case got := <-updates:
		t.Errorf("unexpected update %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	os.WriteFile(path, []byte("body {}"), 0644)

	updates := make(chan string, 4)
	w, err := newWatcher(path, 20*time.Millisecond, func(_ string, content []byte) {
		updates <- string(content)
	})
	if err != nil {
		t.Fatalf("newWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "other.css"), []byte("p {}"), 0644)

	select {
	case got := <-updates:
		t.Errorf("unexpected update %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	os.WriteFile(path, []byte("body {}"), 0644)

	w, err := New(path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.Close()
	w.Close()
}
