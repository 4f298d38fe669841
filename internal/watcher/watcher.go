// Package watcher reports changes to a single file, such as the stylesheet
// inlined into the form.
package watcher

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// UpdateCallback is called with the new content each time the file changes.
type UpdateCallback func(path string, content []byte)

// Watcher monitors one file for content changes.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	callback  UpdateCallback
	debounce  time.Duration
	cancel    chan struct{}
	closeOnce sync.Once

	mu   sync.Mutex
	last []byte
}

// New starts watching path. The file's current content is the baseline;
// callback fires only when the content differs from what was last seen.
func New(path string, callback UpdateCallback) (*Watcher, error) {
	return newWatcher(path, debounceInterval, callback)
}

func newWatcher(path string, debounce time.Duration, callback UpdateCallback) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Editors often replace files instead of writing in place, so watch the
	// directory and filter by name.
	if err := fsW.Add(filepath.Dir(abs)); err != nil {
		fsW.Close()
		return nil, err
	}

	w := &Watcher{
		path:      abs,
		fsWatcher: fsW,
		callback:  callback,
		debounce:  debounce,
		cancel:    make(chan struct{}),
		last:      content,
	}

	go w.watchLoop()

	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.cancel)
		w.fsWatcher.Close()
	})
}

// watchLoop processes fsnotify events with debouncing.
func (w *Watcher) watchLoop() {
	var timer *time.Timer

	for {
		select {
		case <-w.cancel:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Debounce: reset timer on each event.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error for %s: %v", w.path, err)
		}
	}
}

// reload re-reads the file and notifies if the content changed.
func (w *Watcher) reload() {
	select {
	case <-w.cancel:
		return
	default:
	}

	content, err := os.ReadFile(w.path)
	if err != nil {
		log.Printf("watcher: read %s: %v", w.path, err)
		return
	}

	w.mu.Lock()
	changed := !bytes.Equal(content, w.last)
	if changed {
		w.last = content
	}
	w.mu.Unlock()

	if changed && w.callback != nil {
		w.callback(w.path, content)
	}
}
