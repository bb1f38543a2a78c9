// Package watch turns filesystem events on the source document into save
// triggers for the preview pipeline. Typing-time edit notifications arrive
// over the editor IPC instead; a write hitting the disk is a save.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/showgood/html-preview/internal/document"
)

// Watcher follows one source document on disk.
type Watcher struct {
	fsw *fsnotify.Watcher
	doc *document.Source
}

// Start watches the document's directory and invokes onSave for each write
// to the document. Watching the directory instead of the file keeps the
// watch alive across editors that replace the file on save.
func Start(ctx context.Context, doc *document.Source, onSave func(*document.Source)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	dir := filepath.Dir(doc.Key())
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{fsw: fsw, doc: doc}
	go w.run(ctx, onSave)
	return w, nil
}

func (w *Watcher) run(ctx context.Context, onSave func(*document.Source)) {
	target := w.doc.Key()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("document saved", "path", abs, "op", ev.Op.String())
				onSave(w.doc)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// shouldIgnoreEvent filters hidden, swap, and editor temp files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == ".DS_Store" || base == "Thumbs.db"
}
