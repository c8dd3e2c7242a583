// Package watch reports changes to a single input file.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	slogctx "github.com/veqryn/slog-context"
)

// Debounce is the quiet period after the last event before a change is
// reported.
const Debounce = 100 * time.Millisecond

// Change is a settled modification of the watched file.
type Change struct {
	Path    string
	Removed bool // the file is gone; editors that save by rename recreate it
}

// Watcher monitors one file. The parent directory is watched so the file
// survives editors that replace it on save.
type Watcher struct {
	Path    string
	Changes <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for path.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching. Events are logged through ctx.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				slogctx.Debug(ctx, "input event", "file", event.Name, "op", event.Op.String())
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < Debounce {
				continue
			}
			pending = time.Time{}
			w.emit(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; the next event may still arrive.
			slogctx.Warn(ctx, "watch error", "error", err)
		}
	}
}

func (w *Watcher) emit(ctx context.Context) {
	change := Change{Path: w.Path}
	if _, err := filepath.EvalSymlinks(w.Path); err != nil {
		change.Removed = true
	}
	select {
	case w.changes <- change:
	case <-ctx.Done():
	}
}
