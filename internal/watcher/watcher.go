// Package watcher observes filesystem mutations under the content root
// and re-drives the scheduler incrementally for the affected files.
// Events are dispatched to a bounded queue consumed by a single dispatch
// goroutine: the content graph is never mutated concurrently with itself
// or with the processing a mutation triggers. Per-file processing still
// fans out internally. One bad event must not kill the watch session.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/scheduler"
)

const queueSize = 256

// Watcher translates filesystem events into incremental course updates.
type Watcher struct {
	course    *course.Course
	scheduler *scheduler.Scheduler
	fsw       *fsnotify.Watcher
	queue     chan event
}

type event struct {
	op   fsnotify.Op
	path string
}

// New sets up a recursive watch on the course's content root.
func New(c *course.Course, sched *scheduler.Scheduler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		course:    c,
		scheduler: sched,
		fsw:       fsw,
		queue:     make(chan event, queueSize),
	}
	if err := w.addRecursive(c.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks dispatching events until the context is cancelled. Queued
// events are drained before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range w.queue {
			w.handle(ctx, ev)
		}
	}()
	defer func() { <-done }()
	defer close(w.queue)

	slog.Info("watching for changes", "root", w.course.Root)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.enqueue(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "err", err)
		}
	}
}

func (w *Watcher) enqueue(ev fsnotify.Event) {
	if course.IsIgnoredDir(ev.Name) {
		return
	}
	select {
	case w.queue <- event{op: ev.Op, path: ev.Name}:
	default:
		slog.Warn("event queue full, dropping event", "path", ev.Name, "op", ev.Op.String())
	}
}

// handle runs on the dispatch goroutine; it is the only place the course
// is mutated after startup. Errors and panics are contained here.
func (w *Watcher) handle(ctx context.Context, ev event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "path", ev.path, "panic", r)
		}
	}()
	switch {
	case ev.op.Has(fsnotify.Create):
		w.onCreated(ctx, ev.path)
	case ev.op.Has(fsnotify.Write):
		w.onModified(ctx, ev.path)
	case ev.op.Has(fsnotify.Remove), ev.op.Has(fsnotify.Rename):
		// A move within the tree arrives as Rename on the old path plus
		// Create on the new one, so delete-then-create falls out of the
		// individual handlers.
		w.onDeleted(ctx, ev.path)
	}
}

func (w *Watcher) onCreated(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("created path vanished", "path", path)
		return
	}
	if info.IsDir() {
		if err := w.addRecursive(path); err != nil {
			slog.Error("watching new directory", "path", path, "err", err)
		}
		return
	}
	slog.Info("file created", "path", path)
	if f := w.course.AddFile(path); f != nil {
		w.scheduler.ProcessFile(ctx, path)
	}
}

func (w *Watcher) onModified(ctx context.Context, path string) {
	if w.course.FileForPath(path) == nil {
		slog.Debug("modified file not tracked", "path", path)
		return
	}
	slog.Info("file modified", "path", path)
	w.scheduler.ProcessFile(ctx, path)
}

func (w *Watcher) onDeleted(ctx context.Context, path string) {
	slog.Info("file deleted", "path", path)
	w.scheduler.DeleteFile(ctx, path)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if course.IsIgnoredDir(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
