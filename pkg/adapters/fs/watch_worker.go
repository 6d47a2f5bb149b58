package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/storyboard/pkg/core"
)

// watchWorker turns fsnotify events on the board file into core events.
// It watches the parent directory because atomic saves replace the file inode.
type watchWorker struct {
	repo      *Repository
	target    string
	events    chan core.Event
	done      chan struct{}
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

func newWatchWorker(repo *Repository, events chan core.Event) *watchWorker {
	target, err := filepath.Abs(repo.Path)
	if err != nil {
		target = filepath.Clean(repo.Path)
	}
	return &watchWorker{
		repo:   repo,
		target: target,
		events: events,
		done:   make(chan struct{}),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.target), err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.repo.config.Debounce)
	w.repo.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.reportError(fmt.Errorf("watcher stopped: %w", err))
	}))
	return nil
}

func (w *watchWorker) reportError(err error) {
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
		return
	}
	w.repo.logger.Error("board watcher error", "error", err)
}

// mapEventType translates an fsnotify op into a board change, or "" to ignore it.
func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// processFilesystemEvent filters, maps and debounces a single fsnotify event.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if isTempFile(event.Name) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.target {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}
	w.repo.logger.Debug("board file event", "op", event.Op.String(), "path", event.Name)

	w.debouncer.add(core.Event{
		Type:      eType,
		Path:      w.repo.Path,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-w.done:
		case <-ctx.Done():
		}
	})
	return true
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.repo.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer func() {
		_ = w.watcher.Close()
		w.repo.setWatcherActive(false)
		close(w.done)
		w.debouncer.stopAndWait(5 * time.Second)
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(wErr)
		}
	}
}

// debouncer coalesces bursts of events (a save is often Create+Write+Chmod) into one.
// The most recent event in a window wins.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = &e
	if d.timer != nil && d.timer.Stop() {
		// The stopped callback will never run.
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		pending := d.pending
		d.pending = nil
		stopped := d.stopped
		d.mu.Unlock()
		if pending != nil && !stopped {
			fire(*pending)
		}
	})
}

// stopAndWait drops pending events and waits for in-flight callbacks, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.pending = nil
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
