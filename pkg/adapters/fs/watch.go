package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/studyshare/pkg/core"
)

// debounceInterval is how long a key must be quiet before its event is sent.
const debounceInterval = 50 * time.Millisecond

// Watch reports changes to entries whose key matches pattern (doublestar
// syntax, e.g. "*" or "studyshare-*"). The channel is closed when ctx is
// cancelled or the underlying watcher fails.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("fs.Backend.Watch: invalid pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fs.Backend.Watch: failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.DataDir()); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("fs.Backend.Watch: failed to watch %s: %w", b.DataDir(), err)
	}

	w := &watchWorker{
		backend:   b,
		pattern:   pattern,
		watcher:   watcher,
		debouncer: newDebouncer(debounceInterval),
		events:    make(chan core.Event, 16),
		known:     b.existingKeys(),
	}

	b.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		b.reportError(fmt.Errorf("watcher: %w", err))
	}))

	return w.events, nil
}

type watchWorker struct {
	backend   *Backend
	pattern   string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	events    chan core.Event
	// known holds the keys present on disk; atomic replacement surfaces as a
	// create, which is reported as a modify for known keys. Owned by run.
	known map[string]bool
}

// run is the main event loop. It owns the events channel and closes it on exit.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.backend.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.backend.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Drain in-flight deliveries before the channel is closed.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
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
			w.backend.reportError(wErr)
		}
	}
}

// processFilesystemEvent filters, maps and debounces one fsnotify event.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	w.backend.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	key, ok := keyFromPath(event.Name)
	if !ok {
		return false
	}
	if match, _ := doublestar.Match(w.pattern, key); !match {
		return false
	}

	eType := mapEventType(event)
	switch eType {
	case "":
		return false
	case core.EventCreate:
		if w.known[key] {
			eType = core.EventModify
		}
		w.known[key] = true
	case core.EventDelete:
		delete(w.known, key)
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		Key:       key,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		defer func() {
			// The channel may already be closed during shutdown.
			_ = recover()
		}()
		select {
		case w.events <- e:
			w.backend.recordEvent()
		case <-ctx.Done():
		}
	})
	return true
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// existingKeys lists the entry keys currently on disk.
func (b *Backend) existingKeys() map[string]bool {
	keys := make(map[string]bool)
	entries, err := os.ReadDir(b.DataDir())
	if err != nil {
		return keys
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := keyFromPath(e.Name()); ok {
			keys[key] = true
		}
	}
	return keys
}

func (b *Backend) reportError(err error) {
	b.config.Logger.Error("fsnotify error", "error", err)
	if b.config.ErrorHandler != nil {
		b.config.ErrorHandler(err)
	}
}
