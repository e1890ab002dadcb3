// Package watch reports changes to files matching glob patterns, debounced and
// deduplicated by content hash.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 100

// Op is the kind of change reported for a file.
type Op string

// OpChanged and OpRemoved enumerate the reported operations.
const (
	OpChanged Op = "changed"
	OpRemoved Op = "removed"
)

// Event is a debounced change to a matching file.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches the directories under a set of glob patterns and emits an Event
// for each matching file whose content changed.
type Watcher struct {
	patterns []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Paths with unreported changes and when they last changed
	pendingMu sync.Mutex
	pending   map[string]time.Time

	hashMu sync.Mutex
	hashes map[string]string

	events        chan Event
	droppedEvents atomic.Int64
}

// New creates a watcher for files matching patterns (doublestar syntax, e.g.
// "records/**/*.json"). A plain file path is a pattern matching only itself.
func New(patterns []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("watch: no patterns")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePathPattern(p) {
			return nil, errors.New("watch: invalid pattern " + p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	cleaned := make([]string, len(patterns))
	for i, p := range patterns {
		cleaned[i] = filepath.Clean(p)
	}

	return &Watcher{
		patterns: cleaned,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]time.Time),
		hashes:   make(map[string]string),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced events. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds watches for every pattern's base directory and begins processing
// events until ctx is done or Stop is called. Files that exist at start are
// hashed so that saving them unchanged emits nothing.
func (w *Watcher) Start(ctx context.Context) error {
	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(p))
		base = filepath.FromSlash(base)
		if err := w.addWatches(base, strings.Contains(rest, "**")); err != nil {
			return err
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if content, err := os.ReadFile(m); err == nil {
				w.setHash(filepath.Clean(m), contentHash(content))
			}
		}
	}

	go w.processEvents(ctx)

	w.logger.Debug("watcher started", "patterns", w.patterns, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher. The events channel is closed once processing exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// addWatches watches dir, and every directory below it when recursive.
func (w *Watcher) addWatches(dir string, recursive bool) error {
	if !recursive {
		return w.watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := d.Name()
		if strings.HasPrefix(base, ".") && path != dir {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

// processEvents collects fsnotify events and reports a path once it has been
// quiet for the debounce interval.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if !w.matches(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				if err := w.watcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = time.Now()
	w.pendingMu.Unlock()
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	var toProcess []string
	for path, at := range w.pending {
		if time.Since(at) >= w.debounce {
			toProcess = append(toProcess, path)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range toProcess {
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			w.hashMu.Lock()
			_, known := w.hashes[path]
			delete(w.hashes, path)
			w.hashMu.Unlock()
			if known {
				w.sendEvent(Event{Path: path, Op: OpRemoved})
			}
			continue
		}
		if err != nil {
			w.logger.Warn("failed to read changed file", "path", path, "error", err)
			continue
		}

		hash := contentHash(content)
		if old, ok := w.hash(path); ok && old == hash {
			continue
		}
		w.setHash(path, hash)
		w.sendEvent(Event{Path: path, Op: OpChanged})
	}
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("file changed", "path", event.Path, "op", event.Op)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("event channel full, dropping event", "path", event.Path, "total_dropped", dropped)
	}
}

func (w *Watcher) hash(path string) (string, bool) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	h, ok := w.hashes[path]
	return h, ok
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
