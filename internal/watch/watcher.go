// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reports changes other processes make to the file backend.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatdeck/internal/kv"
)

const (
	// DefaultDebounce is how long a key must stay quiet before it is reported.
	DefaultDebounce = 150 * time.Millisecond
	// DefaultInterval is the minimum spacing between reported events.
	DefaultInterval = 500 * time.Millisecond

	eventBuffer = 8
)

// ErrNoKeys is returned when a watcher is created without keys to watch.
var ErrNoKeys = errors.New("watch: no keys given")

// Event reports that the value stored under Key changed on disk.
type Event struct {
	Key  string
	Path string
	At   time.Time
}

// Options tunes a Watcher. Zero values select the defaults.
type Options struct {
	Debounce time.Duration
	Interval time.Duration
	Logger   zerolog.Logger
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher observes a kv.File directory and emits an Event when one of the
// watched keys is rewritten. Bursts are debounced per key and rate limited
// overall. Writes made by this process are reported too.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	keys     map[string]string // file name -> key
	debounce time.Duration
	limiter  *rate.Limiter
	logger   zerolog.Logger

	events chan Event

	mu      sync.Mutex
	pending map[string]time.Time // key -> last change time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts watching dir for changes to the given keys.
func New(dir string, keys []string, opts Options) (*Watcher, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory is watched rather than the files: atomic writes replace
	// the file, which would drop a per-file watch.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		fs:       fsw,
		dir:      dir,
		keys:     make(map[string]string, len(keys)),
		debounce: opts.Debounce,
		limiter:  rate.NewLimiter(rate.Every(opts.Interval), 1),
		logger:   opts.Logger.With().Str("component", "watch").Str("dir", dir).Logger(),
		events:   make(chan Event, eventBuffer),
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, key := range keys {
		w.keys[kv.FileName(key)] = key
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()

	return w, nil
}

// Events returns the channel changes are delivered on. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.fs.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

// processEvents records changes to watched files.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			key, watched := w.keys[filepath.Base(event.Name)]
			if !watched {
				continue
			}

			w.mu.Lock()
			w.pending[key] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// processPending emits keys that have been quiet for the debounce period.
func (w *Watcher) processPending() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for key, changed := range w.pending {
				if now.Sub(changed) < w.debounce {
					continue
				}
				// Held back keys stay pending until the limiter allows them.
				if !w.limiter.Allow() {
					break
				}
				ready = append(ready, key)
				delete(w.pending, key)
			}
			w.mu.Unlock()

			for _, key := range ready {
				w.emit(Event{Key: key, Path: filepath.Join(w.dir, kv.FileName(key)), At: now})
			}
		}
	}
}

// emit delivers ev unless the buffer is full, in which case the pending
// events already cover it.
func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
		w.logger.Debug().Str("key", ev.Key).Msg("Storage changed on disk")
	default:
		w.logger.Debug().Str("key", ev.Key).Msg("Dropping change event, consumer is behind")
	}
}
