// Package watch re-runs a conversion whenever the Doxygen XML changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one conversion.
type RunFunc func(ctx context.Context) error

// Watcher watches one XML directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	run      RunFunc
	log      *slog.Logger
}

func New(dir string, debounce time.Duration, run RunFunc, log *slog.Logger) *Watcher {
	return &Watcher{dir: dir, debounce: debounce, run: run, log: log}
}

// Watch blocks until ctx is done. Bursts of changes are coalesced into one
// run; a change during a run queues exactly one more. Run failures are
// logged and do not stop watching.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("watching for changes", "directory", w.dir, "debounce", w.debounce)

	rebuild := make(chan struct{}, 1)
	trigger, stop := debouncer(w.debounce, rebuild)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, rebuild)
	}()
	defer wg.Wait()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !Relevant(ev) {
				continue
			}
			w.log.Debug("xml change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) worker(ctx context.Context, rebuild <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuild:
			w.log.Info("change detected, converting")
			if err := w.run(ctx); err != nil {
				w.log.Warn("conversion failed", "error", err)
			}
		}
	}
}

// Relevant reports whether ev should trigger a conversion.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".xml")
}

// debouncer returns a trigger that signals out once calls have been quiet for
// d, and a func that cancels any pending signal.
func debouncer(d time.Duration, out chan<- struct{}) (trigger, stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}
