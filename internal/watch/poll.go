package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"
)

// PollingWatcher is a portable Watcher that compares modification times.
// It is the fallback where OS notifications are unavailable.
type PollingWatcher struct {
	interval time.Duration
	evC      chan Event
	erC      chan error

	mu     sync.Mutex
	paths  map[string]time.Time
	cancel context.CancelFunc
	exited chan struct{}
}

// NewPollingWatcher starts polling every interval until Close is called.
func NewPollingWatcher(interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &PollingWatcher{
		interval: interval,
		evC:      make(chan Event, 64),
		erC:      make(chan error, 1),
		paths:    make(map[string]time.Time),
		cancel:   cancel,
		exited:   make(chan struct{}),
	}
	go w.poll(ctx)
	return w
}

func (w *PollingWatcher) Events() <-chan Event { return w.evC }
func (w *PollingWatcher) Errors() <-chan error { return w.erC }

// Add starts tracking a file. Its current state is the baseline, so only
// later changes produce events.
func (w *PollingWatcher) Add(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[name] = info.ModTime()
	return nil
}

func (w *PollingWatcher) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.paths, name)
	return nil
}

func (w *PollingWatcher) Close() error {
	w.cancel()
	<-w.exited
	return nil
}

func (w *PollingWatcher) poll(ctx context.Context) {
	defer close(w.exited)
	defer close(w.evC)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, ev := range w.scan() {
				select {
				case w.evC <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// scan compares every tracked file with its last seen state. A missing
// file is reported once as removed and again as created when it returns,
// which is how delete-then-create saves look from here.
func (w *PollingWatcher) scan() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []Event
	for path, last := range w.paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			if !last.IsZero() {
				w.paths[path] = time.Time{}
				events = append(events, Event{Path: path, Op: OpRemove, Time: time.Now()})
			}
			continue
		}
		if err != nil {
			select {
			case w.erC <- err:
			default:
			}
			continue
		}

		switch mod := info.ModTime(); {
		case last.IsZero():
			w.paths[path] = mod
			events = append(events, Event{Path: path, Op: OpCreate, Time: time.Now()})
		case !mod.Equal(last):
			w.paths[path] = mod
			events = append(events, Event{Path: path, Op: OpWrite, Time: time.Now()})
		}
	}
	return events
}
