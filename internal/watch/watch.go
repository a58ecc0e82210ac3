// Package watch reports changes to source files so inn can re-check or
// rebuild them as they are edited.
package watch

import (
	"context"
	"path/filepath"
	"time"
)

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op WatchOp) String() string {
	names := []string{"CREATE", "WRITE", "REMOVE", "RENAME", "CHMOD"}
	s := ""
	for i, name := range names {
		if op&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	if s == "" {
		return "NONE"
	}
	return s
}

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher delivers filesystem events for the paths added to it.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// contentOps are the operations that can change what a file contains.
// Editors that save through a temporary file show up as create or rename.
const contentOps = OpCreate | OpWrite | OpRename

// Watch calls onChange after each burst of content changes to path until
// ctx is done. Events for other files in the watched directory are ignored.
// Bursts closer together than debounce collapse into a single call.
func Watch(ctx context.Context, w Watcher, path string, debounce time.Duration, onChange func(Event)) error {
	target := filepath.Clean(path)

	var (
		pending *Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return err
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Path) != target || ev.Op&contentOps == 0 {
				continue
			}
			if ev.Time.IsZero() {
				ev.Time = time.Now()
			}
			pending = &ev
			if debounce <= 0 {
				onChange(*pending)
				pending = nil
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if pending != nil {
				onChange(*pending)
				pending = nil
			}
		}
	}
}
