package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeWatcher feeds scripted events to Watch.
type fakeWatcher struct {
	evC chan Event
	erC chan error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{evC: make(chan Event, 16), erC: make(chan error, 1)}
}

func (f *fakeWatcher) Events() <-chan Event     { return f.evC }
func (f *fakeWatcher) Errors() <-chan error     { return f.erC }
func (f *fakeWatcher) Add(name string) error    { return nil }
func (f *fakeWatcher) Remove(name string) error { return nil }
func (f *fakeWatcher) Close() error             { close(f.evC); return nil }

func TestWatch_FiltersAndDebounces(t *testing.T) {
	fw := newFakeWatcher()
	fw.evC <- Event{Path: "/src/other.inn", Op: OpWrite}
	fw.evC <- Event{Path: "/src/main.inn", Op: OpChmod}
	fw.evC <- Event{Path: "/src/main.inn", Op: OpWrite}
	fw.evC <- Event{Path: "/src/./main.inn", Op: OpWrite}
	fw.evC <- Event{Path: "/src/main.inn", Op: OpCreate}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	calls := make(chan Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, fw, "/src/main.inn", 50*time.Millisecond, func(ev Event) { calls <- ev })
	}()

	select {
	case ev := <-calls:
		if ev.Op != OpCreate {
			t.Errorf("debounced event = %s, want the last one (CREATE)", ev.Op)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for change")
	}

	fw.Close()
	if err := <-done; err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("burst produced %d extra calls", len(calls))
	}
}

func TestWatch_ReturnsWatcherError(t *testing.T) {
	fw := newFakeWatcher()
	fw.erC <- os.ErrPermission

	err := Watch(context.Background(), fw, "a.inn", 0, func(Event) {})
	if err != os.ErrPermission {
		t.Errorf("Watch() error = %v, want %v", err, os.ErrPermission)
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Watch(ctx, newFakeWatcher(), "a.inn", 0, func(Event) {}); err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatchOpString(t *testing.T) {
	tests := map[WatchOp]string{
		0:                  "NONE",
		OpWrite:            "WRITE",
		OpCreate | OpWrite: "CREATE|WRITE",
		OpRename | OpChmod: "RENAME|CHMOD",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("WatchOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestPollingWatcher(t *testing.T) {
	p := filepath.Join(t.TempDir(), "w.inn")
	if err := os.WriteFile(p, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewPollingWatcher(20 * time.Millisecond)
	defer w.Close()
	if err := w.Add(p); err != nil {
		t.Fatal(err)
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != p || ev.Op != OpWrite {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for polling event")
	}
}

func TestPollingWatcher_ScanMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "w.inn")
	if err := os.WriteFile(p, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	w := &PollingWatcher{erC: make(chan error, 1), paths: map[string]time.Time{p: info.ModTime()}}

	ops := func(events []Event) []WatchOp {
		var out []WatchOp
		for _, ev := range events {
			out = append(out, ev.Op)
		}
		return out
	}

	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if got := ops(w.scan()); len(got) != 1 || got[0] != OpRemove {
		t.Fatalf("after remove: ops = %v, want [REMOVE]", got)
	}
	if got := w.scan(); len(got) != 0 {
		t.Fatalf("missing file reported again: %+v", got)
	}

	if err := os.WriteFile(p, []byte("x = 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ops(w.scan()); len(got) != 1 || got[0] != OpCreate {
		t.Fatalf("after create: ops = %v, want [CREATE]", got)
	}

	select {
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	default:
	}
}

func TestWatch_PollingSurvivesDeleteThenCreate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "w.inn")
	if err := os.WriteFile(p, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := NewPollingWatcher(10 * time.Millisecond)
	defer w.Close()
	if err := w.Add(p); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	changed := make(chan Event, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, w, p, 0, func(ev Event) {
			select {
			case changed <- ev:
			default:
			}
		})
	}()

	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if err := os.WriteFile(p, []byte("x = 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-changed:
		if ev.Op&(OpCreate|OpWrite) == 0 {
			t.Errorf("event = %+v", ev)
		}
	case err := <-done:
		t.Fatalf("Watch returned while the file was missing: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the recreated file")
	}
}

func TestWatcher_FSNotify(t *testing.T) {
	fw, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()

	dir := t.TempDir()
	if err := fw.Add(dir); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "main.inn")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	changed := make(chan Event, 1)
	go func() {
		_ = Watch(ctx, fw, target, 10*time.Millisecond, func(ev Event) {
			select {
			case changed <- ev:
			default:
			}
		})
	}()
	go func() { _ = os.WriteFile(target, []byte("x = 1"), 0o644) }()

	select {
	case ev := <-changed:
		if filepath.Clean(ev.Path) != target {
			t.Errorf("event for %q, want %q", ev.Path, target)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for fsnotify event")
	}
}
