package build

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestPlatform_ExeSuffix(t *testing.T) {
	cases := []struct {
		p    Platform
		want string
	}{
		{Platform{GOOS: "linux", GOARCH: "amd64"}, ""},
		{Platform{GOOS: "darwin", GOARCH: "arm64"}, ""},
		{Platform{GOOS: "windows", GOARCH: "amd64"}, ".exe"},
	}
	for _, c := range cases {
		if got := c.p.ExeSuffix(); got != c.want {
			t.Errorf("%s: ExeSuffix() = %q, want %q", c.p, got, c.want)
		}
	}
	if HostPlatform().GOOS != runtime.GOOS {
		t.Fatalf("HostPlatform() = %s", HostPlatform())
	}
}

func TestCToolchain_Compile(t *testing.T) {
	tc := CToolchain{CC: "cc", CFlags: []string{"-O2", "-Wall"}}
	spec, err := tc.Compile("prog.c", "prog", []string{"m"})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if spec.String() != "cc -O2 -Wall prog.c -o prog -lm" {
		t.Fatalf("bad command: %s", spec)
	}

	// The configured flags must not be aliased by the returned args.
	spec.Args[0] = "-O0"
	if tc.CFlags[0] != "-O2" {
		t.Fatalf("CFlags modified: %v", tc.CFlags)
	}

	if _, err := (CToolchain{}).Compile("a.c", "a", nil); err == nil {
		t.Fatalf("expected error without a compiler")
	}
	if _, err := tc.Compile("", "a", nil); err == nil {
		t.Fatalf("expected error without a source")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakecc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		cc := writeScript(t, `printf '%s\n' "$@" > args.txt`)
		spec := CommandSpec{WorkDir: dir, Cmd: cc, Args: []string{"a.c", "-o", "a"}}
		if err := Run(context.Background(), spec, 0); err != nil {
			t.Fatalf("Run error: %v", err)
		}
		got, err := os.ReadFile(filepath.Join(dir, "args.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "a.c\n-o\na\n" {
			t.Fatalf("args = %q", got)
		}
	})

	t.Run("failure includes output", func(t *testing.T) {
		cc := writeScript(t, "echo 'prog.c:1: syntax error' >&2\nexit 1")
		err := Run(context.Background(), CommandSpec{Cmd: cc}, 0)
		if err == nil || !strings.Contains(err.Error(), "prog.c:1: syntax error") {
			t.Fatalf("expected compiler output in error, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		cc := writeScript(t, "exec sleep 5")
		start := time.Now()
		err := Run(context.Background(), CommandSpec{Cmd: cc}, 100*time.Millisecond)
		if err == nil || !strings.Contains(err.Error(), "timed out after 100ms") {
			t.Fatalf("expected timeout error, got %v", err)
		}
		if time.Since(start) > 4*time.Second {
			t.Fatalf("Run did not stop the command")
		}
	})
}
