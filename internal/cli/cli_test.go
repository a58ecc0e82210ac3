package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		debug   bool
		want    []string
	}{
		{"quiet", false, false, []string{"[WARN] 10:11:12: w 3", "[ERROR] 10:11:12: e 4"}},
		{"verbose", true, false, []string{"[INFO] 10:11:12: i 1", "[WARN] 10:11:12: w 3", "[ERROR] 10:11:12: e 4"}},
		{"debug", false, true, []string{
			"[INFO] 10:11:12: i 1",
			"[DEBUG] 10:11:12: run=01234567 d 2",
			"[WARN] 10:11:12: w 3",
			"[ERROR] 10:11:12: e 4",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(tt.verbose, tt.debug)
			l.RunID = "0123456789abcdef"
			l.now = func() time.Time { return time.Date(2026, 1, 2, 10, 11, 12, 0, time.UTC) }
			l.SetOutput(&buf)

			l.Info("i %d", 1)
			l.Debug("d %d", 2)
			l.Warn("w %d", 3)
			l.Error("e %d", 4)

			got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("log output =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestLogger_RunIDIsUnique(t *testing.T) {
	a, b := NewLogger(false, false), NewLogger(false, false)
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("run ids %q and %q should be distinct and non-empty", a.RunID, b.RunID)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		want    Config
		wantErr string
	}{
		{
			name: "missing file uses defaults",
			path: filepath.Join(dir, "absent.toml"),
			want: Config{CC: "cc", Color: ColorAuto, IndentSize: 4},
		},
		{
			name: "toml",
			path: write("inn.toml", "cc = \"clang\"\ncflags = [\"-O2\", \"-Wall\"]\nout_dir = \"build\"\ncolor = \"never\"\n"),
			want: Config{CC: "clang", CFlags: []string{"-O2", "-Wall"}, OutDir: "build", Color: ColorNever, IndentSize: 4},
		},
		{
			name: "yaml",
			path: write("inn.yaml", "cc: gcc\ncolor: always\nindent_size: 2\nuse_tabs: true\nmin_version: \"0.1\"\n"),
			want: Config{CC: "gcc", Color: ColorAlways, IndentSize: 2, UseTabs: true, MinVersion: "0.1"},
		},
		{
			name:    "bad color",
			path:    write("bad.yml", "color: sometimes\n"),
			wantErr: "invalid color mode",
		},
		{
			name:    "unsatisfied min_version",
			path:    write("future.toml", "min_version = \">= 99.0\"\n"),
			wantErr: "does not satisfy",
		},
		{
			name:    "unknown format",
			path:    write("inn.json", "{}"),
			wantErr: "unsupported config format",
		},
		{
			name:    "malformed toml",
			path:    write("broken.toml", "cc = \n"),
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INN_CC", "")
			cfg, err := LoadConfig(tt.path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadConfig() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.CC != tt.want.CC || cfg.OutDir != tt.want.OutDir || cfg.Color != tt.want.Color ||
				cfg.IndentSize != tt.want.IndentSize || cfg.UseTabs != tt.want.UseTabs ||
				cfg.MinVersion != tt.want.MinVersion || strings.Join(cfg.CFlags, " ") != strings.Join(tt.want.CFlags, " ") {
				t.Errorf("LoadConfig() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inn.toml")
	if err := os.WriteFile(path, []byte("cc = \"gcc\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INN_CC", "tcc")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CC != "tcc" {
		t.Errorf("CC = %q, want INN_CC override", cfg.CC)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	if got := FindConfig(dir); got != "" {
		t.Errorf("FindConfig(empty) = %q", got)
	}
	for _, name := range []string{"inn.yml", "inn.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := FindConfig(dir); got != filepath.Join(dir, "inn.toml") {
		t.Errorf("FindConfig() = %q, want inn.toml first", got)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("INN_CC", "")
	for _, name := range []string{"out.toml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.CC = "clang"
			cfg.CFlags = []string{"-g"}
			cfg.Color = ColorNever
			if err := cfg.SaveConfig(path); err != nil {
				t.Fatalf("SaveConfig() error = %v", err)
			}

			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if loaded.CC != "clang" || loaded.Color != ColorNever || len(loaded.CFlags) != 1 || loaded.CFlags[0] != "-g" {
				t.Errorf("round trip lost settings: %+v", *loaded)
			}
		})
	}
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f.Fd()) {
		t.Error("a regular file is not a terminal")
	}

	cfg := DefaultConfig()
	for mode, want := range map[string]bool{ColorAlways: true, ColorNever: false, ColorAuto: false} {
		cfg.Color = mode
		if got := cfg.ColorEnabled(f.Fd()); got != want {
			t.Errorf("ColorEnabled(%s) = %v, want %v", mode, got, want)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		current    string
		constraint string
		ok         bool
	}{
		{"0.3.0", "", true},
		{"0.3.0", "0.2", true},
		{"0.3.0", "0.3.0", true},
		{"0.3.0", "0.4", false},
		{"0.3.0", ">= 0.1, < 1.0", true},
		{"0.3.0", "^1.0", false},
		{"0.3.0", "not a version", false},
	}

	for _, tt := range tests {
		err := checkVersion(tt.current, tt.constraint)
		if (err == nil) != tt.ok {
			t.Errorf("checkVersion(%q, %q) error = %v, want ok=%v", tt.current, tt.constraint, err, tt.ok)
		}
	}
	if err := CheckVersion(">= 0.0.1"); err != nil {
		t.Errorf("current version %s rejected: %v", Version, err)
	}
}

func TestPrintVersion(t *testing.T) {
	var text bytes.Buffer
	if err := PrintVersion(&text, "inn", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text.String(), "inn v"+Version+"\n") {
		t.Errorf("text output = %q", text.String())
	}

	var raw bytes.Buffer
	if err := PrintVersion(&raw, "inn", true); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(raw.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", raw.String(), err)
	}
	if decoded.Tool != "inn" || decoded.VersionInfo.Version != Version {
		t.Errorf("decoded = %+v", decoded)
	}
}
