package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"
)

func TestParse(t *testing.T) {
	def := Default()
	tests := []struct {
		name    string
		data    string
		format  Format
		want    func() Config
		wantErr error
	}{
		{
			name:   "empty yaml keeps defaults",
			data:   "",
			format: FormatYAML,
			want:   Default,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			data: `platform: ILP32
gnu_extensions: false
parallelism: 2
logging:
  level: debug
`,
			want: func() Config {
				c := def
				c.Platform = "ilp32"
				c.GNUExtensions = false
				c.Parallelism = 2
				c.Logging.Level = "debug"
				return c
			},
		},
		{
			name:   "toml",
			format: FormatTOML,
			data: `platform = "llp64"
analyze = false

[logging]
format = "json"
`,
			want: func() Config {
				c := def
				c.Platform = "llp64"
				c.Analyze = false
				c.Logging.Format = "json"
				return c
			},
		},
		{
			name:    "unknown platform",
			format:  FormatTOML,
			data:    `platform = "pdp11"`,
			wantErr: ErrUnknownPlatform,
		},
		{
			name:    "unknown toml key",
			format:  FormatTOML,
			data:    `threads = 3`,
			wantErr: ErrInvalid,
		},
		{
			name:    "negative parallelism",
			format:  FormatYAML,
			data:    "parallelism: -1",
			wantErr: ErrInvalid,
		},
		{
			name:    "bad level",
			format:  FormatYAML,
			data:    "logging: {level: loud}",
			wantErr: ErrInvalid,
		},
		{
			name:    "bad log format",
			format:  FormatTOML,
			data:    "[logging]\nformat = \"xml\"",
			wantErr: ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if want := tt.want(); !reflect.DeepEqual(want, got) {
				deepequal.SideBySide(t, "config", want, got)
				t.Error("unexpected config")
			}
		})
	}
}

func TestParseRejectsUnknownYAMLKeys(t *testing.T) {
	if _, err := Parse([]byte("threads: 3"), FormatYAML); err == nil {
		t.Error("unknown key accepted")
	}
	if _, err := Parse([]byte("platform: [lp64"), FormatYAML); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestLoadDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file     string
		content  string
		platform string
	}{
		{"cdom.yaml", "platform: ilp32\n", "ilp32"},
		{"cdom.yml", "platform: llp64\n", "llp64"},
		{"cdom.toml", "platform = \"ilp32\"\n", "ilp32"},
		{"cdom.conf", "platform = \"llp64\"\n", "llp64"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Platform != tt.platform {
				t.Errorf("platform = %s, want %s", cfg.Platform, tt.platform)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestBuiltinsPathIsRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	table := "typedefs:\n  - {name: my_list, type: char *}\nfunctions:\n  - {name: my_len, returns: int, params: [my_list]}\n"
	if err := os.WriteFile(filepath.Join(dir, "gcc.yaml"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "cdom.yaml")
	if err := os.WriteFile(path, []byte("builtins: gcc.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Builtins != filepath.Join(dir, "gcc.yaml") {
		t.Fatalf("builtins = %s", cfg.Builtins)
	}
	icfg, err := cfg.IndexConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if icfg.Builtins == nil || icfg.Builtins.Len() != 2 {
		t.Fatalf("builtin table not loaded: %v", icfg.Builtins)
	}
	if icfg.Platform.Name != "lp64" || !icfg.GNUExtensions {
		t.Errorf("index config %+v", icfg)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		logging Logging
		check   func(out string) bool
	}{
		{"text", Logging{Level: "info", Format: "text"}, func(out string) bool {
			return strings.Contains(out, "level=INFO") && strings.Contains(out, "msg=shown")
		}},
		{"json", Logging{Level: "info", Format: "json"}, func(out string) bool {
			return strings.Contains(out, `"msg":"shown"`)
		}},
		{"level filters", Logging{Level: "error", Format: "text"}, func(out string) bool {
			return out == ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Logging = tt.logging
			var buf bytes.Buffer
			logger, err := cfg.NewLogger(&buf)
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("shown")
			if !tt.check(buf.String()) {
				t.Errorf("unexpected output %q", buf.String())
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Platform = "ilp32"
	cfg.Parallelism = 3
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := cfg.Encode(&buf, format); err != nil {
				t.Fatal(err)
			}
			got, err := Parse(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("%s\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(cfg, got) {
				deepequal.SideBySide(t, "config", cfg, got)
				t.Error("round trip changed the config")
			}
		})
	}
}

func TestDefaultParallelism(t *testing.T) {
	cfg, err := Parse([]byte("parallelism = 0"), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parallelism != runtime.NumCPU() {
		t.Errorf("parallelism = %d", cfg.Parallelism)
	}
}
