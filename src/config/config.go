package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

// Format is the encoding of a configuration file.
type Format int

const (
	// FormatAuto picks the format from the file extension, TOML when unknown.
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return "auto"
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "", "auto":
		return FormatAuto, nil
	}
	return FormatAuto, fmt.Errorf("unsupported config format %q", s)
}

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalid         = errors.New("invalid configuration")
)

type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type Config struct {
	// Platform is the data model used for sizes and conversions: lp64, ilp32 or llp64.
	Platform      string `yaml:"platform" toml:"platform"`
	GNUExtensions bool   `yaml:"gnu_extensions" toml:"gnu_extensions"`
	// Analyze runs the semantic checks after ambiguity resolution.
	Analyze     bool `yaml:"analyze" toml:"analyze"`
	Parallelism int  `yaml:"parallelism" toml:"parallelism"`
	// Builtins points to a YAML table replacing the embedded GCC builtins.
	Builtins string  `yaml:"builtins,omitempty" toml:"builtins,omitempty"`
	Logging  Logging `yaml:"logging" toml:"logging"`
}

func Default() Config {
	return Config{
		Platform:      types.LP64.Name,
		GNUExtensions: true,
		Analyze:       true,
		Parallelism:   runtime.NumCPU(),
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data, detectFormat(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Builtins != "" && !filepath.IsAbs(cfg.Builtins) {
		cfg.Builtins = filepath.Join(filepath.Dir(path), cfg.Builtins)
	}
	return cfg, nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Parse decodes data on top of the defaults. Unknown keys are rejected.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML, FormatAuto:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalid, undecoded[0])
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %d", format)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Platform = strings.ToLower(c.Platform)
	if c.Platform == "" {
		c.Platform = types.LP64.Name
	}
	if c.Parallelism == 0 {
		c.Parallelism = runtime.NumCPU()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c Config) Validate() error {
	if _, ok := types.PlatformByName(c.Platform); !ok {
		return fmt.Errorf("%w %q, expected one of %s", ErrUnknownPlatform, c.Platform, strings.Join(types.PlatformNames(), ", "))
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must not be negative, got %d", ErrInvalid, c.Parallelism)
	}
	if _, err := c.level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format must be text or json, got %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Logging.Level))
	return l, err
}

func (c Config) TargetPlatform() (types.Platform, error) {
	p, ok := types.PlatformByName(c.Platform)
	if !ok {
		return types.Platform{}, fmt.Errorf("%w %q", ErrUnknownPlatform, c.Platform)
	}
	return p, nil
}

// NewLogger builds the slog logger described by the logging section.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// LoadBuiltins returns the builtin table named by Builtins, or nil when the
// embedded table is to be used.
func (c Config) LoadBuiltins() (*semantics.Builtins, error) {
	if c.Builtins == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Builtins)
	if err != nil {
		return nil, fmt.Errorf("reading builtins: %w", err)
	}
	return semantics.LoadBuiltins(data)
}

// IndexConfig translates the configuration for semantics.NewIndex.
func (c Config) IndexConfig(logger *slog.Logger) (semantics.Config, error) {
	platform, err := c.TargetPlatform()
	if err != nil {
		return semantics.Config{}, err
	}
	builtins, err := c.LoadBuiltins()
	if err != nil {
		return semantics.Config{}, err
	}
	return semantics.Config{
		Platform:      platform,
		GNUExtensions: c.GNUExtensions,
		Logger:        logger,
		Builtins:      builtins,
	}, nil
}

// Encode writes the configuration back in the given format, TOML for FormatAuto.
func (c Config) Encode(w io.Writer, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	}
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
