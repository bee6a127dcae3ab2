// Package config loads weave.toml, the per-project defaults for the weave
// command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"weave/internal/pretty"
)

// FileName is the name searched for by Find.
const FileName = "weave.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config mirrors weave.toml.
type Config struct {
	Render Render `toml:"render"`
	Batch  Batch  `toml:"batch"`
	Trace  Trace  `toml:"trace"`

	// Path is the file the configuration came from, empty for defaults.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that weave does not use.
	Unknown []string `toml:"-"`
}

type Render struct {
	Width     int    `toml:"width"`
	Lookahead int    `toml:"lookahead"`
	Normalize string `toml:"normalize"`
	Highlight string `toml:"highlight"`
	OutExt    string `toml:"out_ext"`
}

type Batch struct {
	Jobs  int  `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"` // "~" expands to the home directory
}

type Trace struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Render: Render{Width: pretty.DefaultWidth, Normalize: "none", OutExt: ".txt"},
		Trace:  Trace{Level: "off"},
	}
}

// Find walks up from startDir to locate weave.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Keys the file leaves out keep their
// default values; unknown keys are collected in Unknown.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit when set, otherwise the nearest weave.toml above
// startDir, otherwise the defaults.
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Render.Lookahead < 0 {
		return fmt.Errorf("%w: [render].lookahead must not be negative", ErrInvalid)
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("%w: [batch].jobs must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.Render.Normalize) {
	case "", "none", "nfc", "nfd", "nfkc", "nfkd":
	default:
		return fmt.Errorf("%w: [render].normalize %q (expected: none|nfc|nfd|nfkc|nfkd)", ErrInvalid, c.Render.Normalize)
	}
	if ext := c.Render.OutExt; ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: [render].out_ext %q must start with a dot", ErrInvalid, ext)
	}
	return nil
}

// CacheDir returns the configured cache directory with "~" expanded, or ""
// when the user cache directory should be used.
func (c Config) CacheDir() (string, error) {
	if c.Batch.CacheDir == "" {
		return "", nil
	}
	dir, err := homedir.Expand(c.Batch.CacheDir)
	if err != nil {
		return "", fmt.Errorf("%w: [batch].cache_dir: %v", ErrInvalid, err)
	}
	return dir, nil
}

// Layout returns the layout options the configuration selects.
func (c Config) Layout() pretty.Options {
	return pretty.Options{Width: c.Render.Width, MaxLookahead: c.Render.Lookahead}
}
