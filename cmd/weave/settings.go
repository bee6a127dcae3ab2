package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"weave/internal/config"
	"weave/internal/doc"
	"weave/internal/driver"
	"weave/internal/pretty"
)

// settings is the effective configuration of a command: weave.toml values
// overridden by the flags the user set.
type settings struct {
	cfg         config.Config
	inputFormat driver.InputFormat
}

func (s settings) layout() pretty.Options { return s.cfg.Layout() }

func addLayoutFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("width", pretty.DefaultWidth, "page width in columns")
	f.Int("lookahead", 0, "open groups kept before the outermost one breaks (0: same as width)")
	f.String("normalize", "none", "Unicode normalization of text payloads (none|nfc|nfd|nfkc|nfkd)")
	f.String("input-format", "auto", "document format (auto|json|yaml|msgpack)")
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(explicit, ".")
	if err != nil {
		return settings{}, err
	}

	f := cmd.Flags()
	if f.Changed("width") {
		if cfg.Render.Width, err = f.GetInt("width"); err != nil {
			return settings{}, err
		}
	}
	if f.Changed("lookahead") {
		if cfg.Render.Lookahead, err = f.GetInt("lookahead"); err != nil {
			return settings{}, err
		}
	}
	if f.Changed("normalize") {
		if cfg.Render.Normalize, err = f.GetString("normalize"); err != nil {
			return settings{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	formatStr, err := f.GetString("input-format")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get input-format flag: %w", err)
	}
	format, err := driver.ParseInputFormat(formatStr)
	if err != nil {
		return settings{}, err
	}
	return settings{cfg: cfg, inputFormat: format}, nil
}

// loadDocument decodes path and applies the configured normalization.
func loadDocument(path string, s settings, stdin io.Reader) (doc.Node, error) {
	form, normalize, err := driver.ParseNormalize(s.cfg.Render.Normalize)
	if err != nil {
		return nil, err
	}
	n, _, err := driver.LoadFile(path, s.inputFormat, stdin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if normalize {
		n = doc.Normalize(n, form)
	}
	return n, nil
}
