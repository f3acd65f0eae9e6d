package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/coregx/coregex"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/luafmt/format"
)

// ConfigNames are the file names FindConfig looks for, in order.
var ConfigNames = []string{".luafmt.toml", ".luafmt.yaml", ".luafmt.yml"}

// Config is the contents of a configuration file. Unset fields leave the
// corresponding option alone, so a Config built from command-line flags can
// be applied on top of one read from disk.
type Config struct {
	Width       *int     `toml:"width" yaml:"width"`
	IndentCount *int     `toml:"indent-count" yaml:"indent-count"`
	UseTabs     *bool    `toml:"use-tabs" yaml:"use-tabs"`
	QuoteStyle  string   `toml:"quote-style" yaml:"quote-style"`
	LineEnding  string   `toml:"line-ending" yaml:"line-ending"`
	Exclude     []string `toml:"exclude" yaml:"exclude"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`

	excludes []*coregex.Regexp
}

// FindConfig walks up from dir to the filesystem root and returns the first
// configuration file found.
func FindConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadConfig reads a TOML or YAML configuration file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{Path: path}
	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unknown config format", path)
	}

	if err := cfg.compile(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) compile() error {
	c.excludes = c.excludes[:0]
	for _, pattern := range c.Exclude {
		re, err := coregex.Compile(pattern)
		if err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		c.excludes = append(c.excludes, re)
	}
	return nil
}

// Apply returns opts with every field set in c replaced, validated.
func (c *Config) Apply(opts format.Options) (format.Options, error) {
	if c == nil {
		return opts, opts.Validate()
	}
	if c.Width != nil {
		opts.Width = *c.Width
	}
	if c.IndentCount != nil {
		opts.IndentCount = *c.IndentCount
	}
	if c.UseTabs != nil {
		opts.UseTabs = *c.UseTabs
	}
	if c.QuoteStyle != "" {
		q, err := format.ParseQuoteStyle(c.QuoteStyle)
		if err != nil {
			return opts, err
		}
		opts.QuoteStyle = q
	}
	if c.LineEnding != "" {
		e, err := format.ParseLineEnding(c.LineEnding)
		if err != nil {
			return opts, err
		}
		opts.LineEnding = e
	}
	return opts, opts.Validate()
}

// Excluded reports whether path matches one of the exclude patterns. Paths
// are matched relative to the directory holding the configuration file,
// with forward slashes.
func (c *Config) Excluded(path string) bool {
	if c == nil || len(c.excludes) == 0 {
		return false
	}
	rel := path
	if c.Path != "" {
		base, err1 := filepath.Abs(filepath.Dir(c.Path))
		abs, err2 := filepath.Abs(path)
		if err1 == nil && err2 == nil {
			if r, err := filepath.Rel(base, abs); err == nil {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	for _, re := range c.excludes {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}
