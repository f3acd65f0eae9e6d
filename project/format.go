package project

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/luafmt/format"
)

var log = commonlog.GetLogger("luafmt.project")

// FormatResult is the outcome for one file.
type FormatResult struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Cached  bool   `json:"cached,omitempty"`
	Written bool   `json:"written,omitempty"`
	Error   string `json:"error,omitempty"`

	Output []byte `json:"-"`
	Err    error  `json:"-"`
}

// Formatter formats many files in parallel. Each file uses the options of
// the configuration file governing it, with Overrides applied on top.
type Formatter struct {
	// Overrides holds options given on the command line.
	Overrides *Config
	// ConfigPath forces one configuration file instead of searching for it.
	ConfigPath string
	// Write replaces changed files on disk.
	Write bool
	// Jobs limits concurrency; zero means GOMAXPROCS.
	Jobs  int
	Cache *Cache

	mu      sync.Mutex
	configs map[string]*Config
}

// FormatPaths formats the given files and directories. Per-file failures
// are reported in the results; the returned error is only set when the
// paths could not be expanded or the context was cancelled.
func (f *Formatter) FormatPaths(ctx context.Context, paths []string) ([]FormatResult, error) {
	var files []string
	seen := make(map[string]bool)
	for _, path := range paths {
		dir := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		cfg, err := f.configFor(dir)
		if err != nil {
			return nil, err
		}
		found, err := (&Project{RootDir: dir, Config: cfg}).ExpandPaths([]string{path})
		if err != nil {
			return nil, err
		}
		for _, file := range found {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}
	return f.FormatFiles(ctx, files)
}

// FormatFiles formats the given files. Results are in input order.
func (f *Formatter) FormatFiles(ctx context.Context, files []string) ([]FormatResult, error) {
	results := make([]FormatResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	jobs := f.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = f.formatFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	if err := f.Cache.Save(); err != nil {
		log.Warningf("%v", err)
	}
	return results, nil
}

func (f *Formatter) formatFile(path string) FormatResult {
	result := FormatResult{Path: path}
	fail := func(err error) FormatResult {
		result.Err = err
		result.Error = err.Error()
		log.Debugf("%s: %v", path, err)
		return result
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}

	opts, err := f.OptionsFor(filepath.Dir(path))
	if err != nil {
		return fail(err)
	}

	if f.Cache.Fresh(path, source, opts) {
		log.Debugf("%s: unchanged since last run", path)
		result.Cached = true
		result.Output = source
		return result
	}

	out, err := format.FormatFile(source, path, opts)
	if err != nil {
		return fail(err)
	}
	result.Output = out
	result.Changed = !bytes.Equal(source, out)

	if result.Changed && f.Write {
		if err := writeFileKeepMode(path, out); err != nil {
			return fail(err)
		}
		result.Written = true
		log.Infof("formatted %s", path)
	}
	if !result.Changed || result.Written {
		f.Cache.Record(path, out, opts)
	}
	return result
}

// OptionsFor resolves the options for files in dir.
func (f *Formatter) OptionsFor(dir string) (format.Options, error) {
	cfg, err := f.configFor(dir)
	if err != nil {
		return format.Options{}, err
	}
	opts, err := cfg.Apply(format.DefaultOptions())
	if err != nil && cfg != nil {
		return opts, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return f.Overrides.Apply(opts)
}

func (f *Formatter) configFor(dir string) (*Config, error) {
	path := f.ConfigPath
	if path == "" {
		var ok bool
		if path, ok = FindConfig(dir); !ok {
			return nil, nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if cfg, ok := f.configs[path]; ok {
		return cfg, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if f.configs == nil {
		f.configs = make(map[string]*Config)
	}
	f.configs[path] = cfg
	log.Debugf("using configuration %s", path)
	return cfg, nil
}

func writeFileKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
