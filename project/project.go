package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Project is a directory tree of Lua sources sharing one configuration.
type Project struct {
	RootDir string
	Config  *Config
}

// Load finds the project enclosing the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom finds the configuration file governing dir. Without one the
// project is rooted at dir and uses the default options.
func LoadFrom(dir string) (*Project, error) {
	path, ok := FindConfig(dir)
	if !ok {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		return &Project{RootDir: abs}, nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Project{
		RootDir: filepath.Dir(path),
		Config:  cfg,
	}, nil
}

// LuaFiles returns all .lua files below dir, sorted. Hidden directories
// and paths excluded by the configuration are skipped.
func (p *Project) LuaFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if path != dir && p.Config.Excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsLuaFile(path) || p.Config.Excluded(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan lua files in %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// ExpandPaths turns a list of files and directories into the files to
// format. Files named explicitly are kept even when excluded.
func (p *Project) ExpandPaths(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		var found []string
		if info.IsDir() {
			found, err = p.LuaFiles(path)
			if err != nil {
				return nil, err
			}
		} else {
			found = []string{path}
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func IsLuaFile(path string) bool {
	return filepath.Ext(path) == ".lua"
}
