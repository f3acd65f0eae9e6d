package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/luafmt/format"
	"github.com/dhamidi/luafmt/project"
)

var (
	writtenColor = color.New(color.FgGreen)
	checkColor   = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

type fmtFlags struct {
	write      bool
	check      bool
	json       bool
	width      int
	indent     int
	tabs       bool
	quote      string
	lineEnding string
	config     string
	cache      bool
	watch      bool
	jobs       int
}

func newFmtCmd() *cobra.Command {
	var flags fmtFlags

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format Lua source files",
		Long: `Format .lua files and directories.

Without paths, reads Lua source from stdin and writes the result to stdout.
Directories are searched recursively for .lua files, skipping hidden
directories and paths excluded by the configuration file.

Options come from the nearest .luafmt.toml or .luafmt.yaml; flags given on
the command line override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &project.Formatter{
				Overrides:  flags.overrides(cmd),
				ConfigPath: flags.config,
				Write:      flags.write,
				Jobs:       flags.jobs,
			}

			if len(args) == 0 {
				if flags.write || flags.watch {
					return fmt.Errorf("--write and --watch require paths")
				}
				return formatStdin(cmd, formatter, flags)
			}

			if flags.cache {
				cache, err := openCache()
				if err != nil {
					return err
				}
				formatter.Cache = cache
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err := runFormat(ctx, cmd, formatter, flags, args)
			if !flags.watch {
				return err
			}
			if err != nil && !errors.Is(err, errNeedsFormatting) {
				errorColor.Fprintln(cmd.ErrOrStderr(), err)
			}
			return watchAndFormat(ctx, cmd, formatter, flags, args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.write, "write", "w", false, "write results back to the source files")
	f.BoolVar(&flags.check, "check", false, "report files that are not formatted and exit non-zero")
	f.BoolVar(&flags.json, "json", false, "print per-file results as JSON")
	f.IntVar(&flags.width, "width", 0, "maximum line width")
	f.IntVar(&flags.indent, "indent", 0, "spaces per indentation level")
	f.BoolVar(&flags.tabs, "tabs", false, "indent with tabs")
	f.StringVar(&flags.quote, "quote", "", "string quote style (double, single, preserve)")
	f.StringVar(&flags.lineEnding, "line-ending", "", "line ending (auto, lf, crlf)")
	f.StringVar(&flags.config, "config", "", "use this configuration file instead of searching for one")
	f.BoolVar(&flags.cache, "cache", false, "skip files unchanged since the last run")
	f.BoolVar(&flags.watch, "watch", false, "keep running and reformat files when they change")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "files to format in parallel (default GOMAXPROCS)")

	return cmd
}

// overrides turns the flags the user actually set into a configuration
// layered over the file configuration.
func (flags *fmtFlags) overrides(cmd *cobra.Command) *project.Config {
	cfg := &project.Config{
		QuoteStyle: flags.quote,
		LineEnding: flags.lineEnding,
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = &flags.width
	}
	if cmd.Flags().Changed("indent") {
		cfg.IndentCount = &flags.indent
	}
	if cmd.Flags().Changed("tabs") {
		cfg.UseTabs = &flags.tabs
	}
	return cfg
}

func formatStdin(cmd *cobra.Command, formatter *project.Formatter, flags fmtFlags) error {
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	opts, err := formatter.OptionsFor(".")
	if err != nil {
		return err
	}
	out, err := format.FormatFile(source, "<stdin>", opts)
	if err != nil {
		return err
	}
	if flags.check {
		if string(out) != string(source) {
			checkColor.Fprintln(cmd.ErrOrStderr(), "<stdin> is not formatted")
			return errNeedsFormatting
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func openCache() (*project.Cache, error) {
	proj, err := project.Load()
	if err != nil {
		return nil, err
	}
	return project.OpenCache(filepath.Join(proj.RootDir, project.CacheFileName))
}

func runFormat(ctx context.Context, cmd *cobra.Command, formatter *project.Formatter, flags fmtFlags, paths []string) error {
	results, err := formatter.FormatPaths(ctx, paths)
	if err != nil {
		return err
	}
	return report(cmd, results, flags)
}

func watchAndFormat(ctx context.Context, cmd *cobra.Command, formatter *project.Formatter, flags fmtFlags, paths []string) error {
	watcher, err := project.NewWatcher(100 * time.Millisecond)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes, press Ctrl-C to stop")
	return watcher.Watch(ctx, func(changed []string) {
		results, err := formatter.FormatFiles(ctx, changed)
		if err != nil {
			errorColor.Fprintln(cmd.ErrOrStderr(), err)
			return
		}
		if err := report(cmd, results, flags); err != nil && !errors.Is(err, errNeedsFormatting) {
			errorColor.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
}

// report prints results and returns an error when any file failed or, with
// --check, is not formatted.
func report(cmd *cobra.Command, results []project.FormatResult, flags fmtFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	failed, unformatted := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else if r.Changed && !r.Written {
			unformatted++
		}
	}

	if flags.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	} else {
		for _, r := range results {
			switch {
			case r.Err != nil:
				errorColor.Fprintf(stderr, "%s: %v\n", r.Path, r.Err)
			case r.Written:
				writtenColor.Fprintf(stderr, "formatted %s\n", r.Path)
			case flags.check && r.Changed:
				checkColor.Fprintf(stderr, "would reformat %s\n", r.Path)
			case !flags.check && !flags.write:
				if _, err := stdout.Write(r.Output); err != nil {
					return err
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to format", failed, len(results))
	}
	if flags.check && unformatted > 0 {
		return errNeedsFormatting
	}
	return nil
}
