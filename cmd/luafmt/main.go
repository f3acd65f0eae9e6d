package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbosity int
	var logPath string
	var colorMode string

	rootCmd := &cobra.Command{
		Use:          "luafmt",
		Short:        "A deterministic Lua 5.3 formatter",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logPath != "" {
				commonlog.Configure(verbosity, &logPath)
			} else {
				commonlog.Configure(verbosity, nil)
			}
			return configureColor(colorMode)
		},
	}
	rootCmd.Version = version

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureColor(mode string) error {
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return &usageError{flag: "color", value: mode, want: "auto, on or off"}
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
