package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version can be overridden at build time via -ldflags.
var version = "0.1.0"

var versionColor = color.New(color.FgGreen, color.Bold)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the luafmt version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "luafmt %s (%s %s/%s)\n",
				versionColor.Sprint(version), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
