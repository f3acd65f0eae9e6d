package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/luafmt/format"
	"github.com/dhamidi/luafmt/lua/parser"
)

func newParseCmd() *cobra.Command {
	var includeComments bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .lua file and dump its syntax tree as JSON",
		Long: `Parse a .lua file and print its syntax tree as JSON.

Use - as the file name to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			var data []byte
			var err error
			if filename == "-" {
				filename = "<stdin>"
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(filename)
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if !includeComments {
				opts = append(opts, parser.WithoutComments())
			}
			chunk, err := parser.Parse(data, opts...)
			if err != nil {
				return err
			}

			enc := format.NewASTJSONEncoder(cmd.OutOrStdout()).WithPositions(includePositions)
			if err := enc.Encode(chunk); err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeComments, "comments", true, "include comments in the output")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source spans in the output")

	return cmd
}
