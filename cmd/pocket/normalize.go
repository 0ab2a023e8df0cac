package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/readlater/pocket-cli/internal/markdown"
)

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <markdown-file> [plain-file]",
	Short: "Clean up converted markdown against a plain-text reference",
	Long: `normalize reads a markdown file (use "-" for stdin) and rewrites it with
consistent list indentation, split headers and boilerplate trimmed. The
optional plain-text reference guides where the article content starts and
ends; without it the whole input is kept.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("read markdown: %w", err)
		}
		plain := ""
		if len(args) == 2 {
			p, err := readInput(args[1])
			if err != nil {
				return fmt.Errorf("read plain text: %w", err)
			}
			plain = p
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.Normalize(md, plain))
		return nil
	},
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
