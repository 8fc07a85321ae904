// Package main provides the entry point for the ntbreak CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ntbreak/cmd/ntbreak/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ntbreak",
		Short: "ntbreak - blank-node-aware N-Triples splitter",
		Long: `ntbreak splits large N-Triples files into smaller files without
separating statements that share a blank node.

Commands:
  break     Split every N-Triples file of a directory tree
  filter    Drop malformed statements and blank lines from a directory tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.NewBreakCommand())
	rootCmd.AddCommand(commands.NewFilterCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
