package commands_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ntbreak/cmd/ntbreak/commands"
)

// cliResult captures one command execution.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "ntbreak",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.RegisterGlobalFlags(root)
	root.AddCommand(commands.NewBreakCommand())
	root.AddCommand(commands.NewFilterCommand())
	root.AddCommand(commands.NewVersionCommand())

	return root
}

// execute runs the CLI with an isolated config file so the developer's own
// .ntbreak.yaml never leaks into tests.
func execute(t *testing.T, args ...string) cliResult {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "ntbreak.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0o600))

	var stdout, stderr bytes.Buffer

	root := newRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func statement(i int) string {
	return fmt.Sprintf("<http://example.org/s%d> <http://example.org/p> \"v%d\" .\n", i, i)
}

func plainFile(lines int) string {
	var sb strings.Builder

	for i := 1; i <= lines; i++ {
		sb.WriteString(statement(i))
	}

	return sb.String()
}

// writeTree creates files (relative path -> content) under a new directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// outputPaths returns the sorted slash-separated files under dir.
func outputPaths(t *testing.T, dir string) []string {
	t.Helper()

	var paths []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}

		paths = append(paths, filepath.ToSlash(rel))

		return nil
	})
	require.NoError(t, err)

	return paths
}
