package breaker_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// plainLine renders a statement without blank nodes.
func plainLine(i int) string {
	return fmt.Sprintf("<http://test/s%d> <http://test/p> \"value %d\" .\n", i, i)
}

// blankLine renders a statement whose subject is the given blank node.
func blankLine(i int, node string) string {
	return fmt.Sprintf("_:%s <http://test/p> \"value %d\" .\n", node, i)
}

// buildFile returns n lines; nodes maps a line index to the blank node used on it.
func buildFile(n int, nodes map[int]string) string {
	var sb strings.Builder

	for i := 1; i <= n; i++ {
		if node, ok := nodes[i]; ok {
			sb.WriteString(blankLine(i, node))

			continue
		}

		sb.WriteString(plainLine(i))
	}

	return sb.String()
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func readAll(t *testing.T, paths []string) string {
	t.Helper()

	var sb strings.Builder

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)

		sb.Write(data)
	}

	return sb.String()
}

func countLines(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Count(string(data), "\n")
}
