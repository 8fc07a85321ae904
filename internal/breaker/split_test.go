package breaker_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ntbreak/internal/blanknode"
	"github.com/Sumatoshi-tech/ntbreak/internal/breaker"
)

func TestSplitFile_NoBlankNodesMakesFullChunks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := buildFile(250, nil)
	input := writeInput(t, dir, "in.nt", content)

	res, err := breaker.SplitFile(input, filepath.Join(dir, "out"), 100, breaker.WithExtension(".nt"))
	require.NoError(t, err)

	assert.Equal(t, 3, res.FilesWritten)
	assert.Equal(t, 250, res.LineCount)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []int{100, 200}, res.Plan.Breakpoints)

	sizes := make([]int, 0, len(res.Outputs))
	for _, p := range res.Outputs {
		sizes = append(sizes, countLines(t, p))
	}

	assert.Equal(t, []int{100, 100, 50}, sizes)
	assert.Equal(t, content, readAll(t, res.Outputs))
}

func TestSplitFile_SmallFileIsByteIdentical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := buildFile(100, map[int]string{1: "a", 100: "a"})
	input := writeInput(t, dir, "in.nt", content)
	base := filepath.Join(dir, "out")

	res, err := breaker.SplitFile(input, base, 100, breaker.WithExtension(".nt"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilesWritten)
	require.Equal(t, []string{base + ".nt"}, res.Outputs)

	data, err := os.ReadFile(res.Outputs[0])
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSplitFile_WholeFileSpanIsOneOversizedChunk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "in.nt", buildFile(300, map[int]string{1: "all", 300: "all"}))
	base := filepath.Join(dir, "out")

	res, err := breaker.SplitFile(input, base, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilesWritten)
	assert.Equal(t, []string{base}, res.Outputs)
	assert.Equal(t, 300, countLines(t, res.Outputs[0]))
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "size bound exceeded")
}

func TestSplitFile_DeflectedBreakpointKeepsSpanTogether(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "in.nt", buildFile(250, map[int]string{95: "mid", 105: "mid"}))

	res, err := breaker.SplitFile(input, filepath.Join(dir, "out"), 100)
	require.NoError(t, err)

	first := res.Plan.Breakpoints[0]
	assert.LessOrEqual(t, first, 94)
	assert.False(t, first >= 95 && first <= 104)
	assert.Equal(t, countLines(t, res.Outputs[0]), first)
	assertBlankNodesStayTogether(t, res.Outputs)
}

func TestSplitFile_IntegrityAcrossManySpans(t *testing.T) {
	t.Parallel()

	nodes := make(map[int]string)
	for i := 1; i <= 1000; i += 7 {
		nodes[i] = fmt.Sprintf("g%d", i/30)
	}

	dir := t.TempDir()
	content := buildFile(1000, nodes)
	input := writeInput(t, dir, "in.nt", content)

	res, err := breaker.SplitFile(input, filepath.Join(dir, "out"), 100)
	require.NoError(t, err)

	assert.Greater(t, res.FilesWritten, 5)
	assert.Equal(t, res.Plan.Chunks(), res.FilesWritten)
	assert.Equal(t, content, readAll(t, res.Outputs))
	assertBlankNodesStayTogether(t, res.Outputs)
}

func TestSplitFile_InvalidBoundBeforeIO(t *testing.T) {
	t.Parallel()

	_, err := breaker.SplitFile(filepath.Join(t.TempDir(), "absent.nt"), "unused", 0)

	require.ErrorIs(t, err, breaker.ErrInvalidBound)
	assert.NotErrorIs(t, err, breaker.ErrIO)
}

func TestSplitFile_MissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := breaker.SplitFile(filepath.Join(dir, "absent.nt"), filepath.Join(dir, "out"), 100)
	assert.ErrorIs(t, err, breaker.ErrIO)
}

func TestSplitFile_CompressionOption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "in.nt", buildFile(150, nil))

	res, err := breaker.SplitFile(input, filepath.Join(dir, "out"), 100,
		breaker.WithExtension(".nt"), breaker.WithCompression(true))
	require.NoError(t, err)

	require.Len(t, res.Outputs, 2)

	// Compressed chunks can be split again as inputs.
	again, err := breaker.SplitFile(res.Outputs[0], filepath.Join(dir, "again"), 60)
	require.NoError(t, err)
	assert.Equal(t, 100, again.LineCount)
	assert.Equal(t, 2, again.FilesWritten)
}

// assertBlankNodesStayTogether fails if any blank node appears in more than one chunk.
func assertBlankNodesStayTogether(t *testing.T, paths []string) {
	t.Helper()

	owner := make(map[string]string)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)

		for _, line := range strings.Split(string(data), "\n") {
			for _, id := range blanknode.Extract(line) {
				if prev, ok := owner[id]; ok {
					require.Equal(t, prev, p, "blank node %s split across chunks", id)
				}

				owner[id] = p
			}
		}
	}
}
