package breaker_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ntbreak/internal/breaker"
)

func spans(pairs ...[2]int) *breaker.OccurrenceMap {
	occ := breaker.NewOccurrenceMap()

	for i, p := range pairs {
		id := fmt.Sprintf("_:n%d", i)
		occ.Observe(id, p[0])
		occ.Observe(id, p[1])
	}

	return occ
}

func TestSelectBreakpoints_NoSpansCutsOnBound(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(breaker.NewOccurrenceMap(), 250, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 200}, plan.Breakpoints)
	assert.Equal(t, 3, plan.Chunks())
	assert.Empty(t, plan.Oversized)
	assert.Empty(t, plan.Warnings())
}

func TestSelectBreakpoints_FitsInOneChunk(t *testing.T) {
	t.Parallel()

	for _, lines := range []int{0, 1, 99, 100} {
		plan, err := breaker.SelectBreakpoints(breaker.NewOccurrenceMap(), lines, 100)
		require.NoError(t, err)

		assert.Empty(t, plan.Breakpoints, "lines=%d", lines)
		assert.Equal(t, 1, plan.Chunks())
	}
}

func TestSelectBreakpoints_ExactMultipleLeavesNoEmptyChunk(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(breaker.NewOccurrenceMap(), 300, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 200}, plan.Breakpoints)
}

func TestSelectBreakpoints_WholeFileSpanForcesOneChunk(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(spans([2]int{1, 300}), 300, 100)
	require.NoError(t, err)

	assert.Empty(t, plan.Breakpoints)
	require.Len(t, plan.Oversized, 1)
	assert.Equal(t, breaker.Segment{Chunk: 1, First: 1, Last: 300}, plan.Oversized[0])
	assert.Equal(t, 300, plan.Oversized[0].Lines())

	warnings := plan.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "lines 1-300")
	assert.Contains(t, warnings[0], "max 100")
}

func TestSelectBreakpoints_DeflectsBelowOpenSpan(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(spans([2]int{95, 105}), 250, 100)
	require.NoError(t, err)

	require.NotEmpty(t, plan.Breakpoints)

	first := plan.Breakpoints[0]
	assert.LessOrEqual(t, first, 94)
	assert.Equal(t, 94, first)
	assert.Equal(t, []int{94, 194}, plan.Breakpoints)
	assert.Empty(t, plan.Oversized)
}

func TestSelectBreakpoints_SpanEndingOnTargetIsEligible(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(spans([2]int{50, 100}), 250, 100)
	require.NoError(t, err)

	assert.Equal(t, 100, plan.Breakpoints[0])
}

func TestSelectBreakpoints_UpwardFallbackReportsOversized(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(spans([2]int{1, 150}), 250, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{150}, plan.Breakpoints)
	require.Len(t, plan.Oversized, 1)
	assert.Equal(t, breaker.Segment{Chunk: 1, First: 1, Last: 150}, plan.Oversized[0])
}

func TestSelectBreakpoints_DownwardSearchStopsAtPreviousCut(t *testing.T) {
	t.Parallel()

	// The second cut cannot go below 100 even though line 100 itself is free.
	plan, err := breaker.SelectBreakpoints(spans([2]int{101, 230}), 400, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 230, 330}, plan.Breakpoints)
	require.Len(t, plan.Oversized, 1)
	assert.Equal(t, breaker.Segment{Chunk: 2, First: 101, Last: 230}, plan.Oversized[0])
}

func TestSelectBreakpoints_OverlappingSpansMerge(t *testing.T) {
	t.Parallel()

	occ := spans([2]int{80, 95}, [2]int{90, 120}, [2]int{120, 130}, [2]int{10, 20})

	plan, err := breaker.SelectBreakpoints(occ, 250, 100)
	require.NoError(t, err)

	assert.Equal(t, 79, plan.Breakpoints[0])
}

func TestSelectBreakpoints_InvalidBound(t *testing.T) {
	t.Parallel()

	for _, bound := range []int{0, -1} {
		_, err := breaker.SelectBreakpoints(breaker.NewOccurrenceMap(), 10, bound)
		assert.ErrorIs(t, err, breaker.ErrInvalidBound)
	}
}

func TestSelectBreakpoints_NilMapHasNoSpans(t *testing.T) {
	t.Parallel()

	plan, err := breaker.SelectBreakpoints(nil, 250, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 200}, plan.Breakpoints)
}

// TestSelectBreakpoints_RandomSpansKeepInvariants checks, over random inputs,
// that every cut is eligible, cuts increase strictly, and only reported
// chunks exceed the bound.
func TestSelectBreakpoints_RandomSpansKeepInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for round := range 200 {
		lineCount := 1 + rng.Intn(2000)
		maxLines := 1 + rng.Intn(300)
		occ := breaker.NewOccurrenceMap()

		for n := range rng.Intn(40) {
			first := 1 + rng.Intn(lineCount)
			last := first + rng.Intn(min(lineCount-first+1, 1+rng.Intn(400)))
			id := fmt.Sprintf("_:r%d", n)

			occ.Observe(id, first)
			occ.Observe(id, last)
		}

		plan, err := breaker.SelectBreakpoints(occ, lineCount, maxLines)
		require.NoError(t, err)

		oversized := make(map[int]bool, len(plan.Oversized))
		for _, seg := range plan.Oversized {
			oversized[seg.Chunk] = true
		}

		previous := 0

		for i, bp := range append(append([]int{}, plan.Breakpoints...), lineCount) {
			if i < len(plan.Breakpoints) {
				require.True(t, occ.Eligible(bp), "round %d: cut %d is not eligible", round, bp)
				require.Greater(t, bp, previous, "round %d", round)
				require.Less(t, bp, lineCount, "round %d", round)
			}

			if size := bp - previous; size > maxLines {
				require.True(t, oversized[i+1], "round %d: chunk %d has %d lines, max %d", round, i+1, size, maxLines)
			}

			previous = bp
		}
	}
}
