package breaker

import (
	"fmt"
	"slices"
	"sort"
)

// Segment is a range of lines that became one chunk.
type Segment struct {
	Chunk int
	First int
	Last  int
}

// Lines returns the number of lines in the segment.
func (s Segment) Lines() int {
	return s.Last - s.First + 1
}

// Plan is the outcome of breakpoint selection for one file.
type Plan struct {
	// Breakpoints are the lines that end each chunk except the last.
	Breakpoints []int
	// Oversized lists the chunks that had to exceed MaxLines.
	Oversized []Segment
	LineCount int
	MaxLines  int
}

// Chunks returns the number of chunks the plan produces.
func (p Plan) Chunks() int {
	return len(p.Breakpoints) + 1
}

// Warnings describes every oversized chunk.
func (p Plan) Warnings() []string {
	if len(p.Oversized) == 0 {
		return nil
	}

	warnings := make([]string, 0, len(p.Oversized))

	for _, seg := range p.Oversized {
		warnings = append(warnings, fmt.Sprintf(
			"size bound exceeded: chunk %d spans lines %d-%d (%d lines, max %d)",
			seg.Chunk, seg.First, seg.Last, seg.Lines(), p.MaxLines))
	}

	return warnings
}

// SelectBreakpoints chooses the cut lines for a file of lineCount lines so
// that no span in occ straddles a cut. Each cut is searched downward from the
// ideal position first; when the previous cut is reached without success the
// search continues upward and the resulting chunk is reported as oversized.
func SelectBreakpoints(occ *OccurrenceMap, lineCount, maxLines int) (Plan, error) {
	if maxLines <= 0 {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidBound, maxLines)
	}

	plan := Plan{LineCount: lineCount, MaxLines: maxLines}
	blocked := newOpenIntervals(occ)

	previous := 0
	target := maxLines

	for target < lineCount {
		cut, ok := blocked.below(target, previous)
		if !ok {
			cut = blocked.above(target, lineCount)
			plan.Oversized = append(plan.Oversized, Segment{
				Chunk: len(plan.Breakpoints) + 1,
				First: previous + 1,
				Last:  cut,
			})

			if cut >= lineCount {
				break
			}
		}

		plan.Breakpoints = append(plan.Breakpoints, cut)
		previous = cut
		target = cut + maxLines
	}

	return plan, nil
}

// interval is a closed range of lines after which no cut may be made.
type interval struct {
	start int
	end   int
}

// openIntervals is the merged, sorted set of lines at which some span is open.
type openIntervals []interval

func newOpenIntervals(occ *OccurrenceMap) openIntervals {
	if occ == nil {
		return nil
	}

	raw := make([]interval, 0, len(occ.spans))

	for _, s := range occ.spans {
		if s.First < s.Last {
			raw = append(raw, interval{start: s.First, end: s.Last - 1})
		}
	}

	slices.SortFunc(raw, func(a, b interval) int {
		return a.start - b.start
	})

	merged := make(openIntervals, 0, len(raw))

	for _, iv := range raw {
		last := len(merged) - 1
		if last >= 0 && iv.start <= merged[last].end+1 {
			merged[last].end = max(merged[last].end, iv.end)

			continue
		}

		merged = append(merged, iv)
	}

	return merged
}

// covering returns the interval containing line.
func (o openIntervals) covering(line int) (interval, bool) {
	i := sort.Search(len(o), func(i int) bool { return o[i].start > line }) - 1
	if i < 0 || o[i].end < line {
		return interval{}, false
	}

	return o[i], true
}

// below returns the closest eligible line in (floor, target].
func (o openIntervals) below(target, floor int) (int, bool) {
	for candidate := target; candidate > floor; {
		iv, blocked := o.covering(candidate)
		if !blocked {
			return candidate, true
		}

		candidate = iv.start - 1
	}

	return 0, false
}

// above returns the closest eligible line in (target, lineCount]. The last
// line is always eligible because no span ends after it.
func (o openIntervals) above(target, lineCount int) int {
	for candidate := target + 1; candidate < lineCount; {
		iv, blocked := o.covering(candidate)
		if !blocked {
			return candidate
		}

		candidate = iv.end + 1
	}

	return lineCount
}
