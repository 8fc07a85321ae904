// Package breaker splits N-Triples files into size-bounded chunks without
// separating the occurrences of any blank node.
//
// Splitting happens in two passes over the input: [Scan] indexes the first
// and last line of every blank node, [SelectBreakpoints] chooses the cut
// lines, and [WriteChunks] streams the input into the chunk files.
// [SplitFile] runs the three steps for one file.
package breaker

import (
	"io"

	"github.com/Sumatoshi-tech/ntbreak/internal/blanknode"
)

// Span is the first and last 1-based line on which a blank node appears.
type Span struct {
	First int
	Last  int
}

// Straddles reports whether a cut after line would separate the span.
func (s Span) Straddles(line int) bool {
	return s.First <= line && line < s.Last
}

// OccurrenceMap maps blank-node identifiers to their occurrence spans.
type OccurrenceMap struct {
	index map[string]int
	spans []Span
}

// NewOccurrenceMap returns an empty map.
func NewOccurrenceMap() *OccurrenceMap {
	return &OccurrenceMap{index: make(map[string]int)}
}

// Observe records that id appears on line. Lines must be observed in
// non-decreasing order.
func (m *OccurrenceMap) Observe(id string, line int) {
	m.observe([]byte(id), line)
}

func (m *OccurrenceMap) observe(id []byte, line int) {
	if i, ok := m.index[string(id)]; ok {
		m.spans[i].Last = line

		return
	}

	m.index[string(id)] = len(m.spans)
	m.spans = append(m.spans, Span{First: line, Last: line})
}

// Len returns the number of distinct identifiers.
func (m *OccurrenceMap) Len() int {
	return len(m.spans)
}

// Span returns the span of id.
func (m *OccurrenceMap) Span(id string) (Span, bool) {
	i, ok := m.index[id]
	if !ok {
		return Span{}, false
	}

	return m.spans[i], true
}

// Each calls fn for every identifier and its span, in no particular order.
func (m *OccurrenceMap) Each(fn func(id string, span Span)) {
	for id, i := range m.index {
		fn(id, m.spans[i])
	}
}

// Eligible reports whether a cut after line leaves every span on one side.
// It checks each span in turn; [SelectBreakpoints] uses a merged index instead.
func (m *OccurrenceMap) Eligible(line int) bool {
	for _, s := range m.spans {
		if s.Straddles(line) {
			return false
		}
	}

	return true
}

// Scan reads r once and returns the occurrence map and the number of lines.
// path is only used to label read errors.
func Scan(r io.Reader, path string) (*OccurrenceMap, int, error) {
	occ := NewOccurrenceMap()
	lineCount := 0

	err := eachLine(r, path, func(line []byte) error {
		lineCount++

		blanknode.Each(line, func(token []byte) {
			occ.observe(token, lineCount)
		})

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return occ, lineCount, nil
}

// ScanFile runs [Scan] over the file at path.
func ScanFile(path string) (*OccurrenceMap, int, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	return Scan(src, path)
}
