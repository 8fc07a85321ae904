// Package blanknode recognizes blank-node labels (`_:label`) in N-Triples statements.
//
// A statement is treated as an opaque line: the only lexical structure honored is
// enough to avoid false positives inside quoted literals, IRIs and comments.
package blanknode

// Marker is the prefix that introduces a blank-node label.
const Marker = "_:"

const (
	quote     = '"'
	backslash = '\\'
	iriOpen   = '<'
	iriClose  = '>'
	comment   = '#'
	dot       = '.'

	// utf8Self is the first byte value that belongs to a multi-byte UTF-8 sequence.
	utf8Self = 0x80
)

// Each calls fn for every blank-node token in line, in order of appearance.
// The token passed to fn includes the marker and aliases line; fn must copy
// it if it is retained. A token repeated on the line is reported each time.
func Each(line []byte, fn func(token []byte)) {
	inLiteral := false
	inIRI := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inLiteral:
			if c == backslash {
				i++

				continue
			}

			if c == quote {
				inLiteral = false
			}
		case inIRI:
			if c == iriClose {
				inIRI = false
			}
		case c == quote:
			inLiteral = true
		case c == iriOpen:
			inIRI = true
		case c == comment:
			return
		case c == Marker[0] && i+1 < len(line) && line[i+1] == Marker[1]:
			end := labelEnd(line, i+len(Marker))
			if end == i+len(Marker) {
				continue
			}

			fn(line[i:end])

			i = end - 1
		}
	}
}

// Extract returns the distinct blank-node tokens of line in first-seen order.
func Extract(line string) []string {
	var tokens []string

	seen := make(map[string]struct{})

	Each([]byte(line), func(token []byte) {
		if _, ok := seen[string(token)]; ok {
			return
		}

		id := string(token)
		seen[id] = struct{}{}
		tokens = append(tokens, id)
	})

	return tokens
}

// labelEnd returns the index just past the label that starts at start.
// Labels may contain dots but never end with one.
func labelEnd(line []byte, start int) int {
	end := start

	for end < len(line) && isLabelByte(line[end]) {
		end++
	}

	for end > start && line[end-1] == dot {
		end--
	}

	return end
}

func isLabelByte(c byte) bool {
	switch {
	case c >= utf8Self:
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == dot:
		return true
	default:
		return false
	}
}
