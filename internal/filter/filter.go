// Package filter copies N-Triples files while dropping blank lines and
// statements that do not parse.
package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knakk/rdf"
)

const readBufferSize = 256 * 1024

// Counts tallies the lines of one filtered file.
type Counts struct {
	Good  int
	Bad   int
	Blank int
}

// ValidStatement reports whether line holds exactly one well-formed
// N-Triples statement.
func ValidStatement(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}

	dec := rdf.NewTripleDecoder(strings.NewReader(line), rdf.NTriples)

	_, err := dec.Decode()
	if err != nil {
		return false
	}

	_, err = dec.Decode()

	return errors.Is(err, io.EOF)
}

// Copy filters r into w. Good lines are written unchanged; every bad line is
// passed to reject.
func Copy(w io.Writer, r io.Reader, reject func(line string)) (Counts, error) {
	var counts Counts

	br := bufio.NewReaderSize(r, readBufferSize)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			writeErr := handleLine(w, line, &counts, reject)
			if writeErr != nil {
				return counts, writeErr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return counts, nil
			}

			return counts, fmt.Errorf("read: %w", err)
		}
	}
}

func handleLine(w io.Writer, line string, counts *Counts, reject func(line string)) error {
	switch {
	case strings.TrimSpace(line) == "":
		counts.Blank++
	case ValidStatement(line):
		counts.Good++

		_, err := io.WriteString(w, line)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
	default:
		counts.Bad++

		if reject != nil {
			reject(strings.TrimRight(line, "\r\n"))
		}
	}

	return nil
}

// File filters the file at in into a new file at out.
func File(in, out string, reject func(line string)) (Counts, error) {
	src, err := os.Open(in)
	if err != nil {
		return Counts{}, fmt.Errorf("open %s: %w", in, err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return Counts{}, fmt.Errorf("create %s: %w", out, err)
	}

	bw := bufio.NewWriter(dst)

	counts, copyErr := Copy(bw, src, reject)

	err = errors.Join(copyErr, bw.Flush(), dst.Close())
	if err != nil {
		return counts, fmt.Errorf("filter %s: %w", in, err)
	}

	return counts, nil
}
