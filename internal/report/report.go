// Package report writes the timestamped run report and renders run summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TimestampLayout prefixes every logged report line.
const TimestampLayout = "2006-01-02 15:04:05"

// Report is a run report file. Every logged line is also echoed to an
// optional writer. Report is safe for concurrent use.
type Report struct {
	mu   sync.Mutex
	file *os.File
	echo io.Writer
	now  func() time.Time
}

// Open creates (or truncates) the report file at path.
func Open(path string, echo io.Writer) (*Report, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	return &Report{file: f, echo: echo, now: time.Now}, nil
}

// SetClock replaces the time source used for timestamps.
func (r *Report) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.now = now
}

// Logf writes a timestamped line to the report and the echo writer.
func (r *Report) Logf(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := r.now().Format(TimestampLayout) + " " + fmt.Sprintf(format, args...) + "\n"

	return r.write(line, true)
}

// Printf writes an untimestamped line to the report only.
func (r *Report) Printf(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(fmt.Sprintf(format, args...)+"\n", false)
}

func (r *Report) write(line string, echo bool) error {
	_, err := io.WriteString(r.file, line)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if echo && r.echo != nil {
		_, err = io.WriteString(r.echo, line)
		if err != nil {
			return fmt.Errorf("echo report: %w", err)
		}
	}

	return nil
}

// Close closes the report file.
func (r *Report) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.file.Close()
	if err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	return nil
}
