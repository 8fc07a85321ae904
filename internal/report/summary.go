package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Summary output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat indicates an unsupported summary format.
var ErrUnknownFormat = errors.New("unknown summary format")

// Formats lists the supported summary formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// ValidateFormat reports whether format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats(), format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}

	return nil
}

// FileWarning is a size warning raised while splitting one file.
type FileWarning struct {
	File    string `json:"file"    yaml:"file"`
	Message string `json:"message" yaml:"message"`
}

// BreakSummary totals a break run.
type BreakSummary struct {
	Files     int           `json:"files"     yaml:"files"`
	Chunks    int           `json:"chunks"    yaml:"chunks"`
	Lines     int64         `json:"lines"     yaml:"lines"`
	Oversized int           `json:"oversized" yaml:"oversized"`
	Warnings  []FileWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Add accumulates the outcome of one file.
func (s *BreakSummary) Add(file string, chunks, lines int, warnings []string) {
	s.Files++
	s.Chunks += chunks
	s.Lines += int64(lines)
	s.Oversized += len(warnings)

	for _, w := range warnings {
		s.Warnings = append(s.Warnings, FileWarning{File: file, Message: w})
	}
}

// Closing is the last report line of a break run.
func (s *BreakSummary) Closing() string {
	return fmt.Sprintf(">>>>>>> %d files became %d files.", s.Files, s.Chunks)
}

// FilterSummary totals a filter run.
type FilterSummary struct {
	Files    int   `json:"files"     yaml:"files"`
	BadFiles int   `json:"bad_files" yaml:"bad_files"`
	Good     int64 `json:"good"      yaml:"good"`
	Bad      int64 `json:"bad"       yaml:"bad"`
	Blank    int64 `json:"blank"     yaml:"blank"`
}

// Add accumulates the counts of one file.
func (s *FilterSummary) Add(good, bad, blank int) {
	s.Files++
	s.Good += int64(good)
	s.Bad += int64(bad)
	s.Blank += int64(blank)

	if bad > 0 || blank > 0 {
		s.BadFiles++
	}
}

// Lines returns the closing report lines of a filter run.
func (s *FilterSummary) Lines() []string {
	return []string{
		fmt.Sprintf("Processed %d good triples in %d files.", s.Good, s.Files),
		fmt.Sprintf("Found %d bad triples and %d blank lines in %d files.", s.Bad, s.Blank, s.BadFiles),
	}
}

// RenderBreak writes the break summary to w in the given format. Warnings
// are ordered by file first.
func RenderBreak(w io.Writer, format string, s *BreakSummary) error {
	slices.SortStableFunc(s.Warnings, func(a, b FileWarning) int {
		return strings.Compare(a.File, b.File)
	})

	switch format {
	case FormatJSON:
		return encodeJSON(w, s)
	case FormatYAML:
		return encodeYAML(w, s)
	case FormatText:
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Files", "Chunks", "Lines", "Oversized"})
		tw.AppendRow(table.Row{
			humanize.Comma(int64(s.Files)),
			humanize.Comma(int64(s.Chunks)),
			humanize.Comma(s.Lines),
			humanize.Comma(int64(s.Oversized)),
		})
		tw.Render()

		warn := color.New(color.FgYellow)
		for _, fw := range s.Warnings {
			_, err := warn.Fprintf(w, "warning: %s: %s\n", fw.File, fw.Message)
			if err != nil {
				return fmt.Errorf("render warnings: %w", err)
			}
		}

		return nil
	default:
		return ValidateFormat(format)
	}
}

// RenderFilter writes the filter summary to w in the given format.
func RenderFilter(w io.Writer, format string, s *FilterSummary) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, s)
	case FormatYAML:
		return encodeYAML(w, s)
	case FormatText:
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Files", "Good", "Bad", "Blank", "Files with problems"})
		tw.AppendRow(table.Row{
			humanize.Comma(int64(s.Files)),
			humanize.Comma(s.Good),
			humanize.Comma(s.Bad),
			humanize.Comma(s.Blank),
			humanize.Comma(int64(s.BadFiles)),
		})
		tw.Render()

		return nil
	default:
		return ValidateFormat(format)
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	return tw
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("yaml close: %w", err)
	}

	return nil
}
