package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFiles     = "ntbreak.files.total"
	metricChunks    = "ntbreak.chunks.total"
	metricLines     = "ntbreak.lines.total"
	metricOversized = "ntbreak.oversized.total"
	metricRejected  = "ntbreak.rejected.total"
	metricDuration  = "ntbreak.file.duration.seconds"

	attrCommand = "command"
)

// durationBucketBoundaries covers per-file processing from milliseconds to minutes.
var durationBucketBoundaries = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300}

// RunMetrics records per-file outcomes of the break and filter commands.
// A nil *RunMetrics is valid and records nothing.
type RunMetrics struct {
	files     metric.Int64Counter
	chunks    metric.Int64Counter
	lines     metric.Int64Counter
	oversized metric.Int64Counter
	rejected  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on mt.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	set := newInstrumentSet(mt)

	m := &RunMetrics{
		files:     set.count(metricFiles, "Input files processed", "{file}"),
		chunks:    set.count(metricChunks, "Output chunk files written", "{file}"),
		lines:     set.count(metricLines, "Input lines processed", "{line}"),
		oversized: set.count(metricOversized, "Chunks exceeding the size bound", "{chunk}"),
		rejected:  set.count(metricRejected, "Statements rejected by the filter", "{line}"),
		duration:  set.seconds(metricDuration, "Per-file processing time"),
	}

	err := set.err()
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSplit records one split input file.
func (m *RunMetrics) RecordSplit(ctx context.Context, chunks, lines, oversized int, took time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrCommand, string(ModeBreak)))

	m.files.Add(ctx, 1, attrs)
	m.chunks.Add(ctx, int64(chunks), attrs)
	m.lines.Add(ctx, int64(lines), attrs)
	m.oversized.Add(ctx, int64(oversized), attrs)
	m.duration.Record(ctx, took.Seconds(), attrs)
}

// RecordFilter records one filtered input file.
func (m *RunMetrics) RecordFilter(ctx context.Context, good, bad, blank int, took time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrCommand, string(ModeFilter)))

	m.files.Add(ctx, 1, attrs)
	m.lines.Add(ctx, int64(good+bad+blank), attrs)
	m.rejected.Add(ctx, int64(bad), attrs)
	m.duration.Record(ctx, took.Seconds(), attrs)
}
