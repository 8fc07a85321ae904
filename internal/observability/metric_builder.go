package observability

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// instrumentSet creates run instruments on one meter. Creation failures are
// collected so a caller checks them once after building every instrument.
type instrumentSet struct {
	meter metric.Meter
	errs  []error
}

func newInstrumentSet(mt metric.Meter) *instrumentSet {
	return &instrumentSet{meter: mt}
}

// count creates a monotonic counter of unit.
func (s *instrumentSet) count(name, desc, unit string) metric.Int64Counter {
	c, err := s.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	s.fail(name, err)

	return c
}

// seconds creates a duration histogram bucketed for per-file processing.
func (s *instrumentSet) seconds(name, desc string) metric.Float64Histogram {
	h, err := s.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	s.fail(name, err)

	return h
}

func (s *instrumentSet) fail(name string, err error) {
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("create %s: %w", name, err))
	}
}

// err joins every creation failure, or returns nil.
func (s *instrumentSet) err() error {
	return errors.Join(s.errs...)
}
