package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var (
	errChunksInstrument   = errors.New("chunks: duplicate registration")
	errDurationInstrument = errors.New("duration: bad boundaries")
)

func TestInstrumentSet_SecondsUsesFileBuckets(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	set := newInstrumentSet(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("ntbreak"))

	h := set.seconds(metricDuration, "Per-file processing time")
	require.NoError(t, set.err())

	h.Record(context.Background(), 0.2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, metricDuration, m.Name)
	assert.Equal(t, "s", m.Unit)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, durationBucketBoundaries, hist.DataPoints[0].Bounds)
}

func TestInstrumentSet_CountUnit(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	set := newInstrumentSet(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("ntbreak"))

	set.count(metricRejected, "Statements rejected by the filter", "{line}").Add(context.Background(), 4)
	require.NoError(t, set.err())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	assert.Equal(t, "{line}", rm.ScopeMetrics[0].Metrics[0].Unit)
}

func TestInstrumentSet_ReportsEveryFailure(t *testing.T) {
	t.Parallel()

	set := newInstrumentSet(nil)

	set.fail(metricChunks, errChunksInstrument)
	set.fail(metricLines, nil)
	set.fail(metricDuration, errDurationInstrument)

	err := set.err()
	require.ErrorIs(t, err, errChunksInstrument)
	require.ErrorIs(t, err, errDurationInstrument)
	assert.Contains(t, err.Error(), "create "+metricChunks)
	assert.Contains(t, err.Error(), "create "+metricDuration)
	assert.NotContains(t, err.Error(), metricLines)
}

func TestInstrumentSet_NoFailures(t *testing.T) {
	t.Parallel()

	set := newInstrumentSet(nil)
	set.fail(metricFiles, nil)

	assert.NoError(t, set.err())
}
