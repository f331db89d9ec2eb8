package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricObjectsTotal    = "gitbloat.scan.objects"
	metricUnreadableTotal = "gitbloat.scan.unreadable"
	metricBlobBytes       = "gitbloat.scan.blob.bytes"
	metricLargestBlob     = "gitbloat.scan.largest.blob.bytes"
	metricScanDuration    = "gitbloat.scan.duration"

	attrKind = "kind"
)

// durationBucketBoundaries covers 10ms to 30min; a full pass over a large
// monorepo's packs can take many minutes.
var durationBucketBoundaries = []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800}

// ScanMetrics holds OTel instruments describing object database scans.
type ScanMetrics struct {
	objects     metric.Int64Counter
	unreadable  metric.Int64Counter
	blobBytes   metric.Int64Counter
	largestBlob metric.Int64Gauge
	duration    metric.Float64Histogram
}

// NewScanMetrics creates scan instruments from the given meter.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	b := newMetricBuilder(mt)

	sm := &ScanMetrics{
		objects:     b.counter(metricObjectsTotal, "Objects visited by kind", "{object}"),
		unreadable:  b.counter(metricUnreadableTotal, "Objects that could not be read", "{object}"),
		blobBytes:   b.counter(metricBlobBytes, "Total payload bytes of blob objects", "By"),
		largestBlob: b.gauge(metricLargestBlob, "Size of the largest ranked blob", "By"),
		duration:    b.histogram(metricScanDuration, "Full scan duration", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return sm, nil
}

// RecordObject counts one visited object of the given kind.
// Safe to call on a nil receiver (no-op).
func (sm *ScanMetrics) RecordObject(ctx context.Context, kind string) {
	if sm == nil {
		return
	}

	sm.objects.Add(ctx, 1, metric.WithAttributes(attribute.String(attrKind, kind)))
}

// RecordUnreadable counts one object skipped after a failed read.
func (sm *ScanMetrics) RecordUnreadable(ctx context.Context) {
	if sm == nil {
		return
	}

	sm.unreadable.Add(ctx, 1)
}

// RecordBlobBytes adds a blob payload length.
func (sm *ScanMetrics) RecordBlobBytes(ctx context.Context, n int64) {
	if sm == nil {
		return
	}

	sm.blobBytes.Add(ctx, n)
}

// RecordScan records a completed scan and the size of its largest ranked blob.
func (sm *ScanMetrics) RecordScan(ctx context.Context, duration time.Duration, largest int64) {
	if sm == nil {
		return
	}

	sm.duration.Record(ctx, duration.Seconds())
	sm.largestBlob.Record(ctx, largest)
}
