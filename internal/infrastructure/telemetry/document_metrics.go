package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Allocation outcomes
const (
	OutcomeAllocated = "allocated"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// DocumentMetrics tracks record creation and document number allocation.
// A nil *DocumentMetrics is valid and records nothing.
type DocumentMetrics struct {
	logger *zap.Logger

	createdTotal       *Counter
	allocationAttempts *Histogram
	allocationDuration *Histogram
	allocationTotal    *Counter
	preAlertTotal      *Counter
	shipments          *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// ShipmentStatsProvider reports shipment counts keyed by status group for
// the periodic gauge.
type ShipmentStatsProvider interface {
	ShipmentCounts(ctx context.Context) (map[string]int64, error)
}

// NewDocumentMetrics creates the document instruments on meter.
func NewDocumentMetrics(meter metric.Meter, logger *zap.Logger) (*DocumentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dm := &DocumentMetrics{logger: logger, stopCh: make(chan struct{})}
	var err error
	if dm.createdTotal, err = NewCounter(meter, "fms_document_created_total", "Records created through the gateway", "{records}"); err != nil {
		return nil, err
	}
	if dm.allocationAttempts, err = NewHistogram(meter, HistogramOpts{
		Name:        "fms_document_allocation_attempts",
		Description: "Attempts needed to allocate a document number",
		Unit:        "{attempts}",
		Boundaries:  []float64{1, 2, 3, 5, 8},
	}); err != nil {
		return nil, err
	}
	if dm.allocationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "fms_document_allocation_duration_seconds",
		Description: "Time spent allocating a document number and inserting the record",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if dm.allocationTotal, err = NewCounter(meter, "fms_document_allocation_total", "Allocations by outcome", "{allocations}"); err != nil {
		return nil, err
	}
	if dm.preAlertTotal, err = NewCounter(meter, "fms_pre_alert_mail_total", "Pre-alert mails by delivery status", "{mails}"); err != nil {
		return nil, err
	}
	if dm.shipments, err = NewGauge(meter, "fms_shipments", "Shipments by status group", "{shipments}"); err != nil {
		return nil, err
	}
	return dm, nil
}

// RecordCreated counts one created record.
func (dm *DocumentMetrics) RecordCreated(ctx context.Context, resource string) {
	if dm == nil {
		return
	}
	dm.createdTotal.Inc(ctx, AttrResource.String(resource))
}

// RecordAllocation records one allocation run for prefix.
func (dm *DocumentMetrics) RecordAllocation(ctx context.Context, prefix string, attempts int, outcome string, elapsed time.Duration) {
	if dm == nil {
		return
	}
	dm.allocationTotal.Inc(ctx, AttrPrefix.String(prefix), AttrOutcome.String(outcome))
	dm.allocationAttempts.Record(ctx, float64(attempts), AttrPrefix.String(prefix))
	dm.allocationDuration.RecordDuration(ctx, elapsed, AttrPrefix.String(prefix), AttrOutcome.String(outcome))
}

// RecordPreAlert counts one pre-alert delivery.
func (dm *DocumentMetrics) RecordPreAlert(ctx context.Context, status string) {
	if dm == nil {
		return
	}
	dm.preAlertTotal.Inc(ctx, AttrMailStatus.String(status))
}

// StartPeriodicCollection records shipment gauges every interval until Stop
// or ctx is done. It is non-blocking and runs at most once.
func (dm *DocumentMetrics) StartPeriodicCollection(ctx context.Context, provider ShipmentStatsProvider, interval time.Duration) {
	if dm == nil || provider == nil {
		return
	}
	dm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go dm.runPeriodicCollection(ctx, provider, interval)
	})
}

func (dm *DocumentMetrics) runPeriodicCollection(ctx context.Context, provider ShipmentStatsProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dm.collect(ctx, provider)
	for {
		select {
		case <-dm.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			dm.collect(ctx, provider)
		}
	}
}

func (dm *DocumentMetrics) collect(ctx context.Context, provider ShipmentStatsProvider) {
	counts, err := provider.ShipmentCounts(ctx)
	if err != nil {
		dm.logger.Warn("Failed to collect shipment metrics", zap.Error(err))
		return
	}
	for group, n := range counts {
		dm.shipments.Record(ctx, n, AttrStatusGroup.String(group))
	}
}

// Stop ends periodic collection. It is safe to call more than once.
func (dm *DocumentMetrics) Stop() {
	if dm == nil {
		return
	}
	dm.stopOnce.Do(func() { close(dm.stopCh) })
}
