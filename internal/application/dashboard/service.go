// Package dashboard summarizes shipment activity for the landing page.
package dashboard

import (
	"context"
	"strconv"

	"github.com/fms/backend/internal/domain/freight"
	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/telemetry"
)

// RecentShipments is how many shipments the summary lists
const RecentShipments = 10

// Status groups counted by the summary and the shipment gauge
var (
	InTransitStatuses = []string{"SHIPPED", "DEPARTED", "IN_TRANSIT"}
	PendingBLStatuses = []string{"PENDING", "BOOKED"}
)

// Gauge groups reported by ShipmentCounts
const (
	GroupTotal     = "total"
	GroupInTransit = "in_transit"
	GroupPendingBL = "pending_bl"
)

// Stats holds the headline counters
type Stats struct {
	TotalShipments int64 `json:"totalShipments"`
	InTransit      int64 `json:"inTransit"`
	PendingBL      int64 `json:"pendingBL"`
}

// Summary is the dashboard payload
type Summary struct {
	Stats           Stats            `json:"stats"`
	RecentShipments []map[string]any `json:"recentShipments"`
}

// Records is the subset of the gateway the dashboard reads through
type Records interface {
	List(ctx context.Context, def *resource.Definition, filter shared.Filter) ([]map[string]any, error)
	Count(ctx context.Context, def *resource.Definition, conds ...resource.Condition) (int64, error)
}

// Service builds dashboard summaries
type Service struct {
	records Records
}

var _ telemetry.ShipmentStatsProvider = (*Service)(nil)

// NewService creates a new Service
func NewService(records Records) *Service {
	return &Service{records: records}
}

// Summary returns the counters and the most recent shipments
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "summary")
	defer span.End()

	stats, err := s.stats(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	recent, err := s.records.List(ctx, freight.Shipment, shared.Filter{
		Filters: map[string]string{resource.ParamLimit: strconv.Itoa(RecentShipments)},
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &Summary{Stats: stats, RecentShipments: recent}, nil
}

// ShipmentCounts reports the summary counters keyed by group
func (s *Service) ShipmentCounts(ctx context.Context) (map[string]int64, error) {
	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{
		GroupTotal:     stats.TotalShipments,
		GroupInTransit: stats.InTransit,
		GroupPendingBL: stats.PendingBL,
	}, nil
}

func (s *Service) stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.TotalShipments, err = s.records.Count(ctx, freight.Shipment); err != nil {
		return Stats{}, err
	}
	if st.InTransit, err = s.records.Count(ctx, freight.Shipment, statusIn(InTransitStatuses)); err != nil {
		return Stats{}, err
	}
	if st.PendingBL, err = s.records.Count(ctx, freight.Shipment, statusIn(PendingBLStatuses)); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func statusIn(statuses []string) resource.Condition {
	return resource.Condition{Column: "status", Op: resource.OpIn, Value: statuses}
}
