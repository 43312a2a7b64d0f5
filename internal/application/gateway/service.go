// Package gateway exposes every catalogued resource through one set of
// create, list, read, update and delete operations driven by the resource
// definitions.
package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/infrastructure/telemetry"
)

// DefaultMaxListRows caps list results when a definition has no cap of its own
const DefaultMaxListRows = 1000

// CreateResult is returned by Create
type CreateResult struct {
	ID             int64  `json:"id"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	ParentID       int64  `json:"parentId,omitempty"`
}

// Service handles resource operations
type Service struct {
	registry    *resource.Registry
	store       resource.Store
	maxListRows int
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithMaxListRows sets the default list cap
func WithMaxListRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxListRows = n
		}
	}
}

// WithClock overrides the clock used for date defaults
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service
func NewService(registry *resource.Registry, store resource.Store, opts ...Option) *Service {
	s := &Service{
		registry:    registry,
		store:       store,
		maxListRows: DefaultMaxListRows,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resource looks up the definition mounted at path
func (s *Service) Resource(path string) (*resource.Definition, error) {
	def, ok := s.registry.Lookup(path)
	if !ok {
		return nil, shared.NewNotFoundError("resource", path)
	}
	return def, nil
}

// Create decodes payload and inserts one record, allocating its document
// number and provisioning its parent when needed
func (s *Service) Create(ctx context.Context, def *resource.Definition, actor shared.Actor, payload resource.Payload) (*CreateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gateway", "create",
		telemetry.SpanAttrResource, def.Path,
		telemetry.SpanAttrActor, actor.String())
	defer span.End()

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	rec, err := def.DecodeCreate(payload, s.now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, def, rec, actor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRecordID, created.ID,
		telemetry.SpanAttrDocumentNumber, created.DocumentNumber)
	logger.L(ctx).Info("record created",
		zap.String("resource", def.Path),
		zap.Int64("id", created.ID),
		zap.String("document_number", created.DocumentNumber),
		zap.Int64("parent_id", created.ParentID))

	return &CreateResult{
		ID:             created.ID,
		DocumentNumber: created.DocumentNumber,
		ParentID:       created.ParentID,
	}, nil
}

// List returns the presented rows matching filter
func (s *Service) List(ctx context.Context, def *resource.Definition, filter shared.Filter) ([]map[string]any, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gateway", "list", telemetry.SpanAttrResource, def.Path)
	defer span.End()

	q, err := def.BuildQuery(filter, s.maxListRows)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.List(ctx, def, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = def.Present(row)
	}
	return out, nil
}

// Get returns one presented record
func (s *Service) Get(ctx context.Context, def *resource.Definition, id int64) (map[string]any, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gateway", "get",
		telemetry.SpanAttrResource, def.Path,
		telemetry.SpanAttrRecordID, id)
	defer span.End()

	row, err := s.store.Get(ctx, def, id)
	if err != nil {
		if !shared.IsNotFound(err) {
			telemetry.RecordError(span, err)
		}
		return nil, err
	}
	return def.Present(row), nil
}

// Update applies the mapped keys of payload to the record named by its
// "id" key. Unknown keys are ignored.
func (s *Service) Update(ctx context.Context, def *resource.Definition, actor shared.Actor, payload resource.Payload) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "gateway", "update",
		telemetry.SpanAttrResource, def.Path,
		telemetry.SpanAttrActor, actor.String())
	defer span.End()

	if err := requireActor(actor); err != nil {
		return err
	}

	id, err := resource.ParseID(payload["id"])
	if err != nil {
		return err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRecordID, id)

	if len(payload) < 2 {
		return shared.NewValidationError("no fields to update")
	}

	rec, err := def.DecodeUpdate(payload)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, def, id, rec, actor); err != nil {
		if !shared.IsNotFound(err) {
			telemetry.RecordError(span, err)
		}
		return err
	}

	if len(rec) == 0 {
		logger.L(ctx).Debug("update carried no mapped fields",
			zap.String("resource", def.Path), zap.Int64("id", id))
		return nil
	}
	logger.L(ctx).Info("record updated",
		zap.String("resource", def.Path),
		zap.Int64("id", id),
		zap.Int("columns", len(rec)))
	return nil
}

// Delete removes or flags ids and returns how many records were affected
func (s *Service) Delete(ctx context.Context, def *resource.Definition, actor shared.Actor, ids []int64) (int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gateway", "delete",
		telemetry.SpanAttrResource, def.Path,
		telemetry.SpanAttrActor, actor.String())
	defer span.End()

	if err := requireActor(actor); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, shared.NewValidationError("ids is required")
	}

	n, err := s.store.Delete(ctx, def, ids, actor)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	logger.L(ctx).Info("records deleted",
		zap.String("resource", def.Path),
		zap.Int64s("ids", ids),
		zap.Int64("deleted", n),
		zap.Bool("soft", def.SoftDeletes()))
	return n, nil
}

// Count returns the number of live records matching conds
func (s *Service) Count(ctx context.Context, def *resource.Definition, conds ...resource.Condition) (int64, error) {
	return s.store.Count(ctx, def, conds)
}

func requireActor(actor shared.Actor) error {
	if actor.IsZero() {
		return shared.NewValidationError("actor is required")
	}
	return nil
}
