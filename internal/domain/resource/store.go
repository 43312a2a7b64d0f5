package resource

import (
	"context"

	"github.com/fms/backend/internal/domain/shared"
)

// Condition is one list predicate on the resource table
type Condition struct {
	Column string
	Op     FilterOp
	Value  any
}

// Query is a compiled list request
type Query struct {
	Conditions []Condition
	// Search is matched with LIKE against the number and search columns
	Search string
	Limit  int
}

// Created reports the keys of a newly inserted record
type Created struct {
	ID             int64
	DocumentNumber string
	// ParentID is set when a parent record was provisioned for the child
	ParentID int64
}

// Store persists records described by a Definition.
// Implementations exclude soft-deleted rows from every read and apply the
// definition's fixed columns as constraints.
type Store interface {
	// Create provisions the parent (if needed), allocates the document number
	// and inserts the record in one transaction
	Create(ctx context.Context, def *Definition, rec Record, actor shared.Actor) (Created, error)

	// List returns enriched rows in the definition's order
	List(ctx context.Context, def *Definition, q Query) ([]map[string]any, error)

	// Get returns one enriched row or a not-found error
	Get(ctx context.Context, def *Definition, id int64) (map[string]any, error)

	// Update writes rec and the audit stamp. An empty rec only checks existence.
	Update(ctx context.Context, def *Definition, id int64, rec Record, actor shared.Actor) error

	// Delete removes or flags the given ids and returns how many were affected
	Delete(ctx context.Context, def *Definition, ids []int64, actor shared.Actor) (int64, error)

	// Count returns the number of live rows matching conds
	Count(ctx context.Context, def *Definition, conds []Condition) (int64, error)
}
