package shared

import (
	"context"
	"strings"
)

// Actor identifies who performed a write. It is stamped into the audit
// columns of every record the gateway touches.
type Actor string

// SystemActor is used when no caller identity is available
const SystemActor Actor = "system"

// MaxActorLength matches the width of the audit columns
const MaxActorLength = 50

// NewActor trims and validates a caller identity
func NewActor(id string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", NewValidationError("actor is required")
	}
	if len(id) > MaxActorLength {
		return "", NewValidationErrorf("actor must be at most %d characters", MaxActorLength)
	}
	return Actor(id), nil
}

// String returns the identity
func (a Actor) String() string {
	return string(a)
}

// IsZero reports whether the actor is empty
func (a Actor) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

type actorKey struct{}

// WithActor stores the actor in ctx
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, if any
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok && !a.IsZero()
}
