package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	err := NewConflictError(CodeDocumentNumberConflict, "SB-2026 sequence exhausted")
	assert.ErrorIs(t, err, ErrDocumentNumberConflict)
	assert.ErrorIs(t, fmt.Errorf("create: %w", err), ErrDocumentNumberConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("insert sea booking", cause)

	assert.Equal(t, "insert sea booking failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sea booking 7 not found", NewNotFoundError("sea booking", 7).Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"validation", NewValidationError("pol is required"), KindValidation},
		{"wrapped not found", fmt.Errorf("get: %w", NewNotFoundError("port", 1)), KindNotFound},
		{"conflict", ErrDocumentNumberConflict, KindConflict},
		{"store", NewStoreError("list", errors.New("boom")), KindStore},
		{"plain", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}

	assert.True(t, IsValidation(NewValidationErrorf("%s must be a date", "etd")))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsConflict(NewConflictError(CodeAlreadyExists, "duplicate")))
	assert.True(t, IsStore(NewStoreError("count", nil)))
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}

func TestNewActor(t *testing.T) {
	a, err := NewActor("  alice ")
	require.NoError(t, err)
	assert.Equal(t, Actor("alice"), a)

	_, err = NewActor("   ")
	assert.True(t, IsValidation(err))

	_, err = NewActor(strings.Repeat("x", MaxActorLength+1))
	assert.True(t, IsValidation(err))
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), "bob")
	a, ok := ActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "bob", a.String())

	_, ok = ActorFromContext(WithActor(context.Background(), ""))
	assert.False(t, ok)
}

func TestFilterGet(t *testing.T) {
	f := DefaultFilter()
	f.Filters["pol"] = "KRPUS"
	f.Filters["pod"] = ""

	v, ok := f.Get("pol")
	assert.True(t, ok)
	assert.Equal(t, "KRPUS", v)

	_, ok = f.Get("pod")
	assert.False(t, ok)

	_, ok = Filter{}.Get("pol")
	assert.False(t, ok)
}
