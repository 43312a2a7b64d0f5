package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fms/backend/internal/application/gateway"
	"github.com/fms/backend/internal/domain/freight"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/config"
	"github.com/fms/backend/internal/infrastructure/persistence"
	"github.com/fms/backend/internal/interfaces/http/dto"
	"github.com/fms/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// newResourceServer wires the resource routes to a sqlite-backed store
func newResourceServer(t *testing.T) *gin.Engine {
	t.Helper()
	engine, _ := newResourceServerWith(t)
	return engine
}

// newResourceServerWith runs extra middleware after RequestID and Actor and
// returns the database behind the store
func newResourceServerWith(t *testing.T, extra ...gin.HandlerFunc) (*gin.Engine, *persistence.Database) {
	t.Helper()

	db, err := persistence.NewDatabase(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, persistence.EnsureSchema(context.Background(), db, freight.Tables()))

	registry, err := freight.NewRegistry()
	require.NoError(t, err)

	clock := func() time.Time { return testNow }
	store := persistence.NewRecordStore(db, zaptest.NewLogger(t), persistence.WithClock(clock))
	svc := gateway.NewService(registry, store, gateway.WithClock(clock))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Actor(shared.SystemActor))
	engine.Use(extra...)
	NewResourceHandler(svc, registry).RegisterRoutes(engine.Group("/api"))
	return engine, db
}

func sqliteConfig(t *testing.T) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "fms.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 5,
	}
}

func do(engine *gin.Engine, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestResourceHandler_Lifecycle(t *testing.T) {
	engine := newResourceServer(t)

	// create
	w := do(engine, http.MethodPost, "/api/booking/sea",
		`{"pol":"KRPUS","pod":"USLAX","vesselName":"EVER GIVEN","cntr20gpQty":2}`,
		middleware.HeaderUserID, "alice")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[dto.CreatedResponse](t, w)
	assert.True(t, created.Success)
	assert.Positive(t, created.ID)
	assert.Equal(t, "SB-2026-0001", created.DocumentNumber)

	// list
	w = do(engine, http.MethodGet, "/api/booking/sea?pol=KRPUS", "")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeJSON[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "SB-2026-0001", rows[0]["bookingNo"])
	assert.Equal(t, "alice", rows[0]["createdBy"])
	assert.EqualValues(t, 2, rows[0]["cntr20gpQty"])

	w = do(engine, http.MethodGet, "/api/booking/sea?pol=JPTYO", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// read one
	target := "/api/booking/sea?id=" + jsonInt(created.ID)
	w = do(engine, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	one := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "DRAFT", one["status"])

	// update
	w = do(engine, http.MethodPut, "/api/booking/sea",
		`{"id":`+jsonInt(created.ID)+`,"status":"CONFIRMED","bookingNo":"HIJACK"}`,
		middleware.HeaderUserID, "bob")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	one = decodeJSON[map[string]any](t, do(engine, http.MethodGet, target, ""))
	assert.Equal(t, "CONFIRMED", one["status"])
	assert.Equal(t, "SB-2026-0001", one["bookingNo"])
	assert.Equal(t, "bob", one["updatedBy"])

	// delete
	w = do(engine, http.MethodDelete, "/api/booking/sea?ids="+jsonInt(created.ID)+",999", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deleted":1}`, w.Body.String())

	w = do(engine, http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, shared.CodeNotFound, decodeJSON[dto.ErrorResponse](t, w).Code)
}

func TestResourceHandler_CreateUnnumbered(t *testing.T) {
	engine := newResourceServer(t)

	w := do(engine, http.MethodPost, "/api/ports", `{"portCode":"KRPUS","portName":"Busan"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "documentNumber")

	w = do(engine, http.MethodPost, "/api/ports", `{"portCode":"KRPUS","portName":"Busan New Port"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, shared.CodeAlreadyExists, decodeJSON[dto.ErrorResponse](t, w).Code)
}

func TestResourceHandler_Errors(t *testing.T) {
	engine := newResourceServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"missing required field", http.MethodPost, "/api/booking/sea", `{"pol":"KRPUS"}`, http.StatusBadRequest, shared.CodeValidation},
		{"body is an array", http.MethodPost, "/api/booking/sea", `[1,2]`, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"body is not json", http.MethodPost, "/api/booking/sea", `pol=KRPUS`, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"trailing bytes after body", http.MethodPost, "/api/booking/sea", `{"pol":"KRPUS","pod":"USLAX"} junk`, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"two json objects", http.MethodPost, "/api/booking/sea", `{"pol":"KRPUS","pod":"USLAX"}{"pol":"JPTYO"}`, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"update without id", http.MethodPut, "/api/booking/sea", `{"status":"CONFIRMED"}`, http.StatusBadRequest, shared.CodeValidation},
		{"update unknown id", http.MethodPut, "/api/booking/sea", `{"id":404,"status":"CONFIRMED"}`, http.StatusNotFound, shared.CodeNotFound},
		{"malformed id", http.MethodGet, "/api/booking/sea?id=abc", ``, http.StatusBadRequest, shared.CodeValidation},
		{"malformed date filter", http.MethodGet, "/api/booking/sea?startDate=03/01/2026", ``, http.StatusBadRequest, shared.CodeValidation},
		{"delete without ids", http.MethodDelete, "/api/booking/sea", ``, http.StatusBadRequest, shared.CodeValidation},
		{"delete bad ids", http.MethodDelete, "/api/booking/sea?ids=1,x", ``, http.StatusBadRequest, shared.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.method, tt.target, tt.body, middleware.HeaderRequestID, "req-err")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			resp := decodeJSON[dto.ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "req-err", resp.RequestID)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestResourceHandler_TrailingWhitespaceAccepted(t *testing.T) {
	engine := newResourceServer(t)

	w := do(engine, http.MethodPost, "/api/ports", "{\"portCode\":\"KRPUS\",\"portName\":\"Busan\"}\n  \n")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestResourceHandler_SingleIDDelete(t *testing.T) {
	engine := newResourceServer(t)

	w := do(engine, http.MethodPost, "/api/ports", `{"portCode":"USLAX","portName":"Los Angeles"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJSON[dto.CreatedResponse](t, w).ID

	w = do(engine, http.MethodDelete, "/api/ports?id="+jsonInt(id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deleted":1}`, w.Body.String())
}

func TestResourceHandler_BodyTooLarge(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(func(c *gin.Context) {
		// no Content-Length, so the cap applies while reading
		c.Request.ContentLength = -1
		c.Next()
	})
	engine.Use(middleware.BodyLimit(16))
	h := &ResourceHandler{}
	engine.POST("/api/ports", func(c *gin.Context) {
		if _, ok := h.bindPayload(c); ok {
			c.Status(http.StatusOK)
		}
	})

	w := do(engine, http.MethodPost, "/api/ports", `{"portCode":"KRPUS","portName":"Busan"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeJSON[dto.ErrorResponse](t, w).Code)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
