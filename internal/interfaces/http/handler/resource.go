package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fms/backend/internal/application/gateway"
	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/interfaces/http/dto"
)

// ResourceHandler serves GET, POST, PUT and DELETE for every registered
// resource at /api/{path}
type ResourceHandler struct {
	BaseHandler
	gateway  *gateway.Service
	registry *resource.Registry
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler(gw *gateway.Service, registry *resource.Registry) *ResourceHandler {
	return &ResourceHandler{gateway: gw, registry: registry}
}

// RegisterRoutes mounts one route set per definition
func (h *ResourceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for _, def := range h.registry.All() {
		path := "/" + def.Path
		rg.GET(path, h.List(def))
		rg.POST(path, h.Create(def))
		rg.PUT(path, h.Update(def))
		rg.DELETE(path, h.Delete(def))
	}
}

// List returns the filtered records, or one record when ?id= is given
func (h *ResourceHandler) List(def *resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := c.GetQuery("id"); ok {
			h.get(c, def, raw)
			return
		}

		rows, err := h.gateway.List(c.Request.Context(), def, queryFilter(c))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, rows)
	}
}

func (h *ResourceHandler) get(c *gin.Context, def *resource.Definition, raw string) {
	id, err := resource.ParseID(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	row, err := h.gateway.Get(c.Request.Context(), def, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Create inserts the record in the body
func (h *ResourceHandler) Create(def *resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := h.bindPayload(c)
		if !ok {
			return
		}

		created, err := h.gateway.Create(c.Request.Context(), def, actor(c), payload)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, dto.CreatedResponse{
			Success:        true,
			ID:             created.ID,
			DocumentNumber: created.DocumentNumber,
			ParentID:       created.ParentID,
		})
	}
}

// Update applies the fields in the body to the record named by body.id
func (h *ResourceHandler) Update(def *resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := h.bindPayload(c)
		if !ok {
			return
		}

		if err := h.gateway.Update(c.Request.Context(), def, actor(c), payload); err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, dto.SuccessResponse{Success: true})
	}
}

// Delete removes the records in ?ids=a,b,c, or the single ?id=N
func (h *ResourceHandler) Delete(def *resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("ids")
		if raw == "" {
			raw = c.Query("id")
		}
		ids, err := resource.ParseIDs(raw)
		if err != nil {
			h.HandleError(c, err)
			return
		}

		deleted, err := h.gateway.Delete(c.Request.Context(), def, actor(c), ids)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, dto.DeletedResponse{Success: true, Deleted: deleted})
	}
}

// bindPayload decodes a JSON object body, keeping numbers as json.Number so
// integer columns do not pass through float64
func (h *ResourceHandler) bindPayload(c *gin.Context) (resource.Payload, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "request body exceeds maximum allowed size")
			return nil, false
		}
		h.BadRequest(c, "failed to read request body")
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload resource.Payload
	if err := dec.Decode(&payload); err != nil || payload == nil {
		h.BadRequest(c, "request body must be a JSON object")
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		h.BadRequest(c, "request body must contain a single JSON object")
		return nil, false
	}
	return payload, true
}

// queryFilter copies the first value of every query parameter
func queryFilter(c *gin.Context) shared.Filter {
	f := shared.DefaultFilter()
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			f.Filters[key] = values[0]
		}
	}
	return f
}
