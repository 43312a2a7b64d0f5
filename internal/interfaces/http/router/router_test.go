package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fms/backend/internal/interfaces/http/dto"
	"github.com/fms/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.apiPrefix)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.root)
}

func TestRouterWithAPIPrefix(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIPrefix("/api/v2"))
	assert.Equal(t, "/api/v2", r.apiPrefix)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("booking", "/booking")
	group.GET("/sea", func(c *gin.Context) {
		c.String(http.StatusOK, "sea")
	})
	r.Register(group)
	r.RegisterRoot(RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	}))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/booking/sea")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sea", w.Body.String())

	w = serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterSetup_Fallbacks(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := NewRouter(engine)
	r.Register(NewDomainGroup("ports", "/ports").GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	}))
	r.Setup()

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/booking/air", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-404")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeRouteNotFound, resp.Code)
		assert.Equal(t, "req-404", resp.RequestID)
		assert.Contains(t, resp.Error, "/api/booking/air")
	})

	t.Run("wrong method", func(t *testing.T) {
		w := serve(engine, http.MethodPatch, "/api/ports")

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Code)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("booking", "/booking")
		assert.Equal(t, "booking", g.Name())
		assert.Equal(t, "/booking", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("ports", "/ports")
		reply := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("", reply).POST("", reply).PUT("", reply).DELETE("", reply)
		g.RegisterRoutes(engine.Group("/api"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := serve(engine, method, "/api/ports")
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("dashboard", "/dashboard")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "dashboard")
			c.Next()
		})
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodGet, "/api/dashboard")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dashboard", w.Header().Get("X-Group"))
	})

	t.Run("nests subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pre-alert", "/pre-alert")
		g.Group("send", "/send").POST("", func(c *gin.Context) { c.Status(http.StatusAccepted) })
		g.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodPost, "/api/pre-alert/send")
		assert.Equal(t, http.StatusAccepted, w.Code)
	})
}
