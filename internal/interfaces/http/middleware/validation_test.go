package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fms/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type sendBody struct {
		MailTo      string `json:"mailTo" binding:"required,email"`
		MailSubject string `json:"mailSubject" binding:"required,max=10"`
		Attempts    int    `json:"attempts" binding:"gte=0"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.POST("/send", func(c *gin.Context) {
		var req sendBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.ValidationErrorResponse) {
		req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderRequestID, "req-val")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.ValidationErrorResponse
		if w.Code != http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		}
		return w, resp
	}

	t.Run("field errors use json names", func(t *testing.T) {
		w, resp := post(`{"mailTo":"nope","mailSubject":"a subject that is too long","attempts":-1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Code)
		assert.Equal(t, "req-val", resp.RequestID)
		assert.Equal(t, "Request validation failed", resp.Error)

		byField := map[string]string{}
		for _, d := range resp.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"mailTo":      "Invalid email format",
			"mailSubject": "Must be at most 10 characters",
			"attempts":    "Must be greater than or equal to 0",
		}, byField)
	})

	t.Run("required", func(t *testing.T) {
		_, resp := post(`{}`)
		require.NotEmpty(t, resp.Details)
		assert.Equal(t, "This field is required", resp.Details[0].Message)
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		w, resp := post(`{"mailTo":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Code)
		assert.Equal(t, "Request body is not valid JSON", resp.Error)
		assert.Empty(t, resp.Details)
	})

	t.Run("valid body passes", func(t *testing.T) {
		w, _ := post(`{"mailTo":"a@b.example","mailSubject":"hi"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
