package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fms/backend/internal/application/prealert"
	"github.com/fms/backend/internal/domain/freight"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/interfaces/http/dto"
	"github.com/fms/backend/internal/interfaces/http/middleware"
)

// MockPreAlertSender is a mock implementation of PreAlertSender
type MockPreAlertSender struct {
	mock.Mock
}

func (m *MockPreAlertSender) Send(ctx context.Context, actor shared.Actor, req prealert.SendRequest) (*prealert.SendResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prealert.SendResult), args.Error(1)
}

func newPreAlertServer(sender PreAlertSender) *gin.Engine {
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Actor(shared.SystemActor))
	engine.POST("/api/pre-alert/send", NewPreAlertHandler(sender).Send)
	return engine
}

const sendBody = `{"docType":"PRE_ALERT_AIR","docNo":"180-12345675","mawbId":12,"mailTo":"agent@overseas.example","mailSubject":"Pre-alert"}`

func TestPreAlertHandler_Send(t *testing.T) {
	sender := new(MockPreAlertSender)
	engine := newPreAlertServer(sender)

	sender.On("Send", mock.Anything, shared.Actor("alice"), mock.MatchedBy(func(r prealert.SendRequest) bool {
		return r.MawbID == 12 && r.MailTo == "agent@overseas.example" && r.DocNo == "180-12345675"
	})).Return(&prealert.SendResult{LogID: 5, Status: freight.MailSent}, nil)

	w := do(engine, http.MethodPost, "/api/pre-alert/send", sendBody, middleware.HeaderUserID, "alice")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"logId":5,"status":"`+freight.MailSent+`"}`, w.Body.String())
	sender.AssertExpectations(t)
}

func TestPreAlertHandler_Send_MissingFields(t *testing.T) {
	sender := new(MockPreAlertSender)
	engine := newPreAlertServer(sender)

	w := do(engine, http.MethodPost, "/api/pre-alert/send", `{"docNo":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeJSON[dto.ValidationErrorResponse](t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Code)

	fields := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"mailTo", "mailSubject"}, fields)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreAlertHandler_Send_DeliveryFailed(t *testing.T) {
	sender := new(MockPreAlertSender)
	engine := newPreAlertServer(sender)

	sendErr := &shared.DomainError{
		Code:    shared.CodeMailDeliveryFailed,
		Message: "pre-alert mail could not be delivered",
		Kind:    shared.KindStore,
		Err:     errors.New("554 relay access denied"),
	}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&prealert.SendResult{LogID: 6, Status: freight.MailFailed}, sendErr)

	w := do(engine, http.MethodPost, "/api/pre-alert/send", sendBody, middleware.HeaderRequestID, "req-mail")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{
		"error":"pre-alert mail could not be delivered",
		"code":"MAIL_DELIVERY_FAILED",
		"requestId":"req-mail",
		"logId":6,
		"status":"`+freight.MailFailed+`"
	}`, w.Body.String())
}

func TestPreAlertHandler_Send_NotConfigured(t *testing.T) {
	sender := new(MockPreAlertSender)
	engine := newPreAlertServer(sender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrMailNotConfigured)

	w := do(engine, http.MethodPost, "/api/pre-alert/send", sendBody)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, shared.CodeMailNotConfigured, decodeJSON[dto.ErrorResponse](t, w).Code)
}

func TestPreAlertHandler_Send_LogWriteFailed(t *testing.T) {
	sender := new(MockPreAlertSender)
	engine := newPreAlertServer(sender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.NewStoreError("create pre-alert mail log", errors.New("disk full")))

	w := do(engine, http.MethodPost, "/api/pre-alert/send", sendBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeJSON[dto.ErrorResponse](t, w).Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}
