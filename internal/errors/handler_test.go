package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "source timeout",
			err:        NewTimeoutError("Tempo limite excedido ao contactar o Google Sheets.", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeSourceTimeout,
			wantDetail: "Tempo limite excedido ao contactar o Google Sheets.",
		},
		{
			name:       "transport failure",
			err:        NewTransportError("Servidor Google indisponível (Status 503)", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeSourceUnavailable,
			wantDetail: "Servidor Google indisponível (Status 503)",
		},
		{
			name:       "payload failure",
			err:        NewPayloadError("Resposta inválida do Google Sheets.", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeSourcePayload,
		},
		{
			name:       "source failure",
			err:        NewSourceError("Google Sheets: Acesso negado à planilha."),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeSourceRejected,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrTransactionNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "Inspection not found",
		},
		{
			name:       "no snapshot",
			err:        ErrNoSnapshot,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeServiceDown,
		},
		{
			name:       "not found text",
			err:        errors.New("field not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)
			rec := httptest.NewRecorder()
			rec.Header().Set("X-Request-ID", "req-1")

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/data/summary", body["instance"])
			assert.Equal(t, "req-1", body["trace_id"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	rec := httptest.NewRecorder()

	NewErrorHandler(logger, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	rec := httptest.NewRecorder()

	NewErrorHandler(logger, true).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Contains(t, rec.Body.String(), `"stack"`)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("exploded")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeInternal)
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/x").
		WithExtension("error_code", "INVALID_PARAMETER").
		WithExtension("type", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, "INVALID_PARAMETER", body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrWebSocketUpgrade)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "WEBSOCKET_UPGRADE_FAILED")
}
