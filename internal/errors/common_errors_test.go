package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewTransportError("Servidor Google indisponível", cause)

	assert.Equal(t, ErrTypeTransport, err.Type)
	assert.Equal(t, "[TRANSPORT] Servidor Google indisponível: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewSourceError("Acesso negado à planilha.")
	assert.Equal(t, "[SOURCE] Acesso negado à planilha.", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestAppErrorWithContext(t *testing.T) {
	err := (&AppError{Type: ErrTypePayload, Message: "bad"}).WithContext("status", 200)
	assert.Equal(t, 200, err.Context["status"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"timeout", NewTimeoutError("slow", context.DeadlineExceeded), ErrTypeTimeout},
		{"wrapped payload", fmt.Errorf("fetch: %w", NewPayloadError("bad", nil)), ErrTypePayload},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Tempo limite excedido", UserMessage(fmt.Errorf("x: %w", NewTimeoutError("Tempo limite excedido", nil))))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

func TestIsIngestionFailure(t *testing.T) {
	assert.True(t, IsIngestionFailure(NewTransportError("t", nil)))
	assert.True(t, IsIngestionFailure(NewTimeoutError("t", nil)))
	assert.True(t, IsIngestionFailure(NewPayloadError("p", nil)))
	assert.True(t, IsIngestionFailure(NewSourceError("s")))
	assert.False(t, IsIngestionFailure(NewAppValidationError("v")))
	assert.False(t, IsIngestionFailure(errors.New("plain")))
}
