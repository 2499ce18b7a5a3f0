package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net"

	apperrors "safetypulse/internal/errors"
)

// Messages shown to the viewer for each failure kind
const (
	MsgTimeout        = "Tempo Limite Excedido: A conexão com o Google Sheets está muito lenta."
	MsgTransport      = "Erro na comunicação com o servidor de dados."
	MsgCorruptPayload = "Estrutura de dados corrompida na resposta."
	MsgAccessDenied   = "Acesso negado à planilha."
	msgUnavailableFmt = "Servidor Google indisponível (Status %d)."
	msgSourcePrefix   = "Google Sheets: "
)

func unavailableError(status int) error {
	return apperrors.NewTransportError(fmt.Sprintf(msgUnavailableFmt, status), nil).
		WithContext("http_status", status)
}

func sourceError(detail string) error {
	if detail == "" {
		detail = MsgAccessDenied
	}
	return apperrors.NewSourceError(msgSourcePrefix + detail)
}

func payloadError(cause error) error {
	return apperrors.NewPayloadError(MsgCorruptPayload, cause)
}

// classifyTransport separates deadline expiry from every other transport failure
func classifyTransport(err error) error {
	if isTimeout(err) {
		return apperrors.NewTimeoutError(MsgTimeout, err)
	}
	return apperrors.NewTransportError(MsgTransport, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
