package http

import (
	"context"

	"safetypulse/pkg/contracts/domain"
)

func contextWithField(ctx context.Context, f domain.Field) context.Context {
	return context.WithValue(ctx, fieldCtxKey{}, f)
}

func fieldFromContext(ctx context.Context) domain.Field {
	f, _ := ctx.Value(fieldCtxKey{}).(domain.Field)
	return f
}
