package interceptor

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
)

type ctxKey int

const ctxKeyRequestID ctxKey = iota

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// incomingRequestID picks up the caller's request id or mints one, and stores
// it on the returned context.
func incomingRequestID(ctx context.Context) (context.Context, string) {
	reqID := firstValue(metadata.ValueFromIncomingContext(ctx, pb.RequestIDHeader))
	if reqID == "" {
		reqID = uuid.NewString()
	}
	return context.WithValue(ctx, ctxKeyRequestID, reqID), reqID
}

// outgoingRequestID stamps a request id on outgoing metadata unless the caller
// already set one.
func outgoingRequestID(ctx context.Context) (context.Context, string) {
	if reqID := outgoingValue(ctx, pb.RequestIDHeader); reqID != "" {
		return ctx, reqID
	}
	reqID := uuid.NewString()
	return metadata.AppendToOutgoingContext(ctx, pb.RequestIDHeader, reqID), reqID
}

// IdempotencyKeyFromContext returns the idempotency key sent by the client.
func IdempotencyKeyFromContext(ctx context.Context) string {
	return firstValue(metadata.ValueFromIncomingContext(ctx, pb.IdempotencyKeyHeader))
}

func outgoingValue(ctx context.Context, key string) string {
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok {
		return ""
	}
	return firstValue(md.Get(key))
}

func firstValue(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
