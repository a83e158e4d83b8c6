package interceptor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

// UnaryServerLogging records the start, duration and outcome of every call. It
// returns whatever the inner chain produced unchanged.
func UnaryServerLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, reqID := incomingRequestID(ctx)
		start := time.Now()
		logger.InfoContext(ctx, "grpc call started", "method", info.FullMethod, "request_id", reqID)

		resp, err := handler(ctx, req)

		logCompletion(ctx, logger, "grpc call", info.FullMethod, reqID, start, err)
		return resp, err
	}
}

func StreamServerLogging(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, reqID := incomingRequestID(ss.Context())
		start := time.Now()
		logger.InfoContext(ctx, "grpc stream started", "method", info.FullMethod, "request_id", reqID)

		err := handler(srv, &contextStream{ServerStream: ss, ctx: ctx})

		logCompletion(ctx, logger, "grpc stream", info.FullMethod, reqID, start, err)
		return err
	}
}

func logCompletion(ctx context.Context, logger *slog.Logger, kind, method, reqID string, start time.Time, err error) {
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		logger.ErrorContext(ctx, kind+" failed",
			"method", method,
			"request_id", reqID,
			"elapsed_ms", elapsedMs,
			"code", status.Code(err).String(),
			"error", err,
		)
		return
	}
	logger.InfoContext(ctx, kind+" completed",
		"method", method,
		"request_id", reqID,
		"elapsed_ms", elapsedMs,
		"code", codes.OK.String(),
	)
}

// UnaryServerErrors translates domain failures and panics into gRPC statuses.
// Nothing returned by the business layer reaches the transport untranslated.
func UnaryServerErrors(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp, err = nil, fmt.Errorf("panic: %v", r)
			}
			if err != nil {
				resp, err = nil, translateError(ctx, logger, info.FullMethod, err)
			}
		}()
		return handler(ctx, req)
	}
}

func StreamServerErrors(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err != nil {
				err = translateError(ss.Context(), logger, info.FullMethod, err)
			}
		}()
		return handler(srv, ss)
	}
}

func translateError(ctx context.Context, logger *slog.Logger, method string, err error) error {
	reqID := RequestIDFromContext(ctx)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.WarnContext(ctx, "invalid argument", "method", method, "request_id", reqID, "field", verr.Field, "error", err)
		return status.Error(codes.InvalidArgument, verr.Message)
	case errors.Is(err, domain.ErrInvalidArgument):
		logger.WarnContext(ctx, "invalid argument", "method", method, "request_id", reqID, "error", err)
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		logger.WarnContext(ctx, "unauthenticated call", "method", method, "request_id", reqID, "error", err)
		return status.Error(codes.Unauthenticated, "Authentication required")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}

	if st, ok := status.FromError(err); ok {
		return st.Err()
	}

	logger.ErrorContext(ctx, "unhandled error", "method", method, "request_id", reqID, "error", err)
	return status.Error(codes.Internal, "An internal error occurred")
}

type contextStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}
