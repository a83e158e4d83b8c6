package interceptor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
)

// UnaryClientLogging wraps the rest of the client chain (retry and
// transport), so the logged duration covers every attempt.
func UnaryClientLogging(logger *slog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx, reqID := outgoingRequestID(ctx)
		start := time.Now()
		logger.InfoContext(ctx, "grpc client call started", "method", method, "request_id", reqID)

		err := invoker(ctx, method, req, reply, cc, opts...)

		logCompletion(ctx, logger, "grpc client call", method, reqID, start, err)
		return err
	}
}

// StreamClientLogging logs when a stream opens and again when it ends, either
// by io.EOF or by an error.
func StreamClientLogging(logger *slog.Logger) grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		ctx, reqID := outgoingRequestID(ctx)
		start := time.Now()
		logger.InfoContext(ctx, "grpc client stream started", "method", method, "request_id", reqID)

		cs, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			logCompletion(ctx, logger, "grpc client stream", method, reqID, start, err)
			return nil, err
		}
		return &loggedClientStream{
			ClientStream: cs,
			done: func(err error) {
				logCompletion(ctx, logger, "grpc client stream", method, reqID, start, err)
			},
		}, nil
	}
}

type loggedClientStream struct {
	grpc.ClientStream
	once sync.Once
	done func(error)
}

func (s *loggedClientStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err == nil {
		return nil
	}
	s.once.Do(func() {
		if errors.Is(err, io.EOF) {
			s.done(nil)
			return
		}
		s.done(err)
	})
	return err
}
