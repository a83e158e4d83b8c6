package interceptor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
)

const DefaultMaxRetryAttempts = 3

// WaitFunc pauses between attempts. It returns early with an error when ctx
// is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type RetryOptions struct {
	// MaxAttempts counts the first attempt; values below 1 mean DefaultMaxRetryAttempts.
	MaxAttempts int
	Wait        WaitFunc
	Logger      *slog.Logger
}

// Backoff is the pause after failed attempt n (1-based): 2^(n-1) seconds.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(1<<(attempt-1)) * time.Second
}

// Retryable reports whether a failed attempt may be reissued.
func Retryable(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
		return true
	}
	return false
}

// UnaryClientRetry reissues unary calls that fail with a retryable status.
// Every attempt of one logical call carries the same idempotency key. After
// the last attempt the last failure is returned unchanged.
func UnaryClientRetry(opts RetryOptions) grpc.UnaryClientInterceptor {
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxRetryAttempts
	}
	wait := opts.Wait
	if wait == nil {
		wait = SleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, callOpts ...grpc.CallOption) error {
		if outgoingValue(ctx, pb.IdempotencyKeyHeader) == "" {
			ctx = metadata.AppendToOutgoingContext(ctx, pb.IdempotencyKeyHeader, uuid.NewString())
		}

		for attempt := 1; ; attempt++ {
			err := invoker(ctx, method, req, reply, cc, callOpts...)
			if err == nil {
				return nil
			}

			code := status.Code(err)
			if !Retryable(code) || attempt >= maxAttempts {
				return err
			}

			delay := Backoff(attempt)
			logger.WarnContext(ctx, "grpc call failed, retrying",
				"method", method,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"code", code.String(),
				"backoff", delay,
			)
			if werr := wait(ctx, delay); werr != nil {
				return err
			}
		}
	}
}

func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
