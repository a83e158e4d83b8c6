package interceptor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedInvoker fails with the given codes in order, then succeeds.
type scriptedInvoker struct {
	mu       sync.Mutex
	failures []codes.Code
	calls    int
	keys     []string
}

func (s *scriptedInvoker) invoke(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	md, _ := metadata.FromOutgoingContext(ctx)
	s.keys = append(s.keys, firstValue(md.Get(pb.IdempotencyKeyHeader)))

	s.calls++
	if s.calls <= len(s.failures) {
		return status.Error(s.failures[s.calls-1], "scripted failure")
	}
	reply.(*pb.GetProductResponse).Success = true
	return nil
}

type recordedWaits struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedWaits) wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Unavailable, codes.Unavailable}}
	waits := &recordedWaits{}
	retry := UnaryClientRetry(RetryOptions{MaxAttempts: 3, Wait: waits.wait, Logger: discardLogger()})

	reply := &pb.GetProductResponse{}
	err := retry(context.Background(), pb.ProductService_GetProduct_FullMethodName,
		&pb.GetProductRequest{Id: 1}, reply, nil, inv.invoke)

	require.NoError(t, err)
	require.True(t, reply.Success)
	require.Equal(t, 3, inv.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits.delays)
}

func TestRetry_NonRetryableFailsImmediately(t *testing.T) {
	for _, code := range []codes.Code{codes.InvalidArgument, codes.NotFound, codes.Unauthenticated, codes.ResourceExhausted} {
		inv := &scriptedInvoker{failures: []codes.Code{code, code, code, code, code}}
		waits := &recordedWaits{}
		retry := UnaryClientRetry(RetryOptions{MaxAttempts: 5, Wait: waits.wait, Logger: discardLogger()})

		err := retry(context.Background(), "/catalog.v1.ProductService/GetProduct",
			&pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke)

		require.Equal(t, code, status.Code(err))
		require.Equal(t, 1, inv.calls, code.String())
		require.Empty(t, waits.delays)
	}
}

func TestRetry_ExhaustedReturnsLastFailure(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Unavailable}}
	waits := &recordedWaits{}
	retry := UnaryClientRetry(RetryOptions{MaxAttempts: 3, Wait: waits.wait, Logger: discardLogger()})

	reply := &pb.GetProductResponse{}
	err := retry(context.Background(), "/m", &pb.GetProductRequest{}, reply, nil, inv.invoke)

	require.Equal(t, codes.Internal, status.Code(err))
	require.Equal(t, 3, inv.calls)
	require.False(t, reply.Success)
	require.Len(t, waits.delays, 2)
}

func TestRetry_SingleAttemptConfigured(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Unavailable}}
	retry := UnaryClientRetry(RetryOptions{MaxAttempts: 1, Wait: (&recordedWaits{}).wait, Logger: discardLogger()})

	err := retry(context.Background(), "/m", &pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke)
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, 1, inv.calls)
}

func TestRetry_DefaultAttempts(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Unavailable, codes.Unavailable, codes.Unavailable, codes.Unavailable}}
	retry := UnaryClientRetry(RetryOptions{Wait: (&recordedWaits{}).wait, Logger: discardLogger()})

	err := retry(context.Background(), "/m", &pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke)
	require.Error(t, err)
	require.Equal(t, DefaultMaxRetryAttempts, inv.calls)
}

func TestRetry_SameIdempotencyKeyAcrossAttempts(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Internal, codes.Internal}}
	retry := UnaryClientRetry(RetryOptions{MaxAttempts: 3, Wait: (&recordedWaits{}).wait, Logger: discardLogger()})

	err := retry(context.Background(), "/m", &pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke)
	require.NoError(t, err)
	require.Len(t, inv.keys, 3)
	require.NotEmpty(t, inv.keys[0])
	require.Equal(t, inv.keys[0], inv.keys[1])
	require.Equal(t, inv.keys[0], inv.keys[2])

	// a caller-supplied key is kept
	inv = &scriptedInvoker{}
	ctx := metadata.AppendToOutgoingContext(context.Background(), pb.IdempotencyKeyHeader, "caller-key")
	require.NoError(t, retry(ctx, "/m", &pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke))
	require.Equal(t, []string{"caller-key"}, inv.keys)
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	inv := &scriptedInvoker{failures: []codes.Code{codes.Unavailable, codes.Unavailable}}
	ctx, cancel := context.WithCancel(context.Background())
	wait := func(ctx context.Context, d time.Duration) error {
		cancel()
		return SleepContext(ctx, d)
	}
	retry := UnaryClientRetry(RetryOptions{MaxAttempts: 3, Wait: wait, Logger: discardLogger()})

	start := time.Now()
	err := retry(ctx, "/m", &pb.GetProductRequest{}, &pb.GetProductResponse{}, nil, inv.invoke)
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, 1, inv.calls)
	require.Less(t, time.Since(start), time.Second)
}

func TestBackoff(t *testing.T) {
	require.Equal(t, time.Second, Backoff(1))
	require.Equal(t, 2*time.Second, Backoff(2))
	require.Equal(t, 4*time.Second, Backoff(3))
	require.Equal(t, time.Second, Backoff(0))
}

func TestRetryable(t *testing.T) {
	require.True(t, Retryable(codes.Unavailable))
	require.True(t, Retryable(codes.DeadlineExceeded))
	require.True(t, Retryable(codes.Internal))
	require.False(t, Retryable(codes.InvalidArgument))
	require.False(t, Retryable(codes.NotFound))
	require.False(t, Retryable(codes.Canceled))
	require.False(t, Retryable(codes.OK))
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
