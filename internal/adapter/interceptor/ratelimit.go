package interceptor

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const rateLimitIdleTTL = 10 * time.Minute

// RateLimiter applies a token bucket per caller address and periodically
// evicts idle entries. A nil *RateLimiter allows everything.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	byKey   map[string]*rateLimitEntry
	hits    uint64
	idleTTL time.Duration
}

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter returns nil if rps or burst is not positive.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		byKey:   make(map[string]*rateLimitEntry),
		idleTTL: rateLimitIdleTTL,
	}
}

func (l *RateLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &rateLimitEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed
}

func (l *RateLimiter) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !l.Allow(peerKey(ctx), time.Now()) {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}

func (l *RateLimiter) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !l.Allow(peerKey(ss.Context()), time.Now()) {
			return status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(srv, ss)
	}
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := strings.TrimSpace(p.Addr.String())
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
