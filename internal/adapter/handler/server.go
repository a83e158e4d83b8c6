package handler

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/adapter/interceptor"
)

type ServerOptions struct {
	Logger         *slog.Logger
	Registerer     prometheus.Registerer // nil disables metrics
	RateLimiter    *interceptor.RateLimiter
	MaxRecvMsgSize int
	MaxSendMsgSize int
	Creds          credentials.TransportCredentials
}

// NewGRPCServer assembles the server call pipeline around h. Interceptors run
// outermost first: logging, metrics, rate limiting, error translation, then
// dispatch.
func NewGRPCServer(h *GRPCHandler, opts ServerOptions) (*grpc.Server, *health.Server) {
	unary := []grpc.UnaryServerInterceptor{interceptor.UnaryServerLogging(opts.Logger)}
	stream := []grpc.StreamServerInterceptor{interceptor.StreamServerLogging(opts.Logger)}

	if opts.Registerer != nil {
		m := interceptor.NewMetrics(opts.Registerer)
		unary = append(unary, m.UnaryServerInterceptor())
		stream = append(stream, m.StreamServerInterceptor())
	}
	if opts.RateLimiter != nil {
		unary = append(unary, opts.RateLimiter.UnaryServerInterceptor())
		stream = append(stream, opts.RateLimiter.StreamServerInterceptor())
	}
	unary = append(unary, interceptor.UnaryServerErrors(opts.Logger))
	stream = append(stream, interceptor.StreamServerErrors(opts.Logger))

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	}
	if opts.MaxRecvMsgSize > 0 {
		serverOpts = append(serverOpts, grpc.MaxRecvMsgSize(opts.MaxRecvMsgSize))
	}
	if opts.MaxSendMsgSize > 0 {
		serverOpts = append(serverOpts, grpc.MaxSendMsgSize(opts.MaxSendMsgSize))
	}
	if opts.Creds != nil {
		serverOpts = append(serverOpts, grpc.Creds(opts.Creds))
	}

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterProductServiceServer(grpcServer, h)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}
