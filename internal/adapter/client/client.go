// Package client is the consumer side of the catalog: a ProductService
// connection wrapped in the client call pipeline (logging, then retry with
// backoff, then transport).
package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/adapter/interceptor"
	"github.com/rl1809/product-catalog/internal/config"
)

// ProductClient issues catalog calls with a per-call timeout.
type ProductClient struct {
	conn    *grpc.ClientConn
	rpc     pb.ProductServiceClient
	timeout time.Duration
	logger  *slog.Logger
}

// NewProductClient prepares a client for cfg.ServerAddress. The connection
// is established lazily on the first call. extra options are appended after
// the configured ones, which lets tests swap the dialer.
func NewProductClient(cfg config.ClientConfig, logger *slog.Logger, extra ...grpc.DialOption) (*ProductClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	creds, err := transportCredentials(cfg)
	if err != nil {
		return nil, err
	}

	unary := []grpc.UnaryClientInterceptor{interceptor.UnaryClientLogging(logger)}
	if cfg.EnableRetry {
		unary = append(unary, interceptor.UnaryClientRetry(interceptor.RetryOptions{
			MaxAttempts: cfg.MaxRetryAttempts,
			Logger:      logger,
		}))
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxMessageSize),
			grpc.MaxCallSendMsgSize(cfg.MaxMessageSize),
		),
		grpc.WithChainUnaryInterceptor(unary...),
		grpc.WithChainStreamInterceptor(interceptor.StreamClientLogging(logger)),
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(cfg.ServerAddress, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial server: %w", err)
	}

	return &ProductClient{
		conn:    conn,
		rpc:     pb.NewProductServiceClient(conn),
		timeout: cfg.Timeout(),
		logger:  logger,
	}, nil
}

func transportCredentials(cfg config.ClientConfig) (credentials.TransportCredentials, error) {
	if !cfg.UseTLS {
		return insecure.NewCredentials(), nil
	}
	tlsCfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.ValidateCertificate, //nolint:gosec
	}
	if cfg.RootCA != "" {
		pem, err := os.ReadFile(cfg.RootCA)
		if err != nil {
			return nil, fmt.Errorf("read root CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("root CA contains no certificates")
		}
		tlsCfg.RootCAs = pool
	}
	return credentials.NewTLS(tlsCfg), nil
}

func (c *ProductClient) Close() error {
	return c.conn.Close()
}

func (c *ProductClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *ProductClient) GetProduct(ctx context.Context, id int64) (*pb.GetProductResponse, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.rpc.GetProduct(ctx, &pb.GetProductRequest{Id: id})
}

func (c *ProductClient) ListProducts(ctx context.Context, page, pageSize int32, category string) (*pb.GetProductsResponse, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.rpc.GetProducts(ctx, &pb.GetProductsRequest{Page: page, PageSize: pageSize, Category: category})
}

func (c *ProductClient) CreateProduct(ctx context.Context, req *pb.CreateProductRequest) (*pb.CreateProductResponse, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.rpc.CreateProduct(ctx, req)
}

func (c *ProductClient) UpdateProduct(ctx context.Context, req *pb.UpdateProductRequest) (*pb.UpdateProductResponse, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.rpc.UpdateProduct(ctx, req)
}

func (c *ProductClient) DeleteProduct(ctx context.Context, id int64) (*pb.DeleteProductResponse, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.rpc.DeleteProduct(ctx, &pb.DeleteProductRequest{Id: id})
}

// StreamProducts calls fn for every streamed product and returns how many
// were received. A non-nil error from fn stops the stream and is returned.
func (c *ProductClient) StreamProducts(ctx context.Context, req *pb.GetProductsRequest, fn func(*pb.Product) error) (int, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	stream, err := c.rpc.GetProductStream(ctx, req)
	if err != nil {
		return 0, err
	}

	received := 0
	for {
		p, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return received, nil
		}
		if err != nil {
			return received, err
		}
		received++
		if fn != nil {
			if err := fn(p); err != nil {
				return received, err
			}
		}
	}
}
