package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/product-catalog/internal/adapter/handler"
	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/adapter/interceptor"
	"github.com/rl1809/product-catalog/internal/adapter/storage"
	"github.com/rl1809/product-catalog/internal/config"
	"github.com/rl1809/product-catalog/internal/core/service"
	"github.com/rl1809/product-catalog/internal/obs"
	"github.com/rl1809/product-catalog/internal/port"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "catalog-server",
	Short: "Run the product catalog gRPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer(configPath)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ServerConfig) error {
	logger := obs.NewLogger(os.Stdout, cfg.LogFormat, obs.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	// Products live in memory only; Redis and MySQL back side concerns.
	store := storage.NewMemoryStore()
	if cfg.SeedData {
		if err := storage.Seed(ctx, store, storage.SampleProducts(time.Now().UTC())); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		logger.Info("seeded sample products", "count", store.Len())
	}

	var idempotency port.IdempotencyRepository = storage.NewMemoryIdempotency(0)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		idempotency = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
	}

	var sink port.EventSink = storage.NewLogSink(logger)
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		var err error
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping mysql: %w", err)
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("mysql schema: %w", err)
		}
		sink = mysqlAdapter
		logger.Info("connected to mysql")
	}

	productService := service.NewProductService(store, cfg.EventQueueSize, logger)
	pool := service.StartEventWorkers(cfg.EventWorkers, productService.Events(), sink, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	serverOpts := handler.ServerOptions{
		Logger:         logger,
		Registerer:     reg,
		MaxRecvMsgSize: cfg.MaxRecvMsgSize,
		MaxSendMsgSize: cfg.MaxSendMsgSize,
	}
	if cfg.RateLimit.Enabled {
		serverOpts.RateLimiter = interceptor.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.TLSCertFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("load tls: %w", err)
		}
		serverOpts.Creds = creds
	}

	grpcHandler := handler.NewGRPCHandler(productService, idempotency, cfg.StreamDelay, logger)
	grpcServer, healthServer := handler.NewGRPCServer(grpcHandler, serverOpts)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
		}
	}()

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpHandler := handler.NewHTTPHandler(productService, logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/health", httpHandler.HealthCheck)
		mux.HandleFunc("/api/products", httpHandler.ListProducts)
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown", "error", err)
		}
		logger.Info("HTTP server stopped")
	}

	stopGRPC(shutdownCtx, grpcServer)
	logger.Info("gRPC server stopped")

	// Close event queue and wait for workers
	productService.Close()
	pool.Wait()
	logger.Info("event workers stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
	return nil
}

// stopGRPC drains in-flight calls until ctx expires, then closes whatever is
// left.
func stopGRPC(ctx context.Context, s *grpc.Server) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.Stop()
		<-done
	}
}
