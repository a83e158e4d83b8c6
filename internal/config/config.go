// Package config provides runtime configuration for the catalog server and
// client: defaults, then an optional YAML file, then CATALOG_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultMessageSize = 4 * 1024 * 1024

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// ServerConfig holds configuration knobs for the gRPC server and its side
// components.
type ServerConfig struct {
	GRPCAddr        string          `yaml:"grpcAddr"`
	HTTPAddr        string          `yaml:"httpAddr"`
	MaxRecvMsgSize  int             `yaml:"maxReceiveMessageSize"`
	MaxSendMsgSize  int             `yaml:"maxSendMessageSize"`
	TLSCertFile     string          `yaml:"tlsCertFile"`
	TLSKeyFile      string          `yaml:"tlsKeyFile"`
	StreamDelay     time.Duration   `yaml:"streamDelay"`
	SeedData        bool            `yaml:"seedData"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	EventQueueSize  int             `yaml:"eventQueueSize"`
	EventWorkers    int             `yaml:"eventWorkers"`
	RedisAddr       string          `yaml:"redisAddr"`
	RedisPassword   string          `yaml:"redisPassword"`
	MySQLDSN        string          `yaml:"mysqlDSN"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	LogFormat       string          `yaml:"logFormat"`
	LogLevel        string          `yaml:"logLevel"`
}

type ClientConfig struct {
	ServerAddress       string `yaml:"serverAddress"`
	TimeoutSeconds      int    `yaml:"timeoutSeconds"`
	MaxRetryAttempts    int    `yaml:"maxRetryAttempts"`
	EnableRetry         bool   `yaml:"enableRetry"`
	MaxMessageSize      int    `yaml:"maxMessageSize"`
	UseTLS              bool   `yaml:"useTLS"`
	ValidateCertificate bool   `yaml:"validateCertificate"`
	RootCA              string `yaml:"rootCA"`
	LogFormat           string `yaml:"logFormat"`
	LogLevel            string `yaml:"logLevel"`
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type fileConfig struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		GRPCAddr:        ":50051",
		HTTPAddr:        ":8080",
		MaxRecvMsgSize:  defaultMessageSize,
		MaxSendMsgSize:  defaultMessageSize,
		StreamDelay:     100 * time.Millisecond,
		SeedData:        true,
		RateLimit:       RateLimitConfig{Enabled: false, RPS: 30, Burst: 60},
		EventQueueSize:  10000,
		EventWorkers:    2,
		ShutdownTimeout: 5 * time.Second,
		LogFormat:       "json",
		LogLevel:        "info",
	}
}

func DefaultClient() ClientConfig {
	return ClientConfig{
		ServerAddress:       "localhost:50051",
		TimeoutSeconds:      30,
		MaxRetryAttempts:    3,
		EnableRetry:         true,
		MaxMessageSize:      defaultMessageSize,
		UseTLS:              false,
		ValidateCertificate: true,
		LogFormat:           "text",
		LogLevel:            "info",
	}
}

// LoadServer reads path (optional) and applies environment overrides.
func LoadServer(path string) (ServerConfig, error) {
	f, err := readFile(path)
	if err != nil {
		return ServerConfig{}, err
	}
	cfg := f.Server
	applyServerEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// LoadClient reads path (optional) and applies environment overrides.
func LoadClient(path string) (ClientConfig, error) {
	f, err := readFile(path)
	if err != nil {
		return ClientConfig{}, err
	}
	cfg := f.Client
	applyClientEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	f := fileConfig{Server: DefaultServer(), Client: DefaultClient()}
	if strings.TrimSpace(path) == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

func (c ServerConfig) Validate() error {
	var errs []error
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpcAddr is required"))
	}
	if c.MaxRecvMsgSize <= 0 || c.MaxSendMsgSize <= 0 {
		errs = append(errs, errors.New("message size limits must be positive"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("tlsCertFile and tlsKeyFile must be set together"))
	}
	if c.StreamDelay < 0 {
		errs = append(errs, errors.New("streamDelay cannot be negative"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rateLimit rps and burst must be positive when enabled"))
	}
	if c.EventQueueSize < 0 || c.EventWorkers < 0 {
		errs = append(errs, errors.New("event queue size and workers cannot be negative"))
	}
	return errors.Join(errs...)
}

func (c ClientConfig) Validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("serverAddress is required"))
	}
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("timeoutSeconds must be positive"))
	}
	if c.MaxRetryAttempts < 1 {
		errs = append(errs, errors.New("maxRetryAttempts must be at least 1"))
	}
	if c.MaxMessageSize <= 0 {
		errs = append(errs, errors.New("maxMessageSize must be positive"))
	}
	return errors.Join(errs...)
}

func applyServerEnv(c *ServerConfig) {
	c.GRPCAddr = getenv("CATALOG_GRPC_ADDR", c.GRPCAddr)
	c.HTTPAddr = getenv("CATALOG_HTTP_ADDR", c.HTTPAddr)
	c.MaxRecvMsgSize = atoienv("CATALOG_MAX_RECV_MSG_SIZE", c.MaxRecvMsgSize)
	c.MaxSendMsgSize = atoienv("CATALOG_MAX_SEND_MSG_SIZE", c.MaxSendMsgSize)
	c.TLSCertFile = getenv("CATALOG_TLS_CERT", c.TLSCertFile)
	c.TLSKeyFile = getenv("CATALOG_TLS_KEY", c.TLSKeyFile)
	c.StreamDelay = durenvms("CATALOG_STREAM_DELAY_MS", c.StreamDelay)
	c.SeedData = boolenv("CATALOG_SEED_DATA", c.SeedData)
	c.RateLimit.Enabled = boolenv("CATALOG_RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RPS = floatenv("CATALOG_RATE_LIMIT_RPS", c.RateLimit.RPS)
	c.RateLimit.Burst = atoienv("CATALOG_RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.EventQueueSize = atoienv("CATALOG_EVENT_QUEUE_SIZE", c.EventQueueSize)
	c.EventWorkers = atoienv("CATALOG_EVENT_WORKERS", c.EventWorkers)
	c.RedisAddr = getenv("CATALOG_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getenv("CATALOG_REDIS_PASSWORD", c.RedisPassword)
	c.MySQLDSN = getenv("CATALOG_MYSQL_DSN", c.MySQLDSN)
	c.ShutdownTimeout = durenvs("CATALOG_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogFormat = getenv("CATALOG_LOG_FORMAT", c.LogFormat)
	c.LogLevel = getenv("CATALOG_LOG_LEVEL", c.LogLevel)
}

func applyClientEnv(c *ClientConfig) {
	c.ServerAddress = getenv("CATALOG_SERVER_ADDRESS", c.ServerAddress)
	c.TimeoutSeconds = atoienv("CATALOG_TIMEOUT_SECONDS", c.TimeoutSeconds)
	c.MaxRetryAttempts = atoienv("CATALOG_MAX_RETRY_ATTEMPTS", c.MaxRetryAttempts)
	c.EnableRetry = boolenv("CATALOG_ENABLE_RETRY", c.EnableRetry)
	c.MaxMessageSize = atoienv("CATALOG_MAX_MESSAGE_SIZE", c.MaxMessageSize)
	c.UseTLS = boolenv("CATALOG_TLS", c.UseTLS)
	c.ValidateCertificate = boolenv("CATALOG_VALIDATE_CERTIFICATE", c.ValidateCertificate)
	c.RootCA = getenv("CATALOG_CA_FILE", c.RootCA)
	c.LogFormat = getenv("CATALOG_LOG_FORMAT", c.LogFormat)
	c.LogLevel = getenv("CATALOG_LOG_LEVEL", c.LogLevel)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvms(key string, def time.Duration) time.Duration {
	ms := atoienv(key, -1)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, def time.Duration) time.Duration {
	sec := atoienv(key, -1)
	if sec < 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}
