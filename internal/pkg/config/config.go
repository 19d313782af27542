package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB/Redis connection), security settings
// - default: Values common across all environments (timeouts, key prefixes, bit layouts), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Seckill SeckillConfig
	Cache   CacheConfig
	Lock    LockConfig
	IDGen   IDGenConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SeckillConfig names the shared stream/group identifiers. They are
// configuration constants, not protocol: every instance must agree on them.
type SeckillConfig struct {
	Stream        string        `envconfig:"SECKILL_STREAM" default:"stream.orders"`
	Group         string        `envconfig:"SECKILL_GROUP" default:"g1"`
	Consumer      string        `envconfig:"SECKILL_CONSUMER" default:"c1"`
	StockPrefix   string        `envconfig:"SECKILL_STOCK_PREFIX" default:"seckill:stock:"`
	DedupPrefix   string        `envconfig:"SECKILL_DEDUP_PREFIX" default:"seckill:order:"`
	ReadBlock     time.Duration `envconfig:"SECKILL_READ_BLOCK" default:"2s"`
	RecoverySleep time.Duration `envconfig:"SECKILL_RECOVERY_SLEEP" default:"20ms"`
}

type CacheConfig struct {
	ShopPrefix      string        `envconfig:"CACHE_SHOP_PREFIX" default:"cache:shop:"`
	VoucherPrefix   string        `envconfig:"CACHE_VOUCHER_PREFIX" default:"cache:voucher:"`
	ShopTTL         time.Duration `envconfig:"CACHE_SHOP_TTL" default:"30m"`
	VoucherTTL      time.Duration `envconfig:"CACHE_VOUCHER_TTL" default:"30m"`
	EmptyMarkerTTL  time.Duration `envconfig:"CACHE_EMPTY_MARKER_TTL" default:"2m"`
	LogicalTTL      time.Duration `envconfig:"CACHE_LOGICAL_TTL" default:"30s"`
	MutexRetryWait  time.Duration `envconfig:"CACHE_MUTEX_RETRY_WAIT" default:"50ms"`
	MutexRetryLimit int           `envconfig:"CACHE_MUTEX_RETRY_LIMIT" default:"10"`
	RebuildWorkers  int           `envconfig:"CACHE_REBUILD_WORKERS" default:"10"`
}

type LockConfig struct {
	Prefix string        `envconfig:"LOCK_PREFIX" default:"lock:"`
	Lease  time.Duration `envconfig:"LOCK_LEASE" default:"10s"`
}

type IDGenConfig struct {
	// Seconds since Unix epoch for 2025-01-01T00:00:00Z.
	Epoch   int64 `envconfig:"IDGEN_EPOCH" default:"1735689600"`
	SeqBits uint  `envconfig:"IDGEN_SEQ_BITS" default:"32"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "16380", // Test Redis port
		},
		Seckill: SeckillConfig{
			Stream:        "stream.orders",
			Group:         "g1",
			Consumer:      "c1",
			StockPrefix:   "seckill:stock:",
			DedupPrefix:   "seckill:order:",
			ReadBlock:     100 * time.Millisecond,
			RecoverySleep: time.Millisecond,
		},
		Cache: CacheConfig{
			ShopPrefix:      "cache:shop:",
			VoucherPrefix:   "cache:voucher:",
			ShopTTL:         time.Minute,
			VoucherTTL:      time.Minute,
			EmptyMarkerTTL:  time.Minute,
			LogicalTTL:      time.Second,
			MutexRetryWait:  time.Millisecond,
			MutexRetryLimit: 10,
			RebuildWorkers:  4,
		},
		Lock: LockConfig{
			Prefix: "lock:",
			Lease:  10 * time.Second,
		},
		IDGen: IDGenConfig{
			Epoch:   1735689600,
			SeqBits: 32,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
	}
}
