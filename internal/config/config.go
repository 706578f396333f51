package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port"`
	APIPrefix       string `mapstructure:"api_prefix"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_seconds"`
	BodyLimitMB     int    `mapstructure:"body_limit_mb"`
	Seed            bool   `mapstructure:"seed"`
}

type MongoConf struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	ConnectRetries int    `mapstructure:"connect_retries"`
}

type JWTConf struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type SecurityConf struct {
	PasswordHashCost int `mapstructure:"password_hash_cost"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConf struct {
	Prefix        string `mapstructure:"prefix"`
	Requests      int    `mapstructure:"requests"`
	WindowSeconds int    `mapstructure:"window_seconds"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type S3Conf struct {
	Region             string `mapstructure:"region"`
	Bucket             string `mapstructure:"bucket"`
	Endpoint           string `mapstructure:"endpoint"`
	PublicRead         bool   `mapstructure:"public_read"`
	PresignTTLSeconds  int    `mapstructure:"presign_ttl_seconds"`
	BreakerMaxFailures uint32 `mapstructure:"breaker_max_failures"`
	BreakerTimeoutSec  int    `mapstructure:"breaker_timeout_seconds"`
}

type CORSConf struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Mongo     MongoConf     `mapstructure:"mongo"`
	JWT       JWTConf       `mapstructure:"jwt"`
	Security  SecurityConf  `mapstructure:"security"`
	Redis     RedisConf     `mapstructure:"redis"`
	RateLimit RateLimitConf `mapstructure:"rate_limit"`
	Kafka     KafkaConf     `mapstructure:"kafka"`
	S3        S3Conf        `mapstructure:"s3"`
	CORS      CORSConf      `mapstructure:"cors"`
	Log       LogConf       `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AccessTokenTTL  time.Duration
	RateLimitWindow time.Duration
	PresignTTL      time.Duration
	BreakerTimeout  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8001)
	v.SetDefault("app.api_prefix", "/api")
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("app.read_timeout_seconds", 15)
	v.SetDefault("app.write_timeout_seconds", 15)
	v.SetDefault("app.idle_timeout_seconds", 60)
	v.SetDefault("app.body_limit_mb", 12)
	v.SetDefault("app.seed", true)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "")
	v.SetDefault("mongo.connect_retries", 5)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl_minutes", 24*60)
	v.SetDefault("security.password_hash_cost", 0)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.prefix", "visa:rl")
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "visa.application.events")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.public_read", false)
	v.SetDefault("s3.presign_ttl_seconds", 600)
	v.SetDefault("s3.breaker_max_failures", 5)
	v.SetDefault("s3.breaker_timeout_seconds", 30)

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// Load reads the YAML file at path (a missing file is fine) and applies
// environment overrides: MONGO_URI for mongo.uri, KAFKA_BROKERS for
// kafka.brokers and so on. MONGO_URL, DB_NAME and JWT_SECRET_KEY are
// honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("mongo.uri", "MONGO_URI", "MONGO_URL")
	_ = v.BindEnv("mongo.database", "MONGO_DATABASE", "DB_NAME")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "JWT_SECRET_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout = seconds(cfg.App.ShutdownSeconds)
	cfg.ReadTimeout = seconds(cfg.App.ReadTimeoutSec)
	cfg.WriteTimeout = seconds(cfg.App.WriteTimeoutSec)
	cfg.IdleTimeout = seconds(cfg.App.IdleTimeoutSec)
	cfg.AccessTokenTTL = time.Duration(cfg.JWT.TTLMinutes) * time.Minute
	cfg.RateLimitWindow = seconds(cfg.RateLimit.WindowSeconds)
	cfg.PresignTTL = seconds(cfg.S3.PresignTTLSeconds)
	cfg.BreakerTimeout = seconds(cfg.S3.BreakerTimeoutSec)
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required (MONGO_URL)"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("mongo.database is required (DB_NAME)"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (JWT_SECRET_KEY)"))
	}
	if c.JWT.TTLMinutes <= 0 {
		errs = append(errs, errors.New("jwt.ttl_minutes must be positive"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, errors.New("rate_limit.requests and rate_limit.window_seconds must be positive"))
	}
	if c.S3.PresignTTLSeconds <= 0 {
		errs = append(errs, errors.New("s3.presign_ttl_seconds must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.App.Port) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
