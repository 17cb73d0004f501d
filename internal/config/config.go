package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection URL.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Kafka stores broker settings. No brokers means Kafka is disabled.
type Kafka struct {
	Brokers       []string
	MatchingTopic string
	GroupID       string
}

// Enabled reports whether any broker is configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Dispatch stores offer and matching settings.
type Dispatch struct {
	ResponseWindow time.Duration
	SweepSchedule  string
	MatchRadiusKm  float64
}

// Pricing stores the tariff rates.
type Pricing struct {
	BaseRate  float64
	PerKmRate float64
}

// RateLimit stores token bucket settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Notify stores the notifier retry policy and delivery queue.
type Notify struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Workers     int
	QueueSize   int
}

// Geocoder stores the approximate point used when geocoding fails.
type Geocoder struct {
	FallbackLat float64
	FallbackLon float64
}

// Log stores logger settings.
type Log struct {
	Level  string
	Format string
}

// PprofConfig stores debug server settings.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Config stores service settings.
type Config struct {
	Port      int
	Storage   string
	DB        DB
	Kafka     Kafka
	Dispatch  Dispatch
	Pricing   Pricing
	RateLimit RateLimit
	Notify    Notify
	Geocoder  Geocoder
	Log       Log
	Pprof     PprofConfig
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	brokers := strings.Join(cfg.Kafka.Brokers, ",")
	flags := pflag.CommandLine
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage driver: postgres or memory")
	flags.StringVar(&brokers, "kafka-brokers", brokers, "comma separated kafka brokers; empty disables kafka")
	flags.BoolVar(&cfg.Pprof.Enabled, "pprof", cfg.Pprof.Enabled, "enable the pprof server")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	cfg.Kafka.Brokers = splitList(brokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:      defaultPort,
		Storage:   defaultStorage,
		DB:        defaultDB,
		Kafka:     defaultKafka,
		Dispatch:  defaultDispatch,
		Pricing:   defaultPricing,
		RateLimit: defaultRateLimit,
		Notify:    defaultNotify,
		Geocoder:  defaultGeocoder,
		Log:       defaultLog,
		Pprof:     defaultPprof,
	}

	p := envParser{}
	cfg.Port = p.getInt("PORT", cfg.Port)
	cfg.Storage = p.getString("STORAGE_DRIVER", cfg.Storage)

	cfg.DB.Host = p.getString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = p.getString("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = p.getString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = p.getString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = p.getString("POSTGRES_DB", cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		p.errs = append(p.errs, fmt.Errorf("POSTGRES_PORT: %w", err))
	}

	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.MatchingTopic = p.getString("KAFKA_MATCHING_TOPIC", cfg.Kafka.MatchingTopic)
	cfg.Kafka.GroupID = p.getString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Dispatch.ResponseWindow = p.getDuration("DISPATCH_RESPONSE_WINDOW", cfg.Dispatch.ResponseWindow)
	cfg.Dispatch.SweepSchedule = p.getString("DISPATCH_SWEEP_SCHEDULE", cfg.Dispatch.SweepSchedule)
	cfg.Dispatch.MatchRadiusKm = p.getFloat("DISPATCH_MATCH_RADIUS_KM", cfg.Dispatch.MatchRadiusKm)

	cfg.Pricing.BaseRate = p.getFloat("PRICING_BASE_RATE", cfg.Pricing.BaseRate)
	cfg.Pricing.PerKmRate = p.getFloat("PRICING_PER_KM_RATE", cfg.Pricing.PerKmRate)

	cfg.RateLimit.Enabled = p.getBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = p.getFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = p.getInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = p.getDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = p.getInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Notify.MaxAttempts = p.getInt("NOTIFY_MAX_ATTEMPTS", cfg.Notify.MaxAttempts)
	cfg.Notify.BaseDelay = p.getDuration("NOTIFY_BASE_DELAY", cfg.Notify.BaseDelay)
	cfg.Notify.MaxDelay = p.getDuration("NOTIFY_MAX_DELAY", cfg.Notify.MaxDelay)
	cfg.Notify.Workers = p.getInt("NOTIFY_WORKERS", cfg.Notify.Workers)
	cfg.Notify.QueueSize = p.getInt("NOTIFY_QUEUE_SIZE", cfg.Notify.QueueSize)

	cfg.Geocoder.FallbackLat = p.getFloat("GEOCODER_FALLBACK_LAT", cfg.Geocoder.FallbackLat)
	cfg.Geocoder.FallbackLon = p.getFloat("GEOCODER_FALLBACK_LON", cfg.Geocoder.FallbackLon)

	cfg.Log.Level = p.getString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = p.getString("LOG_FORMAT", cfg.Log.Format)

	cfg.Pprof.Enabled = p.getBool("PPROF_ENABLED", cfg.Pprof.Enabled)
	cfg.Pprof.Addr = p.getString("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = p.getString("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = p.getString("PPROF_PASS", cfg.Pprof.Pass)

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("invalid storage driver: %q", c.Storage)
	}
	if c.Dispatch.ResponseWindow <= 0 {
		return fmt.Errorf("invalid dispatch response window: %s", c.Dispatch.ResponseWindow)
	}
	if c.Dispatch.MatchRadiusKm <= 0 {
		return fmt.Errorf("invalid match radius: %v", c.Dispatch.MatchRadiusKm)
	}
	if c.Pricing.BaseRate < 0 || c.Pricing.PerKmRate < 0 {
		return fmt.Errorf("pricing rates must be non-negative")
	}
	if c.Notify.MaxAttempts < 1 {
		return fmt.Errorf("invalid notify max attempts: %d", c.Notify.MaxAttempts)
	}
	if c.Kafka.Enabled() && (c.Kafka.MatchingTopic == "" || c.Kafka.GroupID == "") {
		return fmt.Errorf("kafka topic and group id are required when brokers are set")
	}
	return nil
}

// envParser reads typed values and collects parse errors.
type envParser struct {
	errs []error
}

func (p *envParser) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (p *envParser) getString(key, def string) string {
	if v, ok := p.lookup(key); ok {
		return v
	}
	return def
}

func (p *envParser) getInt(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *envParser) getFloat(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *envParser) getBool(key string, def bool) bool {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *envParser) getDuration(key string, def time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
