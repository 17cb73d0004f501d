package config

import "time"

const (
	defaultPort    = 8080
	defaultStorage = StoragePostgres
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultKafka = Kafka{
	MatchingTopic: "orders.matching",
	GroupID:       "dispatch-worker",
}

var defaultDispatch = Dispatch{
	ResponseWindow: 60 * time.Second,
	SweepSchedule:  "*/5 * * * * *",
	MatchRadiusKm:  10,
}

var defaultPricing = Pricing{
	BaseRate:  15,
	PerKmRate: 2.5,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       10,
	Burst:      20,
	TTL:        time.Minute,
	MaxBuckets: 10000,
}

var defaultNotify = Notify{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    time.Second,
	Workers:     4,
	QueueSize:   256,
}

var defaultGeocoder = Geocoder{
	FallbackLat: 40.7128,
	FallbackLon: -74.0060,
}

var defaultLog = Log{
	Level:  "info",
	Format: "json",
}

var defaultPprof = PprofConfig{
	Addr: ":6060",
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch { return defaultDispatch }

// DefaultNotify returns the default notifier settings.
func DefaultNotify() Notify { return defaultNotify }
