package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "filingcontrol/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	KafkaSeeds    []string
	MonitorSecret string
	JWTSigningKey string

	// DispatchInterval is how often the notification dispatcher drains
	// pending events. Zero disables the background dispatcher.
	DispatchInterval time.Duration
}

// RedisConfig captures Redis connection settings. An empty URL disables
// Redis-backed features (the monitor run lock falls back to in-process).
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FILINGCONTROL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var kafkaSeeds []string
	if seeds := os.Getenv("KAFKA_SEEDS"); seeds != "" {
		kafkaSeeds = pstrings.DedupeAndTrim(strings.Split(seeds, ","))
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Redis:            redisFromEnv(),
		KafkaSeeds:       kafkaSeeds,
		MonitorSecret:    os.Getenv("MONITOR_SECRET"),
		JWTSigningKey:    jwtSigningKey,
		DispatchInterval: durationEnv("DISPATCH_INTERVAL", time.Minute),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
		MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
