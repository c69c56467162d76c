package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// Reconciliation run endpoint accepts either an admin session or this
	// pre-shared secret presented by the scheduler.
	ReconcileSecret string

	// Server-wide YouTube Data API key; YouTube needs no per-user OAuth.
	YouTubeAPIKey string

	// AES-256 key (hex, 32 bytes) sealing connected-account access tokens.
	CredentialKeyHex string

	// Users allowed to call admin endpoints until a role service exists.
	AdminUserIDs []string

	FetchTimeout         time.Duration
	ReconcileConcurrency int
	ReconcileBatchSize   int
	WorkerPollInterval   time.Duration

	EnableReconcileJob bool
	EnableOutboxRelay  bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "cliprewards"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		ReconcileSecret:  os.Getenv("RECONCILE_SHARED_SECRET"),
		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		CredentialKeyHex: os.Getenv("CREDENTIAL_AES_KEY"),
		AdminUserIDs:     envList("ADMIN_USER_IDS"),

		FetchTimeout:         envDuration("VIEW_FETCH_TIMEOUT", 10*time.Second),
		ReconcileConcurrency: envInt("RECONCILE_CONCURRENCY", 4),
		ReconcileBatchSize:   envInt("RECONCILE_BATCH_SIZE", 100),
		WorkerPollInterval:   envDuration("WORKER_POLL_INTERVAL", 2*time.Second),

		EnableReconcileJob: envBool("ENABLE_RECONCILE_JOB", true),
		EnableOutboxRelay:  envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envList(name string) []string {
	var items []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
