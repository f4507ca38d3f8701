package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Wallet   WalletConfig
	Purchase PurchaseConfig
	Log      LogConfig
	QRSecret string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the profile store backend: memory, sqlite, postgres or redis.
type StoreConfig struct {
	Driver         string
	DSN            string
	RedisNamespace string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

type WalletConfig struct {
	ExtensionRPCURL      string
	AltChainRPCURL       string
	RelayRPCEndpoint     string
	RelayEnabled         bool
	RelayApprovalTimeout time.Duration
	RPCTimeout           time.Duration
}

type PurchaseConfig struct {
	ProcessingDelay time.Duration
	// GuardBackend is "local" or "redis".
	GuardBackend string
	GuardTTL     time.Duration
}

type LogConfig struct {
	Dir   string
	Level string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", ":8080"),
			ReadTimeout: getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			// SSE streams stay open, so writes are not bounded by default
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			DSN:            getEnv("STORE_DSN", "file:storefront.db?cache=shared"),
			RedisNamespace: getEnv("STORE_REDIS_NAMESPACE", "storefront:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_TICKETS_PURCHASED", "tickets.purchased"),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
		},
		Wallet: WalletConfig{
			ExtensionRPCURL:      getEnv("WALLET_EXTENSION_RPC_URL", ""),
			AltChainRPCURL:       getEnv("WALLET_ALT_CHAIN_RPC_URL", ""),
			RelayRPCEndpoint:     getEnv("WALLET_RELAY_RPC_ENDPOINT", ""),
			RelayEnabled:         getEnvBool("WALLET_RELAY_ENABLED", true),
			RelayApprovalTimeout: getEnvDuration("WALLET_RELAY_APPROVAL_TIMEOUT", 2*time.Minute),
			RPCTimeout:           getEnvDuration("WALLET_RPC_TIMEOUT", 30*time.Second),
		},
		Purchase: PurchaseConfig{
			ProcessingDelay: getEnvDuration("PURCHASE_PROCESSING_DELAY", 2*time.Second),
			GuardBackend:    strings.ToLower(getEnv("PURCHASE_GUARD", "local")),
			GuardTTL:        getEnvDuration("PURCHASE_GUARD_TTL", 30*time.Second),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		QRSecret: getEnv("QR_SECRET_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("2s", "1m30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
