package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the payments gateway
// integration. Values are sourced from the environment, optionally seeded
// from a .env file during development.
type Config struct {
	App      AppConfig
	Gateway  GatewayConfig
	Kafka    KafkaConfig
	Topics   TopicConfig
	Retry    RetryConfig
	Lock     LockConfig
	Notifier NotifierConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// StoreConfig holds the gateway credentials and policy for a single
// merchant store.
type StoreConfig struct {
	MerchantSecret    string
	AuthenticityToken string
	BaseURL           string // optional override of GatewayConfig.BaseURL
	Currencies        []string
	TransactionType   string // purchase or authorize
}

// GatewayConfig carries the gateway endpoint and per-store settings.
type GatewayConfig struct {
	BaseURL string
	Stores  map[string]StoreConfig
}

// KafkaConfig defines broker information for the callback worker.
type KafkaConfig struct {
	Brokers []string
}

// TopicConfig enumerates the topics the callback worker touches.
type TopicConfig struct {
	Callback      string
	Status        string
	DLQ           string
	ConsumerGroup string
}

// RetryConfig controls worker retry and backoff behaviour.
type RetryConfig struct {
	MaxAttempts         int
	BaseBackoffSeconds  int
	MaxBackoffSeconds   int
	WorkerConcurrency   int
	CommitOnSuccessOnly bool
	MsgMaxBytes         int
}

// LockConfig selects and tunes the order lock backend.
type LockConfig struct {
	Backend       string // memory or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// SMTPConfig stores SMTP credentials for confirmation email delivery.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NotifierConfig selects the confirmation notifier backend.
type NotifierConfig struct {
	Backend string // smtp or mock
	SMTP    SMTPConfig
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Gateway.BaseURL = ldr.getString("GATEWAY_BASE_URL", "", true)
	cfg.Gateway.Stores = loadStores(ldr)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", true)

	cfg.Topics.Callback = ldr.getString("KAFKA_CALLBACK_TOPIC", "", true)
	cfg.Topics.Status = ldr.getString("KAFKA_CALLBACK_STATUS_TOPIC", "", true)
	cfg.Topics.DLQ = ldr.getString("KAFKA_CALLBACK_DLQ_TOPIC", "", true)
	cfg.Topics.ConsumerGroup = ldr.getString("CALLBACK_CONSUMER_GROUP", "", true)

	cfg.Retry.MaxAttempts = ldr.getInt("MAX_ATTEMPTS", 3, false)
	cfg.Retry.BaseBackoffSeconds = ldr.getInt("BASE_BACKOFF_SECONDS", 5, false)
	cfg.Retry.MaxBackoffSeconds = ldr.getInt("MAX_BACKOFF_SECONDS", 60, false)
	cfg.Retry.WorkerConcurrency = ldr.getInt("WORKER_CONCURRENCY", 10, false)
	cfg.Retry.CommitOnSuccessOnly = ldr.getBool("COMMIT_ON_SUCCESS_ONLY", true, false)
	cfg.Retry.MsgMaxBytes = ldr.getInt("MSG_MAX_BYTES", 65536, false)

	cfg.Lock.Backend = ldr.getString("LOCK_BACKEND", "memory", false)
	cfg.Lock.RedisAddr = ldr.getString("LOCK_REDIS_ADDR", "", false)
	cfg.Lock.RedisPassword = ldr.getString("LOCK_REDIS_PASSWORD", "", false)
	cfg.Lock.RedisDB = ldr.getInt("LOCK_REDIS_DB", 0, false)
	cfg.Lock.TTLSeconds = ldr.getInt("LOCK_TTL_SECONDS", 120, false)

	cfg.Notifier.Backend = ldr.getString("NOTIFIER_BACKEND", "mock", false)
	cfg.Notifier.SMTP.Host = ldr.getString("SMTP_HOST", "", false)
	cfg.Notifier.SMTP.Port = ldr.getInt("SMTP_PORT", 587, false)
	cfg.Notifier.SMTP.User = ldr.getString("SMTP_USER", "", false)
	cfg.Notifier.SMTP.Pass = ldr.getString("SMTP_PASS", "", false)
	cfg.Notifier.SMTP.From = ldr.getString("SMTP_FROM", "", false)

	if strings.EqualFold(cfg.Lock.Backend, "redis") && cfg.Lock.RedisAddr == "" {
		ldr.addError("LOCK_REDIS_ADDR is required when LOCK_BACKEND=redis")
	}
	if strings.EqualFold(cfg.Notifier.Backend, "smtp") && cfg.Notifier.SMTP.Host == "" {
		ldr.addError("SMTP_HOST is required when NOTIFIER_BACKEND=smtp")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadStores reads per-store gateway settings. STORES lists the configured
// store identifiers; each store S reads STORE_<S>_MERCHANT_SECRET,
// STORE_<S>_AUTHENTICITY_TOKEN and STORE_<S>_CURRENCIES, plus the optional
// STORE_<S>_TRANSACTION_TYPE and STORE_<S>_BASE_URL overrides.
func loadStores(ldr *envLoader) map[string]StoreConfig {
	ids := ldr.getStringSlice("STORES", true)
	stores := make(map[string]StoreConfig, len(ids))

	for _, id := range ids {
		key := "STORE_" + strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
		stores[id] = StoreConfig{
			MerchantSecret:    ldr.getString(key+"_MERCHANT_SECRET", "", true),
			AuthenticityToken: ldr.getString(key+"_AUTHENTICITY_TOKEN", "", true),
			BaseURL:           ldr.getString(key+"_BASE_URL", "", false),
			Currencies:        ldr.getStringSlice(key+"_CURRENCIES", true),
			TransactionType:   ldr.getString(key+"_TRANSACTION_TYPE", "purchase", false),
		}
	}

	return stores
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}

func (l *envLoader) getString(key, def string, required bool) string {
	val, ok := os.LookupEnv(key)
	if ok {
		val = strings.TrimSpace(val)
	}
	if val == "" {
		if required {
			l.addError(fmt.Sprintf("%s is required", key))
		}
		return def
	}
	return val
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	val := l.getString(key, "", required)
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getBool(key string, def bool, required bool) bool {
	val := l.getString(key, "", required)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid boolean", key))
		return def
	}
	return parsed
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}
