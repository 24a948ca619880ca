package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	ServiceName    = "retail-backoffice"
	ServiceVersion = "0.1.0"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	BrokerNone     = "none"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

// OpenTelemetry exporter settings
const (
	TracesPath    = "/otlp/v1/traces"
	ExportTimeout = 30 * time.Second
	MaxQueueSize  = 2048
)

type Config struct {
	Port   string
	AppEnv string

	Storage     string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBTimeZone  string

	SeedDemoData bool
	AuthRequired bool
	JWTSecret    string
	TokenTTL     time.Duration

	EventsBroker     string
	KafkaBrokers     []string
	KafkaTopic       string
	RabbitMQURL      string
	RabbitMQExchange string

	OtelEndpoint   string
	OtelAuthHeader string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN builds the postgres connection string unless DATABASE_URL was given
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

// Load reads configuration from environment variables and, when CONFIG_FILE is set,
// from that file. Environment wins over the file. Call godotenv first to pick up a .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("storage", StoragePostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_timezone", "UTC")
	v.SetDefault("seed_demo_data", false)
	v.SetDefault("auth_required", false)
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("events_broker", BrokerNone)
	v.SetDefault("kafka_topic", "retail.events")
	v.SetDefault("rabbitmq_exchange", "retail_exchange")

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:   v.GetString("port"),
		AppEnv: v.GetString("app_env"),

		Storage:     strings.ToLower(v.GetString("storage")),
		DatabaseURL: v.GetString("database_url"),
		DBHost:      v.GetString("db_host"),
		DBUser:      v.GetString("db_user"),
		DBPassword:  v.GetString("db_password"),
		DBName:      v.GetString("db_name"),
		DBPort:      v.GetString("db_port"),
		DBTimeZone:  v.GetString("db_timezone"),

		JWTSecret: v.GetString("jwt_secret"),

		EventsBroker:     strings.ToLower(v.GetString("events_broker")),
		KafkaBrokers:     splitList(v.GetString("kafka_brokers")),
		KafkaTopic:       v.GetString("kafka_topic"),
		RabbitMQURL:      v.GetString("rabbitmq_url"),
		RabbitMQExchange: v.GetString("rabbitmq_exchange"),

		OtelEndpoint:   v.GetString("otel_endpoint"),
		OtelAuthHeader: v.GetString("otel_auth_header"),
	}

	// viper's GetBool/GetDuration turn garbage into zero values; go through cast to surface it
	var err error
	if cfg.SeedDemoData, err = cast.ToBoolE(v.Get("seed_demo_data")); err != nil {
		return nil, fmt.Errorf("SEED_DEMO_DATA: %w", err)
	}
	if cfg.AuthRequired, err = cast.ToBoolE(v.Get("auth_required")); err != nil {
		return nil, fmt.Errorf("AUTH_REQUIRED: %w", err)
	}
	if cfg.TokenTTL, err = cast.ToDurationE(v.Get("token_ttl")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" && cfg.DBName == "" {
			return nil, fmt.Errorf("DATABASE_URL or DB_NAME environment variable is required for postgres storage")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	switch cfg.EventsBroker {
	case BrokerNone:
	case BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required when EVENTS_BROKER=kafka")
		}
	case BrokerRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when EVENTS_BROKER=rabbitmq")
		}
	default:
		return nil, fmt.Errorf("EVENTS_BROKER must be none, kafka or rabbitmq, got %q", cfg.EventsBroker)
	}

	if cfg.AuthRequired && cfg.JWTSecret == "" && cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required when AUTH_REQUIRED=true in production")
	}

	return cfg, nil
}

// splitList reads "a, b,c" as [a b c]
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
