package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Resend   ResendConfig   `mapstructure:"resend"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id"`
	Topics          []string `mapstructure:"topics"`
}

type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
	// From is the sender identity, e.g. "LedgerPress <newsletter@ledgerpress.io>".
	From string `mapstructure:"from"`
}

type NotifyConfig struct {
	// BaseURL is the public site origin embedded in email links. It must be
	// fixed, trusted configuration — never derived from request headers.
	BaseURL string `mapstructure:"base_url"`
	// BatchSize is the per-batch recipient ceiling (provider limit).
	BatchSize int `mapstructure:"batch_size"`
	// BatchDelay is the pacing delay between batches.
	BatchDelay time.Duration `mapstructure:"batch_delay"`
	// MaxConcurrency bounds parallel sends within a batch.
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load reads configuration from environment variables and config files.
// Environment variables override file values. Prefix: LEDGERPRESS_
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "8092")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "ledgerpress")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group_id", "ledgerpress-notifier-group")
	v.SetDefault("kafka.topics", []string{"post-events"})
	v.SetDefault("resend.from", "LedgerPress <newsletter@ledgerpress.io>")
	v.SetDefault("notify.base_url", "http://localhost:3000")
	v.SetDefault("notify.batch_size", 100)
	v.SetDefault("notify.batch_delay", "1s")
	v.SetDefault("notify.max_concurrency", 10)

	// Environment variables (e.g. DATABASE_HOST -> database.host)
	v.SetEnvPrefix("LEDGERPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support simple env vars without prefix for Docker Compose convenience
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("resend.api_key", "RESEND_API_KEY")
	v.BindEnv("notify.base_url", "SITE_BASE_URL")
	v.BindEnv("admin.jwt_secret", "ADMIN_JWT_SECRET")
	v.BindEnv("server.port", "PORT")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}
