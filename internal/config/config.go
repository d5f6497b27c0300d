package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Uploads   UploadConfig    `mapstructure:"uploads"`
	Accounts  AccountsConfig  `mapstructure:"accounts"`
	Penalty   PenaltyConfig   `mapstructure:"penalty"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type DatabaseConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
}

// Configured reports whether SMTP credentials are present. Notification
// dispatch is skipped silently when they are not.
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

type UploadConfig struct {
	Root              string   `mapstructure:"root"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// AccountsConfig holds the placeholder shared-secret credential tables.
// Doctor entries are seeded into the DB-backed store at startup.
type AccountsConfig struct {
	Doctors     map[string]string `mapstructure:"doctors"`
	Officials   map[string]string `mapstructure:"officials"`
	HealthAdmin map[string]string `mapstructure:"health_admin"`
	Authority   map[string]string `mapstructure:"authority"`
}

type PenaltyConfig struct {
	// DedupWindow > 0 rejects a second levy with the same national id and
	// reason inside the window. Zero keeps the original append-anything
	// behavior.
	DedupWindow time.Duration `mapstructure:"dedup_window"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.connect_timeout", 5*time.Second)
	viper.SetDefault("jwt.expiry_hours", 4)
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 465)
	viper.SetDefault("uploads.root", "uploads")
	viper.SetDefault("uploads.allowed_extensions", []string{"pdf", "png", "jpg", "jpeg"})
	viper.SetDefault("penalty.dedup_window", time.Duration(0))
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.rps", 50.0)
	viper.SetDefault("rate_limit.burst", 100)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
