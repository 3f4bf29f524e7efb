package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Broker  BrokerConfig  `mapstructure:"broker"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type WebhookConfig struct {
	Secret         string   `mapstructure:"secret"`
	AllowedSenders []string `mapstructure:"allowed_senders"`
}

type BrokerConfig struct {
	QueueSize         int           `mapstructure:"queue_size"`
	KeepAliveInterval time.Duration `mapstructure:"keepalive_interval"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	AuthTimeout       time.Duration `mapstructure:"auth_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("gametrack")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/gametrack")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GAMETRACK")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./data/gametrack.db")

	viper.SetDefault("auth.secret", "")
	viper.SetDefault("auth.token_ttl", 24*time.Hour)

	viper.SetDefault("webhook.secret", "")
	viper.SetDefault("webhook.allowed_senders", []string{})

	viper.SetDefault("broker.queue_size", 32)
	viper.SetDefault("broker.keepalive_interval", 15*time.Second)
	viper.SetDefault("broker.write_timeout", 10*time.Second)
	viper.SetDefault("broker.auth_timeout", 10*time.Second)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}
