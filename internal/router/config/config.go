package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string        `mapstructure:"POSTGRES_CONN"`
	MigrationURL  string        `mapstructure:"MIGRATION_URL"`
	FeedURL       string        `mapstructure:"FEED_URL"`
	FeedTimeout   time.Duration `mapstructure:"FEED_TIMEOUT"`
	SyncInterval  time.Duration `mapstructure:"SYNC_INTERVAL"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	EmailAPIURL   string        `mapstructure:"EMAIL_API_URL"`
	EmailAPIToken string        `mapstructure:"EMAIL_API_TOKEN"`
}

// LoadConfig загружает конфигурацию из файла app.env и переменных окружения.
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("FEED_TIMEOUT", "30s")
	viper.SetDefault("SYNC_INTERVAL", "24h")
	viper.SetDefault("CACHE_TTL", "10m")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
