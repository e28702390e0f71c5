package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// SCRY_SERVER_PORT -> server.port
	v.SetEnvPrefix("SCRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only affects keys viper already knows about
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return nil, fmt.Errorf("config validation failed: schedule.timezone: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.migrate_on_boot", true)

	v.SetDefault("schedule.horizon_days", 14)
	v.SetDefault("schedule.blocks_per_weekday", 3)
	v.SetDefault("schedule.blocks_per_weekend", 2)
	v.SetDefault("schedule.block_duration_minutes", 45)
	v.SetDefault("schedule.grouping", "balanced")
	v.SetDefault("schedule.timezone", "UTC")

	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.ttl", 10*time.Second)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.log_level",
		"server.shutdown_timeout",
		"database.url",
		"database.migrate_on_boot",
		"schedule.horizon_days",
		"schedule.blocks_per_weekday",
		"schedule.blocks_per_weekend",
		"schedule.block_duration_minutes",
		"schedule.grouping",
		"schedule.timezone",
		"lock.backend",
		"lock.redis_addr",
		"lock.ttl",
	}
	for _, key := range keys {
		// BindEnv only fails when called without a key
		_ = v.BindEnv(key)
	}
}
