package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Lock     LockConfig     `mapstructure:"lock"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL           string `mapstructure:"url"            validate:"required,url"`
	MigrateOnBoot bool   `mapstructure:"migrate_on_boot"`
}

// ScheduleConfig holds the default preferences used when a schedule request
// leaves a field unset. The bounds mirror domain.SchedulePreferences.
type ScheduleConfig struct {
	HorizonDays          int    `mapstructure:"horizon_days"           validate:"min=7,max=90"`
	BlocksPerWeekday     int    `mapstructure:"blocks_per_weekday"     validate:"min=1,max=8"`
	BlocksPerWeekend     int    `mapstructure:"blocks_per_weekend"     validate:"min=0,max=6"`
	BlockDurationMinutes int    `mapstructure:"block_duration_minutes" validate:"min=15,max=180"`
	Grouping             string `mapstructure:"grouping"               validate:"oneof=most_grouped balanced least_grouped"`
	Timezone             string `mapstructure:"timezone"               validate:"required"`
}

// LockConfig selects how per-user critical sections are serialized.
// The redis backend is required when more than one instance serves traffic.
type LockConfig struct {
	Backend   string        `mapstructure:"backend"    validate:"required,oneof=memory redis"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	TTL       time.Duration `mapstructure:"ttl"        validate:"gt=0"`
}
