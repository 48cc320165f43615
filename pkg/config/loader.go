package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper. Precedence is
// ENV > config file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a loader. configFile may be empty; envPrefix is
// the environment variable prefix (e.g. "SHOPLENS").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

// Load reads defaults, the optional config file, and environment
// overrides, then validates the result.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (l *ViperLoader) Validate(cfg *Config) error {
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in [1, 65535], got %d", cfg.HTTP.Port)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if cfg.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	switch cfg.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Cache.URL == "" {
			return fmt.Errorf("cache.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Reports.DefaultPerPage < 1 {
		return fmt.Errorf("reports.default_per_page must be positive")
	}
	if cfg.Reports.MaxPerPage < cfg.Reports.DefaultPerPage {
		return fmt.Errorf("reports.max_per_page must be at least reports.default_per_page")
	}
	return nil
}

func (l *ViperLoader) setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("service.name", defaults.Service.Name)
	v.SetDefault("service.environment", defaults.Service.Environment)

	v.SetDefault("http.port", defaults.HTTP.Port)
	v.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", defaults.HTTP.IdleTimeout)
	v.SetDefault("http.shutdown_timeout", defaults.HTTP.ShutdownTimeout)

	v.SetDefault("database.url", defaults.Database.URL)
	v.SetDefault("database.max_open_conns", defaults.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaults.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", defaults.Database.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", defaults.Database.ConnMaxIdleTime)
	v.SetDefault("database.query_timeout", defaults.Database.QueryTimeout)

	v.SetDefault("cache.backend", defaults.Cache.Backend)
	v.SetDefault("cache.url", defaults.Cache.URL)
	v.SetDefault("cache.max_conns", defaults.Cache.MaxConns)
	v.SetDefault("cache.operation_timeout", defaults.Cache.OperationTimeout)

	v.SetDefault("reports.default_per_page", defaults.Reports.DefaultPerPage)
	v.SetDefault("reports.max_per_page", defaults.Reports.MaxPerPage)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}
