package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable Load looks at, e.g.
// CHANFLOW_CHANNEL_CAPACITY or CHANFLOW_LOGGING_LEVEL.
const EnvPrefix = "CHANFLOW"

// LoaderConfig holds optional file overrides.
type LoaderConfig struct {
	ConfigFile string // YAML file (optional)
	EnvFile    string // .env file (optional)
}

type LoaderOption func(*LoaderConfig)

func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile loads a .env file before the environment is read. Variables
// already set in the process environment win.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the configuration in order: defaults, the YAML file, the .env
// file, the process environment. The result has defaults applied, is
// normalized and validated.
func Load(opts ...LoaderOption) (Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&lc)
		}
	}

	v := viper.New()
	setDefaults(v)

	// 1. YAML
	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", lc.ConfigFile, err)
		}
	}

	// 2. .env into the process environment
	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load .env file %s: %w", lc.EnvFile, err)
		}
	}

	// 3. environment, only for keys viper already knows from setDefaults
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal chanflow config: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("channel.capacity", d.Channel.Capacity)
	v.SetDefault("channel.policy", d.Channel.Policy)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.no_color", d.Logging.NoColor)
	v.SetDefault("logging.timestamp", d.Logging.Timestamp)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.name", d.Metrics.Name)
}
