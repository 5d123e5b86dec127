package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "NETHTTP"

// LoadOption is a functional option for [Load].
type LoadOption func(*loadOptions)
type loadOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile reads settings from path. Its extension picks the format.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFile preloads the variables of a .env file at path.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) { o.envFile = path }
}

// Load reads the configuration from the optional file and the
// environment, then applies defaults. It does not validate.
func Load(optFns ...LoadOption) (Config, error) {
	var opts loadOptions
	for _, opt := range optFns {
		opt(&opts)
	}

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return Config{}, fmt.Errorf("loading env file %s: %w", opts.envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Env values are only picked up for keys viper already knows.
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 0)
	v.SetDefault("user_agent", "")
	v.SetDefault("throttle.rps", 0)
	v.SetDefault("throttle.burst", 0)
	v.SetDefault("no_follow_redirects", false)
	v.SetDefault("any_status", false)
	v.SetDefault("download_dir", "")

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", opts.configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()

	return cfg, nil
}
