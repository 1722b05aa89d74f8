// README: Process config loaded through viper from COMPASS_* env vars and an optional .env file.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env string `mapstructure:"ENV"`

	HTTP struct {
		Addr string `mapstructure:"HTTP_ADDR"`
	} `mapstructure:",squash"`
	DB struct {
		DSN string `mapstructure:"DB_DSN"`
	} `mapstructure:",squash"`
	Redis struct {
		Addr string `mapstructure:"REDIS_ADDR"`
	} `mapstructure:",squash"`
	Maps struct {
		APIKey         string `mapstructure:"MAPS_API_KEY"`
		GeocodeEnabled bool   `mapstructure:"GEOCODE_ENABLED"`
	} `mapstructure:",squash"`
	Routing struct {
		// ProxyURL points at the deployment's maps proxy; when set it is
		// preferred over calling Google directly with APIKey.
		ProxyURL string        `mapstructure:"DISTANCE_API_URL"`
		Timeout  time.Duration `mapstructure:"ROUTING_TIMEOUT"`
	} `mapstructure:",squash"`
	Pricing struct {
		RatesFile string `mapstructure:"RATES_FILE"`
	} `mapstructure:",squash"`
}

var defaults = map[string]any{
	"ENV":              "development",
	"HTTP_ADDR":        ":8080",
	"DB_DSN":           "",
	"REDIS_ADDR":       "",
	"MAPS_API_KEY":     "",
	"GEOCODE_ENABLED":  false,
	"DISTANCE_API_URL": "",
	"ROUTING_TIMEOUT":  "10s",
	"RATES_FILE":       "",
}

// Load reads ./.env if present, then COMPASS_* env vars.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Env vars win over the file.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Routing.Timeout <= 0 {
		return Config{}, errors.New("COMPASS_ROUTING_TIMEOUT must be positive")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
