package config

import (
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/logger"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBPath      string `mapstructure:"DB_PATH"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	ORSAPIKey  string `mapstructure:"ORS_API_KEY"`
	ORSBaseURL string `mapstructure:"ORS_BASE_URL"`
	ORSProfile string `mapstructure:"ORS_PROFILE"`

	NominatimURL       string  `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent string  `mapstructure:"NOMINATIM_USER_AGENT"`
	GeocodeRPS         float64 `mapstructure:"GEOCODE_RPS"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RouteCacheTTL time.Duration `mapstructure:"ROUTE_CACHE_TTL"`

	TankRangeMiles float64 `mapstructure:"TANK_RANGE_MILES"`
	MilesPerGallon float64 `mapstructure:"MILES_PER_GALLON"`
	CorridorMiles  float64 `mapstructure:"CORRIDOR_MILES"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"DB_DRIVER":            "sqlite",
	"DB_PATH":              "data/app.db",
	"DATABASE_URL":         "",
	"ORS_API_KEY":          "",
	"ORS_BASE_URL":         "https://api.openrouteservice.org",
	"ORS_PROFILE":          "driving-car",
	"NOMINATIM_URL":        "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT": "fuel-route-service/1.0",
	"GEOCODE_RPS":          1.0,
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"ROUTE_CACHE_TTL":      "24h",
	"TANK_RANGE_MILES":     500.0,
	"MILES_PER_GALLON":     10.0,
	"CORRIDOR_MILES":       10.0,
	"CORS_ORIGINS":         "*",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "text",
}

// Load reads .env (if present) and the environment into a Config. Flags in
// fs named after a key (DB_PATH -> --db-path) override both.
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.L().Debug("no .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)

		if fs == nil {
			continue
		}
		if f := fs.Lookup(flagName(k)); f != nil {
			if err := v.BindPFlag(k, f); err != nil {
				return nil, fmt.Errorf("load config: bind flag %s: %w", f.Name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the planner cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.TankRangeMiles <= 0 {
		errs = append(errs, fmt.Errorf("TANK_RANGE_MILES must be positive, got %v", c.TankRangeMiles))
	}
	if c.MilesPerGallon <= 0 {
		errs = append(errs, fmt.Errorf("MILES_PER_GALLON must be positive, got %v", c.MilesPerGallon))
	}
	if c.CorridorMiles < 0 {
		errs = append(errs, fmt.Errorf("CORRIDOR_MILES must not be negative, got %v", c.CorridorMiles))
	}
	if c.GeocodeRPS <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODE_RPS must be positive, got %v", c.GeocodeRPS))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func flagName(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// splitList flattens comma separated entries and drops blanks.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
