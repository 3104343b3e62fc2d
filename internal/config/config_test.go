package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 500.0, cfg.TankRangeMiles)
	assert.Equal(t, 10.0, cfg.MilesPerGallon)
	assert.Equal(t, 10.0, cfg.CorridorMiles)
	assert.Equal(t, 24*time.Hour, cfg.RouteCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("TANK_RANGE_MILES", "650")
	t.Setenv("ROUTE_CACHE_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 650.0, cfg.TankRangeMiles)
	assert.Equal(t, 90*time.Minute, cfg.RouteCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_PATH", "from-env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db-path", "", "")
	require.NoError(t, fs.Parse([]string{"--db-path", "from-flag.db"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.db", cfg.DBPath)
}

func TestLoadRejectsInvalidPlannerSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MILES_PER_GALLON", "0")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MILES_PER_GALLON")
}

func TestGet(t *testing.T) {
	t.Setenv("FUEL_TEST_KEY", "set")

	assert.Equal(t, "set", Get("FUEL_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("FUEL_TEST_MISSING", "fallback"))
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
