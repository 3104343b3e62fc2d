package cache

import (
	"context"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dallas  = domain.Coordinates{Lon: -96.797, Lat: 32.7767}
	houston = domain.Coordinates{Lon: -95.3698, Lat: 29.7604}
	sample  = domain.Route{
		Geometry:        orb.LineString{{-96.797, 32.7767}, {-96.0, 31.5}, {-95.3698, 29.7604}},
		DistanceMeters:  385000,
		DurationSeconds: 13500,
	}
)

func openSQLite(t *testing.T) *SqliteGeocodeCache {
	t.Helper()

	conn, err := db.OpenSQLite(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn, db.SQLite))

	return NewSqliteGeocodeCache(conn)
}

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	c := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"dallas, tx":  dallas,
		"houston, tx": houston,
	}))

	got, err := c.GetMany(ctx, []string{"dallas, tx", " dallas, tx ", "austin, tx", ""})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, dallas, got["dallas, tx"])

	empty, err := c.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSqliteGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := openSQLite(t)

	err := c.PutMany(context.Background(), map[string]domain.Coordinates{"  ": dallas})
	assert.Error(t, err)
}

func TestSqliteRouteCache(t *testing.T) {
	c := NewSqliteRouteCache(openSQLite(t).DB)
	ctx := context.Background()

	_, ok, err := c.GetRoute(ctx, dallas, houston)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutRoute(ctx, dallas, houston, sample))

	got, ok, err := c.GetRoute(ctx, dallas, houston)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample.Geometry, got.Geometry)
	assert.Equal(t, sample.DistanceMeters, got.DistanceMeters)

	// Direction matters.
	_, ok, err = c.GetRoute(ctx, houston, dallas)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisRouteCache(OpenRedis(mr.Addr(), "", 0), time.Hour)
	ctx := context.Background()

	_, ok, err := c.GetRoute(ctx, dallas, houston)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutRoute(ctx, dallas, houston, sample))

	got, ok, err := c.GetRoute(ctx, dallas, houston)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)

	mr.FastForward(2 * time.Hour)

	_, ok, err = c.GetRoute(ctx, dallas, houston)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestRedisRouteCacheCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisRouteCache(OpenRedis(mr.Addr(), "", 0), time.Hour)

	require.NoError(t, mr.Set(c.key(dallas, houston), "not json"))

	_, _, err := c.GetRoute(context.Background(), dallas, houston)
	assert.Error(t, err)
}

func TestOpenRedisWithoutAddr(t *testing.T) {
	assert.Nil(t, OpenRedis("", "", 0))
}

func TestDecodeGeometryRejectsPoint(t *testing.T) {
	_, err := decodeGeometry([]byte(`{"type":"Point","coordinates":[1,2]}`))
	assert.Error(t, err)
}
