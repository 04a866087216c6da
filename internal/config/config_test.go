package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadEditorConfigDefaults(t *testing.T) {
    cfg, err := LoadEditorConfig("")
    require.NoError(t, err)
    assert.Equal(t, 50, cfg.Editor.HistoryDepth)
    l := cfg.NewLayout("")
    assert.Equal(t, 20.0, l.Settings.GridSize)
    assert.True(t, l.Settings.SnapToGrid)
}

func TestLoadEditorConfigFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "editor.yaml")
    body := "editor:\n  seats_per_row: 12\n  history_depth: 100\nlayout:\n  grid_size: 25\n  snap_to_grid: false\n"
    require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

    cfg, err := LoadEditorConfig(path)
    require.NoError(t, err)
    assert.Equal(t, 12, cfg.Editor.SeatsPerRow)
    assert.Equal(t, 100, cfg.Editor.HistoryDepth)
    assert.Equal(t, 40.0, cfg.Editor.RowSpacing, "unset keys keep the default")

    l := cfg.NewLayout("Hall 1")
    assert.Equal(t, "Hall 1", l.Name)
    assert.Equal(t, 25.0, l.Settings.GridSize)
    assert.False(t, l.Settings.SnapToGrid)
    assert.True(t, l.Settings.ShowGrid)
}

func TestLoadEditorConfigErrors(t *testing.T) {
    _, err := LoadEditorConfig(filepath.Join(t.TempDir(), "missing.yaml"))
    assert.Error(t, err)

    path := filepath.Join(t.TempDir(), "bad.yaml")
    require.NoError(t, os.WriteFile(path, []byte("editor: [1, 2"), 0o600))
    _, err = LoadEditorConfig(path)
    assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
    t.Setenv("SEATMAP_TEST_DUR", "90s")
    t.Setenv("SEATMAP_TEST_BOOL", "off")
    t.Setenv("SEATMAP_TEST_INT", "x")
    assert.Equal(t, 90*time.Second, envDur("SEATMAP_TEST_DUR", time.Second))
    assert.False(t, envBool("SEATMAP_TEST_BOOL", true))
    assert.Equal(t, 7, envInt("SEATMAP_TEST_INT", 7))
    assert.Equal(t, "fallback", getenv("SEATMAP_TEST_UNSET", "fallback"))
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_TTL", "1m")
    cfg := LoadCacheConfig()
    assert.True(t, cfg.Methods["GET"])
    assert.True(t, cfg.Methods["HEAD"])
    assert.Equal(t, time.Minute, cfg.TTL)
}

func TestLoadRateLimitClampsTTL(t *testing.T) {
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    cfg := LoadRateLimitConfig()
    assert.Equal(t, 50*time.Second, cfg.TTL)
}

func TestLoadCacheConfigFallbacks(t *testing.T) {
    t.Setenv("CACHE_METHODS", " , ")
    t.Setenv("CACHE_TTL", "-5s")
    t.Setenv("CACHE_MAX_BODY_BYTES", "0")
    t.Setenv("CACHE_KEY_STRATEGY", "ROUTE")
    cfg := LoadCacheConfig()
    assert.Equal(t, map[string]bool{"GET": true}, cfg.Methods)
    assert.Equal(t, 30*time.Second, cfg.TTL)
    assert.Equal(t, 2<<20, cfg.MaxBodyBytes)
    assert.Equal(t, "route", cfg.KeyStrategy)
    assert.Equal(t, "seatmap:cache", cfg.Prefix)
}

func TestLoadRateLimitShorthands(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "10")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "3s")
    cfg := LoadRateLimitConfig()
    assert.Equal(t, 10, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 3*time.Second, cfg.RefillInterval)
    assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    t.Setenv("REDIS_DB", "2")
    assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)
    assert.Equal(t, 2, LoadRedisConfig().DB)

    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6379")
    assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)
}
