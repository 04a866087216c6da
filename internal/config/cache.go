package config

import (
    "strings"
    "time"
)

// CacheConfig controls the response cache in front of the public seat map
// routes.  Entries of one event live under "<Prefix>:event:<id>" so saving
// that event's seat map can purge them.
//
// KeyStrategy picks the request parts hashed into a key: "route",
// "route_query" (default), "method_route" or "method_route_query".
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool // upper-case HTTP methods that are cached
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int // larger responses are served but never stored
}

const (
    defaultCacheTTL     = 30 * time.Second
    defaultCacheMaxBody = 2 << 20
)

// LoadCacheConfig reads the CACHE_* variables.  Unusable values fall back to
// the defaults.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(getenv("CACHE_METHODS", "GET,HEAD")),
        TTL:          envDur("CACHE_TTL", defaultCacheTTL),
        KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", "route_query")),
        Prefix:       getenv("CACHE_PREFIX", "seatmap:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", defaultCacheMaxBody),
    }
    if len(cfg.Methods) == 0 {
        cfg.Methods = map[string]bool{"GET": true}
    }
    if cfg.TTL <= 0 {
        cfg.TTL = defaultCacheTTL
    }
    if cfg.MaxBodyBytes <= 0 {
        cfg.MaxBodyBytes = defaultCacheMaxBody
    }
    return cfg
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
            m[p] = true
        }
    }
    return m
}
