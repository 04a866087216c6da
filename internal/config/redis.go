package config

// Redis backs the public response cache and the rate limiter.  Both treat
// a nil client as "disabled", so an unreachable server degrades the public
// routes to uncached and unlimited instead of failing start-up.

import (
    "context"
    "crypto/tls"
    "log"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings read from REDIS_*.
type RedisConfig struct {
    Addr        string
    Password    string
    DB          int
    TLS         bool
    DialTimeout time.Duration
}

// LoadRedisConfig reads REDIS_ADDR, or REDIS_HOST and REDIS_PORT which take
// precedence when both are set, plus REDIS_PASSWORD, REDIS_DB, REDIS_TLS and
// REDIS_DIAL_TIMEOUT.
func LoadRedisConfig() RedisConfig {
    cfg := RedisConfig{
        Addr:        getenv("REDIS_ADDR", "localhost:6379"),
        Password:    getenv("REDIS_PASSWORD", ""),
        DB:          envInt("REDIS_DB", 0),
        TLS:         envBool("REDIS_TLS", false),
        DialTimeout: envDur("REDIS_DIAL_TIMEOUT", 2*time.Second),
    }
    if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
        cfg.Addr = host + ":" + port
    }
    return cfg
}

// NewRedisClient connects with LoadRedisConfig and pings the server.  It
// returns nil when the ping fails.
func NewRedisClient() *redis.Client {
    cfg := LoadRedisConfig()
    opts := &redis.Options{
        Addr:        cfg.Addr,
        Password:    cfg.Password,
        DB:          cfg.DB,
        DialTimeout: cfg.DialTimeout,
    }
    if cfg.TLS {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)

    ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: %s unreachable, cache and rate limit disabled: %v", cfg.Addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
