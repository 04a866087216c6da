package middleware

import (
    "bytes"
    "context"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/seatmap-studio/internal/codec"
    "github.com/iliyamo/seatmap-studio/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size < cw.limit {
        remain := cw.limit - cw.size
        if cw.limit <= 0 {
            cw.buf.Write(b)
        } else if remain > 0 {
            if int64(len(b)) <= remain {
                cw.buf.Write(b)
            } else {
                cw.buf.Write(b[:remain])
            }
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// eventScope returns the key segment grouping every cached response of one
// event so a save can purge them together.
func eventScope(prefix, eventID string) string {
    return fmt.Sprintf("%s:event:%s", prefix, eventID)
}

// Build a stable cache key honoring prefix/strategy.  Routes carrying an
// :event_id parameter are keyed under the event scope.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    method := r.Method
    route := c.Path()
    query := r.URL.RawQuery

    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", route)
    case "method_route":
        parts = append(parts, "method", method, "route", route)
    case "method_route_query":
        parts = append(parts, "method", method, "route", route, "q", query)
    default: // "route_query"
        parts = append(parts, "route", route, "q", query)
    }
    // the literal path tells apart requests sharing a route pattern
    parts = append(parts, "path", r.URL.Path)

    scope := cfg.Prefix
    if id := c.Param("event_id"); id != "" {
        scope = eventScope(cfg.Prefix, id)
    }
    sum := codec.Fingerprint([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%s", scope, sum[:40])
}

// NewRedisCache stores headers + body so clients see identical formatting (e.g., pretty JSON) as original.
// Entries are CBOR-encoded codec.CachedResponse values.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    ttl := cfg.TTL
    if ttl <= 0 { ttl = 5 * time.Minute } // sane default longer TTL

    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            // Try get from Redis
            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if cached, err := codec.DecodeResponse(bs); err == nil {
                    // Restore headers (except hop-by-hop)
                    for k, vals := range cached.Header {
                        // X-Cache will be set below; skip Content-Length (Echo will handle)
                        if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") { continue }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cached.Status)
                    if len(cached.Body) > 0 {
                        _, _ = c.Response().Write(cached.Body)
                    }
                    return nil
                }
            }

            // Miss: capture
            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            // truncated bodies are never stored
            if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
                hdr := c.Response().Header().Clone()
                hdr.Del("X-Cache")
                if payload, err := codec.EncodeResponse(cw.status, hdr, cw.buf.Bytes()); err == nil {
                    _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
                }
            }
            return nil
        }
    }
}

// CachePurger deletes cached public responses of an event.
type CachePurger struct {
    rdb    *redis.Client
    prefix string
}

// NewCachePurger returns a purger for caches built with cfg.  A nil client
// gives a purger that does nothing.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) *CachePurger {
    return &CachePurger{rdb: rdb, prefix: cfg.Prefix}
}

// PurgeEvent removes every cached response keyed under eventID.
func (p *CachePurger) PurgeEvent(ctx context.Context, eventID uint64) error {
    if p == nil || p.rdb == nil {
        return nil
    }
    pattern := eventScope(p.prefix, fmt.Sprint(eventID)) + ":*"
    iter := p.rdb.Scan(ctx, 0, pattern, 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return fmt.Errorf("scan cache keys: %w", err)
    }
    if len(keys) == 0 {
        return nil
    }
    return p.rdb.Del(ctx, keys...).Err()
}
