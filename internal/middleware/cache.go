package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/cinetick/cinema-ticketing/internal/config"
)

// captureWriter tees the response into a buffer while forwarding it to
// the client, so a cacheable response is stored exactly as it was sent.
// Capture stops at limit bytes; an overflowing response is simply not
// cached.
type captureWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    size     int64
    limit    int64
    overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    cw.size += int64(len(b))
    if cw.limit > 0 && cw.size > cw.limit {
        cw.overflow = true
    } else {
        cw.buf.Write(b)
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the configured request parts into a fixed-size key so
// long query strings cannot bloat the Redis keyspace.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    parts := []string{}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", c.Path())
    case "method_route":
        parts = append(parts, "method", r.Method, "route", c.Path())
    case "method_route_query":
        parts = append(parts, "method", r.Method, "route", c.Path(), "q", r.URL.RawQuery)
    default: // "route_query"
        parts = append(parts, "route", c.Path(), "q", r.URL.RawQuery)
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// Cached entries pack status, headers and body into one value:
// [4 bytes status][4 bytes header length][header JSON][body].

func encodeEntry(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodeEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses of the configured methods in
// Redis. Headers are stored alongside the body so a hit is
// byte-identical to the original response. Only 200s are cached; error
// responses and seat-race conflicts always go to the handlers.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passthrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            key := cacheKey(cfg, c)

            if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                if status, hdr, body, ok := decodeEntry(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            cw := &captureWriter{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          int64(cfg.MaxBodyBytes),
            }
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow {
                return nil
            }

            hdr := make(http.Header, len(c.Response().Header()))
            for k, vals := range c.Response().Header() {
                hdr[k] = append([]string(nil), vals...)
            }
            if entry, err := encodeEntry(cw.status, hdr, cw.buf.Bytes()); err == nil {
                // Detached context: the client may be gone, the store
                // should still happen.
                _ = rdb.SetEx(context.Background(), key, entry, ttl).Err()
            }
            return nil
        }
    }
}
