package config

// Settings for the two Redis-backed middlewares on the public browse
// routes. Seat-availability responses are cached only briefly: a stale
// seat map sends a customer into a SEAT_ALREADY_HELD round trip, so the
// default TTL stays well under the hold TTL.

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// CacheConfig drives the response cache middleware. Methods lists the
// HTTP methods worth caching; KeyStrategy picks which request parts form
// the cache key; MaxBodyBytes caps how large a response is stored.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables, with defaults
// suited to the browse endpoints.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

// RateLimitConfig drives the token-bucket rate limiter. Capacity is the
// bucket size; RefillTokens are added every RefillInterval. KeyStrategy
// selects which of ip/user/route compose the bucket key.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables and clamps
// the result into a sane shape: at least one token per interval, and a
// bucket TTL long enough that idle buckets are not forgotten mid-window.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}

func methodSet(raw string) map[string]bool {
    out := map[string]bool{}
    for _, p := range strings.Split(raw, ",") {
        if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
            out[p] = true
        }
    }
    return out
}

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(os.Getenv(key)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
        return n
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
        return d
    }
    return def
}
