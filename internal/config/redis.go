package config

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client backing the response cache and
// the rate limiter on the browse endpoints. Connection parameters come
// from REDIS_ADDR (or REDIS_HOST/REDIS_PORT), REDIS_PASSWORD, REDIS_DB
// and REDIS_TLS. The client is pinged once; on failure nil is returned
// and both middlewares degrade to pass-through.
func NewRedisClient() *redis.Client {
    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }

    dbNum := 0
    if raw := os.Getenv("REDIS_DB"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            dbNum = n
        }
    }
    var tlsConf *tls.Config
    if raw := os.Getenv("REDIS_TLS"); raw == "1" || strings.EqualFold(raw, "true") {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        dbNum,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
