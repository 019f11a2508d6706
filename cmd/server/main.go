package main

import (
    "context"
    "log"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/config"
    "github.com/cinetick/cinema-ticketing/internal/database"
    "github.com/cinetick/cinema-ticketing/internal/handler"
    "github.com/cinetick/cinema-ticketing/internal/middleware"
    "github.com/cinetick/cinema-ticketing/internal/queue"
    "github.com/cinetick/cinema-ticketing/internal/repository"
    "github.com/cinetick/cinema-ticketing/internal/router"
    queuepublisher "github.com/cinetick/cinema-ticketing/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    venues := repository.NewVenueRepo(db)
    rooms := repository.NewRoomRepo(db)
    seats := repository.NewSeatRepo(db)
    movies := repository.NewMovieRepo(db)
    screenings := repository.NewScreeningRepo(db)
    bookings := repository.NewBookingRepo(db)
    catalog := repository.NewCatalog(movies, rooms, seats, screenings)

    var notifier booking.Notifier
    if cfg.AMQPURL != "" {
        notifier = queuepublisher.NewPublisher()
    }
    eng := booking.New(catalog, bookings, notifier, time.Duration(cfg.HoldTTLMin)*time.Minute)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    go eng.RunSweeper(ctx, time.Duration(cfg.SweepIntervalSec)*time.Second)
    if cfg.AMQPURL != "" {
        go func() {
            if err := queue.StartPaymentResultConsumer(eng); err != nil {
                log.Printf("payment consumer: %v", err)
            }
        }()
    }

    e := echo.New()
    e.HideBanner = true

    // Redis backs the public-route response cache and the rate limiter;
    // both middlewares degrade to pass-through when it is unreachable.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable, cache and rate limiting disabled")
    }
    publicMW := []echo.MiddlewareFunc{
        middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
    }

    router.RegisterRoutes(e)
    router.RegisterPublic(e, handler.NewPublicHandler(venues, rooms, movies, screenings, seats, bookings), publicMW...)
    router.RegisterCustomer(e, handler.NewBookingHandler(eng, bookings, seats), cfg.JWTSecret)
    router.RegisterAdmin(e, handler.NewAdminHandler(venues, rooms, seats, movies), handler.NewScreeningHandler(eng, screenings, rooms), cfg.JWTSecret)
    router.RegisterPayments(e, handler.NewPaymentHandler(eng, cfg.WebhookSecret))

    go func() {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := e.Shutdown(shutdownCtx); err != nil {
            log.Printf("shutdown: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Printf("server stopped: %v", err)
    }
}
