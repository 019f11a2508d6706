// Package database opens the MySQL pool the repositories run on.
package database

import (
    "context"
    "database/sql"
    "net"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection with a short ping.
// parseTime maps DATETIME columns onto time.Time and loc=UTC keeps every
// timestamp in UTC, which the hold-expiry comparisons rely on.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    cfg := mysql.NewConfig()
    cfg.User = user
    cfg.Passwd = pass
    cfg.Net = "tcp"
    cfg.Addr = net.JoinHostPort(host, port)
    cfg.DBName = name
    cfg.ParseTime = true
    cfg.Loc = time.UTC
    cfg.Params = map[string]string{"charset": "utf8mb4"}

    db, err := sql.Open("mysql", cfg.FormatDSN())
    if err != nil {
        return nil, err
    }

    // The workload is many short transactions (hold creation, finalize);
    // a modest pool with recycled connections is enough.
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        db.Close()
        return nil, err
    }
    return db, nil
}
