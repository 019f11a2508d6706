package booking

import (
    "context"
    "log"
    "time"
)

// RunSweeper runs the expiry sweep on a fixed interval until ctx is
// cancelled.  It backstops the lazy per-request expiry so abandoned holds
// free their seats within one interval even on an idle screening.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
    if interval <= 0 {
        interval = time.Minute
    }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    log.Printf("booking: expiry sweeper started (every %s)", interval)
    for {
        select {
        case <-ctx.Done():
            log.Println("booking: expiry sweeper stopped")
            return
        case <-ticker.C:
            released, err := e.ExpirySweep(ctx)
            if err != nil {
                log.Printf("booking: expiry sweep failed: %v", err)
                continue
            }
            if released > 0 {
                log.Printf("booking: released %d expired holds", released)
            }
        }
    }
}
