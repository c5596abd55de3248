package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/memeshare/internal/logger"
)

// Options controls the connection pool and the reconnect loop.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	RetryDelay   time.Duration
	// OnRetry is called after every failed attempt.
	OnRetry func(attempt int, err error)
}

// Connect opens a database handle, retrying at a fixed delay until the
// database answers a ping or ctx is done.
func Connect(ctx context.Context, driverName, dsn string, opts Options) (*sqlx.DB, error) {
	for attempt := 1; ; attempt++ {
		db, err := sqlx.ConnectContext(ctx, driverName, dsn)
		if err == nil {
			if opts.MaxOpenConns > 0 {
				db.SetMaxOpenConns(opts.MaxOpenConns)
			}
			if opts.MaxIdleConns > 0 {
				db.SetMaxIdleConns(opts.MaxIdleConns)
			}
			logger.Log.Infow("database connected", "attempt", attempt)
			return db, nil
		}

		logger.Log.Errorw("database connection failed", "attempt", attempt, "retry_in", opts.RetryDelay, "error", err)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err)
		}

		timer := time.NewTimer(opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
