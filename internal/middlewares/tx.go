package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/memeshare/internal/logger"
)

// TxMiddleware wraps an HTTP handler with a database transaction.
// The response is held back until the transaction ends: error statuses roll
// back, everything else commits, and a failed commit turns into a 500.
// Callbacks registered with AfterCommit run only after a successful commit.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			buf := &bufferedWriter{header: http.Header{}, statusCode: http.StatusOK}
			scope := &txScope{tx: tx}
			next.ServeHTTP(buf, r.WithContext(context.WithValue(r.Context(), txKey{}, scope)))

			if buf.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				buf.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			buf.flush(w)

			for _, fn := range scope.afterCommit {
				fn()
			}
		})
	}
}

// bufferedWriter records a response so it can be replayed after the transaction ends.
type bufferedWriter struct {
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) { b.statusCode = code }

func (b *bufferedWriter) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *bufferedWriter) flush(w http.ResponseWriter) {
	for k, v := range b.header {
		w.Header()[k] = v
	}
	w.WriteHeader(b.statusCode)
	w.Write(b.body.Bytes())
}

type txKey struct{}

// txScope is the request transaction and the work deferred until it commits.
type txScope struct {
	tx          *sqlx.Tx
	afterCommit []func()
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok {
		return scope.tx
	}
	return nil
}

// AfterCommit defers fn until the request transaction commits. fn is dropped
// when the transaction rolls back. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok {
		scope.afterCommit = append(scope.afterCommit, fn)
		return
	}
	fn()
}
