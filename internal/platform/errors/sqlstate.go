package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs that clear up on their own
var transientStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"25006": true, // read_only_sql_transaction, replica promotion
	"57P03": true, // cannot_connect_now
}

// FromSQL codes a cache database error: contention and restarts become Unavailable, the rest DB
// caller cancellation stays DB so it is never retried
func FromSQL(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if !stderrs.Is(err, context.Canceled) && !stderrs.Is(err, context.DeadlineExceeded) && contended(err) {
		code = ErrorCodeUnavailable
	}
	return Wrap(err, code, fmt.Sprintf(format, a...))
}

// SQLState returns the postgres SQLSTATE in the chain, or ""
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func contended(err error) bool {
	if s := SQLState(err); s != "" {
		return transientStates[s]
	}
	// sqlite reports busy handles only in the message
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}
