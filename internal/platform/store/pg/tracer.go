package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer is a pgx.QueryTracer writing one line per statement
// debug normally, warn when the statement failed or ran past the slow threshold
type Tracer struct {
	log  zerolog.Logger
	slow time.Duration
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer pins the logger at debug so SQL logging does not follow the root level
func NewTracer(root zerolog.Logger, slow time.Duration) *Tracer {
	return &Tracer{
		log:  root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
		now:  time.Now,
	}
}

type startKey struct{}

type started struct {
	sql  string
	args []any
	at   time.Time
}

// TraceQueryStart stashes the statement on ctx for TraceQueryEnd
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{sql: d.SQL, args: d.Args, at: t.now()})
}

// TraceQueryEnd logs the finished statement
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	s, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	elapsed := t.now().Sub(s.at)
	slow := t.slow > 0 && elapsed >= t.slow

	evt := t.log.Debug()
	if slow || d.Err != nil {
		evt = t.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Bool("slow", slow).
		Str("sql", compact(s.sql)).
		Interface("args", s.args).
		Str("tag", d.CommandTag.String()).
		Err(d.Err).
		Msg("pg query")
}

// compact folds runs of whitespace to one space
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
