// Package logger owns the process root zerolog logger and request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Options configures the root logger; FromEnv fills the tagged fields from LOG_*
type Options struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Format      string `env:"FORMAT" envDefault:"console"`
	Service     string `env:"SERVICE" envDefault:"lectern"`
	Component   string `env:"COMPONENT"`
	WithCaller  bool   `env:"CALLER"`
	SampleEvery uint32 `env:"SAMPLE_EVERY"`
	Writer      io.Writer
}

// FromEnv reads LOG_*; a malformed value keeps its default since there is no logger yet to report it
func FromEnv() Options {
	var o Options
	_ = env.ParseWithOptions(&o, env.Options{Prefix: "LOG_"})
	o.Level = strings.ToLower(o.Level)
	o.Format = strings.ToLower(o.Format)
	return o
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger; only the first call has effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// New builds a standalone logger from opt without touching the root
func New(opt Options) Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.TrimSpace(opt.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zc := zerolog.New(w).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if opt.Component != "" {
		zc = zc.Str("component", opt.Component)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: opt.SampleEvery})
	}
	return l
}

// WithRequest attaches a child logger tagged with the request id and requested language to ctx
func WithRequest(ctx context.Context, reqID, lang string) context.Context {
	zc := C(ctx).With()
	if reqID != "" {
		zc = zc.Str("request_id", reqID)
	}
	if lang != "" {
		zc = zc.Str("lang", lang)
	}
	return zc.Logger().WithContext(ctx)
}

// C returns the logger attached to ctx, or the root when there is none
func C(ctx context.Context) *Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return Get()
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
